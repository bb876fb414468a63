package chainsync

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// proposeVersions is the handshake client's opening message: the set of
// protocol versions it supports, keyed by version number, each carrying
// the network magic to propose for that version.
type proposeVersions struct {
	Versions map[uint16]uint64
}

// acceptVersion is the peer's reply when a version was agreed.
type acceptVersion struct {
	Version uint16
	Magic   uint64
}

// refuseReason tags why a peer refused a handshake.
type refuseReason struct {
	Version uint16
	Reason  string
}

// n2nVersions lists the N2N protocol versions this client proposes, v6
// and above, per the original client's VersionTable::v6_and_above.
var n2nVersions = []uint16{6, 7, 8, 9, 10}

// n2cVersions lists the N2C protocol versions this client proposes.
var n2cVersions = []uint16{1, 2, 3, 4, 5}

// doHandshake runs the handshake mini-protocol on ch, proposing versions
// for magic, and returns the version the peer accepted. Any reply other
// than an accept is returned as an error. The sources in this package wrap
// every handshake error, a refusal included, as a *stage.RetryableError, so
// a refused handshake is retried under the bootstrap retry policy exactly
// like a transport failure rather than failing the stage at once.
func doHandshake(ch *Channel, magic uint64, versions []uint16) (uint16, error) {
	propose := proposeVersions{Versions: make(map[uint16]uint64, len(versions))}
	for _, v := range versions {
		propose.Versions[v] = magic
	}

	payload, err := cbor.Marshal(propose)
	if err != nil {
		return 0, fmt.Errorf("chainsync: encoding handshake proposal: %w", err)
	}
	if err := ch.Send(payload); err != nil {
		return 0, err
	}

	reply, err := ch.Recv()
	if err != nil {
		return 0, fmt.Errorf("chainsync: handshake: %w", err)
	}

	var accept acceptVersion
	if err := cbor.Unmarshal(reply, &accept); err == nil && accept.Version != 0 {
		return accept.Version, nil
	}

	var refuse refuseReason
	if err := cbor.Unmarshal(reply, &refuse); err == nil && refuse.Reason != "" {
		return 0, fmt.Errorf("chainsync: peer refused handshake: %s", refuse.Reason)
	}

	return 0, fmt.Errorf("chainsync: couldn't agree on handshake version")
}
