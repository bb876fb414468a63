package selector

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// FlexBytes holds a byte string that patterns accept either as hex or as
// the data part of a bech32 string (decoded at parse time by the owning
// pattern's constructor, e.g. AssetPatternFromFingerprint, since the bech32 human-readable prefix determines
// which pattern field it fills).
type FlexBytes []byte

// FlexBytesFromHex decodes a hex string into a FlexBytes.
func FlexBytesFromHex(s string) (FlexBytes, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("selector: invalid hex %q: %w", s, err)
	}
	return FlexBytes(b), nil
}

// Equal reports byte-for-byte equality.
func (f FlexBytes) Equal(other []byte) bool {
	return bytes.Equal([]byte(f), other)
}

func (f FlexBytes) String() string {
	return hex.EncodeToString([]byte(f))
}

// OptionalBytesIsMatch applies the optional-pattern-field convention for a
// FlexBytes equality check.
func OptionalBytesIsMatch(p FlexBytes, subject []byte) MatchOutcome {
	if p == nil {
		return Positive
	}
	return IfFalse(!p.Equal(subject))
}
