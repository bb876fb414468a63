package model

import "encoding/hex"

// PolicyID is the 28-byte hash identifying a minting policy.
type PolicyID [28]byte

func (p PolicyID) String() string {
	return hex.EncodeToString(p[:])
}

// Asset is one named entry under a policy, as it appears in a Multiasset
// value or a transaction's mint field.
type Asset struct {
	Name        []byte
	OutputCoin  uint64 // quantity present in a UTxO output value; 0 if this is a mint-only entry
	MintCoin    int64  // signed delta present in a mint field; 0 if this is an output-value entry
}

// Multiasset groups the assets minted or held under a single policy.
type Multiasset struct {
	PolicyID PolicyID
	Assets   []Asset
}
