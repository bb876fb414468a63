package selector

import "golang.org/x/crypto/blake2b"

// cip14Hash computes the CIP-14 asset fingerprint hash: Blake2b-160 over
// policy_id || asset_name.
func cip14Hash(policyID, assetName []byte) [20]byte {
	h, err := blake2b.New(20, nil)
	if err != nil {
		// blake2b.New only errors on an invalid key or out-of-range size;
		// 20 bytes with no key is always valid.
		panic(err)
	}
	h.Write(policyID)
	h.Write(assetName)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// CIP14Fingerprint computes the bech32("asset", ...) fingerprint for
// (policyID, assetName), per https://cips.cardano.org/cips/cip14/.
func CIP14Fingerprint(policyID, assetName []byte) (string, error) {
	hash := cip14Hash(policyID, assetName)
	return EncodeBech32("asset", hash[:])
}
