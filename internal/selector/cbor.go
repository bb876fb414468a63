package selector

import "github.com/fxamacker/cbor/v2"

// decodeCborInt best-effort decodes a CBOR-encoded metadatum value as an
// integer, for NumericPattern comparisons against MetadataPattern values.
// A non-integer metadatum (map, array, text, bytes) reports ok=false, which
// callers treat as Uncertain rather than a hard error.
func decodeCborInt(raw []byte) (int64, bool) {
	var n int64
	if err := cbor.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
