package selector

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// DecodeBech32 splits a bech32 string into its human-readable prefix and
// decoded data bytes. Reused from the Bitcoin scaffold's dependency surface
// since bech32 is otherwise the same format Bitcoin segwit addresses use.
func DecodeBech32(s string) (hrp string, data []byte, err error) {
	hrp, values, err := bech32.Decode(s)
	if err != nil {
		return "", nil, fmt.Errorf("selector: bech32 decode %q: %w", s, err)
	}
	data, err = bech32.ConvertBits(values, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("selector: bech32 convert bits %q: %w", s, err)
	}
	return hrp, data, nil
}

// EncodeBech32 encodes data under the given human-readable prefix.
func EncodeBech32(hrp string, data []byte) (string, error) {
	values, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("selector: bech32 convert bits: %w", err)
	}
	s, err := bech32.Encode(hrp, values)
	if err != nil {
		return "", fmt.Errorf("selector: bech32 encode: %w", err)
	}
	return s, nil
}
