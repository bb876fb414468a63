package selector

import "testing"

func TestAddressPatternByronVariant(t *testing.T) {
	byronAddr := []byte{0x82, 0x01, 0x02, 0x03, 0x04} // header nibble 0b1000: Byron
	shelleyAddr := make([]byte, 1+28+28)
	shelleyAddr[0] = 0x01 // base address, both credentials keys

	p := AddressPattern{ByronAddress: FlexBytes(byronAddr)}

	if got := p.Match(shelleyAddr); got != Negative {
		t.Errorf("byron_address pattern over Shelley subject = %v, want Negative", got)
	}

	if got := p.Match(byronAddr); got != Positive {
		t.Errorf("byron_address pattern over matching Byron subject = %v, want Positive", got)
	}

	other := []byte{0x82, 0xff, 0xff}
	if got := p.Match(other); got != Negative {
		t.Errorf("byron_address pattern over mismatched Byron subject = %v, want Negative", got)
	}
}

func TestAddressPatternShelleyPaymentPart(t *testing.T) {
	payment := make([]byte, 28)
	payment[0] = 0xaa
	delegation := make([]byte, 28)
	delegation[0] = 0xbb

	addr := append([]byte{0x01}, payment...)
	addr = append(addr, delegation...)

	p := AddressPattern{PaymentPart: FlexBytes(payment)}
	if got := p.Match(addr); got != Positive {
		t.Errorf("payment_part match = %v, want Positive", got)
	}

	wrong := FlexBytes(append([]byte{0xff}, payment[1:]...))
	p2 := AddressPattern{PaymentPart: wrong}
	if got := p2.Match(addr); got != Negative {
		t.Errorf("payment_part mismatch = %v, want Negative", got)
	}
}

func TestAddressPatternStakeVariant(t *testing.T) {
	cred := make([]byte, 28)
	cred[0] = 0x42
	addr := append([]byte{0xe1}, cred...)

	p := AddressPattern{DelegationPart: FlexBytes(cred)}
	if got := p.Match(addr); got != Positive {
		t.Errorf("stake delegation_part match = %v, want Positive", got)
	}

	byronConstraint := AddressPattern{ByronAddress: FlexBytes{0x01}}
	if got := byronConstraint.Match(addr); got != Negative {
		t.Errorf("byron_address over stake subject = %v, want Negative", got)
	}
}
