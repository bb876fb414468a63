package selector

// addressVariant tags the decoded shape of a Cardano address, following the
// CIP-19 header byte layout.
type addressVariant int

const (
	addressByron addressVariant = iota
	addressShelley
	addressStake
)

// decodedAddress is the minimal decomposition of an address this engine's
// patterns need: which variant it is, its payment/delegation credentials
// (when applicable), and whether each credential is a script hash.
type decodedAddress struct {
	variant             addressVariant
	raw                 []byte
	paymentPart         []byte
	paymentIsScript     bool
	delegationPart      []byte
	hasDelegation       bool
	delegationIsScript  bool
}

// decodeAddress parses a raw Cardano address per its CIP-19 header byte.
// Byron addresses have no fixed header-byte scheme (they're a CBOR
// structure); this engine treats any address that fails the Shelley/Stake
// header check as Byron, matching the original's "other" variant.
func decodeAddress(raw []byte) decodedAddress {
	if len(raw) == 0 {
		return decodedAddress{variant: addressByron, raw: raw}
	}

	header := raw[0]
	kind := header >> 4

	switch kind {
	case 0b1110, 0b1111:
		// Reward/stake address: single credential, no payment part.
		isScript := kind == 0b1111
		var cred []byte
		if len(raw) > 1 {
			cred = raw[1:]
		}
		return decodedAddress{
			variant:            addressStake,
			raw:                raw,
			delegationPart:     cred,
			hasDelegation:      true,
			delegationIsScript: isScript,
		}
	case 0b0000, 0b0001, 0b0010, 0b0011, 0b0100, 0b0101, 0b0110, 0b0111:
		paymentIsScript := kind&0b0001 != 0
		hasDelegation := kind&0b0100 == 0 && kind != 0b0110 && kind != 0b0111
		delegationIsScript := kind&0b0010 != 0

		const credLen = 28
		body := raw[1:]
		var payment, delegation []byte
		if len(body) >= credLen {
			payment = body[:credLen]
			body = body[credLen:]
		}
		if hasDelegation && len(body) >= credLen {
			delegation = body[:credLen]
		}

		return decodedAddress{
			variant:            addressShelley,
			raw:                raw,
			paymentPart:        payment,
			paymentIsScript:    paymentIsScript,
			delegationPart:     delegation,
			hasDelegation:      hasDelegation && delegation != nil,
			delegationIsScript: delegationIsScript,
		}
	default:
		return decodedAddress{variant: addressByron, raw: raw}
	}
}

// AddressPattern matches the optional byron_address / payment_part /
// delegation_part / payment_is_script / delegation_is_script constraints
// against a subject address, with variant-aware semantics: a constraint
// that doesn't apply to the subject's variant (e.g. byron_address against a
// Shelley subject) yields Negative, not Uncertain, exactly as spec'd.
type AddressPattern struct {
	ByronAddress        FlexBytes
	PaymentPart         FlexBytes
	DelegationPart      FlexBytes
	PaymentIsScript     *bool
	DelegationIsScript  *bool
}

// Match evaluates this pattern against a raw address.
func (p AddressPattern) Match(raw []byte) MatchOutcome {
	a := decodeAddress(raw)

	switch a.variant {
	case addressByron:
		return FoldAllOf(
			OptionalBytesIsMatch(p.ByronAddress, a.raw),
			IfFalse(p.PaymentPart != nil),
			IfFalse(p.DelegationPart != nil),
			optionalBoolIsMatch(p.PaymentIsScript, false),
			optionalBoolIsMatch(p.DelegationIsScript, false),
		)
	case addressShelley:
		return FoldAllOf(
			IfFalse(p.ByronAddress != nil),
			OptionalBytesIsMatch(p.PaymentPart, a.paymentPart),
			OptionalBytesIsMatch(p.DelegationPart, a.delegationPart),
			optionalBoolIsMatch(p.PaymentIsScript, a.paymentIsScript),
			optionalBoolIsMatch(p.DelegationIsScript, a.hasDelegation && a.delegationIsScript),
		)
	case addressStake:
		return FoldAllOf(
			IfFalse(p.ByronAddress != nil),
			IfFalse(p.PaymentPart != nil),
			OptionalBytesIsMatch(p.DelegationPart, a.delegationPart),
			IfFalse(p.PaymentIsScript != nil),
			optionalBoolIsMatch(p.DelegationIsScript, a.delegationIsScript),
		)
	default:
		return Uncertain
	}
}

func optionalBoolIsMatch(p *bool, subject bool) MatchOutcome {
	if p == nil {
		return Positive
	}
	return IfFalse(*p != subject)
}
