// Package mapper converts the canonical ParsedBlock/ParsedTx representation
// into the flat, typed legacy_v1 event sequence, for sinks written against
// the older per-entity event shape instead of whole transactions.
package mapper

import (
	"fmt"

	"github.com/tidewatch-io/tidewatch/internal/chain"
	"github.com/tidewatch-io/tidewatch/internal/model"
)

// Config controls which optional event kinds legacy_v1 emits, mirroring the
// original mapper's include_block_end_events / include_transaction_details
// / include_transaction_end_events switches.
type Config struct {
	IncludeBlockEndEvents        bool
	IncludeTransactionDetails    bool
	IncludeTransactionEndEvents  bool
}

// DefaultConfig matches the original's all-false defaults: only block-start
// and transaction events are emitted unless opted into.
var DefaultConfig = Config{}

// LegacyV1 holds the mapper's configuration. It carries no per-block state;
// every call to Map is independent.
type LegacyV1 struct {
	cfg Config
}

// New builds a LegacyV1 mapper.
func New(cfg Config) *LegacyV1 {
	return &LegacyV1{cfg: cfg}
}

// Map flattens one parsed block into its legacy_v1 event sequence, in
// chain order: a BlockStart, then each transaction's events, then an
// optional BlockEnd.
func (m *LegacyV1) Map(block *model.ParsedBlock) []model.LegacyEvent {
	var out []model.LegacyEvent

	blockCtx := model.EventContext{
		BlockHash:   block.Point.Hash,
		BlockNumber: block.Point.Slot,
		Slot:        block.Point.Slot,
		Fingerprint: fingerprint(block.Point, nil, "block_start"),
	}
	out = append(out, model.LegacyEvent{Context: blockCtx, Kind: model.LegacyBlockStart})

	for i := range block.Transactions {
		out = append(out, m.mapTx(block.Point, i, &block.Transactions[i])...)
	}

	if m.cfg.IncludeBlockEndEvents {
		endCtx := blockCtx
		endCtx.Fingerprint = fingerprint(block.Point, nil, "block_end")
		out = append(out, model.LegacyEvent{Context: endCtx, Kind: model.LegacyBlockEnd})
	}

	return out
}

func (m *LegacyV1) mapTx(point chain.Point, txIdx int, tx *model.ParsedTx) []model.LegacyEvent {
	var out []model.LegacyEvent

	idx := txIdx
	hash := tx.Hash
	base := model.EventContext{
		BlockHash:   point.Hash,
		BlockNumber: point.Slot,
		Slot:        point.Slot,
		TxIdx:       &idx,
		TxHash:      &hash,
	}

	txCtx := base
	txCtx.Fingerprint = fingerprint(point, &idx, "transaction")
	out = append(out, model.LegacyEvent{Context: txCtx, Kind: model.LegacyTransaction, Fee: tx.Fee, TTL: tx.ValidityInterval.InvalidAfter})

	if m.cfg.IncludeTransactionDetails {
		for i := range tx.Inputs {
			in := tx.Inputs[i]
			ctx := base
			ctx.Fingerprint = fingerprint(point, &idx, fmt.Sprintf("input-%d", i))
			out = append(out, model.LegacyEvent{Context: ctx, Kind: model.LegacyTxInput, TxInput: &in})
		}

		for i := range tx.Outputs {
			o := tx.Outputs[i]
			ctx := base
			ctx.Fingerprint = fingerprint(point, &idx, fmt.Sprintf("output-%d", i))
			out = append(out, model.LegacyEvent{Context: ctx, Kind: model.LegacyTxOutput, TxOutput: &o})

			for _, ma := range o.MultiAssets {
				policy := ma.PolicyID
				for _, a := range ma.Assets {
					asset := a
					ctx := base
					ctx.Fingerprint = fingerprint(point, &idx, fmt.Sprintf("mint-%s-%s", policy, asset.Name))
					out = append(out, model.LegacyEvent{Context: ctx, Kind: model.LegacyMint, MintAsset: &asset, MintPolicy: &policy})
				}
			}
		}

		for i := range tx.Mint {
			ma := tx.Mint[i]
			policy := ma.PolicyID
			for _, a := range ma.Assets {
				asset := a
				ctx := base
				ctx.Fingerprint = fingerprint(point, &idx, fmt.Sprintf("mint-%s-%s", policy, asset.Name))
				out = append(out, model.LegacyEvent{Context: ctx, Kind: model.LegacyMint, MintAsset: &asset, MintPolicy: &policy})
			}
		}

		for i := range tx.AuxMetadata {
			md := tx.AuxMetadata[i]
			ctx := base
			ctx.Fingerprint = fingerprint(point, &idx, fmt.Sprintf("metadata-%d", md.Label))
			out = append(out, model.LegacyEvent{Context: ctx, Kind: model.LegacyMetadata, Metadata: &md})
		}

		for i := range tx.Certificates {
			cert := tx.Certificates[i]
			ctx := base
			ctx.Fingerprint = fingerprint(point, &idx, fmt.Sprintf("cert-%d", i))
			out = append(out, model.LegacyEvent{Context: ctx, Kind: certEventKind(cert.Kind), Certificate: &cert})
		}
	}

	if m.cfg.IncludeTransactionEndEvents {
		ctx := base
		ctx.Fingerprint = fingerprint(point, &idx, "transaction_end")
		out = append(out, model.LegacyEvent{Context: ctx, Kind: model.LegacyTransaction})
	}

	return out
}

// certEventKind maps a certificate's canonical kind to its legacy_v1 event
// kind. Governance-era certificates (DRep/vote/committee) have no legacy_v1
// counterpart in the original mapper, so they fall back to the closest
// stake-related kind rather than being dropped silently.
func certEventKind(k model.CertKind) model.LegacyEventKind {
	switch k {
	case model.CertStakeRegistration:
		return model.LegacyStakeRegistration
	case model.CertStakeDeregistration:
		return model.LegacyStakeDeregistration
	case model.CertStakeDelegation:
		return model.LegacyStakeDelegation
	case model.CertPoolRegistration:
		return model.LegacyPoolRegistration
	case model.CertPoolRetirement:
		return model.LegacyPoolRetirement
	case model.CertGenesisKeyDelegation:
		return model.LegacyGenesisKeyDelegation
	case model.CertMoveInstantaneousRewards:
		return model.LegacyMoveInstantaneousRewards
	default:
		return model.LegacyStakeDelegation
	}
}

// fingerprint builds the stable "<block_hash>-<tx_idx>-<kind>" identifier
// EventContext carries for sinks that need an idempotency key.
func fingerprint(point chain.Point, txIdx *int, kind string) string {
	if txIdx == nil {
		return fmt.Sprintf("%s-%s", point.Hash.Hex(), kind)
	}
	return fmt.Sprintf("%s-%d-%s", point.Hash.Hex(), *txIdx, kind)
}
