// Package filters implements the uniform stage-adapter shape described for
// the pipeline's record filters: split_block, parse_cbor, and select. Each
// reads from one input port, transforms, and writes to one output port,
// preserving strict event order; errors in user-supplied predicates or
// malformed records never propagate past a dropped event and a logged
// warning.
package filters

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"

	"github.com/tidewatch-io/tidewatch/internal/model"
)

// wireTxInput/wireTxOutput/... mirror the model package's decoded types
// with cbor struct tags, used as this pipeline's on-the-wire encoding for
// CborBlock/CborTx records. A production chain-follower would decode the
// real Cardano ledger CDDL here. internal/chainsync does not re-encode
// into this shape: it forwards the peer's block bytes unchanged, so only
// records already encoded in this shape decode here.
type wireTxInput struct {
	TxHash []byte
	Index  uint32
}

type wireMultiasset struct {
	PolicyID []byte
	Assets   []wireAsset
}

type wireAsset struct {
	Name       []byte
	OutputCoin uint64
	MintCoin   int64
}

type wireTxOutput struct {
	Address     []byte
	Coin        uint64
	MultiAssets []wireMultiasset
}

type wireCertificate struct {
	Kind            int
	StakeCredential []byte
	PoolID          []byte
}

type wireValidityInterval struct {
	InvalidBefore *uint64
	InvalidAfter  *uint64
}

type wireAuxMetadata struct {
	Label uint64
	Value []byte
}

type wireTx struct {
	Hash             []byte
	Inputs           []wireTxInput
	Outputs          []wireTxOutput
	Mint             []wireMultiasset
	Certificates     []wireCertificate
	AuxMetadata      []wireAuxMetadata
	ValidityInterval wireValidityInterval
	Fee              uint64
}

type wireBlock struct {
	Transactions []wireTx
}

// MarshalBlock encodes a ParsedBlock's transactions into this pipeline's
// CborBlock wire shape. It's exported for the chainsync/testing boundary
// and for any sink that re-emits blocks.
func MarshalBlock(txs []model.ParsedTx) ([]byte, error) {
	wb := wireBlock{Transactions: make([]wireTx, len(txs))}
	for i, tx := range txs {
		wb.Transactions[i] = toWireTx(tx)
	}
	return cbor.Marshal(wb)
}

// MarshalTx encodes a single ParsedTx into this pipeline's CborTx wire
// shape.
func MarshalTx(tx model.ParsedTx) ([]byte, error) {
	return cbor.Marshal(toWireTx(tx))
}

func toWireTx(tx model.ParsedTx) wireTx {
	w := wireTx{
		Hash:    tx.Hash.Bytes(),
		Fee:     tx.Fee,
		ValidityInterval: wireValidityInterval{
			InvalidBefore: tx.ValidityInterval.InvalidBefore,
			InvalidAfter:  tx.ValidityInterval.InvalidAfter,
		},
	}
	for _, in := range tx.Inputs {
		w.Inputs = append(w.Inputs, wireTxInput{TxHash: in.TxHash.Bytes(), Index: in.Index})
	}
	for _, out := range tx.Outputs {
		w.Outputs = append(w.Outputs, wireTxOutput{
			Address:     out.Address,
			Coin:        out.Coin,
			MultiAssets: toWireMultiassets(out.MultiAssets),
		})
	}
	w.Mint = toWireMultiassets(tx.Mint)
	for _, c := range tx.Certificates {
		w.Certificates = append(w.Certificates, wireCertificate{
			Kind:            int(c.Kind),
			StakeCredential: c.StakeCredential,
			PoolID:          c.PoolID,
		})
	}
	for _, m := range tx.AuxMetadata {
		w.AuxMetadata = append(w.AuxMetadata, wireAuxMetadata{Label: m.Label, Value: m.Value})
	}
	return w
}

func toWireMultiassets(mas []model.Multiasset) []wireMultiasset {
	out := make([]wireMultiasset, len(mas))
	for i, ma := range mas {
		wma := wireMultiasset{PolicyID: append([]byte(nil), ma.PolicyID[:]...)}
		for _, a := range ma.Assets {
			wma.Assets = append(wma.Assets, wireAsset{Name: a.Name, OutputCoin: a.OutputCoin, MintCoin: a.MintCoin})
		}
		out[i] = wma
	}
	return out
}

// UnmarshalBlock decodes this pipeline's CborBlock wire shape into a
// ParsedBlock's transaction list. point is attached by the caller, since
// the wire block carries no point of its own (it travels inside a
// ChainEvent that already has one).
func UnmarshalBlock(raw []byte) ([]model.ParsedTx, error) {
	var wb wireBlock
	if err := cbor.Unmarshal(raw, &wb); err != nil {
		return nil, err
	}
	txs := make([]model.ParsedTx, len(wb.Transactions))
	for i, wt := range wb.Transactions {
		txs[i] = fromWireTx(wt)
	}
	return txs, nil
}

// UnmarshalTx decodes this pipeline's CborTx wire shape into a ParsedTx.
func UnmarshalTx(raw []byte) (model.ParsedTx, error) {
	var wt wireTx
	if err := cbor.Unmarshal(raw, &wt); err != nil {
		return model.ParsedTx{}, err
	}
	return fromWireTx(wt), nil
}

func fromWireTx(w wireTx) model.ParsedTx {
	tx := model.ParsedTx{
		Hash: common.BytesToHash(w.Hash),
		Fee:  w.Fee,
		ValidityInterval: model.ValidityInterval{
			InvalidBefore: w.ValidityInterval.InvalidBefore,
			InvalidAfter:  w.ValidityInterval.InvalidAfter,
		},
	}
	for _, in := range w.Inputs {
		tx.Inputs = append(tx.Inputs, model.TxInput{TxHash: common.BytesToHash(in.TxHash), Index: in.Index})
	}
	for _, out := range w.Outputs {
		tx.Outputs = append(tx.Outputs, model.TxOutput{
			Address:     out.Address,
			Coin:        out.Coin,
			MultiAssets: fromWireMultiassets(out.MultiAssets),
		})
	}
	tx.Mint = fromWireMultiassets(w.Mint)
	for _, c := range w.Certificates {
		tx.Certificates = append(tx.Certificates, model.Certificate{
			Kind:            model.CertKind(c.Kind),
			StakeCredential: c.StakeCredential,
			PoolID:          c.PoolID,
		})
	}
	for _, m := range w.AuxMetadata {
		tx.AuxMetadata = append(tx.AuxMetadata, model.AuxMetadata{Label: m.Label, Value: m.Value})
	}
	return tx
}

func fromWireMultiassets(was []wireMultiasset) []model.Multiasset {
	out := make([]model.Multiasset, len(was))
	for i, wma := range was {
		var ma model.Multiasset
		copy(ma.PolicyID[:], wma.PolicyID)
		for _, a := range wma.Assets {
			ma.Assets = append(ma.Assets, model.Asset{Name: a.Name, OutputCoin: a.OutputCoin, MintCoin: a.MintCoin})
		}
		out[i] = ma
	}
	return out
}
