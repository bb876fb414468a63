package selector

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tidewatch-io/tidewatch/internal/model"
)

func txWithAsset(policy []byte, assetName []byte, coin uint64) *model.ParsedTx {
	return &model.ParsedTx{
		Hash: common.Hash{},
		Outputs: []model.TxOutput{
			{
				Address: []byte{0x0c, 0x01},
				Coin:    1000,
				MultiAssets: []model.Multiasset{
					{PolicyID: policyIDOf(policy), Assets: []model.Asset{assetOf(assetName, coin)}},
				},
			},
		},
	}
}

func TestPatternEvaluateAssetAnyMatch(t *testing.T) {
	policy := make([]byte, 28)
	policy[0] = 0x01
	tx := txWithAsset(policy, []byte("token"), 42)

	pat := MatchAsset(AssetPattern{Name: FlexBytes("token")})
	if outcome := pat.Evaluate(tx, 100); outcome != Positive {
		t.Errorf("asset name match = %v, want Positive", outcome)
	}

	miss := MatchAsset(AssetPattern{Name: FlexBytes("nope")})
	if outcome := miss.Evaluate(tx, 100); outcome != Negative {
		t.Errorf("asset name mismatch = %v, want Negative", outcome)
	}
}

func TestPatternEvaluateNoAssetsIsUncertain(t *testing.T) {
	tx := &model.ParsedTx{Outputs: []model.TxOutput{{Address: []byte{0x0c}}}}
	pat := MatchAsset(AssetPattern{Name: FlexBytes("token")})
	if outcome := pat.Evaluate(tx, 1); outcome != Uncertain {
		t.Errorf("asset pattern over tx with no assets = %v, want Uncertain", outcome)
	}
}

func TestPredicateAllOfAndNot(t *testing.T) {
	policy := make([]byte, 28)
	policy[0] = 0x02
	tx := txWithAsset(policy, []byte("gold"), 10)

	assetMatch := Match(MatchAsset(AssetPattern{Name: FlexBytes("gold")}))
	blockMatch := Match(MatchBlock(BlockPattern{Slot: ptrNumeric(GtNumeric[uint64](50))}))

	all := AllOf(assetMatch, blockMatch)
	if !all.IsMatch(tx, 100) {
		t.Error("expected AllOf to match")
	}
	if all.IsMatch(tx, 10) {
		t.Error("expected AllOf to fail when block constraint fails")
	}

	negated := PredicateNot(assetMatch)
	if negated.IsMatch(tx, 100) {
		t.Error("expected negated asset match to not match")
	}
}

func TestPredicateUncertainIsNonMatch(t *testing.T) {
	tx := &model.ParsedTx{}
	pat := Match(MatchAsset(AssetPattern{Name: FlexBytes("gold")}))
	if pat.IsMatch(tx, 1) {
		t.Error("Uncertain outcome must not count as a match")
	}
}

func ptrNumeric[T Numeric](p NumericPattern[T]) *NumericPattern[T] {
	return &p
}
