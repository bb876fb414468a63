package selector

import "github.com/tidewatch-io/tidewatch/internal/model"

func assetOf(name []byte, coin uint64) model.Asset {
	return model.Asset{Name: name, OutputCoin: coin}
}

func policyIDOf(b []byte) model.PolicyID {
	var p model.PolicyID
	copy(p[:], b)
	return p
}
