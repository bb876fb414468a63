package model

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// TxOutput is a transaction output: a destination address and the value it
// carries.
type TxOutput struct {
	Address     []byte
	Coin        uint64
	MultiAssets []Multiasset
}

// TxInput references a previously-produced output being spent.
type TxInput struct {
	TxHash common.Hash
	Index  uint32
}

// CertKind tags the variant held by a Certificate.
type CertKind int

const (
	CertStakeRegistration CertKind = iota
	CertStakeDeregistration
	CertStakeDelegation
	CertPoolRegistration
	CertPoolRetirement
	CertGenesisKeyDelegation
	CertMoveInstantaneousRewards
	// Governance cert variants, introduced in the Conway era.
	CertDRepRegistration
	CertDRepDeregistration
	CertDRepUpdate
	CertVoteDelegation
	CertCommitteeAuthorization
	CertCommitteeResignation
)

// Certificate is a single certificate attached to a transaction.
type Certificate struct {
	Kind CertKind
	// StakeCredential is the credential the certificate acts on, when
	// applicable (registration/deregistration/delegation/vote variants).
	StakeCredential []byte
	// PoolID is populated for pool registration/retirement and delegation
	// certificates.
	PoolID []byte
}

// ValidityInterval bounds the slots during which a transaction is valid.
type ValidityInterval struct {
	InvalidBefore *uint64
	InvalidAfter  *uint64
}

// AuxMetadata is one label/value pair from a transaction's auxiliary data.
type AuxMetadata struct {
	Label uint64
	Value []byte // CBOR-encoded metadatum value
}

// ParsedTx is the canonical, decoded representation of a single transaction.
type ParsedTx struct {
	Hash    common.Hash
	Inputs  []TxInput
	Outputs []TxOutput
	// Mint holds multi-asset entries with a non-zero MintCoin and a zero
	// OutputCoin.
	Mint             []Multiasset
	Certificates     []Certificate
	AuxMetadata      []AuxMetadata
	ValidityInterval ValidityInterval
	Fee              uint64
}

// ParsedBlock is the canonical, decoded representation of a block: its
// point on the chain and its transactions.
type ParsedBlock struct {
	Point        chain.Point
	Transactions []ParsedTx
}
