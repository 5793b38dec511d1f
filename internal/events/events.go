package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Event is anything the core emits for indexers and tests.
type Event interface {
	Name() string
}

// TransferSingle mirrors the ERC-1155 transfer event. Mints have the zero
// address as From; burns have it as To.
type TransferSingle struct {
	Operator common.Address
	From     common.Address
	To       common.Address
	TokenID  *big.Int
	Amount   *big.Int
}

func (TransferSingle) Name() string { return "TransferSingle" }

// TokensMintedWithSignature is emitted once per executed mint request.
type TokensMintedWithSignature struct {
	Signer     common.Address
	Recipients []common.Address
	TokenID    *big.Int
	Amounts    []*big.Int
}

func (TokensMintedWithSignature) Name() string { return "TokensMintedWithSignature" }

// TokensClaimedWithSignature is emitted once per executed exchange claim,
// after the per-input burn events.
type TokensClaimedWithSignature struct {
	Signer     common.Address
	Recipient  common.Address
	OutTokenID *big.Int
	InTokenIDs []*big.Int
}

func (TokensClaimedWithSignature) Name() string { return "TokensClaimedWithSignature" }

// TokensBurnedWithSignature is emitted when a previously executed request is
// replayed as a recall.
type TokensBurnedWithSignature struct {
	Signer  common.Address
	Holders []common.Address
	TokenID *big.Int
	Amounts []*big.Int
}

func (TokensBurnedWithSignature) Name() string { return "TokensBurnedWithSignature" }

// TokensStaked is emitted when a stake record is created.
type TokensStaked struct {
	Staker   common.Address
	Operator common.Address
	StakeID  uuid.UUID
}

func (TokensStaked) Name() string { return "TokensStaked" }

// TokensRedeemed is emitted when a stake is redeemed and removed.
type TokensRedeemed struct {
	Staker     common.Address
	StakeID    uuid.UUID
	StakeIndex int
}

func (TokensRedeemed) Name() string { return "TokensRedeemed" }
