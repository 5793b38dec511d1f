package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenLedger is the multi-token balance collaborator the custody core
// mutates. The production implementation is the token contract itself; every
// call is treated as an atomic, trusted sub-call. Implementations must either
// apply the whole operation or return an error leaving balances untouched.
type TokenLedger interface {
	BalanceOf(ctx context.Context, contract, holder common.Address, tokenID *big.Int) (*big.Int, error)
	BalanceOfBatch(ctx context.Context, contract common.Address, holders []common.Address, tokenIDs []*big.Int) ([]*big.Int, error)

	Mint(ctx context.Context, operator, contract, to common.Address, tokenID, amount *big.Int) error
	Burn(ctx context.Context, operator, contract, holder common.Address, tokenID, amount *big.Int) error
	Transfer(ctx context.Context, operator, contract, from, to common.Address, tokenID, amount *big.Int) error

	BatchTransfer(ctx context.Context, operator, contract, from, to common.Address, tokenIDs, amounts []*big.Int) error
}
