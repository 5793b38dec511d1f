package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/events"
)

// MemoryLedger is an in-process ERC-1155-style balance book. It backs local
// deployments and tests, and emits the same TransferSingle events the token
// contract would.
type MemoryLedger struct {
	mu sync.RWMutex
	// contract -> token id (decimal) -> holder -> balance
	balances map[common.Address]map[string]map[common.Address]*big.Int
	sink     events.Sink
}

// NewMemoryLedger creates an empty ledger. sink may be nil.
func NewMemoryLedger(sink events.Sink) *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[common.Address]map[string]map[common.Address]*big.Int),
		sink:     sink,
	}
}

func (l *MemoryLedger) BalanceOf(ctx context.Context, contract, holder common.Address, tokenID *big.Int) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balance(contract, holder, tokenID)), nil
}

func (l *MemoryLedger) BalanceOfBatch(ctx context.Context, contract common.Address, holders []common.Address, tokenIDs []*big.Int) ([]*big.Int, error) {
	if len(holders) != len(tokenIDs) {
		return nil, fmt.Errorf("%w: %d holders, %d ids", domain.ErrArrayLengthMismatch, len(holders), len(tokenIDs))
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*big.Int, len(holders))
	for i := range holders {
		out[i] = new(big.Int).Set(l.balance(contract, holders[i], tokenIDs[i]))
	}
	return out, nil
}

func (l *MemoryLedger) Mint(ctx context.Context, operator, contract, to common.Address, tokenID, amount *big.Int) error {
	l.mu.Lock()
	l.credit(contract, to, tokenID, amount)
	l.mu.Unlock()

	l.emit(events.TransferSingle{
		Operator: operator,
		From:     common.Address{},
		To:       to,
		TokenID:  new(big.Int).Set(tokenID),
		Amount:   new(big.Int).Set(amount),
	})
	return nil
}

func (l *MemoryLedger) Burn(ctx context.Context, operator, contract, holder common.Address, tokenID, amount *big.Int) error {
	l.mu.Lock()
	if err := l.debit(contract, holder, tokenID, amount); err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()

	l.emit(events.TransferSingle{
		Operator: operator,
		From:     holder,
		To:       common.Address{},
		TokenID:  new(big.Int).Set(tokenID),
		Amount:   new(big.Int).Set(amount),
	})
	return nil
}

func (l *MemoryLedger) Transfer(ctx context.Context, operator, contract, from, to common.Address, tokenID, amount *big.Int) error {
	l.mu.Lock()
	if err := l.debit(contract, from, tokenID, amount); err != nil {
		l.mu.Unlock()
		return err
	}
	l.credit(contract, to, tokenID, amount)
	l.mu.Unlock()

	l.emit(events.TransferSingle{
		Operator: operator,
		From:     from,
		To:       to,
		TokenID:  new(big.Int).Set(tokenID),
		Amount:   new(big.Int).Set(amount),
	})
	return nil
}

func (l *MemoryLedger) BatchTransfer(ctx context.Context, operator, contract, from, to common.Address, tokenIDs, amounts []*big.Int) error {
	if len(tokenIDs) != len(amounts) {
		return fmt.Errorf("%w: %d ids, %d amounts", domain.ErrArrayLengthMismatch, len(tokenIDs), len(amounts))
	}

	l.mu.Lock()
	// Validate the whole batch before moving anything so a failing entry
	// leaves no partial state.
	for i := range tokenIDs {
		if l.balance(contract, from, tokenIDs[i]).Cmp(amounts[i]) < 0 {
			l.mu.Unlock()
			return fmt.Errorf("%w: token %s", domain.ErrInsufficientBalance, tokenIDs[i])
		}
	}
	for i := range tokenIDs {
		_ = l.debit(contract, from, tokenIDs[i], amounts[i])
		l.credit(contract, to, tokenIDs[i], amounts[i])
	}
	l.mu.Unlock()

	for i := range tokenIDs {
		l.emit(events.TransferSingle{
			Operator: operator,
			From:     from,
			To:       to,
			TokenID:  new(big.Int).Set(tokenIDs[i]),
			Amount:   new(big.Int).Set(amounts[i]),
		})
	}
	return nil
}

func (l *MemoryLedger) balance(contract, holder common.Address, tokenID *big.Int) *big.Int {
	byID, ok := l.balances[contract]
	if !ok {
		return new(big.Int)
	}
	byHolder, ok := byID[tokenID.String()]
	if !ok {
		return new(big.Int)
	}
	bal, ok := byHolder[holder]
	if !ok {
		return new(big.Int)
	}
	return bal
}

func (l *MemoryLedger) credit(contract, holder common.Address, tokenID, amount *big.Int) {
	byID, ok := l.balances[contract]
	if !ok {
		byID = make(map[string]map[common.Address]*big.Int)
		l.balances[contract] = byID
	}
	byHolder, ok := byID[tokenID.String()]
	if !ok {
		byHolder = make(map[common.Address]*big.Int)
		byID[tokenID.String()] = byHolder
	}
	bal, ok := byHolder[holder]
	if !ok {
		bal = new(big.Int)
		byHolder[holder] = bal
	}
	bal.Add(bal, amount)
}

func (l *MemoryLedger) debit(contract, holder common.Address, tokenID, amount *big.Int) error {
	bal := l.balance(contract, holder, tokenID)
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: holder %s has %s of token %s, needs %s",
			domain.ErrInsufficientBalance, holder.Hex(), bal, tokenID, amount)
	}
	bal.Sub(bal, amount)
	return nil
}

func (l *MemoryLedger) emit(event events.Event) {
	if l.sink != nil {
		l.sink.Emit(event)
	}
}
