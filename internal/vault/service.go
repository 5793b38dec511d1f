package vault

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farconic/custody-api/internal/auth"
	"github.com/farconic/custody-api/internal/constants"
	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/events"
	"github.com/farconic/custody-api/internal/ledger"
	"github.com/farconic/custody-api/internal/logger"
)

// balanceEntry tracks one (holder, contract, id) position: how much the vault
// holds on the holder's behalf and how much of that is locked in stakes.
// Unstaked is always Deposited - Staked.
type balanceEntry struct {
	Deposited *big.Int
	Staked    *big.Int
}

// Service owns the custody state: the allowed-token registry, the lock
// policy, per-holder balance entries and the ordered stake lists. Every
// public method runs as one serialized unit of work; all preconditions are
// checked before anything is committed, and bookkeeping commits before the
// token ledger is called.
type Service struct {
	mu sync.Mutex

	authority *auth.AccessControl
	tokens    ledger.TokenLedger
	sink      events.Sink
	logger    *zap.Logger

	// vaultAddress is the custody account all staked assets are held under.
	vaultAddress common.Address

	allowed     map[common.Address]bool
	minimumDays int64
	balances    map[domain.AssetKey]*balanceEntry
	stakes      map[common.Address][]*domain.Stake
	// operators[staker][operator] allows operator to stake and redeem on the
	// staker's behalf.
	operators map[common.Address]map[common.Address]bool

	// Now supplies the current time; tests override it to cross lock
	// boundaries.
	Now func() time.Time
}

// NewService creates a vault around the given custody account.
func NewService(authority *auth.AccessControl, tokens ledger.TokenLedger, vaultAddress common.Address, sink events.Sink) *Service {
	return &Service{
		authority:    authority,
		tokens:       tokens,
		sink:         sink,
		logger:       logger.Log,
		vaultAddress: vaultAddress,
		allowed:      make(map[common.Address]bool),
		minimumDays:  constants.DefaultMinimumStakeDays,
		balances:     make(map[domain.AssetKey]*balanceEntry),
		stakes:       make(map[common.Address][]*domain.Stake),
		operators:    make(map[common.Address]map[common.Address]bool),
		Now:          time.Now,
	}
}

// Address returns the custody account.
func (s *Service) Address() common.Address {
	return s.vaultAddress
}

// NotifyDeposit credits tokens that arrived at the vault outside the stake
// entry point (the receive-hook counterpart). The credit is what
// RetroactiveStake later converts into a stake record. Only an admin may
// report a deposit, and every credit must be backed by tokens the vault
// physically holds beyond what is already credited.
func (s *Service) NotifyDeposit(ctx context.Context, caller, from, tokenContract common.Address, tokenID, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: deposit amount must be positive", domain.ErrNoTokensToStake)
	}
	if !s.allowed[tokenContract] {
		return fmt.Errorf("%w: %s", domain.ErrTokenNotAllowed, tokenContract.Hex())
	}

	credited := new(big.Int).Set(amount)
	for key, existing := range s.balances {
		if key.TokenContract == tokenContract && key.TokenID == tokenID.String() {
			credited.Add(credited, existing.Deposited)
		}
	}
	held, err := s.tokens.BalanceOf(ctx, tokenContract, s.vaultAddress, tokenID)
	if err != nil {
		return fmt.Errorf("vault balance check failed: %w", err)
	}
	if held.Cmp(credited) < 0 {
		return fmt.Errorf("%w: vault holds %s of token %s on %s, crediting this deposit needs %s",
			domain.ErrInsufficientBalance, held, tokenID, tokenContract.Hex(), credited)
	}

	entry := s.entry(from, tokenContract, tokenID)
	entry.Deposited.Add(entry.Deposited, amount)

	s.logger.Info("credited out-of-band deposit",
		zap.String("holder", from.Hex()),
		zap.String("tokenContract", tokenContract.Hex()),
		zap.String("tokenId", tokenID.String()),
		zap.String("amount", amount.String()),
	)
	return nil
}

// Stake pulls each (contract, id, amount) triple from the caller into
// custody and records one stake covering all of them under a single lock.
func (s *Service) Stake(ctx context.Context, caller, staker common.Address, tokenContracts []common.Address, tokenIDs, amounts []*big.Int, lockDays int64) (*domain.Stake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateStakeArgs(caller, staker, tokenContracts, tokenIDs, amounts, lockDays); err != nil {
		return nil, err
	}

	// The caller must own everything being pulled, checked up front so the
	// whole call fails before any transfer moves.
	for i := range tokenContracts {
		bal, err := s.tokens.BalanceOf(ctx, tokenContracts[i], caller, tokenIDs[i])
		if err != nil {
			return nil, fmt.Errorf("balance check failed: %w", err)
		}
		if bal.Cmp(amounts[i]) < 0 {
			return nil, fmt.Errorf("%w: caller %s has %s of token %s on %s, staking %s",
				domain.ErrInsufficientBalance, caller.Hex(), bal, tokenIDs[i], tokenContracts[i].Hex(), amounts[i])
		}
	}

	stake := s.record(staker, tokenContracts, tokenIDs, amounts, lockDays, true)

	// Bookkeeping is committed; only now pull the assets in.
	for i := range tokenContracts {
		if err := s.tokens.Transfer(ctx, caller, tokenContracts[i], caller, s.vaultAddress, tokenIDs[i], amounts[i]); err != nil {
			return nil, fmt.Errorf("transfer into custody failed: %w", err)
		}
	}

	s.emit(events.TokensStaked{Staker: staker, Operator: caller, StakeID: stake.ID})
	s.logger.Info("created stake",
		zap.String("staker", staker.Hex()),
		zap.String("stakeId", stake.ID.String()),
		zap.Int("assets", len(tokenContracts)),
		zap.Int64("lockDays", lockDays),
	)
	return stake.Clone(), nil
}

// RetroactiveStake converts tokens the vault already physically holds on the
// staker's behalf into a stake record, without moving anything. Each triple's
// available unstaked balance must cover the amount.
func (s *Service) RetroactiveStake(ctx context.Context, caller, staker common.Address, tokenContracts []common.Address, tokenIDs, amounts []*big.Int, lockDays int64) (*domain.Stake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateStakeArgs(caller, staker, tokenContracts, tokenIDs, amounts, lockDays); err != nil {
		return nil, err
	}

	// Requested amounts must fit in the unstaked remainder per triple. The
	// same key may appear more than once, so tally requests per key.
	requested := make(map[domain.AssetKey]*big.Int)
	for i := range tokenContracts {
		key := domain.NewAssetKey(staker, tokenContracts[i], tokenIDs[i])
		total, ok := requested[key]
		if !ok {
			total = new(big.Int)
			requested[key] = total
		}
		total.Add(total, amounts[i])

		entry := s.entry(staker, tokenContracts[i], tokenIDs[i])
		unstaked := new(big.Int).Sub(entry.Deposited, entry.Staked)
		if unstaked.Cmp(total) < 0 {
			return nil, fmt.Errorf("%w: unstaked balance %s of token %s on %s, staking %s",
				domain.ErrInsufficientBalance, unstaked, tokenIDs[i], tokenContracts[i].Hex(), total)
		}
	}

	stake := s.record(staker, tokenContracts, tokenIDs, amounts, lockDays, false)

	s.emit(events.TokensStaked{Staker: staker, Operator: caller, StakeID: stake.ID})
	s.logger.Info("created retroactive stake",
		zap.String("staker", staker.Hex()),
		zap.String("stakeId", stake.ID.String()),
		zap.Int("assets", len(tokenContracts)),
	)
	return stake.Clone(), nil
}

// RedeemTokens releases every asset in the stake at stakeIndex back to the
// staker and removes the stake. The last stake in the list takes the removed
// slot, so later indices are not stable across redemptions; RedeemStakeByID
// is the index-stable alternative.
func (s *Service) RedeemTokens(ctx context.Context, caller, staker common.Address, stakeIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.stakes[staker]
	if stakeIndex < 0 || stakeIndex >= len(list) {
		return fmt.Errorf("%w: index %d, %d stakes", domain.ErrInvalidStakeIndex, stakeIndex, len(list))
	}
	return s.redeem(ctx, caller, staker, stakeIndex)
}

// RedeemStakeByID redeems by the stake's opaque id.
func (s *Service) RedeemStakeByID(ctx context.Context, caller, staker common.Address, stakeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, stake := range s.stakes[staker] {
		if stake.ID == stakeID {
			return s.redeem(ctx, caller, staker, i)
		}
	}
	return fmt.Errorf("%w: stake %s", domain.ErrInvalidStakeIndex, stakeID)
}

func (s *Service) redeem(ctx context.Context, caller, staker common.Address, stakeIndex int) error {
	list := s.stakes[staker]
	stake := list[stakeIndex]

	if caller != staker && !s.operators[staker][caller] {
		return fmt.Errorf("%w: %s may not redeem for %s", domain.ErrNotAuthorised, caller.Hex(), staker.Hex())
	}
	if s.Now().Before(stake.UnlockTime()) {
		return fmt.Errorf("%w: unlocks at %s", domain.ErrMinimumStakePeriod, stake.UnlockTime().UTC().Format(time.RFC3339))
	}

	// The vault must physically hold everything being released. The same
	// asset may appear more than once in one stake, so tally per key.
	releasing := make(map[domain.AssetKey]*big.Int)
	for i := range stake.TokenContracts {
		key := domain.NewAssetKey(s.vaultAddress, stake.TokenContracts[i], stake.TokenIDs[i])
		total, ok := releasing[key]
		if !ok {
			total = new(big.Int)
			releasing[key] = total
		}
		total.Add(total, stake.Amounts[i])

		held, err := s.tokens.BalanceOf(ctx, stake.TokenContracts[i], s.vaultAddress, stake.TokenIDs[i])
		if err != nil {
			return fmt.Errorf("vault balance check failed: %w", err)
		}
		if held.Cmp(total) < 0 {
			return fmt.Errorf("%w: vault holds %s of token %s on %s, redemption needs %s",
				domain.ErrInsufficientBalance, held, stake.TokenIDs[i], stake.TokenContracts[i].Hex(), total)
		}
	}

	// Commit bookkeeping before any external transfer: decrement balances
	// and drop the stake, then move the assets.
	for i := range stake.TokenContracts {
		entry := s.entry(staker, stake.TokenContracts[i], stake.TokenIDs[i])
		entry.Staked.Sub(entry.Staked, stake.Amounts[i])
		entry.Deposited.Sub(entry.Deposited, stake.Amounts[i])
	}
	last := len(list) - 1
	list[stakeIndex] = list[last]
	s.stakes[staker] = list[:last]

	for i := range stake.TokenContracts {
		if err := s.tokens.Transfer(ctx, caller, stake.TokenContracts[i], s.vaultAddress, staker, stake.TokenIDs[i], stake.Amounts[i]); err != nil {
			// Restore custody of whatever has not left the vault: the staker
			// keeps a stake record covering the undelivered remainder.
			s.restoreUndelivered(staker, stake, i)
			return fmt.Errorf("transfer out of custody failed: %w", err)
		}
	}

	s.emit(events.TokensRedeemed{Staker: staker, StakeID: stake.ID, StakeIndex: stakeIndex})
	s.logger.Info("redeemed stake",
		zap.String("staker", staker.Hex()),
		zap.String("stakeId", stake.ID.String()),
		zap.Int("index", stakeIndex),
	)
	return nil
}

// restoreUndelivered re-books the tail of a stake whose outbound transfers
// failed partway: assets from failedAt onward never left the vault, so their
// balance entries are re-credited and a stake record carrying them (same id,
// same lock) is appended back to the registry. Assets before failedAt were
// already delivered and stay redeemed.
func (s *Service) restoreUndelivered(staker common.Address, stake *domain.Stake, failedAt int) {
	remainder := &domain.Stake{
		ID:             stake.ID,
		TokenContracts: stake.TokenContracts[failedAt:],
		TokenIDs:       stake.TokenIDs[failedAt:],
		Amounts:        stake.Amounts[failedAt:],
		CreatedAt:      stake.CreatedAt,
		LockDuration:   stake.LockDuration,
	}
	for i := range remainder.TokenContracts {
		entry := s.entry(staker, remainder.TokenContracts[i], remainder.TokenIDs[i])
		entry.Deposited.Add(entry.Deposited, remainder.Amounts[i])
		entry.Staked.Add(entry.Staked, remainder.Amounts[i])
	}
	s.stakes[staker] = append(s.stakes[staker], remainder)
	s.logger.Error("redemption transfer failed, restored undelivered assets",
		zap.String("staker", staker.Hex()),
		zap.String("stakeId", stake.ID.String()),
		zap.Int("undeliveredFrom", failedAt),
	)
}

// Stakes returns a snapshot of the staker's stake list in registry order.
func (s *Service) Stakes(staker common.Address) []*domain.Stake {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.stakes[staker]
	out := make([]*domain.Stake, len(list))
	for i, stake := range list {
		out[i] = stake.Clone()
	}
	return out
}

// StakeAt returns the stake at the given index.
func (s *Service) StakeAt(staker common.Address, stakeIndex int) (*domain.Stake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.stakes[staker]
	if stakeIndex < 0 || stakeIndex >= len(list) {
		return nil, fmt.Errorf("%w: index %d, %d stakes", domain.ErrInvalidStakeIndex, stakeIndex, len(list))
	}
	return list[stakeIndex].Clone(), nil
}

// StakedBalance is the sum locked across the holder's active stakes for the
// given asset.
func (s *Service) StakedBalance(holder, tokenContract common.Address, tokenID *big.Int) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NewAssetKey(holder, tokenContract, tokenID)
	entry, ok := s.balances[key]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(entry.Staked)
}

// UnstakedBalance is what the vault holds for the holder that is not yet
// attached to any stake record.
func (s *Service) UnstakedBalance(holder, tokenContract common.Address, tokenID *big.Int) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.NewAssetKey(holder, tokenContract, tokenID)
	entry, ok := s.balances[key]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Sub(entry.Deposited, entry.Staked)
}

// validateStakeArgs applies the stake preconditions in their documented
// order. It mutates nothing.
func (s *Service) validateStakeArgs(caller, staker common.Address, tokenContracts []common.Address, tokenIDs, amounts []*big.Int, lockDays int64) error {
	// An empty batch on any side means nothing to stake; that reads before
	// the length comparison so contracts=[] with ids=[1] is "no tokens", not
	// a mismatch.
	if len(tokenContracts) == 0 || len(tokenIDs) == 0 || len(amounts) == 0 {
		return domain.ErrNoTokensToStake
	}
	if len(tokenContracts) != len(tokenIDs) || len(tokenIDs) != len(amounts) {
		return fmt.Errorf("%w: %d contracts, %d ids, %d amounts",
			domain.ErrArrayLengthMismatch, len(tokenContracts), len(tokenIDs), len(amounts))
	}
	if lockDays < s.minimumDays {
		return fmt.Errorf("%w: requested %d days, minimum %d", domain.ErrMinimumStakePeriod, lockDays, s.minimumDays)
	}
	for _, contract := range tokenContracts {
		if !s.allowed[contract] {
			return fmt.Errorf("%w: %s", domain.ErrTokenNotAllowed, contract.Hex())
		}
	}
	if caller != staker && !s.operators[staker][caller] {
		return fmt.Errorf("%w: %s may not stake for %s", domain.ErrNotAuthorised, caller.Hex(), staker.Hex())
	}
	for _, amount := range amounts {
		if amount == nil || amount.Sign() <= 0 {
			return fmt.Errorf("%w: amounts must be positive", domain.ErrNoTokensToStake)
		}
	}
	return nil
}

// record creates the stake and updates balance entries. pull marks stakes
// whose assets are being transferred in (which also raises the deposited
// side); retroactive stakes only convert an existing deposit.
func (s *Service) record(staker common.Address, tokenContracts []common.Address, tokenIDs, amounts []*big.Int, lockDays int64, pull bool) *domain.Stake {
	stake := &domain.Stake{
		ID:             uuid.New(),
		TokenContracts: make([]common.Address, len(tokenContracts)),
		TokenIDs:       make([]*big.Int, len(tokenIDs)),
		Amounts:        make([]*big.Int, len(amounts)),
		CreatedAt:      s.Now(),
		LockDuration:   lockDays * constants.SecondsPerDay,
	}
	copy(stake.TokenContracts, tokenContracts)
	for i := range tokenIDs {
		stake.TokenIDs[i] = new(big.Int).Set(tokenIDs[i])
		stake.Amounts[i] = new(big.Int).Set(amounts[i])
	}

	for i := range tokenContracts {
		entry := s.entry(staker, tokenContracts[i], tokenIDs[i])
		if pull {
			entry.Deposited.Add(entry.Deposited, amounts[i])
		}
		entry.Staked.Add(entry.Staked, amounts[i])
	}
	s.stakes[staker] = append(s.stakes[staker], stake)
	return stake
}

func (s *Service) entry(holder, tokenContract common.Address, tokenID *big.Int) *balanceEntry {
	key := domain.NewAssetKey(holder, tokenContract, tokenID)
	entry, ok := s.balances[key]
	if !ok {
		entry = &balanceEntry{Deposited: new(big.Int), Staked: new(big.Int)}
		s.balances[key] = entry
	}
	return entry
}

func (s *Service) emit(event events.Event) {
	if s.sink != nil {
		s.sink.Emit(event)
	}
}
