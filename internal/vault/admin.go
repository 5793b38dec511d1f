package vault

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/farconic/custody-api/internal/constants"
	"github.com/farconic/custody-api/internal/domain"
)

// AddAllowedTokens registers token contracts as stakeable. Re-adding is a
// no-op. Admin only.
func (s *Service) AddAllowedTokens(caller common.Address, tokenContracts ...common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	for _, contract := range tokenContracts {
		s.allowed[contract] = true
	}
	s.logger.Info("updated allowed token registry",
		zap.String("admin", caller.Hex()),
		zap.Int("added", len(tokenContracts)),
	)
	return nil
}

// RemoveAllowedTokens deregisters token contracts. Existing stakes on a
// removed contract stay redeemable; only new stakes are blocked. Removing an
// unknown contract is a no-op. Admin only.
func (s *Service) RemoveAllowedTokens(caller common.Address, tokenContracts ...common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	for _, contract := range tokenContracts {
		delete(s.allowed, contract)
	}
	s.logger.Info("updated allowed token registry",
		zap.String("admin", caller.Hex()),
		zap.Int("removed", len(tokenContracts)),
	)
	return nil
}

// IsAllowed reports whether the contract may be staked.
func (s *Service) IsAllowed(tokenContract common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed[tokenContract]
}

// AllowedTokens returns the registry contents in a stable order.
func (s *Service) AllowedTokens() []common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.Address, 0, len(s.allowed))
	for contract := range s.allowed {
		out = append(out, contract)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Hex() < out[j].Hex()
	})
	return out
}

// SetMinimumStakeDays changes the lock floor for stakes created from now on.
// Existing stakes keep the lock they were created with. Admin only.
func (s *Service) SetMinimumStakeDays(caller common.Address, days int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if days <= 0 {
		return fmt.Errorf("%w: minimum stake days must be positive", domain.ErrInvalidRequest)
	}
	s.minimumDays = days
	s.logger.Info("updated minimum stake period",
		zap.String("admin", caller.Hex()),
		zap.Int64("days", days),
	)
	return nil
}

// MinimumStakeDays returns the current lock floor.
func (s *Service) MinimumStakeDays() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minimumDays
}

// SetOperatorApproval lets staker authorize or revoke operator to stake and
// redeem on their behalf. Only the staker can change their own approvals.
func (s *Service) SetOperatorApproval(staker, operator common.Address, approved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.operators[staker]
	if !ok {
		if !approved {
			return
		}
		set = make(map[common.Address]bool)
		s.operators[staker] = set
	}
	if approved {
		set[operator] = true
	} else {
		delete(set, operator)
	}
}

// IsApprovedOperator reports whether operator may act for staker.
func (s *Service) IsApprovedOperator(staker, operator common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.operators[staker][operator]
}

// AcceptNative rejects any native-currency transfer to the vault. The vault
// only custodies multi-token assets.
func (s *Service) AcceptNative(from common.Address, amount *big.Int) error {
	return fmt.Errorf("%w: %s sent %s wei", domain.ErrETHNotAccepted, from.Hex(), amount)
}

func (s *Service) requireAdmin(caller common.Address) error {
	if !s.authority.HasRole(constants.RoleAdmin, caller) {
		return fmt.Errorf("%w: %s lacks the admin role", domain.ErrNotAuthorised, caller.Hex())
	}
	return nil
}
