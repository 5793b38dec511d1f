package auth

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// AccessControl is an owned role-membership registry. Role checks are pure
// lookups; there is no ambient global state.
type AccessControl struct {
	mu      sync.RWMutex
	members map[string]map[common.Address]struct{}
}

// NewAccessControl creates a registry with the given address granted every
// role in roles (typically the deployer getting admin + minter).
func NewAccessControl(initial common.Address, roles ...string) *AccessControl {
	ac := &AccessControl{members: make(map[string]map[common.Address]struct{})}
	for _, role := range roles {
		ac.grant(role, initial)
	}
	return ac
}

// HasRole reports whether account holds role.
func (ac *AccessControl) HasRole(role string, account common.Address) bool {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	_, ok := ac.members[role][account]
	return ok
}

// GrantRole adds account to role. Idempotent.
func (ac *AccessControl) GrantRole(role string, account common.Address) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.grant(role, account)
}

// RevokeRole removes account from role. Removing a non-member is a no-op.
func (ac *AccessControl) RevokeRole(role string, account common.Address) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if set, ok := ac.members[role]; ok {
		delete(set, account)
	}
}

// RoleMembers returns a snapshot of the accounts holding role.
func (ac *AccessControl) RoleMembers(role string) []common.Address {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	set := ac.members[role]
	out := make([]common.Address, 0, len(set))
	for account := range set {
		out = append(out, account)
	}
	return out
}

func (ac *AccessControl) grant(role string, account common.Address) {
	set, ok := ac.members[role]
	if !ok {
		set = make(map[common.Address]struct{})
		ac.members[role] = set
	}
	set[account] = struct{}{}
}
