package auth_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/farconic/custody-api/internal/auth"
	"github.com/farconic/custody-api/internal/constants"
)

var (
	deployer = common.HexToAddress("0x0000000000000000000000000000000000000001")
	account  = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func TestAccessControl_InitialRoles(t *testing.T) {
	ac := auth.NewAccessControl(deployer, constants.RoleAdmin, constants.RoleMinter)

	assert.True(t, ac.HasRole(constants.RoleAdmin, deployer))
	assert.True(t, ac.HasRole(constants.RoleMinter, deployer))
	assert.False(t, ac.HasRole(constants.RoleMinter, account))
}

func TestAccessControl_GrantRevoke(t *testing.T) {
	ac := auth.NewAccessControl(deployer, constants.RoleAdmin)

	ac.GrantRole(constants.RoleMinter, account)
	assert.True(t, ac.HasRole(constants.RoleMinter, account))

	// Idempotent grant.
	ac.GrantRole(constants.RoleMinter, account)
	assert.Len(t, ac.RoleMembers(constants.RoleMinter), 1)

	ac.RevokeRole(constants.RoleMinter, account)
	assert.False(t, ac.HasRole(constants.RoleMinter, account))

	// Revoking a non-member is a no-op.
	ac.RevokeRole(constants.RoleMinter, account)
	assert.Empty(t, ac.RoleMembers(constants.RoleMinter))
}

func TestAccessControl_UnknownRole(t *testing.T) {
	ac := auth.NewAccessControl(deployer, constants.RoleAdmin)
	assert.False(t, ac.HasRole("PAUSER_ROLE", deployer))
	assert.Empty(t, ac.RoleMembers("PAUSER_ROLE"))
}
