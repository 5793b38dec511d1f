package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farconic/custody-api/internal/constants"
)

// AddAllowedTokens registers token contracts as stakeable.
func (h *HandlerClient) AddAllowedTokens(c *gin.Context) {
	h.updateAllowedTokens(c, true)
}

// RemoveAllowedTokens deregisters token contracts.
func (h *HandlerClient) RemoveAllowedTokens(c *gin.Context) {
	h.updateAllowedTokens(c, false)
}

func (h *HandlerClient) updateAllowedTokens(c *gin.Context, add bool) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload TokenContractsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	contracts, err := parseAddressList("tokenContracts", payload.TokenContracts)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token contracts", err)
		return
	}

	if add {
		err = h.vault.AddAllowedTokens(caller, contracts...)
	} else {
		err = h.vault.RemoveAllowedTokens(caller, contracts...)
	}
	if err != nil {
		handleCoreError(c, err, "Registry update rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Allowed token registry updated")
}

// ListAllowedTokens returns the registry contents.
func (h *HandlerClient) ListAllowedTokens(c *gin.Context) {
	contracts := h.vault.AllowedTokens()
	out := make([]string, len(contracts))
	for i, contract := range contracts {
		out[i] = contract.Hex()
	}
	sendList(c, out)
}

// SetMinimumStakeDays updates the lock floor for new stakes.
func (h *HandlerClient) SetMinimumStakeDays(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload MinimumStakeDaysPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.vault.SetMinimumStakeDays(caller, payload.Days); err != nil {
		handleCoreError(c, err, "Lock policy update rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Minimum stake period updated")
}

// GetMinimumStakeDays returns the current lock floor.
func (h *HandlerClient) GetMinimumStakeDays(c *gin.Context) {
	sendSuccess(c, http.StatusOK, gin.H{"days": h.vault.MinimumStakeDays()})
}

// GrantRole adds an account to a role. Admin only.
func (h *HandlerClient) GrantRole(c *gin.Context) {
	h.updateRole(c, true)
}

// RevokeRole removes an account from a role. Admin only.
func (h *HandlerClient) RevokeRole(c *gin.Context) {
	h.updateRole(c, false)
}

func (h *HandlerClient) updateRole(c *gin.Context, grant bool) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload RolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	account, err := parseAddress("account", payload.Account)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid account address", err)
		return
	}
	if !h.authority.HasRole(constants.RoleAdmin, caller) {
		sendError(c, http.StatusForbidden, "Admin role required", nil)
		return
	}

	if grant {
		h.authority.GrantRole(payload.Role, account)
	} else {
		h.authority.RevokeRole(payload.Role, account)
	}
	sendSuccessMessage(c, http.StatusOK, "Role updated")
}

// ListRoleMembers returns the accounts holding a role.
func (h *HandlerClient) ListRoleMembers(c *gin.Context) {
	members := h.authority.RoleMembers(c.Param("role"))
	out := make([]string, len(members))
	for i, member := range members {
		out[i] = member.Hex()
	}
	sendList(c, out)
}
