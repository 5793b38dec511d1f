package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateStake pulls tokens from the caller into custody and records a stake.
func (h *HandlerClient) CreateStake(c *gin.Context) {
	h.stake(c, false)
}

// CreateRetroactiveStake converts already-deposited tokens into a stake.
func (h *HandlerClient) CreateRetroactiveStake(c *gin.Context) {
	h.stake(c, true)
}

func (h *HandlerClient) stake(c *gin.Context, retroactive bool) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload StakePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	staker := caller
	if payload.Staker != "" {
		addr, err := parseAddress("staker", payload.Staker)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid staker address", err)
			return
		}
		staker = addr
	}
	contracts, err := parseAddressList("tokenContracts", payload.TokenContracts)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token contracts", err)
		return
	}
	tokenIDs, err := parseBigList("tokenIds", payload.TokenIDs)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token ids", err)
		return
	}
	amounts, err := parseBigList("amounts", payload.Amounts)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid amounts", err)
		return
	}

	var stakeErr error
	var stake interface{}
	if retroactive {
		stake, stakeErr = h.vault.RetroactiveStake(c.Request.Context(), caller, staker, contracts, tokenIDs, amounts, payload.LockDays)
	} else {
		stake, stakeErr = h.vault.Stake(c.Request.Context(), caller, staker, contracts, tokenIDs, amounts, payload.LockDays)
	}
	if stakeErr != nil {
		handleCoreError(c, stakeErr, "Stake rejected")
		return
	}
	sendSuccess(c, http.StatusCreated, stake)
}

// RedeemStake releases a stake back to its staker. The path parameter is
// either a positional index or a stake uuid.
func (h *HandlerClient) RedeemStake(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	staker, err := parseAddress("staker", c.Param("staker"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid staker address", err)
		return
	}

	ref := c.Param("stake")
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		if err := h.vault.RedeemStakeByID(c.Request.Context(), caller, staker, id); err != nil {
			handleCoreError(c, err, "Redemption rejected")
			return
		}
		sendSuccessMessage(c, http.StatusOK, "Stake redeemed")
		return
	}

	index, parseErr := strconv.Atoi(ref)
	if parseErr != nil {
		sendError(c, http.StatusBadRequest, "Stake reference must be an index or uuid", parseErr)
		return
	}
	if err := h.vault.RedeemTokens(c.Request.Context(), caller, staker, index); err != nil {
		handleCoreError(c, err, "Redemption rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Stake redeemed")
}

// ListStakes returns the staker's active stakes in registry order.
func (h *HandlerClient) ListStakes(c *gin.Context) {
	staker, err := parseAddress("staker", c.Param("staker"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid staker address", err)
		return
	}
	sendList(c, h.vault.Stakes(staker))
}

// GetVaultBalance reports the staked and unstaked position for one asset.
func (h *HandlerClient) GetVaultBalance(c *gin.Context) {
	holder, err := parseAddress("holder", c.Param("staker"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid holder address", err)
		return
	}
	contract, err := parseAddress("contract", c.Param("contract"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token contract", err)
		return
	}
	tokenID, err := parseBig("id", c.Param("id"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token id", err)
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		Holder:        holder.Hex(),
		TokenContract: contract.Hex(),
		TokenID:       tokenID.String(),
		Staked:        h.vault.StakedBalance(holder, contract, tokenID).String(),
		Unstaked:      h.vault.UnstakedBalance(holder, contract, tokenID).String(),
	})
}

// NotifyDeposit credits tokens that reached the vault outside the stake flow.
// The vault only accepts the credit from an admin caller and only when it is
// backed by tokens the vault actually holds.
func (h *HandlerClient) NotifyDeposit(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload DepositPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	from, err := parseAddress("from", payload.From)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid sender address", err)
		return
	}
	contract, err := parseAddress("tokenContract", payload.TokenContract)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token contract", err)
		return
	}
	tokenID, err := parseBig("tokenId", payload.TokenID)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token id", err)
		return
	}
	amount, err := parseBig("amount", payload.Amount)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if err := h.vault.NotifyDeposit(c.Request.Context(), caller, from, contract, tokenID, amount); err != nil {
		handleCoreError(c, err, "Deposit rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Deposit credited")
}

// RejectNative is the receive/fallback guard: any native-currency transfer
// aimed at the vault is refused.
func (h *HandlerClient) RejectNative(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload struct {
		Amount string `json:"amount"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseBig("amount", payload.Amount)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	handleCoreError(c, h.vault.AcceptNative(caller, amount), "Native currency not accepted")
}

// SetOperatorApproval toggles an operator approval for the caller's stakes.
func (h *HandlerClient) SetOperatorApproval(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload OperatorApprovalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	operator, err := parseAddress("operator", payload.Operator)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid operator address", err)
		return
	}
	h.vault.SetOperatorApproval(caller, operator, payload.Approved)
	sendSuccessMessage(c, http.StatusOK, "Operator approval updated")
}
