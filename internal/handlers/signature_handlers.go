package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	"github.com/farconic/custody-api/internal/signatures"
)

// VerifyMintRequest checks a mint request signature without executing it.
// Verification failure is a 200 with success=false; the recovered signer is
// reported either way.
func (h *HandlerClient) VerifyMintRequest(c *gin.Context) {
	var payload SignedMintPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.Request.toMintRequest(false)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid mint request", err)
		return
	}
	h.verify(c, req, payload.Signature)
}

// VerifyClaimRequest checks a claim request signature without executing it.
func (h *HandlerClient) VerifyClaimRequest(c *gin.Context) {
	var payload SignedClaimPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.Request.toClaimRequest(false)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid claim request", err)
		return
	}
	h.verify(c, req, payload.Signature)
}

func (h *HandlerClient) verify(c *gin.Context, req signatures.Request, signature string) {
	sig, err := parseSignature(signature)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid signature encoding", err)
		return
	}
	ok, signer, err := h.executor.Verify(req, sig)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Signature recovery failed", err)
		return
	}
	sendSuccess(c, http.StatusOK, VerifyResponse{Success: ok, Signer: signer.Hex()})
}

// MintWithSignature executes a signed mint request.
func (h *HandlerClient) MintWithSignature(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload SignedMintPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.Request.toMintRequest(false)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid mint request", err)
		return
	}
	sig, err := parseSignature(payload.Signature)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid signature encoding", err)
		return
	}
	if err := h.executor.MintWithSignature(c.Request.Context(), caller, req, sig); err != nil {
		handleCoreError(c, err, "Mint request rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Tokens minted")
}

// ClaimWithSignature executes a signed exchange claim.
func (h *HandlerClient) ClaimWithSignature(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload SignedClaimPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.Request.toClaimRequest(false)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid claim request", err)
		return
	}
	sig, err := parseSignature(payload.Signature)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid signature encoding", err)
		return
	}
	if err := h.executor.ClaimWithSignature(c.Request.Context(), caller, req, sig); err != nil {
		handleCoreError(c, err, "Claim request rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Tokens claimed")
}

// BurnMintWithSignature recalls a previously executed mint request.
func (h *HandlerClient) BurnMintWithSignature(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload SignedMintPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.Request.toMintRequest(false)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid mint request", err)
		return
	}
	h.burn(c, caller, req, payload.Signature)
}

// BurnClaimWithSignature recalls a previously executed claim request.
func (h *HandlerClient) BurnClaimWithSignature(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var payload SignedClaimPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.Request.toClaimRequest(false)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid claim request", err)
		return
	}
	h.burn(c, caller, req, payload.Signature)
}

func (h *HandlerClient) burn(c *gin.Context, caller common.Address, req signatures.Request, signature string) {
	sig, err := parseSignature(signature)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid signature encoding", err)
		return
	}
	if err := h.executor.BurnWithSignature(c.Request.Context(), caller, req, sig); err != nil {
		handleCoreError(c, err, "Burn request rejected")
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Tokens burned")
}

// SignMintRequest issues a platform signature over a mint request. A missing
// uid is filled with a random one.
func (h *HandlerClient) SignMintRequest(c *gin.Context) {
	if h.signer == nil {
		sendError(c, http.StatusServiceUnavailable, "Signing is not configured", nil)
		return
	}
	var payload MintRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.toMintRequest(true)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid mint request", err)
		return
	}
	sig, err := h.signer.Sign(req)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Signing failed", err)
		return
	}
	sendSuccess(c, http.StatusOK, SignResponse{
		Request:   mintRequestToPayload(req),
		Signature: hexutil.Encode(sig),
		Signer:    h.signer.Address().Hex(),
	})
}

// SignClaimRequest issues a platform signature over a claim request.
func (h *HandlerClient) SignClaimRequest(c *gin.Context) {
	if h.signer == nil {
		sendError(c, http.StatusServiceUnavailable, "Signing is not configured", nil)
		return
	}
	var payload ClaimRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := payload.toClaimRequest(true)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid claim request", err)
		return
	}
	sig, err := h.signer.Sign(req)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Signing failed", err)
		return
	}
	sendSuccess(c, http.StatusOK, SignResponse{
		Request:   claimRequestToPayload(req),
		Signature: hexutil.Encode(sig),
		Signer:    h.signer.Address().Hex(),
	})
}

// GetTokenURI returns the metadata uri registered for a token id.
func (h *HandlerClient) GetTokenURI(c *gin.Context) {
	tokenID, err := parseBig("id", c.Param("id"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid token id", err)
		return
	}
	uri, err := h.executor.URI(tokenID)
	if err != nil {
		handleCoreError(c, err, "Token not found")
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"tokenId": tokenID.String(), "uri": uri})
}
