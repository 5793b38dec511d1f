package handlers

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/signatures"
)

// MintRequestPayload is the JSON form of a mint authorization. Numeric fields
// travel as decimal strings so 256-bit values survive the trip.
type MintRequestPayload struct {
	To                     []string `json:"to"`
	Amounts                []string `json:"amounts"`
	TokenID                string   `json:"tokenId"`
	URI                    string   `json:"uri"`
	ValidityStartTimestamp string   `json:"validityStartTimestamp"`
	ValidityEndTimestamp   string   `json:"validityEndTimestamp"`
	// UID may be empty on signing requests; the service then chooses one.
	UID string `json:"uid"`
}

// ClaimRequestPayload is the JSON form of an exchange-claim authorization.
type ClaimRequestPayload struct {
	To                     string   `json:"to"`
	InTokenIDs             []string `json:"inTokenIds"`
	OutTokenID             string   `json:"outTokenId"`
	ValidityStartTimestamp string   `json:"validityStartTimestamp"`
	ValidityEndTimestamp   string   `json:"validityEndTimestamp"`
	UID                    string   `json:"uid"`
}

// SignedMintPayload carries a mint request plus its signature.
type SignedMintPayload struct {
	Request   MintRequestPayload `json:"request"`
	Signature string             `json:"signature"`
}

// SignedClaimPayload carries a claim request plus its signature.
type SignedClaimPayload struct {
	Request   ClaimRequestPayload `json:"request"`
	Signature string              `json:"signature"`
}

// VerifyResponse reports the outcome of signature verification.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Signer  string `json:"signer"`
}

// SignResponse returns a freshly issued signature together with the request
// as signed (the uid may have been filled in).
type SignResponse struct {
	Request   interface{} `json:"request"`
	Signature string      `json:"signature"`
	Signer    string      `json:"signer"`
}

// StakePayload describes a stake or retroactive stake.
type StakePayload struct {
	Staker         string   `json:"staker"`
	TokenContracts []string `json:"tokenContracts"`
	TokenIDs       []string `json:"tokenIds"`
	Amounts        []string `json:"amounts"`
	LockDays       int64    `json:"lockDays"`
}

// DepositPayload notifies the vault of tokens that arrived out of band.
type DepositPayload struct {
	From          string `json:"from"`
	TokenContract string `json:"tokenContract"`
	TokenID       string `json:"tokenId"`
	Amount        string `json:"amount"`
}

// OperatorApprovalPayload toggles an operator approval for the caller.
type OperatorApprovalPayload struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// TokenContractsPayload names token contracts for registry updates.
type TokenContractsPayload struct {
	TokenContracts []string `json:"tokenContracts"`
}

// MinimumStakeDaysPayload updates the lock floor.
type MinimumStakeDaysPayload struct {
	Days int64 `json:"days"`
}

// RolePayload grants or revokes a role.
type RolePayload struct {
	Role    string `json:"role"`
	Account string `json:"account"`
}

// BalanceResponse reports one custodied position.
type BalanceResponse struct {
	Holder        string `json:"holder"`
	TokenContract string `json:"tokenContract"`
	TokenID       string `json:"tokenId"`
	Staked        string `json:"staked"`
	Unstaked      string `json:"unstaked"`
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", field, s)
	}
	return common.HexToAddress(s), nil
}

func parseAddressList(field string, in []string) ([]common.Address, error) {
	out := make([]common.Address, len(in))
	for i, s := range in {
		addr, err := parseAddress(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = addr
	}
	return out, nil
}

func parseBig(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid integer %q", field, s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%s: negative value %q", field, s)
	}
	return v, nil
}

func parseBigList(field string, in []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(in))
	for i, s := range in {
		v, err := parseBig(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseSignature(s string) ([]byte, error) {
	sig, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return sig, nil
}

// toMintRequest converts the wire payload. When allowEmptyUID is set an empty
// uid field produces a random one (the signing path); otherwise it is an error.
func (p *MintRequestPayload) toMintRequest(allowEmptyUID bool) (*signatures.MintRequest, error) {
	to, err := parseAddressList("to", p.To)
	if err != nil {
		return nil, err
	}
	amounts, err := parseBigList("amounts", p.Amounts)
	if err != nil {
		return nil, err
	}
	tokenID, err := parseBig("tokenId", p.TokenID)
	if err != nil {
		return nil, err
	}
	start, err := parseBig("validityStartTimestamp", p.ValidityStartTimestamp)
	if err != nil {
		return nil, err
	}
	end, err := parseBig("validityEndTimestamp", p.ValidityEndTimestamp)
	if err != nil {
		return nil, err
	}

	var uid domain.UID
	if p.UID == "" {
		if !allowEmptyUID {
			return nil, fmt.Errorf("uid is required")
		}
		uid = domain.NewUID()
	} else if uid, err = domain.ParseUID(p.UID); err != nil {
		return nil, err
	}

	return &signatures.MintRequest{
		To:                     to,
		Amounts:                amounts,
		TokenID:                tokenID,
		URI:                    p.URI,
		ValidityStartTimestamp: start,
		ValidityEndTimestamp:   end,
		Uid:                    uid,
	}, nil
}

func (p *ClaimRequestPayload) toClaimRequest(allowEmptyUID bool) (*signatures.ClaimRequest, error) {
	to, err := parseAddress("to", p.To)
	if err != nil {
		return nil, err
	}
	inIDs, err := parseBigList("inTokenIds", p.InTokenIDs)
	if err != nil {
		return nil, err
	}
	outID, err := parseBig("outTokenId", p.OutTokenID)
	if err != nil {
		return nil, err
	}
	start, err := parseBig("validityStartTimestamp", p.ValidityStartTimestamp)
	if err != nil {
		return nil, err
	}
	end, err := parseBig("validityEndTimestamp", p.ValidityEndTimestamp)
	if err != nil {
		return nil, err
	}

	var uid domain.UID
	if p.UID == "" {
		if !allowEmptyUID {
			return nil, fmt.Errorf("uid is required")
		}
		uid = domain.NewUID()
	} else if uid, err = domain.ParseUID(p.UID); err != nil {
		return nil, err
	}

	return &signatures.ClaimRequest{
		To:                     to,
		InTokenIDs:             inIDs,
		OutTokenID:             outID,
		ValidityStartTimestamp: start,
		ValidityEndTimestamp:   end,
		Uid:                    uid,
	}, nil
}

func mintRequestToPayload(r *signatures.MintRequest) MintRequestPayload {
	to := make([]string, len(r.To))
	for i, addr := range r.To {
		to[i] = addr.Hex()
	}
	amounts := make([]string, len(r.Amounts))
	for i, amt := range r.Amounts {
		amounts[i] = amt.String()
	}
	return MintRequestPayload{
		To:                     to,
		Amounts:                amounts,
		TokenID:                r.TokenID.String(),
		URI:                    r.URI,
		ValidityStartTimestamp: r.ValidityStartTimestamp.String(),
		ValidityEndTimestamp:   r.ValidityEndTimestamp.String(),
		UID:                    r.Uid.Hex(),
	}
}

func claimRequestToPayload(r *signatures.ClaimRequest) ClaimRequestPayload {
	inIDs := make([]string, len(r.InTokenIDs))
	for i, id := range r.InTokenIDs {
		inIDs[i] = id.String()
	}
	return ClaimRequestPayload{
		To:                     r.To.Hex(),
		InTokenIDs:             inIDs,
		OutTokenID:             r.OutTokenID.String(),
		ValidityStartTimestamp: r.ValidityStartTimestamp.String(),
		ValidityEndTimestamp:   r.ValidityEndTimestamp.String(),
		UID:                    r.Uid.Hex(),
	}
}
