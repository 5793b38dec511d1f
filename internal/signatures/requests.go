package signatures

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/farconic/custody-api/internal/domain"
)

// EIP712Domain is the domain struct shared by every request family.
var EIP712Domain = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// MintRequestType mirrors the struct encoding the signer's client produces.
// MintRequest(address[] to,uint256[] amounts,uint256 tokenId,string uri,uint128 validityStartTimestamp,uint128 validityEndTimestamp,bytes32 uid)
var MintRequestType = []apitypes.Type{
	{Name: "to", Type: "address[]"},
	{Name: "amounts", Type: "uint256[]"},
	{Name: "tokenId", Type: "uint256"},
	{Name: "uri", Type: "string"},
	{Name: "validityStartTimestamp", Type: "uint128"},
	{Name: "validityEndTimestamp", Type: "uint128"},
	{Name: "uid", Type: "bytes32"},
}

// ClaimRequestType mirrors ICitiesSignatureClaim.ClaimRequest.
// ClaimRequest(address to,uint256[] inTokenIds,uint256 outTokenId,uint128 validityStartTimestamp,uint128 validityEndTimestamp,bytes32 uid)
var ClaimRequestType = []apitypes.Type{
	{Name: "to", Type: "address"},
	{Name: "inTokenIds", Type: "uint256[]"},
	{Name: "outTokenId", Type: "uint256"},
	{Name: "validityStartTimestamp", Type: "uint128"},
	{Name: "validityEndTimestamp", Type: "uint128"},
	{Name: "uid", Type: "bytes32"},
}

// Request is one signed authorization payload. Implementations provide their
// typed-data encoding plus the pieces the executors need: the validity
// window, the single-use uid, and the mint effect the request authorizes
// (which doubles as the burn effect when the request is replayed as a recall).
type Request interface {
	PrimaryType() string
	TypeDefinition() []apitypes.Type
	Message() apitypes.TypedDataMessage

	Window() (start, end *big.Int)
	UID() domain.UID

	// MintedEffect returns the per-target amounts of the token id this
	// request mints when executed.
	MintedEffect() (targets []common.Address, tokenID *big.Int, amounts []*big.Int)
}

// MintRequest authorizes minting Amounts[i] units of TokenID to To[i].
type MintRequest struct {
	To                     []common.Address
	Amounts                []*big.Int
	TokenID                *big.Int
	URI                    string
	ValidityStartTimestamp *big.Int
	ValidityEndTimestamp   *big.Int
	Uid                    domain.UID
}

func (r *MintRequest) PrimaryType() string { return "MintRequest" }

func (r *MintRequest) TypeDefinition() []apitypes.Type { return MintRequestType }

func (r *MintRequest) Message() apitypes.TypedDataMessage {
	targets := make([]interface{}, len(r.To))
	for i, to := range r.To {
		targets[i] = to.Hex()
	}
	amounts := make([]interface{}, len(r.Amounts))
	for i, amt := range r.Amounts {
		amounts[i] = amt.String()
	}
	return apitypes.TypedDataMessage{
		"to":                     targets,
		"amounts":                amounts,
		"tokenId":                r.TokenID.String(),
		"uri":                    r.URI,
		"validityStartTimestamp": r.ValidityStartTimestamp.String(),
		"validityEndTimestamp":   r.ValidityEndTimestamp.String(),
		"uid":                    r.Uid.Hex(),
	}
}

func (r *MintRequest) Window() (*big.Int, *big.Int) {
	return r.ValidityStartTimestamp, r.ValidityEndTimestamp
}

func (r *MintRequest) UID() domain.UID { return r.Uid }

func (r *MintRequest) MintedEffect() ([]common.Address, *big.Int, []*big.Int) {
	return r.To, r.TokenID, r.Amounts
}

// TotalQuantity sums the per-target amounts.
func (r *MintRequest) TotalQuantity() *big.Int {
	total := new(big.Int)
	for _, amt := range r.Amounts {
		total.Add(total, amt)
	}
	return total
}

// ClaimRequest authorizes burning one unit of each InTokenIDs entry from To
// in exchange for one unit of OutTokenID.
type ClaimRequest struct {
	To                     common.Address
	InTokenIDs             []*big.Int
	OutTokenID             *big.Int
	ValidityStartTimestamp *big.Int
	ValidityEndTimestamp   *big.Int
	Uid                    domain.UID
}

func (r *ClaimRequest) PrimaryType() string { return "ClaimRequest" }

func (r *ClaimRequest) TypeDefinition() []apitypes.Type { return ClaimRequestType }

func (r *ClaimRequest) Message() apitypes.TypedDataMessage {
	inIDs := make([]interface{}, len(r.InTokenIDs))
	for i, id := range r.InTokenIDs {
		inIDs[i] = id.String()
	}
	return apitypes.TypedDataMessage{
		"to":                     r.To.Hex(),
		"inTokenIds":             inIDs,
		"outTokenId":             r.OutTokenID.String(),
		"validityStartTimestamp": r.ValidityStartTimestamp.String(),
		"validityEndTimestamp":   r.ValidityEndTimestamp.String(),
		"uid":                    r.Uid.Hex(),
	}
}

func (r *ClaimRequest) Window() (*big.Int, *big.Int) {
	return r.ValidityStartTimestamp, r.ValidityEndTimestamp
}

func (r *ClaimRequest) UID() domain.UID { return r.Uid }

// MintedEffect for a claim is the single unit of the output token; replayed
// as a recall it burns that unit back from the recipient.
func (r *ClaimRequest) MintedEffect() ([]common.Address, *big.Int, []*big.Int) {
	return []common.Address{r.To}, r.OutTokenID, []*big.Int{big.NewInt(1)}
}
