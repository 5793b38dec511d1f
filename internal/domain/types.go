package domain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// UID is the 32-byte single-use identifier carried by every signed request.
type UID [32]byte

// ParseUID decodes a 0x-prefixed 32-byte hex string.
func ParseUID(s string) (UID, error) {
	var uid UID
	raw, err := hexutil.Decode(s)
	if err != nil {
		return uid, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	if len(raw) != 32 {
		return uid, fmt.Errorf("invalid uid %q: want 32 bytes, got %d", s, len(raw))
	}
	copy(uid[:], raw)
	return uid, nil
}

// NewUID returns a random uid. Requesters normally choose their own; this is
// used by the signing endpoints when the client leaves the uid empty.
func NewUID() UID {
	var uid UID
	id := uuid.New()
	copy(uid[:16], id[:])
	id = uuid.New()
	copy(uid[16:], id[:])
	return uid
}

func (u UID) Hex() string {
	return hexutil.Encode(u[:])
}

func (u UID) String() string {
	return u.Hex()
}

// AssetKey identifies one custodied position: a token id on an external
// contract held for a holder.
type AssetKey struct {
	Holder        common.Address
	TokenContract common.Address
	TokenID       string // decimal encoding of the token id
}

// NewAssetKey normalizes the token id so keys compare by value.
func NewAssetKey(holder, contract common.Address, tokenID *big.Int) AssetKey {
	return AssetKey{Holder: holder, TokenContract: contract, TokenID: tokenID.String()}
}

// Stake is one batch of asset movements locked together. It is owned by
// exactly one staker and removed only on redemption.
type Stake struct {
	// ID is an opaque, index-stable handle. The positional index in the
	// staker's list is also accepted but shifts when earlier stakes are
	// redeemed.
	ID             uuid.UUID        `json:"id"`
	TokenContracts []common.Address `json:"tokenContracts"`
	TokenIDs       []*big.Int       `json:"tokenIds"`
	Amounts        []*big.Int       `json:"amounts"`
	CreatedAt      time.Time        `json:"createdAt"`
	// LockDuration is stored in seconds (requested days * 86400).
	LockDuration int64 `json:"lockDuration"`
}

// UnlockTime is the first instant at which the stake may be redeemed.
func (s *Stake) UnlockTime() time.Time {
	return s.CreatedAt.Add(time.Duration(s.LockDuration) * time.Second)
}

// Clone deep-copies the stake so callers cannot alias vault-owned state.
func (s *Stake) Clone() *Stake {
	out := &Stake{
		ID:             s.ID,
		TokenContracts: make([]common.Address, len(s.TokenContracts)),
		TokenIDs:       make([]*big.Int, len(s.TokenIDs)),
		Amounts:        make([]*big.Int, len(s.Amounts)),
		CreatedAt:      s.CreatedAt,
		LockDuration:   s.LockDuration,
	}
	copy(out.TokenContracts, s.TokenContracts)
	for i, id := range s.TokenIDs {
		out.TokenIDs[i] = new(big.Int).Set(id)
	}
	for i, amt := range s.Amounts {
		out.Amounts[i] = new(big.Int).Set(amt)
	}
	return out
}
