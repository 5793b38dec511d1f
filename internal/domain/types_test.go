package domain_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farconic/custody-api/internal/domain"
)

func TestParseUID(t *testing.T) {
	uid := domain.NewUID()
	parsed, err := domain.ParseUID(uid.Hex())
	require.NoError(t, err)
	assert.Equal(t, uid, parsed)
}

func TestParseUID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing prefix", "00ff"},
		{"too short", "0x00ff"},
		{"not hex", "0xzz000000000000000000000000000000000000000000000000000000000000zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseUID(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestNewUID_Unique(t *testing.T) {
	assert.NotEqual(t, domain.NewUID(), domain.NewUID())
}

func TestAssetKey_NormalizesTokenID(t *testing.T) {
	holder := common.HexToAddress("0x01")
	contract := common.HexToAddress("0x02")

	a := domain.NewAssetKey(holder, contract, big.NewInt(7))
	b := domain.NewAssetKey(holder, contract, new(big.Int).SetInt64(7))
	assert.Equal(t, a, b)

	c := domain.NewAssetKey(holder, contract, big.NewInt(8))
	assert.NotEqual(t, a, c)
}

func TestStake_UnlockTime(t *testing.T) {
	created := time.Unix(1_750_000_000, 0)
	stake := &domain.Stake{CreatedAt: created, LockDuration: 90 * 86400}
	assert.Equal(t, created.Add(90*24*time.Hour), stake.UnlockTime())
}

func TestStake_CloneIsDeep(t *testing.T) {
	stake := &domain.Stake{
		TokenContracts: []common.Address{common.HexToAddress("0x02")},
		TokenIDs:       []*big.Int{big.NewInt(1)},
		Amounts:        []*big.Int{big.NewInt(5)},
	}
	clone := stake.Clone()
	clone.Amounts[0].SetInt64(999)
	clone.TokenIDs[0].SetInt64(999)

	assert.Equal(t, int64(5), stake.Amounts[0].Int64())
	assert.Equal(t, int64(1), stake.TokenIDs[0].Int64())
}
