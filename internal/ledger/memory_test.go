package ledger_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/events"
	"github.com/farconic/custody-api/internal/ledger"
)

var (
	contract = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	op       = common.HexToAddress("0x0000000000000000000000000000000000000001")
	holderA  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	holderB  = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func TestMemoryLedger_MintBurnTransfer(t *testing.T) {
	recorder := events.NewRecorder()
	l := ledger.NewMemoryLedger(recorder)
	ctx := context.Background()
	id := big.NewInt(7)

	require.NoError(t, l.Mint(ctx, op, contract, holderA, id, big.NewInt(5)))
	require.NoError(t, l.Transfer(ctx, op, contract, holderA, holderB, id, big.NewInt(2)))
	require.NoError(t, l.Burn(ctx, op, contract, holderA, id, big.NewInt(1)))

	balA, err := l.BalanceOf(ctx, contract, holderA, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balA.Int64())

	balB, err := l.BalanceOf(ctx, contract, holderB, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balB.Int64())

	transfers := recorder.ByName("TransferSingle")
	require.Len(t, transfers, 3)
	mint := transfers[0].(events.TransferSingle)
	assert.Equal(t, common.Address{}, mint.From)
	burn := transfers[2].(events.TransferSingle)
	assert.Equal(t, common.Address{}, burn.To)
}

func TestMemoryLedger_DebitGuards(t *testing.T) {
	l := ledger.NewMemoryLedger(nil)
	ctx := context.Background()
	id := big.NewInt(7)

	err := l.Burn(ctx, op, contract, holderA, id, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	err = l.Transfer(ctx, op, contract, holderA, holderB, id, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestMemoryLedger_ContractsAreIsolated(t *testing.T) {
	l := ledger.NewMemoryLedger(nil)
	ctx := context.Background()
	other := common.HexToAddress("0x0000000000000000000000000000000000000c02")

	require.NoError(t, l.Mint(ctx, op, contract, holderA, big.NewInt(1), big.NewInt(3)))

	bal, err := l.BalanceOf(ctx, other, holderA, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.Int64())
}

func TestMemoryLedger_BatchTransferAtomic(t *testing.T) {
	l := ledger.NewMemoryLedger(nil)
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, op, contract, holderA, big.NewInt(1), big.NewInt(3)))
	require.NoError(t, l.Mint(ctx, op, contract, holderA, big.NewInt(2), big.NewInt(1)))

	// Second entry exceeds the balance; the first must not move either.
	err := l.BatchTransfer(ctx, op, contract, holderA, holderB,
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(1), big.NewInt(5)})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	bal, err := l.BalanceOf(ctx, contract, holderA, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), bal.Int64())

	require.NoError(t, l.BatchTransfer(ctx, op, contract, holderA, holderB,
		[]*big.Int{big.NewInt(1), big.NewInt(2)},
		[]*big.Int{big.NewInt(2), big.NewInt(1)}))

	bal, err = l.BalanceOf(ctx, contract, holderB, big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), bal.Int64())
}

func TestMemoryLedger_BalanceOfBatch(t *testing.T) {
	l := ledger.NewMemoryLedger(nil)
	ctx := context.Background()

	require.NoError(t, l.Mint(ctx, op, contract, holderA, big.NewInt(1), big.NewInt(3)))

	out, err := l.BalanceOfBatch(ctx, contract,
		[]common.Address{holderA, holderB},
		[]*big.Int{big.NewInt(1), big.NewInt(1)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(3), out[0].Int64())
	assert.Equal(t, int64(0), out[1].Int64())

	_, err = l.BalanceOfBatch(ctx, contract, []common.Address{holderA}, nil)
	assert.ErrorIs(t, err, domain.ErrArrayLengthMismatch)
}
