package events_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/farconic/custody-api/internal/events"
)

func TestRecorder_PreservesOrder(t *testing.T) {
	r := events.NewRecorder()
	r.Emit(events.TransferSingle{TokenID: big.NewInt(1), Amount: big.NewInt(1)})
	r.Emit(events.TokensMintedWithSignature{TokenID: big.NewInt(1)})
	r.Emit(events.TransferSingle{TokenID: big.NewInt(2), Amount: big.NewInt(1)})

	all := r.Events()
	assert.Len(t, all, 3)
	assert.Equal(t, "TransferSingle", all[0].Name())
	assert.Equal(t, "TokensMintedWithSignature", all[1].Name())

	transfers := r.ByName("TransferSingle")
	assert.Len(t, transfers, 2)
	assert.Equal(t, int64(2), transfers[1].(events.TransferSingle).TokenID.Int64())
	assert.Empty(t, r.ByName("TokensRedeemed"))
}

func TestMultiSink_FansOut(t *testing.T) {
	a := events.NewRecorder()
	b := events.NewRecorder()
	multi := events.MultiSink{a, b}

	multi.Emit(events.TokensBurnedWithSignature{
		Signer:  common.HexToAddress("0x01"),
		TokenID: big.NewInt(7),
	})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}
