package signatures_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farconic/custody-api/internal/auth"
	"github.com/farconic/custody-api/internal/constants"
	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/logger"
	"github.com/farconic/custody-api/internal/signatures"
)

func init() {
	logger.InitLogger()
}

var testContract = common.HexToAddress("0x00000000000000000000000000000000000c1717")

func newTestSigner(t *testing.T) (*signatures.Signer, *signatures.Verifier, *auth.AccessControl) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	authority := auth.NewAccessControl(crypto.PubkeyToAddress(key.PublicKey), constants.RoleMinter)
	verifier := signatures.NewVerifier(big.NewInt(137), testContract, authority)
	signer, err := signatures.NewSigner(key, verifier)
	require.NoError(t, err)
	return signer, verifier, authority
}

func testMintRequest() *signatures.MintRequest {
	return &signatures.MintRequest{
		To:                     []common.Address{common.HexToAddress("0xa1"), common.HexToAddress("0xb2")},
		Amounts:                []*big.Int{big.NewInt(3), big.NewInt(1)},
		TokenID:                big.NewInt(7),
		URI:                    "ipfs://QmTestMetadata",
		ValidityStartTimestamp: big.NewInt(0),
		ValidityEndTimestamp:   big.NewInt(1_900_000_000),
		Uid:                    domain.NewUID(),
	}
}

func testClaimRequest() *signatures.ClaimRequest {
	return &signatures.ClaimRequest{
		To:                     common.HexToAddress("0xc3"),
		InTokenIDs:             []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
		OutTokenID:             big.NewInt(10),
		ValidityStartTimestamp: big.NewInt(0),
		ValidityEndTimestamp:   big.NewInt(1_900_000_000),
		Uid:                    domain.NewUID(),
	}
}

func TestVerifier_MintRequestRoundTrip(t *testing.T) {
	signer, verifier, _ := newTestSigner(t)
	req := testMintRequest()

	sig, err := signer.Sign(req)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	ok, recovered, err := verifier.Verify(req, sig)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, signer.Address(), recovered)
}

func TestVerifier_ClaimRequestRoundTrip(t *testing.T) {
	signer, verifier, _ := newTestSigner(t)
	req := testClaimRequest()

	sig, err := signer.Sign(req)
	require.NoError(t, err)

	ok, recovered, err := verifier.Verify(req, sig)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, signer.Address(), recovered)
}

func TestVerifier_UnauthorizedSignerReportsAddress(t *testing.T) {
	// The stranger's key never gets the minter role.
	strangerKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, verifier, _ := newTestSigner(t)
	stranger, err := signatures.NewSigner(strangerKey, verifier)
	require.NoError(t, err)

	req := testMintRequest()
	sig, err := stranger.Sign(req)
	require.NoError(t, err)

	ok, recovered, err := verifier.Verify(req, sig)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, stranger.Address(), recovered)
}

func TestVerifier_TamperedRequestRecoversDifferentSigner(t *testing.T) {
	signer, verifier, _ := newTestSigner(t)
	req := testMintRequest()

	sig, err := signer.Sign(req)
	require.NoError(t, err)

	req.Amounts[0] = big.NewInt(1_000_000)
	ok, recovered, err := verifier.Verify(req, sig)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEqual(t, signer.Address(), recovered)
}

func TestVerifier_RevokedRoleFailsVerification(t *testing.T) {
	signer, verifier, authority := newTestSigner(t)
	req := testMintRequest()

	sig, err := signer.Sign(req)
	require.NoError(t, err)

	authority.RevokeRole(constants.RoleMinter, signer.Address())
	ok, recovered, err := verifier.Verify(req, sig)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, signer.Address(), recovered)
}

func TestVerifier_SignatureLengthChecked(t *testing.T) {
	_, verifier, _ := newTestSigner(t)

	_, _, err := verifier.Verify(testMintRequest(), []byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestVerifier_LegacyVByteAccepted(t *testing.T) {
	signer, verifier, _ := newTestSigner(t)
	req := testMintRequest()

	sig, err := signer.Sign(req)
	require.NoError(t, err)
	require.True(t, sig[64] == 27 || sig[64] == 28)

	// The raw 0/1 recovery id form must verify identically.
	raw := make([]byte, len(sig))
	copy(raw, sig)
	raw[64] -= 27

	for _, candidate := range [][]byte{sig, raw} {
		ok, recovered, err := verifier.Verify(req, candidate)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, signer.Address(), recovered)
	}
}

func TestVerifier_DomainBindsChainAndContract(t *testing.T) {
	signer, _, authority := newTestSigner(t)
	req := testMintRequest()

	sig, err := signer.Sign(req)
	require.NoError(t, err)

	otherChain := signatures.NewVerifier(big.NewInt(1), testContract, authority)
	ok, recovered, err := otherChain.Verify(req, sig)
	require.NoError(t, err)
	assert.False(t, ok, "signature must not carry across chain ids")
	assert.NotEqual(t, signer.Address(), recovered)

	otherContract := signatures.NewVerifier(big.NewInt(137), common.HexToAddress("0xdead"), authority)
	ok, recovered, err = otherContract.Verify(req, sig)
	require.NoError(t, err)
	assert.False(t, ok, "signature must not carry across verifying contracts")
	assert.NotEqual(t, signer.Address(), recovered)
}
