package signatures

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/farconic/custody-api/internal/auth"
	"github.com/farconic/custody-api/internal/constants"
)

// Verifier recovers the signer of a typed-data request against a fixed
// domain and checks the recovered address against the minter role. It does
// not look at the validity window or the replay state; those are separate
// checks the executors apply before mutating anything.
type Verifier struct {
	chainID           *big.Int
	verifyingContract common.Address
	authority         *auth.AccessControl
}

// NewVerifier binds the domain tuple (name and version are fixed constants;
// chain id and verifying contract come from configuration) to an access
// control registry.
func NewVerifier(chainID *big.Int, verifyingContract common.Address, authority *auth.AccessControl) *Verifier {
	return &Verifier{
		chainID:           chainID,
		verifyingContract: verifyingContract,
		authority:         authority,
	}
}

// Digest computes the domain-separated typed-data hash for req.
func (v *Verifier) Digest(req Request) ([]byte, error) {
	data := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain":    EIP712Domain,
			req.PrimaryType(): req.TypeDefinition(),
		},
		PrimaryType: req.PrimaryType(),
		Domain: apitypes.TypedDataDomain{
			Name:              constants.SignatureDomainName,
			Version:           constants.SignatureDomainVersion,
			ChainId:           (*math.HexOrDecimal256)(v.chainID),
			VerifyingContract: v.verifyingContract.Hex(),
		},
		Message: req.Message(),
	}

	digest, _, err := apitypes.TypedDataAndHash(data)
	return digest, err
}

// RecoverSigner returns the address that produced signature over the digest
// of req.
func (v *Verifier) RecoverSigner(req Request, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(signature))
	}

	digest, err := v.Digest(req)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to hash request: %w", err)
	}

	// Normalize signature so that 27 -> 0, 28 -> 1.
	// For more context: https://github.com/ethereum/go-ethereum/issues/2053
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[64] == 27 || sig[64] == 28 {
		sig[64] -= 27
	}

	pubkey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover signer: %w", err)
	}

	return crypto.PubkeyToAddress(*pubkey), nil
}

// Verify recovers the signer and checks the minter role. A signer without the
// role is not an error: the recovered address is returned either way so
// callers can inspect who actually signed.
func (v *Verifier) Verify(req Request, signature []byte) (bool, common.Address, error) {
	signer, err := v.RecoverSigner(req, signature)
	if err != nil {
		return false, common.Address{}, err
	}
	return v.authority.HasRole(constants.RoleMinter, signer), signer, nil
}

// Signer issues signatures over typed-data requests with the platform key.
type Signer struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	verifier *Verifier
}

// NewSigner wraps a private key with the same domain parameters the verifier
// uses, so locally issued signatures always recover correctly.
func NewSigner(key *ecdsa.PrivateKey, verifier *Verifier) (*Signer, error) {
	if key == nil {
		return nil, errors.New("signing key is required")
	}
	return &Signer{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		verifier: verifier,
	}, nil
}

// Address returns the signing account.
func (s *Signer) Address() common.Address {
	return s.address
}

// Sign produces a 65-byte signature over the typed-data digest of req, with
// the v byte shifted to 27/28 as wallet clients expect.
func (s *Signer) Sign(req Request) ([]byte, error) {
	digest, err := s.verifier.Digest(req)
	if err != nil {
		return nil, err
	}

	signature, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, err
	}

	// Early Ethereum clients shifted the recovery id by 27 and wallets still
	// emit that form, so match it on the way out.
	if signature[64] < 2 {
		signature[64] += 27
	}
	return signature, nil
}
