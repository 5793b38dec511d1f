package config

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/farconic/custody-api/internal/client/aws"
	"github.com/farconic/custody-api/internal/constants"
)

// Config carries everything the API process needs from the environment.
type Config struct {
	// ChainID and VerifyingContract pin the EIP-712 domain. Signatures issued
	// for one pair never verify under another.
	ChainID           *big.Int
	VerifyingContract common.Address

	// ReplayDBPath is where consumed uids persist. Empty means in-memory only.
	ReplayDBPath string

	Port        string
	CORSOrigins []string
}

// Load reads the non-secret configuration from the environment.
func Load() (*Config, error) {
	chainRaw := os.Getenv(constants.EnvChainID)
	if chainRaw == "" {
		return nil, fmt.Errorf("%s is required", constants.EnvChainID)
	}
	chainID, ok := new(big.Int).SetString(chainRaw, 10)
	if !ok || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("%s: invalid chain id %q", constants.EnvChainID, chainRaw)
	}

	contractRaw := os.Getenv(constants.EnvVerifyingContract)
	if !common.IsHexAddress(contractRaw) {
		return nil, fmt.Errorf("%s: invalid contract address %q", constants.EnvVerifyingContract, contractRaw)
	}

	port := os.Getenv(constants.EnvAPIPort)
	if port == "" {
		port = "8080"
	}

	var origins []string
	if raw := os.Getenv(constants.EnvCORSOrigins); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return &Config{
		ChainID:           chainID,
		VerifyingContract: common.HexToAddress(contractRaw),
		ReplayDBPath:      os.Getenv(constants.EnvReplayDBPath),
		Port:              port,
		CORSOrigins:       origins,
	}, nil
}

// LoadSignerKey resolves the authorized signer's private key: a Secrets
// Manager ARN when configured, otherwise the raw hex environment variable.
func LoadSignerKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	var raw string

	if os.Getenv(constants.EnvSignerSecretArn) != "" {
		client, err := aws.NewSecretsManagerClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("secrets manager client: %w", err)
		}
		raw, err = client.GetSecretString(ctx, constants.EnvSignerSecretArn, constants.EnvSignerPrivateKey)
		if err != nil {
			return nil, err
		}
	} else {
		raw = os.Getenv(constants.EnvSignerPrivateKey)
		if raw == "" {
			return nil, fmt.Errorf("%s is required when no secret ARN is configured", constants.EnvSignerPrivateKey)
		}
	}

	return ParseSignerKey(raw)
}

// ParseSignerKey decodes a hex-encoded secp256k1 private key, with or without
// a 0x prefix.
func ParseSignerKey(raw string) (*ecdsa.PrivateKey, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid signer private key: %w", err)
	}
	return key, nil
}
