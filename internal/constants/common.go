package constants

import "time"

// Environments
const (
	ProdEnvironment = "release"
	DevEnvironment  = "development"
)

// EIP-712 domain shared by every signed request family. The field order and
// types are part of the wire contract; changing either breaks recovery for
// every signature already issued.
const (
	SignatureDomainName    = "SignatureMintERC1155"
	SignatureDomainVersion = "1"
)

// Roles understood by the access control registry.
const (
	RoleAdmin  = "DEFAULT_ADMIN_ROLE"
	RoleMinter = "MINTER_ROLE"
)

// Staking defaults
const (
	// DefaultMinimumStakeDays is the lock floor applied until an admin
	// overrides it.
	DefaultMinimumStakeDays int64 = 90

	// SecondsPerDay converts a lock expressed in days into the seconds
	// stored on a stake record.
	SecondsPerDay int64 = 86400
)

// Environment variable names
const (
	EnvChainID           = "CUSTODY_CHAIN_ID"
	EnvVerifyingContract = "CUSTODY_VERIFYING_CONTRACT"
	EnvSignerPrivateKey  = "CUSTODY_SIGNER_PRIVATE_KEY"
	EnvSignerSecretArn   = "CUSTODY_SIGNER_SECRET_ARN"
	EnvReplayDBPath      = "CUSTODY_REPLAY_DB_PATH"
	EnvAPIPort           = "API_PORT"
	EnvCORSOrigins       = "CORS_ALLOWED_ORIGINS"
)

// DefaultShutdownTimeout bounds graceful HTTP shutdown.
const DefaultShutdownTimeout = 5 * time.Second
