package server

import (
	"context"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farconic/custody-api/internal/auth"
	"github.com/farconic/custody-api/internal/config"
	"github.com/farconic/custody-api/internal/constants"
	"github.com/farconic/custody-api/internal/events"
	"github.com/farconic/custody-api/internal/executor"
	"github.com/farconic/custody-api/internal/handlers"
	"github.com/farconic/custody-api/internal/ledger"
	"github.com/farconic/custody-api/internal/logger"
	"github.com/farconic/custody-api/internal/replay"
	"github.com/farconic/custody-api/internal/signatures"
	"github.com/farconic/custody-api/internal/vault"
)

// App is the assembled service graph behind the HTTP surface.
type App struct {
	Handler *handlers.HandlerClient
	Guard   *replay.Guard

	cfg *config.Config
}

// InitializeApp builds the service graph from configuration: the access
// control registry seeded with the signer, the replay guard (durable when a
// db path is configured), the executor and the vault.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, error) {
	key, err := config.LoadSignerKey(ctx)
	if err != nil {
		return nil, err
	}

	var store replay.Store
	if cfg.ReplayDBPath != "" {
		store, err = replay.OpenLevelStore(cfg.ReplayDBPath)
		if err != nil {
			return nil, err
		}
	}
	guard, err := replay.NewGuard(store)
	if err != nil {
		return nil, err
	}

	sink := events.NewZapSink(logger.Log)
	tokens := ledger.NewMemoryLedger(sink)

	// The signer account starts with every role; further grants go through
	// the admin endpoints.
	authority := auth.NewAccessControl(crypto.PubkeyToAddress(key.PublicKey), constants.RoleAdmin, constants.RoleMinter)
	verifier := signatures.NewVerifier(cfg.ChainID, cfg.VerifyingContract, authority)
	signer, err := signatures.NewSigner(key, verifier)
	if err != nil {
		return nil, err
	}

	exec := executor.NewService(verifier, guard, tokens, cfg.VerifyingContract, sink)
	vaultSvc := vault.NewService(authority, tokens, cfg.VerifyingContract, sink)

	logger.Log.Info("service graph initialized",
		zap.String("signer", signer.Address().Hex()),
		zap.String("verifyingContract", cfg.VerifyingContract.Hex()),
		zap.String("chainId", cfg.ChainID.String()),
		zap.Bool("durableReplayStore", cfg.ReplayDBPath != ""),
	)

	return &App{
		Handler: handlers.NewHandlerClient(exec, vaultSvc, authority, signer),
		Guard:   guard,
		cfg:     cfg,
	}, nil
}

// Close releases durable resources.
func (a *App) Close() error {
	return a.Guard.Close()
}

// NewRouter wires the HTTP surface for the app's handler set.
func (a *App) NewRouter() *gin.Engine {
	return NewRouter(a.Handler, a.cfg.CORSOrigins)
}

// NewRouter builds the route tree around a handler set.
func NewRouter(h *handlers.HandlerClient, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestLoggerMiddleware())
	router.Use(configureCORS(corsOrigins))
	router.Use(handlers.CallerMiddleware())
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		requests := v1.Group("/requests")
		{
			requests.POST("/mint/verify", h.VerifyMintRequest)
			requests.POST("/mint/sign", h.SignMintRequest)
			requests.POST("/mint", h.MintWithSignature)
			requests.POST("/mint/burn", h.BurnMintWithSignature)

			requests.POST("/claim/verify", h.VerifyClaimRequest)
			requests.POST("/claim/sign", h.SignClaimRequest)
			requests.POST("/claim", h.ClaimWithSignature)
			requests.POST("/claim/burn", h.BurnClaimWithSignature)
		}

		v1.GET("/tokens/:id/uri", h.GetTokenURI)

		vaultGroup := v1.Group("/vault")
		{
			vaultGroup.POST("/stakes", h.CreateStake)
			vaultGroup.POST("/stakes/retroactive", h.CreateRetroactiveStake)
			vaultGroup.GET("/stakes/:staker", h.ListStakes)
			vaultGroup.DELETE("/stakes/:staker/:stake", h.RedeemStake)
			vaultGroup.GET("/balances/:staker/:contract/:id", h.GetVaultBalance)
			vaultGroup.POST("/deposits", h.NotifyDeposit)
			vaultGroup.POST("/operators", h.SetOperatorApproval)
			vaultGroup.POST("/native", h.RejectNative)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/allowed-tokens", h.ListAllowedTokens)
			admin.POST("/allowed-tokens", h.AddAllowedTokens)
			admin.DELETE("/allowed-tokens", h.RemoveAllowedTokens)
			admin.GET("/lock-policy", h.GetMinimumStakeDays)
			admin.PUT("/lock-policy", h.SetMinimumStakeDays)
			admin.POST("/roles", h.GrantRole)
			admin.DELETE("/roles", h.RevokeRole)
			admin.GET("/roles/:role", h.ListRoleMembers)
		}
	}

	return router
}

func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", handlers.HeaderCallerAddress, handlers.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{handlers.HeaderRequestID}
	return cors.New(corsConfig)
}
