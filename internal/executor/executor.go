package executor

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/events"
	"github.com/farconic/custody-api/internal/ledger"
	"github.com/farconic/custody-api/internal/logger"
	"github.com/farconic/custody-api/internal/replay"
	"github.com/farconic/custody-api/internal/signatures"
)

// Service executes verified signed requests against the platform token
// contract. Every entry point runs as one serialized unit: all preconditions
// are checked, the uid is consumed, bookkeeping is committed, and only then
// is the token ledger touched and the domain event emitted.
type Service struct {
	mu sync.Mutex

	verifier *signatures.Verifier
	guard    *replay.Guard
	tokens   ledger.TokenLedger
	// platformContract is the token contract whose ids signed requests mint
	// and burn.
	platformContract common.Address
	uris             map[string]string
	sink             events.Sink
	logger           *zap.Logger

	// Now supplies the current time; tests override it to pin windows.
	Now func() time.Time
}

// NewService wires the executor to its collaborators.
func NewService(verifier *signatures.Verifier, guard *replay.Guard, tokens ledger.TokenLedger, platformContract common.Address, sink events.Sink) *Service {
	return &Service{
		verifier:         verifier,
		guard:            guard,
		tokens:           tokens,
		platformContract: platformContract,
		uris:             make(map[string]string),
		sink:             sink,
		logger:           logger.Log,
		Now:              time.Now,
	}
}

// Verify exposes signature verification without executing anything.
func (s *Service) Verify(req signatures.Request, signature []byte) (bool, common.Address, error) {
	return s.verifier.Verify(req, signature)
}

// MintWithSignature executes a signed mint request: each target receives its
// amount of the request's token id, and the token uri is registered on the
// id's first mint.
func (s *Service) MintWithSignature(ctx context.Context, caller common.Address, req *signatures.MintRequest, signature []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	signer, err := s.authorize(req, signature)
	if err != nil {
		return err
	}
	if err := s.checkWindow(req); err != nil {
		return err
	}
	if len(req.To) != len(req.Amounts) {
		return fmt.Errorf("%w: %d targets, %d amounts", domain.ErrArrayLengthMismatch, len(req.To), len(req.Amounts))
	}
	if req.TotalQuantity().Sign() <= 0 {
		return domain.ErrZeroQuantity
	}

	if err := s.consume(req.UID()); err != nil {
		return err
	}

	if _, ok := s.uris[req.TokenID.String()]; !ok && req.URI != "" {
		s.uris[req.TokenID.String()] = req.URI
	}

	for i, to := range req.To {
		if err := s.tokens.Mint(ctx, caller, s.platformContract, to, req.TokenID, req.Amounts[i]); err != nil {
			return fmt.Errorf("mint to %s failed: %w", to.Hex(), err)
		}
	}

	s.emit(events.TokensMintedWithSignature{
		Signer:     signer,
		Recipients: req.To,
		TokenID:    req.TokenID,
		Amounts:    req.Amounts,
	})
	s.logger.Info("executed signed mint",
		zap.String("signer", signer.Hex()),
		zap.String("tokenId", req.TokenID.String()),
		zap.Int("recipients", len(req.To)),
		zap.String("uid", req.Uid.Hex()),
	)
	return nil
}

// ClaimWithSignature executes a signed exchange: one unit of every input id
// is burned from the recipient, in request order, then one unit of the output
// id is minted to them. The whole exchange is all-or-nothing.
func (s *Service) ClaimWithSignature(ctx context.Context, caller common.Address, req *signatures.ClaimRequest, signature []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	signer, err := s.authorize(req, signature)
	if err != nil {
		return err
	}
	if err := s.checkWindow(req); err != nil {
		return err
	}
	if len(req.InTokenIDs) == 0 {
		return fmt.Errorf("%w: empty input token list", domain.ErrInvalidRequest)
	}
	for _, id := range req.InTokenIDs {
		if id.Cmp(req.OutTokenID) == 0 {
			return fmt.Errorf("%w: output token %s also appears as input", domain.ErrInvalidRequest, id)
		}
	}

	// Every input must be owned before anything is burned. The same id may
	// appear more than once, so required units are tallied per id.
	needed := make(map[string]*big.Int)
	for _, id := range req.InTokenIDs {
		total, ok := needed[id.String()]
		if !ok {
			total = new(big.Int)
			needed[id.String()] = total
		}
		total.Add(total, big.NewInt(1))

		bal, err := s.tokens.BalanceOf(ctx, s.platformContract, req.To, id)
		if err != nil {
			return fmt.Errorf("balance check for token %s failed: %w", id, err)
		}
		if bal.Cmp(total) < 0 {
			return fmt.Errorf("%w: holder %s has %s of token %s, claim needs %s",
				domain.ErrInsufficientBalance, req.To.Hex(), bal, id, total)
		}
	}

	if err := s.consume(req.UID()); err != nil {
		return err
	}

	one := big.NewInt(1)
	for _, id := range req.InTokenIDs {
		if err := s.tokens.Burn(ctx, caller, s.platformContract, req.To, id, one); err != nil {
			return fmt.Errorf("burn of token %s failed: %w", id, err)
		}
	}
	if err := s.tokens.Mint(ctx, caller, s.platformContract, req.To, req.OutTokenID, one); err != nil {
		return fmt.Errorf("mint of token %s failed: %w", req.OutTokenID, err)
	}

	s.emit(events.TokensClaimedWithSignature{
		Signer:     signer,
		Recipient:  req.To,
		OutTokenID: req.OutTokenID,
		InTokenIDs: req.InTokenIDs,
	})
	s.logger.Info("executed signed claim",
		zap.String("signer", signer.Hex()),
		zap.String("recipient", req.To.Hex()),
		zap.String("outTokenId", req.OutTokenID.String()),
		zap.Int("inputs", len(req.InTokenIDs)),
	)
	return nil
}

// BurnWithSignature accepts a previously executed request together with its
// original signature as authorization to destroy the quantities it minted,
// from the original targets. Any caller may submit it; the request is a
// recall, not an owner-authenticated action. The validity window is not
// re-checked: it bounded when the request could be executed, and the recall
// refers to that execution.
func (s *Service) BurnWithSignature(ctx context.Context, caller common.Address, req signatures.Request, signature []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	signer, err := s.authorize(req, signature)
	if err != nil {
		return err
	}
	if !s.guard.IsConsumed(req.UID()) {
		return fmt.Errorf("%w: request %s was never executed", domain.ErrInvalidRequest, req.UID())
	}

	// Targets may repeat, so the required amount is tallied per holder before
	// anything is burned.
	targets, tokenID, amounts := req.MintedEffect()
	needed := make(map[common.Address]*big.Int)
	for i, holder := range targets {
		total, ok := needed[holder]
		if !ok {
			total = new(big.Int)
			needed[holder] = total
		}
		total.Add(total, amounts[i])

		bal, err := s.tokens.BalanceOf(ctx, s.platformContract, holder, tokenID)
		if err != nil {
			return fmt.Errorf("balance check for holder %s failed: %w", holder.Hex(), err)
		}
		if bal.Cmp(total) < 0 {
			return fmt.Errorf("%w: holder %s has %s of token %s, burn needs %s",
				domain.ErrInsufficientBalance, holder.Hex(), bal, tokenID, total)
		}
	}

	for i, holder := range targets {
		if err := s.tokens.Burn(ctx, caller, s.platformContract, holder, tokenID, amounts[i]); err != nil {
			return fmt.Errorf("burn from %s failed: %w", holder.Hex(), err)
		}
	}

	s.emit(events.TokensBurnedWithSignature{
		Signer:  signer,
		Holders: targets,
		TokenID: tokenID,
		Amounts: amounts,
	})
	s.logger.Info("executed signed burn",
		zap.String("signer", signer.Hex()),
		zap.String("tokenId", tokenID.String()),
		zap.Int("holders", len(targets)),
	)
	return nil
}

// URI returns the metadata uri registered on the token id's first mint.
func (s *Service) URI(tokenID *big.Int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uri, ok := s.uris[tokenID.String()]
	if !ok {
		return "", fmt.Errorf("%w: token %s", domain.ErrTokenNotFound, tokenID)
	}
	return uri, nil
}

func (s *Service) authorize(req signatures.Request, signature []byte) (common.Address, error) {
	ok, signer, err := s.verifier.Verify(req, signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if !ok {
		return common.Address{}, fmt.Errorf("%w: signer %s lacks the minter role", domain.ErrInvalidRequest, signer.Hex())
	}
	return signer, nil
}

func (s *Service) checkWindow(req signatures.Request) error {
	start, end := req.Window()
	if !signatures.WindowContains(s.Now().Unix(), start, end) {
		return fmt.Errorf("%w: valid [%s, %s)", domain.ErrRequestExpired, start, end)
	}
	return nil
}

// consume runs last among the preconditions so a rejected call never burns
// the uid, and first among the effects so a concurrent duplicate fails before
// touching the ledger.
func (s *Service) consume(uid domain.UID) error {
	fresh, err := s.guard.Consume(uid)
	if err != nil {
		return err
	}
	if !fresh {
		return fmt.Errorf("%w: uid %s already used", domain.ErrInvalidRequest, uid)
	}
	return nil
}

func (s *Service) emit(event events.Event) {
	if s.sink != nil {
		s.sink.Emit(event)
	}
}
