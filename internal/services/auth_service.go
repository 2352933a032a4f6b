package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
	"github.com/google/uuid"
)

// DefaultChallengeTTL is how long a sign-in nonce stays valid.
const DefaultChallengeTTL = 5 * time.Minute

// AuthService issues session tokens to wallets that prove ownership by
// signing a one-time challenge with personal_sign.
type AuthService struct {
	challenges ChallengeRepository
	users      *UserService
	ttl        time.Duration
	now        func() time.Time
}

func NewAuthService(challenges ChallengeRepository, users *UserService, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &AuthService{challenges: challenges, users: users, ttl: ttl, now: time.Now}
}

// SignInResult is the user behind a verified signature and their token.
type SignInResult struct {
	User  *models.User
	Token string
}

func challengeMessage(addr, nonce string, expires time.Time) string {
	return fmt.Sprintf("Sign in to PetVerse\n\nWallet: %s\nNonce: %s\nExpires: %s",
		wallet.Checksummed(addr), nonce, expires.UTC().Format(time.RFC3339))
}

// Challenge creates a fresh nonce for the wallet. The returned message is
// what the wallet must sign.
func (s *AuthService) Challenge(ctx context.Context, addr string) (*models.AuthChallenge, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	if !wallet.IsEVM(walletAddr) {
		return nil, ErrSignInUnsupported
	}

	now := s.now().UTC()
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	c := &models.AuthChallenge{
		WalletAddress: walletAddr,
		Nonce:         nonce,
		ExpiresAt:     now.Add(s.ttl),
		CreatedAt:     now,
	}
	c.Message = challengeMessage(walletAddr, nonce, c.ExpiresAt)

	if err := s.challenges.Put(ctx, c); err != nil {
		return nil, storeError("store challenge", err)
	}
	return c, nil
}

// SignIn checks signature against the wallet's outstanding challenge, burns
// the challenge and returns a session token. The user is created on first
// sign-in.
func (s *AuthService) SignIn(ctx context.Context, addr, signature string) (*SignInResult, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	if !wallet.IsEVM(walletAddr) {
		return nil, ErrSignInUnsupported
	}

	now := s.now().UTC()
	c, err := s.challenges.Get(ctx, walletAddr)
	if err != nil {
		return nil, storeError("get challenge", err)
	}
	if c == nil || !now.Before(c.ExpiresAt) {
		return nil, ErrNoChallenge
	}

	switch err := wallet.VerifySignature(walletAddr, c.Message, signature); {
	case errors.Is(err, wallet.ErrMalformedSignature):
		return nil, ErrMalformedSignature
	case err != nil:
		slog.Warn("sign-in signature rejected", "wallet_address", walletAddr, "action", "sign_in")
		return nil, ErrBadSignature
	}

	consumed, err := s.challenges.Consume(ctx, walletAddr, c.Nonce, now)
	if err != nil {
		return nil, storeError("consume challenge", err)
	}
	if !consumed {
		return nil, ErrNoChallenge
	}

	user, err := s.users.EnsureUser(ctx, walletAddr, "")
	if err != nil {
		return nil, err
	}
	token, err := s.users.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %w", ErrPersistence, err)
	}
	slog.Info("wallet signed in", "wallet_address", walletAddr, "action", "sign_in")
	return &SignInResult{User: user, Token: token}, nil
}
