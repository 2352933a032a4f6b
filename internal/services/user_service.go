package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// TokenConfig signs wallet session tokens.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

type UserService struct {
	store    Store
	accounts *AccountService
	filter   *ContentFilter
	tokens   TokenConfig
}

func NewUserService(store Store, accounts *AccountService, filter *ContentFilter, tokens TokenConfig) *UserService {
	return &UserService{
		store:    store,
		accounts: accounts,
		filter:   filter,
		tokens:   tokens,
	}
}

// UserWithRank is a user together with their dense leaderboard rank.
type UserWithRank struct {
	User *models.User
	Rank int64
}

// EnsureUser returns the wallet's user, creating it on first sight. Calling it
// again for the same wallet never creates a second row.
func (s *UserService) EnsureUser(ctx context.Context, addr, uid string) (*models.User, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	return s.ensure(ctx, s.store.Users(), walletAddr, strings.TrimSpace(uid))
}

func (s *UserService) ensure(ctx context.Context, users UserRepository, walletAddr, uid string) (*models.User, error) {
	existing, err := users.GetByWallet(ctx, walletAddr)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if existing != nil {
		return existing, nil
	}

	if uid == "" {
		uid = uuid.NewString()
	}
	username := wallet.DefaultUsername(walletAddr)
	taken, err := users.UsernameTaken(ctx, username, walletAddr)
	if err != nil {
		return nil, storeError("check username", err)
	}
	if taken {
		username = collisionName(username, uid)
	}

	user := &models.User{
		WalletAddress:    walletAddr,
		Username:         username,
		ReferralCode:     newReferralCode(),
		UID:              uid,
		LastPointsUpdate: time.Now(),
	}
	err = users.Create(ctx, user)
	if err == nil {
		slog.Info("user created", "wallet_address", walletAddr, "username", username)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, storeError("create user", err)
	}

	// Lost a race with a concurrent first visit, or hit a unique column.
	existing, rerr := users.GetByWallet(ctx, walletAddr)
	if rerr != nil {
		return nil, storeError("get user", rerr)
	}
	if existing != nil {
		return existing, nil
	}

	// Someone claimed the default name in between; try once with the suffix.
	if !taken {
		user.Username = collisionName(username, uid)
		user.ReferralCode = newReferralCode()
		err = users.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, storeError("create user", err)
		}
	}
	return nil, ErrUIDTaken
}

func collisionName(base, uid string) string {
	suffix := uid
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return base + "_" + suffix
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// GetUser returns the user and their dense rank (0 when unranked).
func (s *UserService) GetUser(ctx context.Context, addr string) (*UserWithRank, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	users := s.store.Users()
	user, err := users.GetByWallet(ctx, walletAddr)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	rank, err := denseRank(ctx, users, user.Points)
	if err != nil {
		return nil, err
	}
	return &UserWithRank{User: user, Rank: rank}, nil
}

func (s *UserService) validateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return ErrInvalidUsername
	}
	ok, reason := s.filter.Check(name)
	if ok {
		return nil
	}
	switch reason {
	case ReasonURL:
		return ErrUsernameHasURL
	case ReasonSpam:
		return ErrUsernameSpam
	default:
		return ErrInappropriateUsername
	}
}

// UpdateUsername renames the wallet's user. Names are unique regardless of
// case; the caller's own current name does not count as taken.
func (s *UserService) UpdateUsername(ctx context.Context, addr, name string) error {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return invalidWallet(err)
	}
	name = strings.TrimSpace(name)
	if err := s.validateUsername(name); err != nil {
		return err
	}

	users := s.store.Users()
	user, err := users.GetByWallet(ctx, walletAddr)
	if err != nil {
		return storeError("get user", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Username == name {
		return nil
	}

	taken, err := users.UsernameTaken(ctx, name, walletAddr)
	if err != nil {
		return storeError("check username", err)
	}
	if taken {
		return ErrUsernameTaken
	}

	err = users.UpdateUsername(ctx, walletAddr, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUsernameTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	default:
		return storeError("update username", err)
	}
}

// UsernameAvailable reports whether nobody holds name in any letter case.
func (s *UserService) UsernameAvailable(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if err := s.validateUsername(name); err != nil {
		return false, err
	}
	taken, err := s.store.Users().UsernameTaken(ctx, name, "")
	if err != nil {
		return false, storeError("check username", err)
	}
	return !taken, nil
}

func (s *UserService) DeleteUser(ctx context.Context, addr string) (*DeletionReport, error) {
	return s.accounts.DeleteAccount(ctx, addr)
}

// IssueToken signs a session token whose subject is the wallet address.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.WalletAddress,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokens.Expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.Secret))
}
