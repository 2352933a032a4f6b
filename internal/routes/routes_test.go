package routes

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services/testhelpers"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	player = "0x00000000000000000000000000000000000000aa"
	other  = "0x00000000000000000000000000000000000000bb"
)

// memChallenges keeps challenges in a map so a sign-in can run end to end.
type memChallenges struct {
	mu   sync.Mutex
	rows map[string]models.AuthChallenge
}

func (m *memChallenges) Put(_ context.Context, c *models.AuthChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.WalletAddress] = *c
	return nil
}

func (m *memChallenges) Get(_ context.Context, wallet string) (*models.AuthChallenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[wallet]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memChallenges) Consume(_ context.Context, wallet, nonce string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[wallet]
	if !ok || c.Nonce != nonce || !now.Before(c.ExpiresAt) {
		return false, nil
	}
	delete(m.rows, wallet)
	return true, nil
}

type testEnv struct {
	app      *fiber.App
	store    *testhelpers.MockStore
	accounts *testhelpers.MockAccountRepository
	users    *services.UserService
	adminKey *secp256k1.PrivateKey
	admin    string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	adminKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	admin := wallet.PublicKeyAddress(adminKey.PubKey())

	cfg := &config.Config{
		JWTSecret:    "route-secret",
		AdminToken:   "let-me-in",
		AdminWallets: admin + ", 0xnot-a-wallet",
		CORSOrigins:  "*",
	}

	store := testhelpers.NewMockStore()
	accounts := new(testhelpers.MockAccountRepository)
	c := cache.Noop{}
	accountService := services.NewAccountService(store, accounts, nil, c)
	referrals := services.NewReferralService(store, c)
	users := services.NewUserService(store, accountService, services.NewContentFilter(), services.TokenConfig{
		Secret: cfg.JWTSecret,
		Expiry: time.Hour,
	})
	challenges := &memChallenges{rows: map[string]models.AuthChallenge{}}

	app := fiber.New()
	Setup(app, cfg, Handlers{
		Health:      handlers.NewHealthHandler(func(context.Context) error { return nil }, c),
		Auth:        handlers.NewAuthHandler(services.NewAuthService(challenges, users, time.Minute)),
		User:        handlers.NewUserHandler(users),
		Pet:         handlers.NewPetHandler(services.NewPetService(store, c, referrals)),
		Leaderboard: handlers.NewLeaderboardHandler(services.NewLeaderboardService(store, c, users, referrals)),
		Referral:    handlers.NewReferralHandler(referrals),
		Admin:       handlers.NewAdminHandler(accountService),
	})
	return &testEnv{app: app, store: store, accounts: accounts, users: users, adminKey: adminKey, admin: admin}
}

func (e *testEnv) token(t *testing.T, addr string) string {
	t.Helper()
	tok, err := e.users.IssueToken(&models.User{WalletAddress: addr, Username: "someone"})
	require.NoError(t, err)
	return tok
}

func (e *testEnv) call(t *testing.T, method, path, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) int {
	t.Helper()
	status, _ := e.call(t, method, path, body, headers)
	return status
}

func (e *testEnv) expectDeletion(wallet string) {
	e.store.UserRepo.On("GetByWallet", mock.Anything, wallet).Return(&models.User{WalletAddress: wallet}, nil)
	e.accounts.On("Introspect", mock.Anything).Return([]services.Dependent{}, nil)
	e.accounts.On("DeleteUser", mock.Anything, wallet).Return(int64(1), nil)
}

// challenge asks for a sign-in message for addr.
func (e *testEnv) challenge(t *testing.T, addr string) string {
	t.Helper()
	status, out := e.call(t, "POST", "/api/auth/challenge", `{"walletAddress":"`+addr+`"}`, nil)
	require.Equal(t, fiber.StatusOK, status)
	return out["data"].(map[string]interface{})["message"].(string)
}

func personalSign(key *secp256k1.PrivateKey, message string) string {
	compact := ecdsa.SignCompact(key, wallet.PersonalMessageHash(message), false)
	sig := append(append([]byte{}, compact[1:]...), compact[0])
	return "0x" + hex.EncodeToString(sig)
}

func (e *testEnv) signIn(t *testing.T, addr, signature string) (int, map[string]interface{}) {
	t.Helper()
	return e.call(t, "POST", "/api/auth/verify", `{"walletAddress":"`+addr+`","signature":"`+signature+`"}`, nil)
}

func TestHealth(t *testing.T) {
	env := newEnv(t)
	assert.Equal(t, fiber.StatusOK, env.do(t, "GET", "/api/health", "", nil))
}

func TestSignIn(t *testing.T) {
	t.Run("ensure grants no session", func(t *testing.T) {
		env := newEnv(t)
		env.store.UserRepo.On("GetByWallet", mock.Anything, env.admin).Return(&models.User{WalletAddress: env.admin}, nil)

		status, out := env.call(t, "POST", "/api/user", `{"walletAddress":"`+env.admin+`"}`, nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.NotContains(t, out, "token")
	})

	t.Run("signed challenge unlocks the admin route", func(t *testing.T) {
		env := newEnv(t)
		env.expectDeletion(player)
		env.store.UserRepo.On("GetByWallet", mock.Anything, env.admin).Return(&models.User{WalletAddress: env.admin, Username: "boss"}, nil)

		message := env.challenge(t, env.admin)
		status, out := env.signIn(t, env.admin, personalSign(env.adminKey, message))
		require.Equal(t, fiber.StatusOK, status)
		token, _ := out["token"].(string)
		require.NotEmpty(t, token)

		auth := map[string]string{"Authorization": "Bearer " + token}
		assert.Equal(t, fiber.StatusOK, env.do(t, "DELETE", "/api/admin/accounts/"+player, "", auth))
	})

	t.Run("knowing the admin address is not enough", func(t *testing.T) {
		env := newEnv(t)
		intruder, err := secp256k1.GeneratePrivateKey()
		require.NoError(t, err)

		message := env.challenge(t, env.admin)
		status, out := env.signIn(t, env.admin, personalSign(intruder, message))
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.NotContains(t, out, "token")
	})

	t.Run("a signature works once", func(t *testing.T) {
		env := newEnv(t)
		env.store.UserRepo.On("GetByWallet", mock.Anything, env.admin).Return(&models.User{WalletAddress: env.admin}, nil)

		sig := personalSign(env.adminKey, env.challenge(t, env.admin))
		status, _ := env.signIn(t, env.admin, sig)
		require.Equal(t, fiber.StatusOK, status)
		status, _ = env.signIn(t, env.admin, sig)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("verify without a challenge", func(t *testing.T) {
		env := newEnv(t)
		status, _ := env.signIn(t, env.admin, personalSign(env.adminKey, "anything"))
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func TestAccountRoute(t *testing.T) {
	body := func(wallet, op string) string {
		return `{"walletAddress":"` + wallet + `","operation":"` + op + `","username":"new_name"}`
	}

	t.Run("requires a token", func(t *testing.T) {
		env := newEnv(t)
		assert.Equal(t, fiber.StatusUnauthorized, env.do(t, "POST", "/api/user/account", body(player, "update"), nil))
	})

	t.Run("rejects another wallet", func(t *testing.T) {
		env := newEnv(t)
		auth := map[string]string{"Authorization": "Bearer " + env.token(t, player)}
		assert.Equal(t, fiber.StatusForbidden, env.do(t, "POST", "/api/user/account", body(other, "update"), auth))
	})

	t.Run("renames own account", func(t *testing.T) {
		env := newEnv(t)
		env.store.UserRepo.On("GetByWallet", mock.Anything, player).Return(&models.User{WalletAddress: player, Username: "old_name"}, nil)
		env.store.UserRepo.On("UsernameTaken", mock.Anything, "new_name", player).Return(false, nil)
		env.store.UserRepo.On("UpdateUsername", mock.Anything, player, "new_name").Return(nil)

		auth := map[string]string{"Authorization": "Bearer " + env.token(t, player)}
		assert.Equal(t, fiber.StatusOK, env.do(t, "POST", "/api/user/account", body(player, "update"), auth))
	})

	t.Run("deletes own account", func(t *testing.T) {
		env := newEnv(t)
		env.expectDeletion(player)

		auth := map[string]string{"Authorization": "Bearer " + env.token(t, player)}
		assert.Equal(t, fiber.StatusOK, env.do(t, "POST", "/api/user/account", body(player, "delete"), auth))
		env.accounts.AssertExpectations(t)
	})

	t.Run("unknown operation", func(t *testing.T) {
		env := newEnv(t)
		auth := map[string]string{"Authorization": "Bearer " + env.token(t, player)}
		assert.Equal(t, fiber.StatusBadRequest, env.do(t, "POST", "/api/user/account", body(player, "merge"), auth))
	})
}

func TestAdminRoute(t *testing.T) {
	path := "/api/admin/accounts/" + player

	t.Run("no credentials", func(t *testing.T) {
		env := newEnv(t)
		assert.Equal(t, fiber.StatusUnauthorized, env.do(t, "DELETE", path, "", nil))
	})

	t.Run("player token is forbidden", func(t *testing.T) {
		env := newEnv(t)
		auth := map[string]string{"Authorization": "Bearer " + env.token(t, other)}
		assert.Equal(t, fiber.StatusForbidden, env.do(t, "DELETE", path, "", auth))
	})

	t.Run("admin token header", func(t *testing.T) {
		env := newEnv(t)
		env.expectDeletion(player)
		assert.Equal(t, fiber.StatusOK, env.do(t, "DELETE", path, "", map[string]string{"X-Admin-Token": "let-me-in"}))
	})

	t.Run("wrong admin token", func(t *testing.T) {
		env := newEnv(t)
		assert.Equal(t, fiber.StatusUnauthorized, env.do(t, "DELETE", path, "", map[string]string{"X-Admin-Token": "guess"}))
	})

	t.Run("admin wallet token", func(t *testing.T) {
		env := newEnv(t)
		env.expectDeletion(player)
		auth := map[string]string{"Authorization": "Bearer " + env.token(t, env.admin)}
		assert.Equal(t, fiber.StatusOK, env.do(t, "DELETE", path, "", auth))
	})

	t.Run("unknown account", func(t *testing.T) {
		env := newEnv(t)
		env.store.UserRepo.On("GetByWallet", mock.Anything, player).Return(nil, nil)
		assert.Equal(t, fiber.StatusNotFound, env.do(t, "DELETE", path, "", map[string]string{"X-Admin-Token": "let-me-in"}))
	})
}
