package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/wallet"
)

// TableResult is one dependent table touched while deleting an account.
type TableResult struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Action string `json:"action"`
	Rows   int64  `json:"rows"`
}

// DeletionReport summarizes an account deletion.
type DeletionReport struct {
	WalletAddress string        `json:"walletAddress"`
	Tables        []TableResult `json:"tables"`
	Skipped       []string      `json:"skipped"`
	RowsRemoved   int64         `json:"rowsRemoved"`
}

type AccountService struct {
	store    Store
	accounts AccountRepository
	declared []Dependent
	cache    cache.LeaderboardCache
}

func NewAccountService(store Store, accounts AccountRepository, declared []Dependent, c cache.LeaderboardCache) *AccountService {
	return &AccountService{store: store, accounts: accounts, declared: declared, cache: c}
}

func (a CascadeAction) String() string {
	if a == CascadeNullify {
		return "nullify"
	}
	return "delete"
}

// dependents merges the declared relationships with the ones found in the
// live schema. Declared entries come first and are never dropped.
func (s *AccountService) dependents(ctx context.Context) []Dependent {
	deps := make([]Dependent, 0, len(s.declared))
	seen := make(map[string]bool, len(s.declared))
	for _, d := range s.declared {
		deps = append(deps, d)
		seen[d.Table+"."+d.Column] = true
	}

	found, err := s.accounts.Introspect(ctx)
	if err != nil {
		slog.Warn("schema introspection failed, using declared dependents", "error", err.Error())
		return deps
	}
	for _, d := range found {
		if seen[d.Table+"."+d.Column] {
			continue
		}
		seen[d.Table+"."+d.Column] = true
		deps = append(deps, d)
	}
	return deps
}

// DeleteAccount removes every row referencing the wallet, then the user.
// A failing dependent table is logged and skipped; only the final user
// delete can fail the call.
func (s *AccountService) DeleteAccount(ctx context.Context, addr string) (*DeletionReport, error) {
	walletAddr, err := wallet.Normalize(addr)
	if err != nil {
		return nil, invalidWallet(err)
	}
	user, err := s.store.Users().GetByWallet(ctx, walletAddr)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	report := &DeletionReport{WalletAddress: walletAddr, Tables: []TableResult{}, Skipped: []string{}}
	for _, dep := range s.dependents(ctx) {
		n, err := s.accounts.Apply(ctx, dep, walletAddr)
		if err != nil {
			slog.Error("account deletion step failed",
				"wallet_address", walletAddr,
				"action", "delete_account",
				"table", dep.Table,
				"error", err.Error(),
			)
			report.Skipped = append(report.Skipped, dep.Table)
			continue
		}
		report.Tables = append(report.Tables, TableResult{
			Table:  dep.Table,
			Column: dep.Column,
			Action: dep.Action.String(),
			Rows:   n,
		})
		if dep.Action == CascadeDelete {
			report.RowsRemoved += n
		}
	}

	n, err := s.accounts.DeleteUser(ctx, walletAddr)
	if err != nil {
		return nil, storeError("delete user", err)
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}
	report.RowsRemoved += n

	slog.Info("account deleted", "wallet_address", walletAddr, "rows_removed", report.RowsRemoved, "skipped", len(report.Skipped))
	s.cache.Invalidate(ctx)
	return report, nil
}
