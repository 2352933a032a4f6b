package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/services"
	"gorm.io/gorm"
)

// Dependents is the declared set of relationships pointing at
// users.wallet_address. Introspection may add tables; it never removes these.
var Dependents = []services.Dependent{
	{Table: "activity_logs", Column: "wallet_address", Action: services.CascadeDelete},
	{Table: "pet_states", Column: "wallet_address", Action: services.CascadeDelete},
	{Table: "users", Column: "referred_by", Action: services.CascadeNullify},
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Introspect(ctx context.Context) ([]services.Dependent, error) {
	var tables []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT table_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND column_name = 'wallet_address'
		  AND table_name <> 'users'
		ORDER BY table_name
	`).Scan(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("failed to introspect schema: %w", err)
	}

	deps := make([]services.Dependent, 0, len(tables))
	for _, t := range tables {
		deps = append(deps, services.Dependent{Table: t, Column: "wallet_address", Action: services.CascadeDelete})
	}
	return deps, nil
}

func (r *AccountRepository) Apply(ctx context.Context, dep services.Dependent, wallet string) (int64, error) {
	table := r.db.Statement.Quote(dep.Table)
	column := r.db.Statement.Quote(dep.Column)

	var result *gorm.DB
	switch dep.Action {
	case services.CascadeNullify:
		result = r.db.WithContext(ctx).Exec(
			fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", table, column, column), wallet)
	default:
		result = r.db.WithContext(ctx).Exec(
			fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column), wallet)
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear %s.%s: %w", dep.Table, dep.Column, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *AccountRepository) DeleteUser(ctx context.Context, wallet string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM users WHERE wallet_address = ?`, wallet)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete user %s: %w", wallet, result.Error)
	}
	return result.RowsAffected, nil
}
