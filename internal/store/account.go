package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/foodorder/apiserver/types"
)

// AccountRepository handles persistence for buyers and sellers. The two
// kinds share a shape and differ only by table.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func accountTable(kind types.Role) (string, error) {
	switch kind {
	case types.RoleBuyer:
		return "buyers", nil
	case types.RoleSeller:
		return "sellers", nil
	default:
		return "", fmt.Errorf("unknown account kind %q", kind)
	}
}

func (r *AccountRepository) GetByUsername(ctx context.Context, kind types.Role, username string) (types.Account, error) {
	table, err := accountTable(kind)
	if err != nil {
		return types.Account{}, err
	}

	query := `
		SELECT id, name, username, password, created_at
		FROM ` + table + `
		WHERE username = $1`
	var account types.Account
	err = r.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID,
		&account.Name,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, kind types.Role, account types.Account) (types.Account, error) {
	table, err := accountTable(kind)
	if err != nil {
		return types.Account{}, err
	}
	account.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO ` + table + ` (name, username, password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Name,
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
	).Scan(&account.ID); err != nil {
		return types.Account{}, err
	}
	return account, nil
}
