package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/payment-service/shared/models"
)

// ErrAccountNotFound is returned when an update targets an id with no row.
var ErrAccountNotFound = errors.New("account not found")

// AccountWriteRepository is the PostgreSQL account store (source of truth).
// Each Save is a single-row statement; no transaction spans two saves.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) FindByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	query := `
		SELECT id, agreement_id, number, type, amount
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.AgreementID, &account.Number, &account.Type, &account.Amount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, true, nil
}

func (r *AccountWriteRepository) FindByAgreementID(ctx context.Context, agreementID int64) ([]*models.Account, error) {
	query := `
		SELECT id, agreement_id, number, type, amount
		FROM accounts
		WHERE agreement_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, agreementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.AgreementID, &account.Number, &account.Type, &account.Amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Save inserts accounts without an id and updates the rest. The returned
// account is a copy; the argument is left untouched.
func (r *AccountWriteRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	saved := *account
	if !account.IsPersisted() {
		query := `
			INSERT INTO accounts (agreement_id, number, type, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := r.db.QueryRowContext(ctx, query,
			account.AgreementID, account.Number, account.Type, account.Amount,
		).Scan(&saved.ID); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		return &saved, nil
	}

	query := `
		UPDATE accounts
		SET agreement_id = $2, number = $3, type = $4, amount = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		account.ID, account.AgreementID, account.Number, account.Type, account.Amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrAccountNotFound
	}
	return &saved, nil
}
