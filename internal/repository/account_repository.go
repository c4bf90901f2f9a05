package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lina3386/financeflow/internal/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, userID int64, accessToken, accountName string) (*models.BankAccount, error) {
	account := &models.BankAccount{
		UserID:      userID,
		AccessToken: accessToken,
		AccountName: accountName,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO bank_accounts (user_id, access_token, account_name) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, accessToken, accountName).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetUserAccounts(ctx context.Context, userID int64) ([]models.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, access_token, account_name, created_at FROM bank_accounts WHERE user_id = $1 ORDER BY id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		account := models.BankAccount{}
		err := rows.Scan(&account.ID, &account.UserID, &account.AccessToken, &account.AccountName, &account.CreatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// DeleteAccount удаляет счет вместе с транзакциями (ON DELETE CASCADE).
// Возвращает число удаленных строк: 0 = не найден или чужой счет.
func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bank_accounts WHERE id = $1 AND user_id = $2`,
		accountID, userID,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
