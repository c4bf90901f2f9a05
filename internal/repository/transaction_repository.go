package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertIfAbsent вставляет транзакцию, если plaid_transaction_id еще не встречался.
// ON CONFLICT DO NOTHING закрывает гонку двух одновременных синхронизаций.
// Возвращает true, если строка действительно вставлена.
func (r *TransactionRepository) InsertIfAbsent(ctx context.Context, txn *models.Transaction) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (account_id, plaid_transaction_id, amount, description, category, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (plaid_transaction_id) DO NOTHING`,
		txn.AccountID, txn.PlaidTransactionID, txn.Amount, txn.Description, txn.Category, txn.Date,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *TransactionRepository) GetUserTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.account_id, t.plaid_transaction_id, t.amount, t.description, t.category, t.date
		 FROM transactions t
		 INNER JOIN bank_accounts b ON t.account_id = b.id
		 WHERE b.user_id = $1
		 ORDER BY t.date DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) GetUserTransactionsSince(ctx context.Context, userID int64, since time.Time) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.account_id, t.plaid_transaction_id, t.amount, t.description, t.category, t.date
		 FROM transactions t
		 INNER JOIN bank_accounts b ON t.account_id = b.id
		 WHERE b.user_id = $1 AND t.date >= $2
		 ORDER BY t.date DESC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SumPositiveAmounts - сумма всех расходных транзакций пользователя
func (r *TransactionRepository) SumPositiveAmounts(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(t.amount), 0)
		 FROM transactions t
		 INNER JOIN bank_accounts b ON t.account_id = b.id
		 WHERE b.user_id = $1 AND t.amount > 0`,
		userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return total, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		txn := models.Transaction{}
		err := rows.Scan(&txn.ID, &txn.AccountID, &txn.PlaidTransactionID,
			&txn.Amount, &txn.Description, &txn.Category, &txn.Date)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
