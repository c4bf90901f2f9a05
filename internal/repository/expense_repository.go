package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/shopspring/decimal"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO expenses (user_id, category_id, amount, description, currency)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, date`,
		expense.UserID, expense.CategoryID, expense.Amount, expense.Description, expense.Currency,
	).Scan(&expense.ID, &expense.Date)

	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

func (r *ExpenseRepository) GetUserExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.user_id, e.category_id, c.name, e.amount, e.description, e.currency, e.date
		 FROM expenses e
		 LEFT JOIN categories c ON e.category_id = c.id
		 WHERE e.user_id = $1
		 ORDER BY e.date DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) GetLatestExpenses(ctx context.Context, userID int64, limit int) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.user_id, e.category_id, c.name, e.amount, e.description, e.currency, e.date
		 FROM expenses e
		 LEFT JOIN categories c ON e.category_id = c.id
		 WHERE e.user_id = $1
		 ORDER BY e.date DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) SumExpenses(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`,
		userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}

// DeleteExpense удаляет расход пользователя. 0 строк = не найден или чужой.
func (r *ExpenseRepository) DeleteExpense(ctx context.Context, expenseID, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`,
		expenseID, userID,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		expense := models.Expense{}
		var categoryName sql.NullString
		err := rows.Scan(&expense.ID, &expense.UserID, &expense.CategoryID, &categoryName,
			&expense.Amount, &expense.Description, &expense.Currency, &expense.Date)
		if err != nil {
			return nil, err
		}
		expense.CategoryName = categoryName.String
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}
