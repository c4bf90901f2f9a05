package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/shopspring/decimal"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, account_id, goal_name, target_amount, target_date, currency)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, current_amount, created_at`,
		budget.UserID, budget.AccountID, budget.GoalName, budget.TargetAmount, budget.TargetDate, budget.Currency,
	).Scan(&budget.ID, &budget.CurrentAmount, &budget.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return budget, nil
}

func (r *BudgetRepository) GetUserBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.account_id, ba.account_name, b.goal_name,
		        b.target_amount, b.current_amount, b.target_date, b.currency, b.created_at
		 FROM budgets b
		 INNER JOIN bank_accounts ba ON b.account_id = ba.id
		 WHERE b.user_id = $1
		 ORDER BY b.id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		budget := models.Budget{}
		err := rows.Scan(&budget.ID, &budget.UserID, &budget.AccountID, &budget.AccountName,
			&budget.GoalName, &budget.TargetAmount, &budget.CurrentAmount,
			&budget.TargetDate, &budget.Currency, &budget.CreatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}

	return budgets, rows.Err()
}

// UpdateCurrentAmount обновляет накопленную сумму. 0 строк = не найден или чужой.
func (r *BudgetRepository) UpdateCurrentAmount(ctx context.Context, budgetID, userID int64, currentAmount decimal.Decimal) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET current_amount = $1 WHERE id = $2 AND user_id = $3`,
		currentAmount, budgetID, userID,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *BudgetRepository) DeleteBudget(ctx context.Context, budgetID, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
