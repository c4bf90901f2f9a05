package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - зарегистрированный пользователь
type User struct {
	ID               int64      `json:"userID"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// BankAccount - привязанный банковский счет
type BankAccount struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userID"`
	AccessToken string    `json:"-"`
	AccountName string    `json:"accountName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Transaction - банковская транзакция, создается только синхронизацией.
// Знак суммы как у провайдера: положительная = расход, отрицательная = доход.
type Transaction struct {
	ID                 int64           `json:"id"`
	AccountID          int64           `json:"accountID"`
	PlaidTransactionID string          `json:"plaidTransactionID"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Date               time.Time       `json:"date"`
}

// Expense - расход, введенный пользователем вручную
type Expense struct {
	ID           int64           `json:"expenseID"`
	UserID       int64           `json:"userID"`
	CategoryID   int64           `json:"categoryID"`
	CategoryName string          `json:"categoryName,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Currency     *string         `json:"currency,omitempty"`
	Date         time.Time       `json:"date"`
}

// Category - глобальная категория расходов
type Category struct {
	ID   int64  `json:"categoryID"`
	Name string `json:"name"`
}

// Budget - цель накопления, привязанная к счету
type Budget struct {
	ID            int64           `json:"budgetID"`
	UserID        int64           `json:"userID"`
	AccountID     int64           `json:"accountID"`
	AccountName   string          `json:"accountName,omitempty"`
	GoalName      string          `json:"goalName"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Challenge - финансовый челлендж от AI
type Challenge struct {
	ID          int64     `json:"challengeID"`
	UserID      int64     `json:"userID"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AiInsight - сохраненная рекомендация
type AiInsight struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userID"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Notification - уведомление пользователя
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"timestamp"`
}
