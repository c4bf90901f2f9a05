package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/Lina3386/financeflow/internal/repository"
	"github.com/shopspring/decimal"
)

const challengePageSize = 20

type expenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	GetUserExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	GetLatestExpenses(ctx context.Context, userID int64, limit int) ([]models.Expense, error)
	SumExpenses(ctx context.Context, userID int64) (decimal.Decimal, error)
	DeleteExpense(ctx context.Context, expenseID, userID int64) (int64, error)
}

type categoryStore interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
}

type budgetStore interface {
	CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	UpdateCurrentAmount(ctx context.Context, budgetID, userID int64, currentAmount decimal.Decimal) (int64, error)
	DeleteBudget(ctx context.Context, budgetID, userID int64) (int64, error)
}

type challengeStore interface {
	CreateChallenge(ctx context.Context, userID int64, description string) (*models.Challenge, error)
	GetActiveChallenges(ctx context.Context, userID int64) ([]models.Challenge, error)
	GetLatestActiveChallenges(ctx context.Context, userID int64, limit int) ([]models.Challenge, error)
	GetUserChallenges(ctx context.Context, userID int64, limit int) ([]models.Challenge, error)
	DeleteChallenge(ctx context.Context, challengeID, userID int64) (int64, error)
	DeleteAllChallenges(ctx context.Context, userID int64) error
}

type notificationStore interface {
	CreateNotification(ctx context.Context, userID int64, message string) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
}

type transactionSums interface {
	SumPositiveAmounts(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// Metrics - сводные показатели пользователя
type Metrics struct {
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalTransactions decimal.Decimal `json:"totalTransactions"`
	CombinedTotal     decimal.Decimal `json:"combinedTotal"`
}

type FinanceService struct {
	expenseRepo      expenseStore
	categoryRepo     categoryStore
	budgetRepo       budgetStore
	challengeRepo    challengeStore
	notificationRepo notificationStore
	transactionRepo  transactionSums
}

func NewFinanceService(
	expenseRepo expenseStore,
	categoryRepo categoryStore,
	budgetRepo budgetStore,
	challengeRepo challengeStore,
	notificationRepo notificationStore,
	transactionRepo transactionSums,
) *FinanceService {
	return &FinanceService{
		expenseRepo:      expenseRepo,
		categoryRepo:     categoryRepo,
		budgetRepo:       budgetRepo,
		challengeRepo:    challengeRepo,
		notificationRepo: notificationRepo,
		transactionRepo:  transactionRepo,
	}
}

// AddExpense проверяет существование категории и создает расход
func (s *FinanceService) AddExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	exists, err := s.categoryRepo.CategoryExists(ctx, expense.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrInvalidCategory
	}

	created, err := s.expenseRepo.CreateExpense(ctx, expense)
	if err != nil {
		log.Printf("Failed to create expense: %v", err)
		return nil, err
	}
	log.Printf("Expense created: user=%d, amount=%s", created.UserID, created.Amount.StringFixed(2))
	return created, nil
}

func (s *FinanceService) GetUserExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	return s.expenseRepo.GetUserExpenses(ctx, userID)
}

func (s *FinanceService) DeleteExpense(ctx context.Context, expenseID, userID int64) error {
	affected, err := s.expenseRepo.DeleteExpense(ctx, expenseID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserMetrics считает суммарные расходы, расходные транзакции и их сумму
func (s *FinanceService) GetUserMetrics(ctx context.Context, userID int64) (*Metrics, error) {
	totalExpenses, err := s.expenseRepo.SumExpenses(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalTransactions, err := s.transactionRepo.SumPositiveAmounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TotalExpenses:     totalExpenses,
		TotalTransactions: totalTransactions,
		CombinedTotal:     totalExpenses.Add(totalTransactions),
	}, nil
}

func (s *FinanceService) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	created, err := s.budgetRepo.CreateBudget(ctx, budget)
	if err != nil {
		log.Printf("Failed to create budget: %v", err)
		return nil, err
	}
	log.Printf("Budget created: user=%d, goal=%s", created.UserID, created.GoalName)
	return created, nil
}

func (s *FinanceService) GetUserBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	return s.budgetRepo.GetUserBudgets(ctx, userID)
}

func (s *FinanceService) UpdateBudget(ctx context.Context, budgetID, userID int64, currentAmount decimal.Decimal) error {
	affected, err := s.budgetRepo.UpdateCurrentAmount(ctx, budgetID, userID, currentAmount)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, budgetID, userID int64) error {
	affected, err := s.budgetRepo.DeleteBudget(ctx, budgetID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCategory нормализует имя и создает глобальную категорию.
// Дубликат без учета регистра отклоняет уникальный индекс.
func (s *FinanceService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category, err := s.categoryRepo.CreateCategory(ctx, capitalizeWords(strings.TrimSpace(name)))
	if errors.Is(err, repository.ErrDuplicateCategory) {
		return nil, ErrCategoryExists
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Category created: %s", category.Name)
	return category, nil
}

func (s *FinanceService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAllCategories(ctx)
}

func (s *FinanceService) GetUserChallenges(ctx context.Context, userID int64) ([]models.Challenge, error) {
	return s.challengeRepo.GetUserChallenges(ctx, userID, challengePageSize)
}

func (s *FinanceService) CompleteChallenge(ctx context.Context, challengeID, userID int64) error {
	affected, err := s.challengeRepo.DeleteChallenge(ctx, challengeID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FinanceService) DeleteAllChallenges(ctx context.Context, userID int64) error {
	return s.challengeRepo.DeleteAllChallenges(ctx, userID)
}

func (s *FinanceService) SendNotification(ctx context.Context, userID int64, message string) (*models.Notification, error) {
	return s.notificationRepo.CreateNotification(ctx, userID, message)
}

func (s *FinanceService) GetUserNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.notificationRepo.GetUserNotifications(ctx, userID)
}

func capitalizeWords(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
