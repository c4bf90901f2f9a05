package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Lina3386/financeflow/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

const (
	maxActiveChallenges = 20
	challengesPerClick  = 5
	challengeLookback   = 30 * 24 * time.Hour
	fallbackTxnCount    = 14

	insightHistorySize = 10
	insightMaxTokens   = 250
	challengeMaxTokens = 500
	completionModel    = openai.GPT3Dot5Turbo
	completionTemp     = 0.7

	systemRoleAdvice     = "You are a helpful financial assistant providing personalized financial advice based on the user's transaction history and financial metrics."
	systemRoleChallenges = "You are a helpful financial assistant providing personalized financial challenges based on the user's transaction history and financial metrics."

	// Ответы без похода к провайдеру
	msgNoHistory      = "No transaction history available to generate insights."
	msgNoTransactions = "No transactions found to generate challenges."
	msgNoUnique       = "No new unique challenges generated."
)

var numberedItemRe = regexp.MustCompile(`^\d+\.\s+(.*)`)

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type transactionReader interface {
	GetUserTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	GetUserTransactionsSince(ctx context.Context, userID int64, since time.Time) ([]models.Transaction, error)
}

type expenseReader interface {
	GetLatestExpenses(ctx context.Context, userID int64, limit int) ([]models.Expense, error)
}

type insightStore interface {
	CreateInsight(ctx context.Context, userID int64, recommendation string) (*models.AiInsight, error)
}

// InsightResult - либо сгенерированный совет, либо информационное сообщение
type InsightResult struct {
	Insight string
	Message string
}

// ChallengesResult - новые челленджи, либо информационное сообщение
type ChallengesResult struct {
	Challenges []models.Challenge
	Message    string
}

// ledgerItem - общая форма расхода и банковской транзакции для промпта
type ledgerItem struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	FromBank    bool
}

type AdviceService struct {
	completion    completionClient
	expenseRepo   expenseReader
	txnRepo       transactionReader
	insightRepo   insightStore
	challengeRepo challengeStore
}

func NewAdviceService(
	completion completionClient,
	expenseRepo expenseReader,
	txnRepo transactionReader,
	insightRepo insightStore,
	challengeRepo challengeStore,
) *AdviceService {
	return &AdviceService{
		completion:    completion,
		expenseRepo:   expenseRepo,
		txnRepo:       txnRepo,
		insightRepo:   insightRepo,
		challengeRepo: challengeRepo,
	}
}

// GenerateInsight строит совет по 10 последним записям (расходы + транзакции)
func (s *AdviceService) GenerateInsight(ctx context.Context, userID int64) (*InsightResult, error) {
	expenses, err := s.expenseRepo.GetLatestExpenses(ctx, userID, insightHistorySize)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txnRepo.GetUserTransactions(ctx, userID, insightHistorySize)
	if err != nil {
		return nil, err
	}

	items := mergeLedger(expenses, transactions)
	if len(items) == 0 {
		return &InsightResult{Message: msgNoHistory}, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	if len(items) > insightHistorySize {
		items = items[:insightHistorySize]
	}

	totalExpenses, totalIncome := ledgerTotals(items)
	combined := totalIncome.Sub(totalExpenses)
	dateSpan := daySpan(items)

	prompt := fmt.Sprintf(
		"Based on the following transaction history over the past %d days: %s, and the total expenses: $%s, total income: $%s, and net total: $%s, provide personalized financial advice. Include compliments on what the user is doing well and suggestions for improvement. Keep the response concise and under 200 words.",
		dateSpan, formatHistory(items),
		totalExpenses.StringFixed(2), totalIncome.StringFixed(2), combined.StringFixed(2),
	)

	recommendation, err := s.complete(ctx, systemRoleAdvice, prompt, insightMaxTokens)
	if err != nil {
		log.Printf("Failed to generate insight for user %d: %v", userID, err)
		return nil, err
	}

	if _, err := s.insightRepo.CreateInsight(ctx, userID, recommendation); err != nil {
		return nil, err
	}

	return &InsightResult{Insight: recommendation}, nil
}

// GenerateWeeklyChallenges просит у модели ровно столько челленджей,
// сколько осталось свободных слотов (максимум 5 за вызов, 20 активных всего)
func (s *AdviceService) GenerateWeeklyChallenges(ctx context.Context, userID int64) (*ChallengesResult, error) {
	active, err := s.challengeRepo.GetActiveChallenges(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(active))
	for _, challenge := range active {
		existing[strings.ToLower(challenge.Description)] = struct{}{}
	}

	availableSlots := maxActiveChallenges - len(active)
	if availableSlots > challengesPerClick {
		availableSlots = challengesPerClick
	}
	if availableSlots <= 0 {
		return nil, ErrChallengeLimit
	}

	since := time.Now().Add(-challengeLookback)
	transactions, err := s.txnRepo.GetUserTransactionsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	if len(transactions) == 0 {
		transactions, err = s.txnRepo.GetUserTransactions(ctx, userID, fallbackTxnCount)
		if err != nil {
			return nil, err
		}
	}

	if len(transactions) == 0 {
		return &ChallengesResult{Message: msgNoTransactions}, nil
	}

	items := mergeLedger(nil, transactions)
	totalExpenses, totalIncome := ledgerTotals(items)
	combined := totalIncome.Sub(totalExpenses)

	prompt := fmt.Sprintf(
		"Based on the following transaction history over the past week: %s, and the total expenses: $%s, total income: $%s, and net total: $%s, provide exactly %d personalized financial challenges for the user this week. Format as a numbered list.",
		formatHistory(items),
		totalExpenses.StringFixed(2), totalIncome.StringFixed(2), combined.StringFixed(2),
		availableSlots,
	)

	raw, err := s.complete(ctx, systemRoleChallenges, prompt, challengeMaxTokens)
	if err != nil {
		log.Printf("Failed to generate challenges for user %d: %v", userID, err)
		return nil, err
	}

	var unique []string
	for _, description := range parseNumberedList(raw) {
		if _, ok := existing[strings.ToLower(description)]; ok {
			continue
		}
		unique = append(unique, description)
	}
	if len(unique) == 0 {
		return &ChallengesResult{Message: msgNoUnique}, nil
	}

	if len(unique) > availableSlots {
		unique = unique[:availableSlots]
	}
	for _, description := range unique {
		if _, err := s.challengeRepo.CreateChallenge(ctx, userID, description); err != nil {
			return nil, err
		}
	}

	created, err := s.challengeRepo.GetLatestActiveChallenges(ctx, userID, availableSlots)
	if err != nil {
		return nil, err
	}

	log.Printf("Generated %d challenges for user %d", len(unique), userID)
	return &ChallengesResult{Challenges: created}, nil
}

func (s *AdviceService) complete(ctx context.Context, systemRole, prompt string, maxTokens int) (string, error) {
	resp, err := s.completion.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: completionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemRole},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: completionTemp,
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func mergeLedger(expenses []models.Expense, transactions []models.Transaction) []ledgerItem {
	items := make([]ledgerItem, 0, len(expenses)+len(transactions))
	for _, expense := range expenses {
		items = append(items, ledgerItem{
			Description: expense.Description,
			Amount:      expense.Amount,
			Date:        expense.Date,
		})
	}
	for _, txn := range transactions {
		items = append(items, ledgerItem{
			Description: txn.Description,
			Amount:      txn.Amount,
			Date:        txn.Date,
			FromBank:    true,
		})
	}
	return items
}

// ledgerTotals - расходы по положительным суммам, доход по модулю
// отрицательных банковских транзакций
func ledgerTotals(items []ledgerItem) (totalExpenses, totalIncome decimal.Decimal) {
	for _, item := range items {
		if item.Amount.IsPositive() {
			totalExpenses = totalExpenses.Add(item.Amount)
		}
		if item.FromBank && item.Amount.IsNegative() {
			totalIncome = totalIncome.Add(item.Amount.Abs())
		}
	}
	return totalExpenses, totalIncome
}

func formatHistory(items []ledgerItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s: $%s", item.Description, item.Amount.StringFixed(2)))
	}
	return strings.Join(parts, ", ")
}

// daySpan - число дней от самой старой до самой новой записи, минимум 1.
// items уже отсортированы по убыванию даты.
func daySpan(items []ledgerItem) int {
	if len(items) == 0 {
		return 1
	}
	newest := items[0].Date
	oldest := items[len(items)-1].Date
	span := int(newest.Sub(oldest).Hours()/24 + 0.999)
	if span < 1 {
		span = 1
	}
	return span
}

func parseNumberedList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if match := numberedItemRe.FindStringSubmatch(line); match != nil {
			line = strings.TrimSpace(match[1])
		}
		out = append(out, line)
	}
	return out
}
