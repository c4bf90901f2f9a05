package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Lina3386/financeflow/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompletion struct {
	response string
	err      error
	calls    int
	lastReq  openai.ChatCompletionRequest
}

func (f *fakeCompletion) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.response}},
		},
	}, nil
}

type fakeExpenseReader struct {
	expenses []models.Expense
}

func (f *fakeExpenseReader) GetLatestExpenses(_ context.Context, _ int64, limit int) ([]models.Expense, error) {
	if len(f.expenses) > limit {
		return f.expenses[:limit], nil
	}
	return f.expenses, nil
}

type fakeTxnReader struct {
	recent []models.Transaction
	window []models.Transaction
}

func (f *fakeTxnReader) GetUserTransactions(_ context.Context, _ int64, limit int) ([]models.Transaction, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeTxnReader) GetUserTransactionsSince(_ context.Context, _ int64, _ time.Time) ([]models.Transaction, error) {
	return f.window, nil
}

type fakeInsightStore struct {
	saved []string
}

func (f *fakeInsightStore) CreateInsight(_ context.Context, userID int64, recommendation string) (*models.AiInsight, error) {
	f.saved = append(f.saved, recommendation)
	return &models.AiInsight{ID: int64(len(f.saved)), UserID: userID, Recommendation: recommendation}, nil
}

type fakeChallengeStore struct {
	active  []models.Challenge
	created []string
	nextID  int64
}

func (f *fakeChallengeStore) CreateChallenge(_ context.Context, userID int64, description string) (*models.Challenge, error) {
	f.nextID++
	f.created = append(f.created, description)
	challenge := models.Challenge{ID: f.nextID, UserID: userID, Description: description, CreatedAt: time.Now()}
	f.active = append(f.active, challenge)
	return &challenge, nil
}

func (f *fakeChallengeStore) GetActiveChallenges(_ context.Context, _ int64) ([]models.Challenge, error) {
	return f.active, nil
}

func (f *fakeChallengeStore) GetLatestActiveChallenges(_ context.Context, _ int64, limit int) ([]models.Challenge, error) {
	if len(f.active) > limit {
		return f.active[len(f.active)-limit:], nil
	}
	return f.active, nil
}

func (f *fakeChallengeStore) GetUserChallenges(_ context.Context, _ int64, limit int) ([]models.Challenge, error) {
	return f.GetLatestActiveChallenges(context.Background(), 0, limit)
}

func (f *fakeChallengeStore) DeleteChallenge(_ context.Context, challengeID, _ int64) (int64, error) {
	for i, challenge := range f.active {
		if challenge.ID == challengeID {
			f.active = append(f.active[:i], f.active[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeChallengeStore) DeleteAllChallenges(_ context.Context, _ int64) error {
	f.active = nil
	return nil
}

func newAdviceFixture(completion *fakeCompletion, expenses *fakeExpenseReader, txns *fakeTxnReader, insights *fakeInsightStore, challenges *fakeChallengeStore) *AdviceService {
	return NewAdviceService(completion, expenses, txns, insights, challenges)
}

func TestGenerateInsightEmptyHistory(t *testing.T) {
	completion := &fakeCompletion{response: "unused"}
	insights := &fakeInsightStore{}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, &fakeTxnReader{}, insights, &fakeChallengeStore{})

	result, err := svc.GenerateInsight(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "No transaction history available to generate insights.", result.Message)
	assert.Empty(t, result.Insight)
	assert.Zero(t, completion.calls, "provider must not be called without history")
	assert.Empty(t, insights.saved)
}

func TestGenerateInsightPersistsRecommendation(t *testing.T) {
	now := time.Now()
	completion := &fakeCompletion{response: "  Spend less on coffee.  "}
	insights := &fakeInsightStore{}
	expenses := &fakeExpenseReader{expenses: []models.Expense{
		{Description: "Coffee", Amount: decimal.NewFromFloat(4.50), Date: now},
	}}
	txns := &fakeTxnReader{recent: []models.Transaction{
		{Description: "Salary", Amount: decimal.NewFromInt(-2000), Date: now.AddDate(0, 0, -5)},
		{Description: "Groceries", Amount: decimal.NewFromFloat(55.10), Date: now.AddDate(0, 0, -2)},
	}}
	svc := newAdviceFixture(completion, expenses, txns, insights, &fakeChallengeStore{})

	result, err := svc.GenerateInsight(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Spend less on coffee.", result.Insight)
	assert.Empty(t, result.Message)
	require.Len(t, insights.saved, 1)
	assert.Equal(t, "Spend less on coffee.", insights.saved[0])

	// Итоги в промпте: расходы 59.60, доход 2000.00, сальдо 1940.40
	prompt := completion.lastReq.Messages[1].Content
	assert.Contains(t, prompt, "total expenses: $59.60")
	assert.Contains(t, prompt, "total income: $2000.00")
	assert.Contains(t, prompt, "net total: $1940.40")
}

func TestGenerateInsightTruncatesToTenItems(t *testing.T) {
	now := time.Now()
	var list []models.Transaction
	for i := 0; i < 15; i++ {
		list = append(list, models.Transaction{
			Description: fmt.Sprintf("txn-%d", i),
			Amount:      decimal.NewFromInt(1),
			Date:        now.AddDate(0, 0, -i),
		})
	}
	completion := &fakeCompletion{response: "ok"}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, &fakeTxnReader{recent: list}, &fakeInsightStore{}, &fakeChallengeStore{})

	_, err := svc.GenerateInsight(context.Background(), 1)
	require.NoError(t, err)

	prompt := completion.lastReq.Messages[1].Content
	assert.Contains(t, prompt, "txn-0")
	assert.Contains(t, prompt, "txn-9")
	assert.NotContains(t, prompt, "txn-10")
	// 10 записей по $1 = только расходы
	assert.Contains(t, prompt, "total expenses: $10.00")
}

func TestGenerateChallengesLimitReached(t *testing.T) {
	challenges := &fakeChallengeStore{}
	for i := 0; i < 20; i++ {
		challenges.active = append(challenges.active, models.Challenge{ID: int64(i + 1), Description: fmt.Sprintf("challenge %d", i)})
	}
	completion := &fakeCompletion{response: "unused"}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, &fakeTxnReader{}, &fakeInsightStore{}, challenges)

	_, err := svc.GenerateWeeklyChallenges(context.Background(), 1)
	assert.ErrorIs(t, err, ErrChallengeLimit)
	assert.Zero(t, completion.calls)
}

func TestGenerateChallengesCappedByRemainingSlots(t *testing.T) {
	challenges := &fakeChallengeStore{nextID: 100}
	for i := 0; i < 17; i++ {
		challenges.active = append(challenges.active, models.Challenge{ID: int64(i + 1), Description: fmt.Sprintf("existing %d", i)})
	}
	completion := &fakeCompletion{
		response: "1. Cook at home twice\n2. Skip one taxi ride\n3. Track every purchase\n4. No impulse buys\n5. Review subscriptions",
	}
	txns := &fakeTxnReader{window: []models.Transaction{
		{Description: "Groceries", Amount: decimal.NewFromInt(40), Date: time.Now()},
	}}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, txns, &fakeInsightStore{}, challenges)

	result, err := svc.GenerateWeeklyChallenges(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, result.Message)
	// 17 активных, свободно 3 слота
	assert.Contains(t, completion.lastReq.Messages[1].Content, "exactly 3 personalized financial challenges")
	require.Len(t, challenges.created, 3)
	assert.Equal(t, []string{"Cook at home twice", "Skip one taxi ride", "Track every purchase"}, challenges.created)
	assert.Len(t, result.Challenges, 3)
}

func TestGenerateChallengesNoTransactions(t *testing.T) {
	completion := &fakeCompletion{response: "unused"}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, &fakeTxnReader{}, &fakeInsightStore{}, &fakeChallengeStore{})

	result, err := svc.GenerateWeeklyChallenges(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "No transactions found to generate challenges.", result.Message)
	assert.Zero(t, completion.calls)
}

func TestGenerateChallengesFallbackToRecent(t *testing.T) {
	completion := &fakeCompletion{response: "1. Save more"}
	txns := &fakeTxnReader{
		window: nil,
		recent: []models.Transaction{
			{Description: "Old purchase", Amount: decimal.NewFromInt(10), Date: time.Now().AddDate(0, -3, 0)},
		},
	}
	challenges := &fakeChallengeStore{}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, txns, &fakeInsightStore{}, challenges)

	result, err := svc.GenerateWeeklyChallenges(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, completion.calls)
	assert.Equal(t, []string{"Save more"}, challenges.created)
	require.Len(t, result.Challenges, 1)
}

func TestGenerateChallengesDeduplicatesCaseInsensitive(t *testing.T) {
	challenges := &fakeChallengeStore{
		active: []models.Challenge{{ID: 1, Description: "Cook at Home Twice"}},
	}
	completion := &fakeCompletion{response: "1. cook at home twice\n2. Walk to work"}
	txns := &fakeTxnReader{window: []models.Transaction{
		{Description: "Taxi", Amount: decimal.NewFromInt(15), Date: time.Now()},
	}}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, txns, &fakeInsightStore{}, challenges)

	_, err := svc.GenerateWeeklyChallenges(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Walk to work"}, challenges.created)
}

func TestGenerateChallengesAllDuplicates(t *testing.T) {
	challenges := &fakeChallengeStore{
		active: []models.Challenge{{ID: 1, Description: "Save more"}},
	}
	completion := &fakeCompletion{response: "1. save more"}
	txns := &fakeTxnReader{window: []models.Transaction{
		{Description: "Coffee", Amount: decimal.NewFromInt(5), Date: time.Now()},
	}}
	svc := newAdviceFixture(completion, &fakeExpenseReader{}, txns, &fakeInsightStore{}, challenges)

	result, err := svc.GenerateWeeklyChallenges(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "No new unique challenges generated.", result.Message)
	assert.Empty(t, challenges.created)
}

func TestParseNumberedList(t *testing.T) {
	raw := "1. First challenge\n\n2.  Second   challenge\nNot numbered line\n10. Tenth"
	got := parseNumberedList(raw)
	assert.Equal(t, []string{"First challenge", "Second   challenge", "Not numbered line", "Tenth"}, got)
}

func TestLedgerTotalsSignConvention(t *testing.T) {
	items := []ledgerItem{
		{Amount: decimal.NewFromFloat(12.50)},                   // ручной расход
		{Amount: decimal.NewFromFloat(30.00), FromBank: true},   // банковский расход
		{Amount: decimal.NewFromFloat(-100.00), FromBank: true}, // доход
		{Amount: decimal.NewFromFloat(-5.00)},                   // отрицательный не-банковский не считается доходом
	}
	expenses, income := ledgerTotals(items)
	assert.Equal(t, "42.50", expenses.StringFixed(2))
	assert.Equal(t, "100.00", income.StringFixed(2))
}

func TestDaySpan(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 1, daySpan(nil))
	assert.Equal(t, 1, daySpan([]ledgerItem{{Date: now}}))

	sameDay := []ledgerItem{{Date: now}, {Date: now.Add(-2 * time.Hour)}}
	assert.Equal(t, 1, daySpan(sameDay))

	week := []ledgerItem{{Date: now}, {Date: now.AddDate(0, 0, -7)}}
	assert.Equal(t, 7, daySpan(week))
}
