package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lina3386/financeflow/internal/client/plaid"
	"github.com/Lina3386/financeflow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserLister struct {
	ids []int64
}

func (f *fakeUserLister) GetAllUserIDs(_ context.Context) ([]int64, error) {
	return f.ids, nil
}

type fakeAccountStore struct {
	accounts map[int64][]models.BankAccount
	nextID   int64
}

func (f *fakeAccountStore) CreateAccount(_ context.Context, userID int64, accessToken, accountName string) (*models.BankAccount, error) {
	f.nextID++
	account := models.BankAccount{ID: f.nextID, UserID: userID, AccessToken: accessToken, AccountName: accountName}
	if f.accounts == nil {
		f.accounts = make(map[int64][]models.BankAccount)
	}
	f.accounts[userID] = append(f.accounts[userID], account)
	return &account, nil
}

func (f *fakeAccountStore) GetUserAccounts(_ context.Context, userID int64) ([]models.BankAccount, error) {
	return f.accounts[userID], nil
}

func (f *fakeAccountStore) DeleteAccount(_ context.Context, accountID, userID int64) (int64, error) {
	list := f.accounts[userID]
	for i, account := range list {
		if account.ID == accountID {
			f.accounts[userID] = append(list[:i], list[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeTxnStore struct {
	seen     map[string]models.Transaction
	failWith error
}

func (f *fakeTxnStore) InsertIfAbsent(_ context.Context, txn *models.Transaction) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	if f.seen == nil {
		f.seen = make(map[string]models.Transaction)
	}
	if _, ok := f.seen[txn.PlaidTransactionID]; ok {
		return false, nil
	}
	f.seen[txn.PlaidTransactionID] = *txn
	return true, nil
}

func (f *fakeTxnStore) GetUserTransactions(_ context.Context, _ int64, _ int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range f.seen {
		out = append(out, txn)
	}
	return out, nil
}

type fakeAggregator struct {
	linkToken    string
	accessToken  string
	accounts     []plaid.Account
	transactions map[string][]plaid.Transaction
	failTokens   map[string]error
}

func (f *fakeAggregator) CreateLinkToken(_ context.Context, _ int64) (string, error) {
	return f.linkToken, nil
}

func (f *fakeAggregator) ExchangePublicToken(_ context.Context, _ string) (string, string, error) {
	return f.accessToken, "item-1", nil
}

func (f *fakeAggregator) GetAccounts(_ context.Context, _ string) ([]plaid.Account, error) {
	return f.accounts, nil
}

func (f *fakeAggregator) GetTransactions(_ context.Context, accessToken string, _, _ time.Time, _ int) ([]plaid.Transaction, error) {
	if err := f.failTokens[accessToken]; err != nil {
		return nil, err
	}
	return f.transactions[accessToken], nil
}

func plaidTxn(id string, amount float64) plaid.Transaction {
	return plaid.Transaction{
		TransactionID: id,
		Amount:        decimal.NewFromFloat(amount),
		Name:          "Merchant " + id,
		Category:      []string{"Food"},
		Date:          "2026-08-20",
	}
}

func TestSyncAccountInsertsNewTransactions(t *testing.T) {
	store := &fakeTxnStore{}
	aggregator := &fakeAggregator{
		transactions: map[string][]plaid.Transaction{
			"tok": {plaidTxn("a", 12.50), plaidTxn("b", -300)},
		},
	}
	svc := NewSyncService(&fakeUserLister{}, &fakeAccountStore{}, store, aggregator)

	inserted, err := svc.SyncAccount(context.Background(), 7, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	saved := store.seen["a"]
	assert.Equal(t, int64(7), saved.AccountID)
	assert.Equal(t, "12.5", saved.Amount.String())
	assert.Equal(t, "Merchant a", saved.Description)
	assert.Equal(t, "Food", saved.Category)
}

func TestSyncAccountIdempotent(t *testing.T) {
	store := &fakeTxnStore{}
	aggregator := &fakeAggregator{
		transactions: map[string][]plaid.Transaction{
			"tok": {plaidTxn("a", 10), plaidTxn("b", 20)},
		},
	}
	svc := NewSyncService(&fakeUserLister{}, &fakeAccountStore{}, store, aggregator)

	first, err := svc.SyncAccount(context.Background(), 1, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	// Повторный прогон того же окна ничего не добавляет
	second, err := svc.SyncAccount(context.Background(), 1, "tok")
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Len(t, store.seen, 2)
}

func TestSyncAccountDefaultsEmptyFields(t *testing.T) {
	store := &fakeTxnStore{}
	aggregator := &fakeAggregator{
		transactions: map[string][]plaid.Transaction{
			"tok": {{TransactionID: "x", Amount: decimal.NewFromInt(5), Date: "2026-08-01"}},
		},
	}
	svc := NewSyncService(&fakeUserLister{}, &fakeAccountStore{}, store, aggregator)

	_, err := svc.SyncAccount(context.Background(), 1, "tok")
	require.NoError(t, err)
	assert.Equal(t, "No Description", store.seen["x"].Description)
	assert.Equal(t, "Uncategorized", store.seen["x"].Category)
}

func TestSyncAllIsolatesAccountFailures(t *testing.T) {
	accounts := &fakeAccountStore{accounts: map[int64][]models.BankAccount{
		1: {
			{ID: 1, UserID: 1, AccessToken: "bad"},
			{ID: 2, UserID: 1, AccessToken: "good"},
		},
	}}
	store := &fakeTxnStore{}
	aggregator := &fakeAggregator{
		failTokens: map[string]error{"bad": errors.New("provider down")},
		transactions: map[string][]plaid.Transaction{
			"good": {plaidTxn("a", 1), plaidTxn("b", 2)},
		},
	}
	svc := NewSyncService(&fakeUserLister{ids: []int64{1}}, accounts, store, aggregator)

	err := svc.SyncAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 failed accounts")
	// Здоровый счет обработан несмотря на ошибку первого
	assert.Len(t, store.seen, 2)
}

func TestLinkAccountSyncsEachAccount(t *testing.T) {
	accounts := &fakeAccountStore{}
	store := &fakeTxnStore{}
	aggregator := &fakeAggregator{
		accessToken: "tok",
		accounts: []plaid.Account{
			{AccountID: "acc-1", Name: "Checking"},
			{AccountID: "acc-2", Name: ""},
		},
		transactions: map[string][]plaid.Transaction{
			"tok": {plaidTxn("t1", 9.99)},
		},
	}
	svc := NewSyncService(&fakeUserLister{}, accounts, store, aggregator)

	linked, err := svc.LinkAccount(context.Background(), 5, "public-tok")
	require.NoError(t, err)
	assert.Equal(t, 2, linked)

	list := accounts.accounts[5]
	require.Len(t, list, 2)
	assert.Equal(t, "Checking", list[0].AccountName)
	assert.Equal(t, "Default Account", list[1].AccountName)
	assert.Len(t, store.seen, 1)
}

func TestUnlinkAccountNotOwned(t *testing.T) {
	accounts := &fakeAccountStore{accounts: map[int64][]models.BankAccount{
		1: {{ID: 10, UserID: 1}},
	}}
	svc := NewSyncService(&fakeUserLister{}, accounts, &fakeTxnStore{}, &fakeAggregator{})

	// Чужой userID не видит счет
	err := svc.UnlinkAccount(context.Background(), 10, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.UnlinkAccount(context.Background(), 10, 1))
	assert.Empty(t, accounts.accounts[1])
}

func TestUntilNextRun(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Minute, untilNextRun(now))

	midnight := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, untilNextRun(midnight))
}
