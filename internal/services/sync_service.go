package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Lina3386/financeflow/internal/client/plaid"
	"github.com/Lina3386/financeflow/internal/models"
)

const (
	syncWindowDays = 60
	syncPageSize   = 500

	// Бюджет времени на один счет, чтобы ночной прогон не завис
	accountSyncTimeout = 2 * time.Minute

	transactionsPageSize = 60
)

type userLister interface {
	GetAllUserIDs(ctx context.Context) ([]int64, error)
}

type accountStore interface {
	CreateAccount(ctx context.Context, userID int64, accessToken, accountName string) (*models.BankAccount, error)
	GetUserAccounts(ctx context.Context, userID int64) ([]models.BankAccount, error)
	DeleteAccount(ctx context.Context, accountID, userID int64) (int64, error)
}

type transactionStore interface {
	InsertIfAbsent(ctx context.Context, txn *models.Transaction) (bool, error)
	GetUserTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
}

type aggregatorClient interface {
	CreateLinkToken(ctx context.Context, userID int64) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error)
	GetAccounts(ctx context.Context, accessToken string) ([]plaid.Account, error)
	GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time, count int) ([]plaid.Transaction, error)
}

// SyncService подтягивает банковские транзакции из агрегатора и
// дозаписывает новые, не создавая дубликатов.
type SyncService struct {
	userRepo    userLister
	accountRepo accountStore
	txnRepo     transactionStore
	aggregator  aggregatorClient
}

func NewSyncService(userRepo userLister, accountRepo accountStore, txnRepo transactionStore, aggregator aggregatorClient) *SyncService {
	return &SyncService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		aggregator:  aggregator,
	}
}

// SyncAll - ночной прогон: все пользователи, все счета, строго
// последовательно. Ошибка одного счета не прерывает остальные.
func (s *SyncService) SyncAll(ctx context.Context) error {
	userIDs, err := s.userRepo.GetAllUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var failed int
	var inserted int
	for _, userID := range userIDs {
		accounts, err := s.accountRepo.GetUserAccounts(ctx, userID)
		if err != nil {
			log.Printf("Sync: failed to list accounts for user %d: %v", userID, err)
			failed++
			continue
		}

		for _, account := range accounts {
			n, err := s.SyncAccount(ctx, account.ID, account.AccessToken)
			if err != nil {
				log.Printf("Sync: account %d (user %d) failed: %v", account.ID, userID, err)
				failed++
				continue
			}
			inserted += n
		}
	}

	log.Printf("Sync finished: %d new transactions, %d failed accounts", inserted, failed)
	if failed > 0 {
		return fmt.Errorf("sync completed with %d failed accounts", failed)
	}
	return nil
}

// SyncAccount забирает окно в 60 дней (одна страница до 500 записей)
// и вставляет транзакции, которых еще нет. Возвращает число вставленных.
func (s *SyncService) SyncAccount(ctx context.Context, accountID int64, accessToken string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, accountSyncTimeout)
	defer cancel()

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -syncWindowDays)

	transactions, err := s.aggregator.GetTransactions(ctx, accessToken, startDate, endDate, syncPageSize)
	if err != nil {
		return 0, err
	}

	var inserted int
	for _, txn := range transactions {
		date, err := txn.ParsedDate()
		if err != nil {
			return inserted, fmt.Errorf("bad transaction date %q: %w", txn.Date, err)
		}

		description := txn.Name
		if description == "" {
			description = "No Description"
		}
		category := "Uncategorized"
		if len(txn.Category) > 0 {
			category = txn.Category[0]
		}

		ok, err := s.txnRepo.InsertIfAbsent(ctx, &models.Transaction{
			AccountID:          accountID,
			PlaidTransactionID: txn.TransactionID,
			Amount:             txn.Amount,
			Description:        description,
			Category:           category,
			Date:               date,
		})
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}

	return inserted, nil
}

func (s *SyncService) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	return s.aggregator.CreateLinkToken(ctx, userID)
}

// LinkAccount обменивает public token, сохраняет счета и сразу
// синхронизирует транзакции по каждому из них
func (s *SyncService) LinkAccount(ctx context.Context, userID int64, publicToken string) (int, error) {
	accessToken, _, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return 0, err
	}

	accounts, err := s.aggregator.GetAccounts(ctx, accessToken)
	if err != nil {
		return 0, err
	}

	var linked int
	for _, account := range accounts {
		name := account.Name
		if name == "" {
			name = "Default Account"
		}

		created, err := s.accountRepo.CreateAccount(ctx, userID, accessToken, name)
		if err != nil {
			return linked, err
		}

		if _, err := s.SyncAccount(ctx, created.ID, accessToken); err != nil {
			return linked, err
		}
		linked++
	}

	return linked, nil
}

func (s *SyncService) GetLinkedAccounts(ctx context.Context, userID int64) ([]models.BankAccount, error) {
	return s.accountRepo.GetUserAccounts(ctx, userID)
}

func (s *SyncService) GetTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.txnRepo.GetUserTransactions(ctx, userID, transactionsPageSize)
}

func (s *SyncService) UnlinkAccount(ctx context.Context, accountID, userID int64) error {
	affected, err := s.accountRepo.DeleteAccount(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Printf("Bank account %d unlinked by user %d", accountID, userID)
	return nil
}
