package app

import (
	"context"
	"log"

	"github.com/Lina3386/financeflow/internal/client/db"
	"github.com/Lina3386/financeflow/internal/client/db/pg"
	"github.com/Lina3386/financeflow/internal/client/mail"
	"github.com/Lina3386/financeflow/internal/client/plaid"
	"github.com/Lina3386/financeflow/internal/closer"
	"github.com/Lina3386/financeflow/internal/config"
	"github.com/Lina3386/financeflow/internal/config/env"
	"github.com/Lina3386/financeflow/internal/handlers"
	"github.com/Lina3386/financeflow/internal/repository"
	"github.com/Lina3386/financeflow/internal/services"
	openai "github.com/sashabaranov/go-openai"
)

type ServiceProvider struct {
	pgConfig     config.PGConfig
	httpConfig   config.HTTPConfig
	jwtConfig    config.JWTConfig
	plaidConfig  config.PlaidConfig
	openaiConfig config.OpenAIConfig
	smtpConfig   config.SMTPConfig
	appConfig    config.AppConfig

	dbClient db.Client

	// Clients
	plaidClient  *plaid.Client
	openaiClient *openai.Client
	mailSender   *mail.Sender

	// Repositories
	userRepo         *repository.UserRepository
	accountRepo      *repository.AccountRepository
	transactionRepo  *repository.TransactionRepository
	expenseRepo      *repository.ExpenseRepository
	categoryRepo     *repository.CategoryRepository
	budgetRepo       *repository.BudgetRepository
	challengeRepo    *repository.ChallengeRepository
	insightRepo      *repository.InsightRepository
	notificationRepo *repository.NotificationRepository

	// Services
	authService    *services.AuthService
	financeService *services.FinanceService
	adviceService  *services.AdviceService
	syncService    *services.SyncService
	scheduler      *services.Scheduler

	// Handlers
	handler *handlers.Handler
}

func NewServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (s *ServiceProvider) PGConfig() config.PGConfig {
	if s.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get pg config: %v", err)
		}
		s.pgConfig = cfg
	}
	return s.pgConfig
}

func (s *ServiceProvider) HTTPConfig() config.HTTPConfig {
	if s.httpConfig == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get http config: %v", err)
		}
		s.httpConfig = cfg
	}
	return s.httpConfig
}

func (s *ServiceProvider) JWTConfig() config.JWTConfig {
	if s.jwtConfig == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get jwt config: %v", err)
		}
		s.jwtConfig = cfg
	}
	return s.jwtConfig
}

func (s *ServiceProvider) PlaidConfig() config.PlaidConfig {
	if s.plaidConfig == nil {
		cfg, err := env.NewPlaidConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get plaid config: %v", err)
		}
		s.plaidConfig = cfg
	}
	return s.plaidConfig
}

func (s *ServiceProvider) OpenAIConfig() config.OpenAIConfig {
	if s.openaiConfig == nil {
		cfg, err := env.NewOpenAIConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get openai config: %v", err)
		}
		s.openaiConfig = cfg
	}
	return s.openaiConfig
}

func (s *ServiceProvider) SMTPConfig() config.SMTPConfig {
	if s.smtpConfig == nil {
		cfg, err := env.NewSMTPConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get smtp config: %v", err)
		}
		s.smtpConfig = cfg
	}
	return s.smtpConfig
}

func (s *ServiceProvider) AppConfig() config.AppConfig {
	if s.appConfig == nil {
		cfg, err := env.NewAppConfig()
		if err != nil {
			log.Fatalf("❌ Failed to get app config: %v", err)
		}
		s.appConfig = cfg
	}
	return s.appConfig
}

func (s *ServiceProvider) DBClient(ctx context.Context) db.Client {
	if s.dbClient == nil {
		client, err := pg.New(ctx, s.PGConfig().DSN())
		if err != nil {
			log.Fatalf("❌ Failed to connect to DB: %v", err)
		}
		closer.Add(client.Close)
		s.dbClient = client
	}
	return s.dbClient
}

func (s *ServiceProvider) PlaidClient() *plaid.Client {
	if s.plaidClient == nil {
		cfg := s.PlaidConfig()
		s.plaidClient = plaid.New(cfg.BaseURL(), cfg.ClientID(), cfg.Secret())
	}
	return s.plaidClient
}

func (s *ServiceProvider) OpenAIClient() *openai.Client {
	if s.openaiClient == nil {
		s.openaiClient = openai.NewClient(s.OpenAIConfig().APIKey())
	}
	return s.openaiClient
}

func (s *ServiceProvider) MailSender() *mail.Sender {
	if s.mailSender == nil {
		cfg := s.SMTPConfig()
		s.mailSender = mail.New(cfg.Host(), cfg.Port(), cfg.Username(), cfg.Password())
	}
	return s.mailSender
}

func (s *ServiceProvider) UserRepo(ctx context.Context) *repository.UserRepository {
	if s.userRepo == nil {
		s.userRepo = repository.NewUserRepository(s.DBClient(ctx).DB())
	}
	return s.userRepo
}

func (s *ServiceProvider) AccountRepo(ctx context.Context) *repository.AccountRepository {
	if s.accountRepo == nil {
		s.accountRepo = repository.NewAccountRepository(s.DBClient(ctx).DB())
	}
	return s.accountRepo
}

func (s *ServiceProvider) TransactionRepo(ctx context.Context) *repository.TransactionRepository {
	if s.transactionRepo == nil {
		s.transactionRepo = repository.NewTransactionRepository(s.DBClient(ctx).DB())
	}
	return s.transactionRepo
}

func (s *ServiceProvider) ExpenseRepo(ctx context.Context) *repository.ExpenseRepository {
	if s.expenseRepo == nil {
		s.expenseRepo = repository.NewExpenseRepository(s.DBClient(ctx).DB())
	}
	return s.expenseRepo
}

func (s *ServiceProvider) CategoryRepo(ctx context.Context) *repository.CategoryRepository {
	if s.categoryRepo == nil {
		s.categoryRepo = repository.NewCategoryRepository(s.DBClient(ctx).DB())
	}
	return s.categoryRepo
}

func (s *ServiceProvider) BudgetRepo(ctx context.Context) *repository.BudgetRepository {
	if s.budgetRepo == nil {
		s.budgetRepo = repository.NewBudgetRepository(s.DBClient(ctx).DB())
	}
	return s.budgetRepo
}

func (s *ServiceProvider) ChallengeRepo(ctx context.Context) *repository.ChallengeRepository {
	if s.challengeRepo == nil {
		s.challengeRepo = repository.NewChallengeRepository(s.DBClient(ctx).DB())
	}
	return s.challengeRepo
}

func (s *ServiceProvider) InsightRepo(ctx context.Context) *repository.InsightRepository {
	if s.insightRepo == nil {
		s.insightRepo = repository.NewInsightRepository(s.DBClient(ctx).DB())
	}
	return s.insightRepo
}

func (s *ServiceProvider) NotificationRepo(ctx context.Context) *repository.NotificationRepository {
	if s.notificationRepo == nil {
		s.notificationRepo = repository.NewNotificationRepository(s.DBClient(ctx).DB())
	}
	return s.notificationRepo
}

func (s *ServiceProvider) AuthService(ctx context.Context) *services.AuthService {
	if s.authService == nil {
		s.authService = services.NewAuthService(
			s.UserRepo(ctx),
			s.MailSender(),
			s.JWTConfig().Secret(),
			s.JWTConfig().TokenTTL(),
			s.AppConfig().FrontendBaseURL(),
		)
	}
	return s.authService
}

func (s *ServiceProvider) FinanceService(ctx context.Context) *services.FinanceService {
	if s.financeService == nil {
		s.financeService = services.NewFinanceService(
			s.ExpenseRepo(ctx),
			s.CategoryRepo(ctx),
			s.BudgetRepo(ctx),
			s.ChallengeRepo(ctx),
			s.NotificationRepo(ctx),
			s.TransactionRepo(ctx),
		)
	}
	return s.financeService
}

func (s *ServiceProvider) AdviceService(ctx context.Context) *services.AdviceService {
	if s.adviceService == nil {
		s.adviceService = services.NewAdviceService(
			s.OpenAIClient(),
			s.ExpenseRepo(ctx),
			s.TransactionRepo(ctx),
			s.InsightRepo(ctx),
			s.ChallengeRepo(ctx),
		)
	}
	return s.adviceService
}

func (s *ServiceProvider) SyncService(ctx context.Context) *services.SyncService {
	if s.syncService == nil {
		s.syncService = services.NewSyncService(
			s.UserRepo(ctx),
			s.AccountRepo(ctx),
			s.TransactionRepo(ctx),
			s.PlaidClient(),
		)
	}
	return s.syncService
}

func (s *ServiceProvider) Scheduler(ctx context.Context) *services.Scheduler {
	if s.scheduler == nil {
		s.scheduler = services.NewScheduler(s.SyncService(ctx))
	}
	return s.scheduler
}

func (s *ServiceProvider) Handler(ctx context.Context) *handlers.Handler {
	if s.handler == nil {
		s.handler = handlers.New(
			s.AuthService(ctx),
			s.FinanceService(ctx),
			s.AdviceService(ctx),
			s.SyncService(ctx),
			s.AppConfig().AllowedOrigins(),
		)
	}
	return s.handler
}
