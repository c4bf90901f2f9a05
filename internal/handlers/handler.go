package handlers

import (
	"net/http"

	"github.com/Lina3386/financeflow/internal/services"
	"github.com/rs/cors"
)

type Handler struct {
	auth         *services.AuthService
	finance      *services.FinanceService
	advice       *services.AdviceService
	sync         *services.SyncService
	resetLimiter *ipRateLimiter
	origins      []string
}

func New(auth *services.AuthService, finance *services.FinanceService, advice *services.AdviceService, syncService *services.SyncService, origins []string) *Handler {
	return &Handler{
		auth:         auth,
		finance:      finance,
		advice:       advice,
		sync:         syncService,
		resetLimiter: newIPRateLimiter(),
		origins:      origins,
	}
}

// Routes собирает все маршруты API за CORS и логированием
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Identity
	mux.HandleFunc("POST /api/users/register", h.Register)
	mux.HandleFunc("POST /api/users/login", h.Login)
	mux.HandleFunc("POST /api/users/request-reset", h.resetLimiter.middleware(h.RequestPasswordReset))
	mux.HandleFunc("POST /api/users/reset-password/{token}", h.resetLimiter.middleware(h.ResetPassword))
	mux.HandleFunc("GET /api/users/verify-reset-token/{token}", h.VerifyResetToken)

	// Plaid
	mux.HandleFunc("POST /api/plaid/link-token", h.authenticate(h.CreateLinkToken))
	mux.HandleFunc("POST /api/plaid/exchange-token", h.authenticate(h.ExchangeToken))
	mux.HandleFunc("GET /api/plaid/accounts/{userID}", h.authenticate(h.GetLinkedAccounts))
	mux.HandleFunc("GET /api/plaid/transactions/{userID}", h.authenticate(h.GetTransactions))
	mux.HandleFunc("DELETE /api/plaid/accounts/{accountID}", h.authenticate(h.UnlinkAccount))

	// Expenses
	mux.HandleFunc("POST /api/expenses/create", h.authenticate(h.AddExpense))
	mux.HandleFunc("GET /api/expenses/user/{userID}", h.authenticate(h.GetExpenses))
	mux.HandleFunc("GET /api/expenses/metrics/{userID}", h.authenticate(h.GetUserMetrics))
	mux.HandleFunc("GET /api/expenses/currency", h.authenticate(h.GetCurrencies))
	mux.HandleFunc("DELETE /api/expenses/{expenseID}", h.authenticate(h.DeleteExpense))

	// Budgets
	mux.HandleFunc("POST /api/budgets/create", h.authenticate(h.CreateBudget))
	mux.HandleFunc("GET /api/budgets", h.authenticate(h.GetBudgets))
	mux.HandleFunc("PUT /api/budgets/{budgetID}", h.authenticate(h.UpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{budgetID}", h.authenticate(h.DeleteBudget))

	// Challenges
	mux.HandleFunc("POST /api/challenges/generate", h.authenticate(h.GenerateChallenges))
	mux.HandleFunc("GET /api/challenges", h.authenticate(h.GetChallenges))
	mux.HandleFunc("PUT /api/challenges/{challengeID}/complete", h.authenticate(h.CompleteChallenge))
	mux.HandleFunc("DELETE /api/challenges/delete-all", h.authenticate(h.DeleteAllChallenges))

	// AI insights
	mux.HandleFunc("POST /api/ai-insights/generate", h.authenticate(h.GenerateInsight))

	// Categories
	mux.HandleFunc("POST /api/categories/create", h.authenticate(h.CreateCategory))
	mux.HandleFunc("GET /api/categories/user/{userID}", h.authenticate(h.GetCategories))

	// Notifications
	mux.HandleFunc("POST /api/notifications/send", h.authenticate(h.SendNotification))
	mux.HandleFunc("GET /api/notifications/user/{userID}", h.authenticate(h.GetNotifications))

	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return logRequests(corsMiddleware.Handler(mux))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
