package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/Lina3386/financeflow/internal/services"
	"github.com/shopspring/decimal"
)

type addExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	CategoryID  *int64           `json:"categoryID"`
	Currency    string           `json:"currency"`
}

func (req *addExpenseRequest) Validate() error {
	if req.Amount == nil || req.Description == "" || req.CategoryID == nil {
		return errors.New("Missing required fields: amount, description, categoryID")
	}
	if req.Currency != "" && !services.IsSupportedCurrency(req.Currency) {
		return errors.New("Invalid currency code.")
	}
	return nil
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense := &models.Expense{
		UserID:      claims.UserID,
		CategoryID:  *req.CategoryID,
		Amount:      *req.Amount,
		Description: req.Description,
	}
	if req.Currency != "" {
		expense.Currency = &req.Currency
	}

	_, err := h.finance.AddExpense(r.Context(), expense)
	if errors.Is(err, services.ErrInvalidCategory) {
		writeError(w, http.StatusBadRequest, "Invalid categoryID.")
		return
	}
	if err != nil {
		writeServerError(w, "Error adding expense", err)
		return
	}

	writeMessage(w, http.StatusCreated, "Expense added successfully")
}

func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwnUserID(w, r)
	if !ok {
		return
	}

	expenses, err := h.finance.GetUserExpenses(r.Context(), userID)
	if err != nil {
		writeServerError(w, "Error fetching expenses", err)
		return
	}
	if len(expenses) == 0 {
		writeMessage(w, http.StatusOK, "No expenses found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (h *Handler) GetUserMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwnUserID(w, r)
	if !ok {
		return
	}

	metrics, err := h.finance.GetUserMetrics(r.Context(), userID)
	if err != nil {
		writeServerError(w, "Error fetching user metrics", err)
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "expenseID is required")
		return
	}

	err = h.finance.DeleteExpense(r.Context(), expenseID, claims.UserID)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found or you do not have permission to delete it")
		return
	}
	if err != nil {
		writeServerError(w, "Error deleting expense", err)
		return
	}

	writeMessage(w, http.StatusOK, "Expense deleted successfully")
}

func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"currencies": services.SupportedCurrencies()})
}
