package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Lina3386/financeflow/internal/models"
	"github.com/Lina3386/financeflow/internal/services"
	"github.com/shopspring/decimal"
)

type createBudgetRequest struct {
	AccountID    *int64           `json:"accountID"`
	GoalName     string           `json:"goalName"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	TargetDate   string           `json:"targetDate"`
	Currency     string           `json:"currency"`
}

func (req *createBudgetRequest) Validate() (time.Time, error) {
	if req.AccountID == nil || req.GoalName == "" || req.TargetAmount == nil || req.TargetDate == "" || req.Currency == "" {
		return time.Time{}, errors.New("All fields (accountID, goalName, targetAmount, targetDate, currency) are required")
	}
	if !services.IsSupportedCurrency(req.Currency) {
		return time.Time{}, errors.New("Invalid currency code.")
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		return time.Time{}, errors.New("targetDate must be in YYYY-MM-DD format")
	}

	return targetDate, nil
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	targetDate, err := req.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budget := &models.Budget{
		UserID:       claims.UserID,
		AccountID:    *req.AccountID,
		GoalName:     req.GoalName,
		TargetAmount: *req.TargetAmount,
		TargetDate:   targetDate,
		Currency:     req.Currency,
	}

	if _, err := h.finance.CreateBudget(r.Context(), budget); err != nil {
		writeServerError(w, "Error creating budget", err)
		return
	}

	writeMessage(w, http.StatusCreated, "Budget created successfully")
}

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	budgets, err := h.finance.GetUserBudgets(r.Context(), claims.UserID)
	if err != nil {
		writeServerError(w, "Error fetching budgets", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

type updateBudgetRequest struct {
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	budgetID, err := pathID(r, "budgetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "budgetID is required")
		return
	}

	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentAmount == nil {
		writeError(w, http.StatusBadRequest, "currentAmount is required")
		return
	}

	err = h.finance.UpdateBudget(r.Context(), budgetID, claims.UserID, *req.CurrentAmount)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Budget not found or you do not have permission to update it")
		return
	}
	if err != nil {
		writeServerError(w, "Error updating budget", err)
		return
	}

	writeMessage(w, http.StatusOK, "Budget updated successfully")
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	budgetID, err := pathID(r, "budgetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "budgetID is required")
		return
	}

	err = h.finance.DeleteBudget(r.Context(), budgetID, claims.UserID)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Budget not found or you do not have permission to delete it")
		return
	}
	if err != nil {
		writeServerError(w, "Error deleting budget", err)
		return
	}

	writeMessage(w, http.StatusOK, "Budget deleted successfully")
}
