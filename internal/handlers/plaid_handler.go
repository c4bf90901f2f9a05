package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Lina3386/financeflow/internal/services"
)

// pathID разбирает числовой сегмент пути
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// requireOwnUserID сверяет userID из пути с личностью вызывающего.
// Чужой userID неотличим от несуществующего.
func requireOwnUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "userID is required")
		return 0, false
	}

	if claims := callerClaims(r); claims == nil || claims.UserID != userID {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}

	return userID, true
}

func (h *Handler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	linkToken, err := h.sync.CreateLinkToken(r.Context(), claims.UserID)
	if err != nil {
		writeServerError(w, "Error creating link token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"link_token": linkToken})
}

type exchangeTokenRequest struct {
	PublicToken string `json:"public_token"`
}

func (h *Handler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req exchangeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PublicToken == "" {
		writeError(w, http.StatusBadRequest, "public_token is required")
		return
	}

	if _, err := h.sync.LinkAccount(r.Context(), claims.UserID, req.PublicToken); err != nil {
		writeServerError(w, "Error exchanging public token and saving transactions", err)
		return
	}

	writeMessage(w, http.StatusCreated, "Bank account linked successfully and transactions saved")
}

func (h *Handler) GetLinkedAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwnUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.sync.GetLinkedAccounts(r.Context(), userID)
	if err != nil {
		writeServerError(w, "Error fetching linked accounts", err)
		return
	}
	if len(accounts) == 0 {
		writeMessage(w, http.StatusOK, "No linked bank accounts found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwnUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.sync.GetLinkedAccounts(r.Context(), userID)
	if err != nil {
		writeServerError(w, "Error fetching transactions", err)
		return
	}
	if len(accounts) == 0 {
		writeMessage(w, http.StatusOK, "No linked bank account found. Please link a bank account first.")
		return
	}

	transactions, err := h.sync.GetTransactions(r.Context(), userID)
	if err != nil {
		writeServerError(w, "Error fetching transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (h *Handler) UnlinkAccount(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	accountID, err := pathID(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "accountID is required")
		return
	}

	err = h.sync.UnlinkAccount(r.Context(), accountID, claims.UserID)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Bank account not found")
		return
	}
	if err != nil {
		writeServerError(w, "Error unlinking bank account", err)
		return
	}

	writeMessage(w, http.StatusOK, "Bank account and associated transactions unlinked successfully")
}
