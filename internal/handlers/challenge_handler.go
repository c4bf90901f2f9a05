package handlers

import (
	"errors"
	"net/http"

	"github.com/Lina3386/financeflow/internal/services"
)

func (h *Handler) GenerateChallenges(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	result, err := h.advice.GenerateWeeklyChallenges(r.Context(), claims.UserID)
	if errors.Is(err, services.ErrChallengeLimit) {
		writeError(w, http.StatusBadRequest, "You already have the maximum of 20 active challenges.")
		return
	}
	if err != nil {
		writeServerError(w, "Error generating weekly challenges", err)
		return
	}

	if result.Message != "" {
		writeMessage(w, http.StatusOK, result.Message)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"challenges": result.Challenges})
}

func (h *Handler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	challenges, err := h.finance.GetUserChallenges(r.Context(), claims.UserID)
	if err != nil {
		writeServerError(w, "Error fetching challenges", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"challenges": challenges})
}

func (h *Handler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	challengeID, err := pathID(r, "challengeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "challengeID is required")
		return
	}

	err = h.finance.CompleteChallenge(r.Context(), challengeID, claims.UserID)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Challenge not found or not authorized")
		return
	}
	if err != nil {
		writeServerError(w, "Error completing challenge", err)
		return
	}

	writeMessage(w, http.StatusOK, "Challenge marked as completed")
}

func (h *Handler) DeleteAllChallenges(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	if err := h.finance.DeleteAllChallenges(r.Context(), claims.UserID); err != nil {
		writeServerError(w, "Error deleting all challenges", err)
		return
	}

	writeMessage(w, http.StatusOK, "All challenges deleted successfully")
}
