package handlers

import (
	"net/http"
)

func (h *Handler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	result, err := h.advice.GenerateInsight(r.Context(), claims.UserID)
	if err != nil {
		writeServerError(w, "Error generating AI insight", err)
		return
	}

	if result.Message != "" {
		writeMessage(w, http.StatusOK, result.Message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insight": result.Insight})
}
