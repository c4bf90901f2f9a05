package handlers

import (
	"encoding/json"
	"net/http"
)

type sendNotificationRequest struct {
	Message string `json:"message"`
}

func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(r)

	var req sendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if _, err := h.finance.SendNotification(r.Context(), claims.UserID, req.Message); err != nil {
		writeServerError(w, "Error sending notification", err)
		return
	}

	writeMessage(w, http.StatusCreated, "Notification sent successfully")
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwnUserID(w, r)
	if !ok {
		return
	}

	notifications, err := h.finance.GetUserNotifications(r.Context(), userID)
	if err != nil {
		writeServerError(w, "Error fetching notifications", err)
		return
	}
	if len(notifications) == 0 {
		writeMessage(w, http.StatusOK, "No notifications found for this user.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}
