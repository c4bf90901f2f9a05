package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Lina3386/financeflow/internal/services"
)

type createCategoryRequest struct {
	CategoryName string `json:"categoryName"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CategoryName == "" {
		writeError(w, http.StatusBadRequest, "categoryName is required")
		return
	}

	_, err := h.finance.CreateCategory(r.Context(), req.CategoryName)
	if errors.Is(err, services.ErrCategoryExists) {
		writeError(w, http.StatusBadRequest, "Category already exists")
		return
	}
	if err != nil {
		writeServerError(w, "Error creating category", err)
		return
	}

	writeMessage(w, http.StatusCreated, "Category created successfully")
}

// GetCategories отдает глобальный список категорий; userID в пути
// оставлен ради совместимости клиента
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.finance.GetCategories(r.Context())
	if err != nil {
		writeServerError(w, "Error fetching categories", err)
		return
	}
	if len(categories) == 0 {
		writeMessage(w, http.StatusOK, "No categories available.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
