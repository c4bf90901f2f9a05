package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lina3386/financeflow/internal/models"
)

type InsightRepository struct {
	db *sql.DB
}

func NewInsightRepository(db *sql.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

func (r *InsightRepository) CreateInsight(ctx context.Context, userID int64, recommendation string) (*models.AiInsight, error) {
	insight := &models.AiInsight{
		UserID:         userID,
		Recommendation: recommendation,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO ai_insights (user_id, recommendation) VALUES ($1, $2) RETURNING id, created_at`,
		userID, recommendation).Scan(&insight.ID, &insight.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create insight: %w", err)
	}

	return insight, nil
}
