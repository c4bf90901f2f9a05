package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lina3386/financeflow/internal/models"
)

type ChallengeRepository struct {
	db *sql.DB
}

func NewChallengeRepository(db *sql.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) CreateChallenge(ctx context.Context, userID int64, description string) (*models.Challenge, error) {
	challenge := &models.Challenge{
		UserID:      userID,
		Description: description,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO challenges (user_id, description) VALUES ($1, $2) RETURNING id, is_completed, created_at`,
		userID, description).Scan(&challenge.ID, &challenge.IsCompleted, &challenge.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return challenge, nil
}

// GetActiveChallenges возвращает незавершенные челленджи пользователя
func (r *ChallengeRepository) GetActiveChallenges(ctx context.Context, userID int64) ([]models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, is_completed, created_at
		 FROM challenges
		 WHERE user_id = $1 AND is_completed = FALSE
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChallenges(rows)
}

func (r *ChallengeRepository) GetLatestActiveChallenges(ctx context.Context, userID int64, limit int) ([]models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, is_completed, created_at
		 FROM challenges
		 WHERE user_id = $1 AND is_completed = FALSE
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChallenges(rows)
}

func (r *ChallengeRepository) GetUserChallenges(ctx context.Context, userID int64, limit int) ([]models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, is_completed, created_at
		 FROM challenges
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChallenges(rows)
}

// DeleteChallenge удаляет челлендж при завершении. 0 строк = не найден или чужой.
func (r *ChallengeRepository) DeleteChallenge(ctx context.Context, challengeID, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM challenges WHERE id = $1 AND user_id = $2`,
		challengeID, userID,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *ChallengeRepository) DeleteAllChallenges(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE user_id = $1`, userID)
	return err
}

func scanChallenges(rows *sql.Rows) ([]models.Challenge, error) {
	var challenges []models.Challenge
	for rows.Next() {
		challenge := models.Challenge{}
		err := rows.Scan(&challenge.ID, &challenge.UserID, &challenge.Description,
			&challenge.IsCompleted, &challenge.CreatedAt)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}

	return challenges, rows.Err()
}
