package repository

import (
	"context"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository handles quiz result data access. Results are written by
// the persistence worker; this repository covers the read paths.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// ListByUser retrieves a student's result history, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID, limit int) ([]model.QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, user_id, quiz_id, quiz_title, subject, score, total,
		        percentage, passed, xp, finished_at
		 FROM quiz_results
		 WHERE user_id = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var qr model.QuizResult
		if err := rows.Scan(&qr.ID, &qr.SessionID, &qr.UserID, &qr.QuizID, &qr.QuizTitle,
			&qr.Subject, &qr.Score, &qr.Total, &qr.Percentage, &qr.Passed, &qr.XP, &qr.FinishedAt); err != nil {
			return nil, err
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

// CountByQuiz returns how many attempts were recorded for a quiz.
func (r *ResultRepository) CountByQuiz(ctx context.Context, quizID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE quiz_id = $1`, quizID).Scan(&count)
	return count, err
}
