package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuizRepository handles quiz and question data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, author_id, title, subject, grade, semester, category,
	duration_minutes, question_seconds, keep_order, is_premium, created_at, updated_at`

func scanQuiz(row pgx.Row) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := row.Scan(&q.ID, &q.AuthorID, &q.Title, &q.Subject, &q.Grade, &q.Semester,
		&q.Category, &q.DurationMinutes, &q.QuestionSeconds, &q.KeepOrder, &q.IsPremium,
		&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a quiz without its questions.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// GetWithQuestions retrieves a quiz with its ordered question sequence.
func (r *QuizRepository) GetWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	questions, err := r.ListQuestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	quiz.Questions = questions
	return quiz, nil
}

// List retrieves quizzes filtered by subject, grade and category; empty
// filters match everything. Questions are not loaded.
func (r *QuizRepository) List(ctx context.Context, subject, grade, category string) ([]model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE 1=1`
	args := []any{}

	if subject != "" {
		args = append(args, subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if grade != "" {
		args = append(args, grade)
		query += fmt.Sprintf(" AND grade = $%d", len(args))
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

// ListByAuthor retrieves a teacher's quizzes.
func (r *QuizRepository) ListByAuthor(ctx context.Context, authorID int) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE author_id = $1 ORDER BY created_at DESC`,
		authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	q.ID = uuid.New()
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (id, author_id, title, subject, grade, semester, category,
		                      duration_minutes, question_seconds, keep_order, is_premium)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		q.ID, q.AuthorID, q.Title, q.Subject, q.Grade, q.Semester, q.Category,
		q.DurationMinutes, q.QuestionSeconds, q.KeepOrder, q.IsPremium,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

// Update edits a quiz in place.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET title = $1, subject = $2, grade = $3, semester = $4, category = $5,
		     duration_minutes = $6, question_seconds = $7, keep_order = $8,
		     is_premium = $9, updated_at = NOW()
		 WHERE id = $10`,
		q.Title, q.Subject, q.Grade, q.Semester, q.Category,
		q.DurationMinutes, q.QuestionSeconds, q.KeepOrder, q.IsPremium, q.ID)
	return err
}

// Delete removes a quiz and (via cascade) its questions.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// ListQuestions retrieves a quiz's questions in authored order.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, question_type, prompt, passage, options, correct_index, correct_text, order_num
		 FROM questions
		 WHERE quiz_id = $1
		 ORDER BY order_num ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var optionsRaw []byte
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Type, &q.Prompt, &q.Passage,
			&optionsRaw, &q.CorrectIndex, &q.CorrectText, &q.OrderNum); err != nil {
			return nil, err
		}
		if len(optionsRaw) > 0 {
			if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ReplaceQuestions swaps a quiz's entire question set atomically.
func (r *QuizRepository) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		q.ID = uuid.New()
		q.QuizID = quizID

		optionsRaw, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO questions (id, quiz_id, question_type, prompt, passage, options, correct_index, correct_text, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q.ID, q.QuizID, q.Type, q.Prompt, q.Passage, optionsRaw, q.CorrectIndex, q.CorrectText, q.OrderNum,
		); err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE quizzes SET updated_at = NOW() WHERE id = $1`, quizID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
