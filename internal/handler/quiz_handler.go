package handler

import (
	"errors"
	"net/http"

	"github.com/brightpath/quizhall-backend/internal/middleware"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/response"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/brightpath/quizhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// QuizHandler handles the teacher authoring endpoints.
type QuizHandler struct {
	quizService   *service.QuizService
	resultService *service.ResultService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, resultService *service.ResultService) *QuizHandler {
	return &QuizHandler{quizService: quizService, resultService: resultService}
}

// List godoc
// GET /api/v1/teacher/quizzes
// Lists the authenticated teacher's quizzes.
func (h *QuizHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	quizzes, err := h.quizService.ListByAuthor(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Get godoc
// GET /api/v1/teacher/quizzes/:id
// Returns one quiz with its full question set, answer keys included.
func (h *QuizHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetWithQuestions(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	claims := middleware.GetClaims(c)
	if quiz.AuthorID != claims.UserID {
		response.Fail(c, http.StatusForbidden, response.ErrNotQuizAuthor)
		return
	}

	count, err := h.resultService.AttemptCount(c.Request.Context(), id.String())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"quiz":          quiz,
		"attempt_count": count,
	})
}

// Create godoc
// POST /api/v1/teacher/quizzes
// Creates a new quiz shell without questions.
func (h *QuizHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	quiz := &model.Quiz{
		AuthorID:        claims.UserID,
		Title:           req.Title,
		Subject:         req.Subject,
		Grade:           req.Grade,
		Semester:        req.Semester,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		QuestionSeconds: req.QuestionSeconds,
		KeepOrder:       req.KeepOrder,
		IsPremium:       req.IsPremium,
	}
	if err := h.quizService.Create(c.Request.Context(), quiz); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// Update godoc
// PUT /api/v1/teacher/quizzes/:id
// Edits quiz metadata. Author-only.
func (h *QuizHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	existing, err := h.quizService.GetWithQuestions(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	applyQuizUpdate(existing, &req)
	if err := h.quizService.Update(c.Request.Context(), claims.UserID, existing); err != nil {
		if errors.Is(err, service.ErrNotQuizAuthor) {
			response.Fail(c, http.StatusForbidden, response.ErrNotQuizAuthor)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": existing})
}

// Delete godoc
// DELETE /api/v1/teacher/quizzes/:id
// Deletes a quiz and its questions. Author-only.
func (h *QuizHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.quizService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotQuizAuthor):
			response.Fail(c, http.StatusForbidden, response.ErrNotQuizAuthor)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ReplaceQuestions godoc
// PUT /api/v1/teacher/quizzes/:id/questions
// Replaces the quiz's question set atomically. Author-only.
func (h *QuizHandler) ReplaceQuestions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.quizService.ReplaceQuestions(c.Request.Context(), id, claims.UserID, req.Questions); err != nil {
		switch {
		case errors.Is(err, service.ErrNotQuizAuthor):
			response.Fail(c, http.StatusForbidden, response.ErrNotQuizAuthor)
		case errors.Is(err, service.ErrBadQuestionShape):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"questions": err.Error()})
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func applyQuizUpdate(quiz *model.Quiz, req *model.UpdateQuizRequest) {
	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Subject != "" {
		quiz.Subject = req.Subject
	}
	if req.Grade != "" {
		quiz.Grade = req.Grade
	}
	if req.Semester != "" {
		quiz.Semester = req.Semester
	}
	if req.Category != "" {
		quiz.Category = req.Category
	}
	if req.DurationMinutes != 0 {
		quiz.DurationMinutes = req.DurationMinutes
	}
	if req.QuestionSeconds != nil {
		quiz.QuestionSeconds = req.QuestionSeconds
	}
	if req.KeepOrder != nil {
		quiz.KeepOrder = *req.KeepOrder
	}
	if req.IsPremium != nil {
		quiz.IsPremium = *req.IsPremium
	}
}
