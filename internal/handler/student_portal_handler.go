package handler

import (
	"errors"
	"net/http"

	"github.com/brightpath/quizhall-backend/internal/engine"
	"github.com/brightpath/quizhall-backend/internal/middleware"
	"github.com/brightpath/quizhall-backend/internal/response"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StudentPortalHandler handles the student-facing quiz flow over HTTP:
// catalog browsing, attempt lifecycle, result and review. The in-attempt
// traffic (answers, advancing, violations) runs over the session WebSocket.
type StudentPortalHandler struct {
	quizService    *service.QuizService
	sessionService *service.SessionService
	resultService  *service.ResultService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	quizService *service.QuizService,
	sessionService *service.SessionService,
	resultService *service.ResultService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		quizService:    quizService,
		sessionService: sessionService,
		resultService:  resultService,
	}
}

// Catalog godoc
// GET /api/v1/student/quizzes?subject=&grade=&category=
// Lists available quizzes, optionally filtered by subject, grade and category.
func (h *StudentPortalHandler) Catalog(c *gin.Context) {
	quizzes, err := h.quizService.Catalog(c.Request.Context(), c.Query("subject"), c.Query("grade"), c.Query("category"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// The catalog never carries question payloads or answer keys.
	for i := range quizzes {
		quizzes[i].Questions = nil
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Start godoc
// POST /api/v1/student/quizzes/:id/start
// Begins a new attempt and returns the shuffled, key-stripped paper.
func (h *StudentPortalHandler) Start(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	sess, err := h.sessionService.StartQuiz(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrPremiumRequired):
			response.Fail(c, http.StatusPaymentRequired, response.ErrPremiumRequired)
		case errors.Is(err, engine.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
		case errors.Is(err, engine.ErrSessionActive):
			response.Fail(c, http.StatusConflict, response.ErrAttemptActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"paper":    sess.Paper(),
		"snapshot": sess.Snapshot(),
	})
}

// State godoc
// GET /api/v1/student/session
// Returns the current attempt snapshot for reconnecting clients.
func (h *StudentPortalHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess, err := h.sessionService.Current(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
		return
	}

	data := gin.H{"snapshot": sess.Snapshot()}
	if sess.State() == engine.StateActive {
		data["paper"] = sess.Paper()
	}
	response.Success(c, http.StatusOK, data)
}

// Exit godoc
// POST /api/v1/student/session/exit
// Abandons the current attempt without persisting anything.
func (h *StudentPortalHandler) Exit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.sessionService.Exit(claims.UserID); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Retake godoc
// POST /api/v1/student/session/retake
// Starts the same quiz over with a fresh shuffle.
func (h *StudentPortalHandler) Retake(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess, err := h.sessionService.Retake(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAttempt):
			response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
		case errors.Is(err, service.ErrPremiumRequired):
			response.Fail(c, http.StatusPaymentRequired, response.ErrPremiumRequired)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"paper":    sess.Paper(),
		"snapshot": sess.Snapshot(),
	})
}

// Result godoc
// GET /api/v1/student/session/result
// Returns the graded outcome of the completed attempt.
func (h *StudentPortalHandler) Result(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess, err := h.sessionService.Current(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
		return
	}

	result, ok := sess.Result()
	if !ok {
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Review godoc
// POST /api/v1/student/session/review
// Enters answer review and returns the disclosed answer key.
func (h *StudentPortalHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess, err := h.sessionService.Current(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
		return
	}

	if err := sess.Review(); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		return
	}
	entries, err := sess.ReviewPaper()
	if err != nil {
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

// BackToResult godoc
// POST /api/v1/student/session/back
// Returns from review to the result screen.
func (h *StudentPortalHandler) BackToResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess, err := h.sessionService.Current(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
		return
	}

	if err := sess.BackToResult(); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		return
	}
	result, _ := sess.Result()
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// History godoc
// GET /api/v1/student/history
// Returns the student's persisted attempt history, newest first.
func (h *StudentPortalHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	results, err := h.resultService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}
