package handler

import (
	"net/http"
	"time"

	"github.com/brightpath/quizhall-backend/internal/middleware"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/response"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/brightpath/quizhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles premium plan endpoints.
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Status godoc
// GET /api/v1/student/subscription
// Returns the student's subscription row and whether it is currently active.
func (h *SubscriptionHandler) Status(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sub, err := h.subscriptionService.Status(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"subscription": sub,
		"active":       sub.ActiveAt(time.Now()),
	})
}

// Activate godoc
// POST /api/v1/student/subscription
// Starts or renews the student's plan.
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	var req model.ActivateSubscriptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	sub, err := h.subscriptionService.Activate(c.Request.Context(), claims.UserID, model.Plan(req.Plan))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subscription": sub})
}
