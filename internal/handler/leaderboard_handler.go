package handler

import (
	"net/http"
	"strconv"

	"github.com/brightpath/quizhall-backend/internal/response"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// LeaderboardHandler serves the XP ranking.
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Top godoc
// GET /api/v1/student/leaderboard?limit=
// Returns the highest-XP students in rank order.
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	entries, err := h.leaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}
