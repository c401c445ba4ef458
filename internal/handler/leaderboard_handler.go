package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1786035110/GameForum/internal/httpapi/middleware"
	"github.com/1786035110/GameForum/internal/leaderboard"
)

const defaultLeaderboardLimit = 10

type LeaderboardHandler struct {
	store       *leaderboard.Store
	coordinator *leaderboard.Coordinator
}

func NewLeaderboardHandler(store *leaderboard.Store, coordinator *leaderboard.Coordinator) *LeaderboardHandler {
	return &LeaderboardHandler{store: store, coordinator: coordinator}
}

// GetLeaderboard GET /game/leaderboard?timeRange=all&limit=10
func (h *LeaderboardHandler) GetLeaderboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		w, ok := leaderboard.ParseWindow(c.DefaultQuery("timeRange", "all"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeRange"})
			return
		}
		limit := int64(defaultLeaderboardLimit)
		if s := c.Query("limit"); s != "" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
				limit = v
			}
		}
		entries, err := h.store.TopN(c.Request.Context(), w, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entries})
	}
}

type scoreReq struct {
	Score    int       `json:"score" binding:"min=0"`
	Duration int       `json:"duration" binding:"min=0"`
	EndTime  time.Time `json:"endTime"`
}

// SubmitScore POST /game/score
func (h *LeaderboardHandler) SubmitScore() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req scoreReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.EndTime.IsZero() {
			req.EndTime = time.Now()
		}
		result, err := h.coordinator.Submit(c.Request.Context(), id.UserID, req.Score, req.Duration, req.EndTime)
		if err != nil {
			if errors.Is(err, leaderboard.ErrLocked) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "操作过于频繁，请稍后再试"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}
