package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/service"
)

type AnalyticsHandler struct {
	studyService *service.StudyService
}

func NewAnalyticsHandler(studyService *service.StudyService) *AnalyticsHandler {
	return &AnalyticsHandler{studyService: studyService}
}

func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	userID := middleware.UserID(c)
	stats, apiErr := h.studyService.Stats(c.Request.Context(), userID, c.Query("timeframe"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *AnalyticsHandler) GetSessions(c *gin.Context) {
	userID := middleware.UserID(c)

	limit := 50
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	sessions, apiErr := h.studyService.SessionHistory(c.Request.Context(), userID, limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
