package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/model"
	"studyhub/backend/internal/service"
)

type TimerHandler struct {
	studyService *service.StudyService
}

type switchModeRequest struct {
	Mode string `json:"mode"`
}

func NewTimerHandler(studyService *service.StudyService) *TimerHandler {
	return &TimerHandler{studyService: studyService}
}

func (h *TimerHandler) GetState(c *gin.Context) {
	userID := middleware.UserID(c)
	state := h.studyService.TimerState(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) Start(c *gin.Context) {
	userID := middleware.UserID(c)
	state := h.studyService.StartTimer(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) Pause(c *gin.Context) {
	userID := middleware.UserID(c)
	state := h.studyService.PauseTimer(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) Skip(c *gin.Context) {
	userID := middleware.UserID(c)
	state := h.studyService.SkipTimer(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

func (h *TimerHandler) SwitchMode(c *gin.Context) {
	var req switchModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	state, apiErr := h.studyService.SetTimerMode(c.Request.Context(), userID, req.Mode)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": state})
}

// UpdateSettings applies the submitted settings field by field;
// invalid fields keep their current values and the response reports
// what is in effect.
func (h *TimerHandler) UpdateSettings(c *gin.Context) {
	var req model.TimerSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	state := h.studyService.UpdateTimerSettings(c.Request.Context(), userID, req)
	c.JSON(http.StatusOK, gin.H{"timer": state})
}
