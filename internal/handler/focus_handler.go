package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/service"
)

type FocusHandler struct {
	studyService *service.StudyService
}

func NewFocusHandler(studyService *service.StudyService) *FocusHandler {
	return &FocusHandler{studyService: studyService}
}

func (h *FocusHandler) GetState(c *gin.Context) {
	userID := middleware.UserID(c)
	focus := h.studyService.FocusState(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"focus": focus})
}

func (h *FocusHandler) Enter(c *gin.Context) {
	userID := middleware.UserID(c)
	focus := h.studyService.EnterFocusMode(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"focus": focus})
}

// Exit leaves focus mode; any accrued focus time becomes a recorded
// study session.
func (h *FocusHandler) Exit(c *gin.Context) {
	userID := middleware.UserID(c)
	focus := h.studyService.ExitFocusMode(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"focus": focus})
}
