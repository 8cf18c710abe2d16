package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/model"
	"studyhub/backend/internal/service"
)

// QueueHandler covers the playback queue and the saved library.
type QueueHandler struct {
	studyService *service.StudyService
}

type addItemsRequest struct {
	Items []model.MediaItem `json:"items"`
}

type itemRequest struct {
	Item model.MediaItem `json:"item"`
}

func NewQueueHandler(studyService *service.StudyService) *QueueHandler {
	return &QueueHandler{studyService: studyService}
}

func (h *QueueHandler) GetState(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.QueueState(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

// AddItems queues every submitted item; duplicates and id-less
// entries are dropped silently.
func (h *QueueHandler) AddItems(c *gin.Context) {
	var req addItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	queue := h.studyService.AddToQueue(c.Request.Context(), userID, req.Items)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) RemoveItem(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.RemoveFromQueue(c.Request.Context(), userID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) Reorder(c *gin.Context) {
	var req addItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	queue := h.studyService.ReorderQueue(c.Request.Context(), userID, req.Items)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) Clear(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.ClearQueue(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) ToggleRepeat(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.ToggleRepeat(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) ToggleShuffle(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.ToggleShuffle(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) PlayNext(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.PlayNext(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

// ItemEnded is the player's end-of-playback callback.
func (h *QueueHandler) ItemEnded(c *gin.Context) {
	userID := middleware.UserID(c)
	queue := h.studyService.ItemEnded(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) Play(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	queue, apiErr := h.studyService.Play(c.Request.Context(), userID, req.Item)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

func (h *QueueHandler) GetLibrary(c *gin.Context) {
	userID := middleware.UserID(c)
	library := h.studyService.Library(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"library": library})
}

func (h *QueueHandler) AddToLibrary(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	library, apiErr := h.studyService.AddToLibrary(c.Request.Context(), userID, req.Item)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"library": library})
}

func (h *QueueHandler) RemoveFromLibrary(c *gin.Context) {
	userID := middleware.UserID(c)
	library := h.studyService.RemoveFromLibrary(c.Request.Context(), userID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"library": library})
}
