package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/service"
)

// WidgetHandler covers the dashboard widgets: tasks, notes, and
// music playlists.
type WidgetHandler struct {
	studyService *service.StudyService
}

type createTaskRequest struct {
	Title string `json:"title"`
}

type createPlaylistRequest struct {
	Name string `json:"name"`
}

func NewWidgetHandler(studyService *service.StudyService) *WidgetHandler {
	return &WidgetHandler{studyService: studyService}
}

func (h *WidgetHandler) ListTasks(c *gin.Context) {
	userID := middleware.UserID(c)
	tasks, apiErr := h.studyService.ListTasks(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *WidgetHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	task, apiErr := h.studyService.CreateTask(c.Request.Context(), userID, req.Title)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *WidgetHandler) UpdateTask(c *gin.Context) {
	var req service.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	task, apiErr := h.studyService.UpdateTask(c.Request.Context(), userID, c.Param("id"), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *WidgetHandler) DeleteTask(c *gin.Context) {
	userID := middleware.UserID(c)
	if apiErr := h.studyService.DeleteTask(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WidgetHandler) ListNotes(c *gin.Context) {
	userID := middleware.UserID(c)
	notes, apiErr := h.studyService.ListNotes(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *WidgetHandler) CreateNote(c *gin.Context) {
	var req service.NoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	note, apiErr := h.studyService.CreateNote(c.Request.Context(), userID, req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": note})
}

func (h *WidgetHandler) UpdateNote(c *gin.Context) {
	var req service.NoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	note, apiErr := h.studyService.UpdateNote(c.Request.Context(), userID, c.Param("id"), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

func (h *WidgetHandler) DeleteNote(c *gin.Context) {
	userID := middleware.UserID(c)
	if apiErr := h.studyService.DeleteNote(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WidgetHandler) ListPlaylists(c *gin.Context) {
	userID := middleware.UserID(c)
	playlists, apiErr := h.studyService.ListPlaylists(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlists": playlists})
}

func (h *WidgetHandler) CreatePlaylist(c *gin.Context) {
	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	playlist, apiErr := h.studyService.CreatePlaylist(c.Request.Context(), userID, req.Name)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"playlist": playlist})
}

func (h *WidgetHandler) DeletePlaylist(c *gin.Context) {
	userID := middleware.UserID(c)
	if apiErr := h.studyService.DeletePlaylist(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WidgetHandler) AddPlaylistTrack(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	userID := middleware.UserID(c)
	playlist, apiErr := h.studyService.AddPlaylistTrack(c.Request.Context(), userID, c.Param("id"), req.Item)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist": playlist})
}

func (h *WidgetHandler) RemovePlaylistTrack(c *gin.Context) {
	userID := middleware.UserID(c)
	playlist, apiErr := h.studyService.RemovePlaylistTrack(c.Request.Context(), userID, c.Param("id"), c.Param("trackId"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist": playlist})
}
