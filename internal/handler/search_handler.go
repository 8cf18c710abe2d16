package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "studyhub/backend/internal/errors"
	"studyhub/backend/internal/search"
)

type SearchHandler struct {
	provider search.Provider
}

func NewSearchHandler(provider search.Provider) *SearchHandler {
	return &SearchHandler{provider: provider}
}

// Search proxies a feed lookup. Upstream failures come back as a 200
// with an empty result list and an error message for inline display.
func (h *SearchHandler) Search(c *gin.Context) {
	feedURL := c.Query("feed")
	if feedURL == "" {
		writeError(c, apperrors.BadRequest("missing_feed", "feed query parameter is required"))
		return
	}

	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	items, err := h.provider.Search(c.Request.Context(), feedURL, c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"items": items, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
