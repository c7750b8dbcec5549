package api

import (
	"alcyxob/coach-dashboard/internal/service"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MediaHandler resolves media references for the browser.
type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type MediaURLResponse struct {
	URL string `json:"url"`
}

// GetMediaURL godoc
// @Summary Resolve a media key to a viewable URL
// @Tags Media
// @Produce json
// @Param key query string true "Storage key or absolute URL"
// @Success 200 {object} MediaURLResponse
// @Failure 400 {object} gin.H "Missing key"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /media/url [get]
func (h *MediaHandler) GetMediaURL(c *gin.Context) {
	url, err := h.mediaService.ResolveURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaKeyRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStorageNotEnabled):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			log.Printf("ERROR: Failed to resolve media key: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to generate media URL.")
		}
		return
	}
	c.JSON(http.StatusOK, MediaURLResponse{URL: url})
}
