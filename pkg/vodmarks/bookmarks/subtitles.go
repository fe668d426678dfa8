package bookmarks

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/subtitles"
)

// UploadSubtitle attaches a subtitle file to a bookmark
// @Summary Upload a subtitle file
// @Description Attach an .srt subtitle file to a bookmark, replacing any existing one
// @Tags bookmarks
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Bookmark ID"
// @Param srt_file formData file true "Subtitle file (.srt)"
// @Success 200 {object} map[string]string "Stored subtitle path"
// @Failure 400 {object} map[string]string "Missing or invalid file"
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Router /bookmarks/{id}/subtitle [post]
func (h *Handler) UploadSubtitle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark ID"})
		return
	}

	var bookmark models.Bookmark
	if err := h.db.First(&bookmark, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	file, err := c.FormFile("srt_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > subtitles.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	path, err := h.subtitles.Save(bookmark.ID, file.Filename, src)
	if err != nil {
		if errors.Is(err, subtitles.ErrInvalidExtension) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .srt files are allowed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store subtitle"})
		return
	}

	oldPath := bookmark.SubtitlePath
	bookmark.SubtitlePath = path
	if err := h.db.Save(&bookmark).Error; err != nil {
		h.subtitles.Remove(path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}
	h.subtitles.Remove(oldPath)

	c.JSON(http.StatusOK, gin.H{"subtitle_path": path})
}

// DownloadSubtitle serves a bookmark's subtitle file
// @Summary Download a subtitle file
// @Description Download the subtitle attached to a bookmark, named after the bookmark title
// @Tags bookmarks
// @Produce application/octet-stream
// @Param id path int true "Bookmark ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Bookmark or subtitle not found"
// @Router /bookmarks/{id}/subtitle [get]
func (h *Handler) DownloadSubtitle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark ID"})
		return
	}

	var bookmark models.Bookmark
	if err := h.db.First(&bookmark, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}
	if bookmark.SubtitlePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subtitle uploaded"})
		return
	}

	path := h.subtitles.Path(bookmark.SubtitlePath)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtitle file not found"})
		return
	}

	c.FileAttachment(path, downloadName(bookmark))
}

// DeleteSubtitle removes a bookmark's subtitle file
// @Summary Delete a subtitle file
// @Description Remove the subtitle attached to a bookmark and clear its path
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} map[string]string "Subtitle removed"
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Router /bookmarks/{id}/subtitle [delete]
func (h *Handler) DeleteSubtitle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark ID"})
		return
	}

	var bookmark models.Bookmark
	if err := h.db.First(&bookmark, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	path := bookmark.SubtitlePath
	bookmark.SubtitlePath = ""
	if err := h.db.Save(&bookmark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}
	h.subtitles.Remove(path)

	c.JSON(http.StatusOK, gin.H{"message": "Subtitle removed"})
}

// downloadName derives a safe .srt filename from the bookmark title.
func downloadName(b models.Bookmark) string {
	title := b.Title
	if title == "" {
		title = "bookmark_" + strconv.FormatUint(uint64(b.ID), 10)
	}
	var sb strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(sb.String())
	if safe == "" {
		safe = "bookmark_" + strconv.FormatUint(uint64(b.ID), 10)
	}
	return safe + ".srt"
}

// RegisterSubtitleRoutes registers subtitle attachment routes
func (h *Handler) RegisterSubtitleRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookmarks/:id/subtitle", h.UploadSubtitle)
	rg.GET("/bookmarks/:id/subtitle", h.DownloadSubtitle)
	rg.DELETE("/bookmarks/:id/subtitle", h.DeleteSubtitle)
}
