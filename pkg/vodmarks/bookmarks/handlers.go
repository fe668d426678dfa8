package bookmarks

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/metadata"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/subtitles"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/tree"
)

// Handler handles bookmark-related requests
type Handler struct {
	db        *gorm.DB
	fetcher   metadata.Fetcher
	subtitles *subtitles.Store
}

// NewHandler creates a new bookmarks handler
func NewHandler(db *gorm.DB, fetcher metadata.Fetcher, subs *subtitles.Store) *Handler {
	return &Handler{db: db, fetcher: fetcher, subtitles: subs}
}

// CreateBookmarkRequest represents the request to create a bookmark.
// Video entries need URL; manual entries need Title and may carry Date.
type CreateBookmarkRequest struct {
	FolderID  uint   `json:"folder_id" binding:"required"`
	EntryType string `json:"entry_type"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Date      string `json:"date"`
}

// MoveBookmarkRequest represents the request to move a bookmark
type MoveBookmarkRequest struct {
	FolderID uint `json:"folder_id" binding:"required"`
}

// BulkDeleteRequest represents a bulk delete by id list
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// BulkMoveRequest represents a bulk move by id list
type BulkMoveRequest struct {
	IDs      []uint `json:"ids" binding:"required"`
	FolderID uint   `json:"folder_id" binding:"required"`
}

// Sentinel outcomes surfaced by transaction bodies so the handler can map
// them to status codes after the rollback.
var (
	errBookmarkNotFound = errors.New("bookmark not found")
	errFolderNotFound   = errors.New("folder not found")
)

// folderExists checks the target folder is present, distinguishing absence
// from storage errors.
func folderExists(db *gorm.DB, id uint) (bool, error) {
	var folder models.Folder
	err := db.First(&folder, id).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// List returns all bookmarks in a folder's subtree
// @Summary List bookmarks in a subtree
// @Description Get all bookmarks attached to the folder or any of its descendants
// @Tags bookmarks
// @Produce json
// @Param folder_id query int true "Folder ID"
// @Success 200 {array} models.Bookmark
// @Failure 400 {object} map[string]string "Invalid folder ID"
// @Failure 404 {object} map[string]string "Folder not found"
// @Router /bookmarks [get]
func (h *Handler) List(c *gin.Context) {
	folderID, err := strconv.ParseUint(c.Query("folder_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}
	ok, err := folderExists(h.db, uint(folderID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folder"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	var folders []models.Folder
	if err := h.db.Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}
	ids := tree.DescendantIDs(folders, uint(folderID))

	var bookmarks []models.Bookmark
	if err := h.db.Where("folder_id IN ?", ids).
		Order("entry_type, upload_date ASC").
		Find(&bookmarks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}

// Create creates a new bookmark in a folder
// @Summary Create a bookmark
// @Description Create a linked-media bookmark (metadata fetched from the URL) or a manual entry (title and date only)
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body CreateBookmarkRequest true "Bookmark details"
// @Success 201 {object} models.Bookmark
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Folder not found"
// @Failure 502 {object} map[string]string "Metadata fetch failed"
// @Router /bookmarks [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = models.EntryTypeVideo
	}

	var bookmark models.Bookmark
	switch entryType {
	case models.EntryTypeManual:
		title := strings.TrimSpace(req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		bookmark = models.Bookmark{
			FolderID:  req.FolderID,
			EntryType: models.EntryTypeManual,
			Title:     title,
		}
		if req.Date != "" {
			date := req.Date
			bookmark.UploadDate = &date
		}
	case models.EntryTypeVideo:
		if req.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
			return
		}
		meta, err := h.fetcher.Fetch(req.URL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch video metadata"})
			return
		}
		bookmark = models.Bookmark{
			FolderID:        req.FolderID,
			EntryType:       models.EntryTypeVideo,
			URL:             req.URL,
			Title:           meta.Title,
			Uploader:        meta.Uploader,
			UploadDate:      meta.UploadDate,
			DurationSeconds: meta.DurationSeconds,
			ThumbnailURL:    meta.ThumbnailURL,
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown entry type"})
		return
	}

	// The folder check and the insert share one transaction so the folder
	// cannot be deleted between them. The metadata fetch stays outside it.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		ok, err := folderExists(tx, req.FolderID)
		if err != nil {
			return err
		}
		if !ok {
			return errFolderNotFound
		}
		return tx.Create(&bookmark).Error
	})
	if errors.Is(err, errFolderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bookmark"})
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// Move moves a bookmark to another folder
// @Summary Move a bookmark
// @Description Move a bookmark to a different folder
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param id path int true "Bookmark ID"
// @Param request body MoveBookmarkRequest true "Target folder"
// @Success 200 {object} models.Bookmark
// @Failure 404 {object} map[string]string "Bookmark or target folder not found"
// @Router /bookmarks/{id} [patch]
func (h *Handler) Move(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark ID"})
		return
	}

	var req MoveBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Both lookups and the write share one transaction so the target folder
	// cannot vanish between the check and the move.
	var bookmark models.Bookmark
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bookmark, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBookmarkNotFound
			}
			return err
		}
		ok, err := folderExists(tx, req.FolderID)
		if err != nil {
			return err
		}
		if !ok {
			return errFolderNotFound
		}
		bookmark.FolderID = req.FolderID
		return tx.Save(&bookmark).Error
	})
	switch {
	case errors.Is(txErr, errBookmarkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
	case errors.Is(txErr, errFolderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Target folder not found"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move bookmark"})
	default:
		c.JSON(http.StatusOK, bookmark)
	}
}

// Delete deletes a bookmark
// @Summary Delete a bookmark
// @Description Delete a bookmark and its attached subtitle file, if any
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} map[string]string "Bookmark deleted"
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Router /bookmarks/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark ID"})
		return
	}

	var bookmark models.Bookmark
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bookmark, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errBookmarkNotFound
			}
			return err
		}
		return tx.Delete(&bookmark).Error
	})
	if errors.Is(txErr, errBookmarkNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bookmark"})
		return
	}
	if h.subtitles != nil {
		h.subtitles.Remove(bookmark.SubtitlePath)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted"})
}

// BulkDelete deletes bookmarks by id list
// @Summary Bulk delete bookmarks
// @Description Delete multiple bookmarks by id; reports how many were actually deleted
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body BulkDeleteRequest true "Bookmark IDs"
// @Success 200 {object} map[string]int "Number deleted"
// @Failure 400 {object} map[string]string "No IDs provided"
// @Router /bookmarks/bulk_delete [post]
func (h *Handler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No bookmark IDs provided"})
		return
	}

	var orphanedSubs []string
	var deleted int64
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bookmark{}).
			Where("id IN ? AND subtitle_path <> ''", req.IDs).
			Pluck("subtitle_path", &orphanedSubs).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", req.IDs).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bookmarks"})
		return
	}
	if h.subtitles != nil {
		for _, p := range orphanedSubs {
			h.subtitles.Remove(p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// BulkMove moves bookmarks by id list to a target folder
// @Summary Bulk move bookmarks
// @Description Move multiple bookmarks into a target folder
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body BulkMoveRequest true "Bookmark IDs and target folder"
// @Success 200 {object} map[string]int "Number moved"
// @Failure 400 {object} map[string]string "No IDs provided"
// @Failure 404 {object} map[string]string "Target folder not found"
// @Router /bookmarks/bulk_move [post]
func (h *Handler) BulkMove(c *gin.Context) {
	var req BulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No bookmark IDs provided"})
		return
	}
	// The target check and the update share one transaction so a concurrent
	// cascade delete cannot leave bookmarks pointing at a gone folder.
	var moved int64
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		ok, err := folderExists(tx, req.FolderID)
		if err != nil {
			return err
		}
		if !ok {
			return errFolderNotFound
		}
		res := tx.Model(&models.Bookmark{}).
			Where("id IN ?", req.IDs).
			Update("folder_id", req.FolderID)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected
		return nil
	})
	if errors.Is(txErr, errFolderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target folder not found"})
		return
	}
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move bookmarks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

// RegisterRoutes registers bookmark routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookmarks", h.List)
	rg.POST("/bookmarks", h.Create)
	rg.POST("/bookmarks/bulk_delete", h.BulkDelete)
	rg.POST("/bookmarks/bulk_move", h.BulkMove)
	rg.PATCH("/bookmarks/:id", h.Move)
	rg.DELETE("/bookmarks/:id", h.Delete)
}
