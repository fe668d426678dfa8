package merged

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/dedup"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/tree"
)

// Handler handles merged-group requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new merged-groups handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// GroupBookmark is a bookmark in a merged view, annotated with the
// breadcrumb of the physical folder it lives in.
type GroupBookmark struct {
	models.Bookmark
	FolderBreadcrumb string `json:"folder_breadcrumb"`
}

// List returns all merged groups
// @Summary List merged groups
// @Description Get every group of same-named folders with their combined bookmark counts
// @Tags merged
// @Produce json
// @Success 200 {array} dedup.Summary
// @Router /merged [get]
func (h *Handler) List(c *gin.Context) {
	var folders []models.Folder
	if err := h.db.Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}

	out, err := dedup.Summaries(folders, dedup.DefaultMinDupes, h.countBookmarks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count bookmarks"})
		return
	}

	c.JSON(http.StatusOK, out)
}

// countBookmarks totals bookmarks across a folder id set.
func (h *Handler) countBookmarks(folderIDs []uint) (int64, error) {
	var total int64
	err := h.db.Model(&models.Bookmark{}).
		Where("folder_id IN ?", folderIDs).
		Count(&total).Error
	return total, err
}

// ListBookmarks returns all bookmarks across a merged group's folders
// @Summary List bookmarks of a merged group
// @Description Get every bookmark in the group's member folders, each annotated with its folder's breadcrumb. An unknown key yields an empty list.
// @Tags merged
// @Produce json
// @Param key query string true "Group key (normalized folder name)"
// @Success 200 {array} GroupBookmark
// @Router /merged/bookmarks [get]
func (h *Handler) ListBookmarks(c *gin.Context) {
	key := c.Query("key")

	var folders []models.Folder
	if err := h.db.Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}

	// Recomputed from the current folder state; a stale key means the
	// group no longer exists and that is not an error.
	group, ok := dedup.Find(folders, key, dedup.DefaultMinDupes)
	if !ok {
		c.JSON(http.StatusOK, []GroupBookmark{})
		return
	}

	var bookmarks []models.Bookmark
	if err := h.db.Where("folder_id IN ?", group.FolderIDs).
		Order("upload_date ASC").
		Find(&bookmarks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	out := make([]GroupBookmark, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = GroupBookmark{
			Bookmark:         b,
			FolderBreadcrumb: tree.Breadcrumb(folders, b.FolderID),
		}
	}

	c.JSON(http.StatusOK, out)
}

// RegisterRoutes registers merged-group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/merged", h.List)
	rg.GET("/merged/bookmarks", h.ListBookmarks)
}
