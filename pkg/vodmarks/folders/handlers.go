package folders

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/dedup"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/subtitles"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/tree"
)

// Sentinel outcomes surfaced by transaction bodies so the handler can map
// them to status codes after the rollback.
var (
	errFolderNotFound = errors.New("folder not found")
	errParentNotFound = errors.New("parent folder not found")
	errRootProtected  = errors.New("root folder is protected")
)

// Handler handles folder-related requests
type Handler struct {
	db        *gorm.DB
	subtitles *subtitles.Store
}

// NewHandler creates a new folders handler. The subtitle store is used to
// clean up files orphaned by cascading deletes; it may be nil in contexts
// that never attach subtitles.
func NewHandler(db *gorm.DB, subs *subtitles.Store) *Handler {
	return &Handler{db: db, subtitles: subs}
}

// CreateFolderRequest represents the request to create a folder
type CreateFolderRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID uint   `json:"parent_id" binding:"required"`
}

// RenameFolderRequest represents the request to rename a folder
type RenameFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// TreeResponse is the full tree view: nested folders, the root id, and the
// merged-group summaries shown alongside the tree.
type TreeResponse struct {
	Tree   *tree.Node      `json:"tree"`
	Root   uint            `json:"root"`
	Merged []dedup.Summary `json:"merged"`
}

// allFolders loads the current folder snapshot.
func (h *Handler) allFolders() ([]models.Folder, error) {
	var folders []models.Folder
	if err := h.db.Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// directCounts returns bookmark counts grouped by folder.
func (h *Handler) directCounts() (map[uint]int, error) {
	type row struct {
		FolderID uint
		C        int
	}
	var rows []row
	if err := h.db.Model(&models.Bookmark{}).
		Select("folder_id, COUNT(*) AS c").
		Group("folder_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.FolderID] = r.C
	}
	return counts, nil
}

// countBookmarks totals bookmarks across a folder id set.
func (h *Handler) countBookmarks(folderIDs []uint) (int64, error) {
	var total int64
	err := h.db.Model(&models.Bookmark{}).
		Where("folder_id IN ?", folderIDs).
		Count(&total).Error
	return total, err
}

// GetTree returns the folder tree with counts and merged groups
// @Summary Get the folder tree
// @Description Get the nested folder tree with bookmark counts, the root folder id, and merged duplicate-name groups
// @Tags folders
// @Produce json
// @Success 200 {object} TreeResponse
// @Router /tree [get]
func (h *Handler) GetTree(c *gin.Context) {
	folders, err := h.allFolders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}
	counts, err := h.directCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmark counts"})
		return
	}

	root, err := tree.Build(folders, counts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	merged, err := dedup.Summaries(folders, dedup.DefaultMinDupes, h.countBookmarks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute merged groups"})
		return
	}

	c.JSON(http.StatusOK, TreeResponse{Tree: root, Root: root.ID, Merged: merged})
}

// Create creates a new folder under an existing parent
// @Summary Create a folder
// @Description Create a new folder under an existing parent folder
// @Tags folders
// @Accept json
// @Produce json
// @Param request body CreateFolderRequest true "Folder details"
// @Success 201 {object} models.Folder
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Parent folder not found"
// @Router /folders [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	// The parent check and the insert share one transaction so the parent
	// cannot be deleted between them.
	var folder models.Folder
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Folder
		if err := tx.First(&parent, req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errParentNotFound
			}
			return err
		}
		folder = models.Folder{Name: name, ParentID: &parent.ID}
		return tx.Create(&folder).Error
	})
	if errors.Is(err, errParentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent folder not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create folder"})
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// Rename renames a folder
// @Summary Rename a folder
// @Description Rename a folder. The root folder cannot be renamed.
// @Tags folders
// @Accept json
// @Produce json
// @Param id path int true "Folder ID"
// @Param request body RenameFolderRequest true "New name"
// @Success 200 {object} models.Folder
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Root folder is protected"
// @Failure 404 {object} map[string]string "Folder not found"
// @Router /folders/{id} [patch]
func (h *Handler) Rename(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	var req RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	var folder models.Folder
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&folder, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errFolderNotFound
			}
			return err
		}
		if folder.IsRoot() {
			return errRootProtected
		}
		folder.Name = name
		return tx.Save(&folder).Error
	})
	switch {
	case errors.Is(txErr, errFolderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
	case errors.Is(txErr, errRootProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": "Root folder cannot be renamed"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename folder"})
	default:
		c.JSON(http.StatusOK, folder)
	}
}

// Delete deletes a folder and its entire subtree
// @Summary Delete a folder
// @Description Delete a folder, all its descendant folders, and every bookmark in the subtree, atomically. The root folder cannot be deleted.
// @Tags folders
// @Produce json
// @Param id path int true "Folder ID"
// @Success 200 {object} map[string]int "Number of folders deleted"
// @Failure 403 {object} map[string]string "Root folder is protected"
// @Failure 404 {object} map[string]string "Folder not found"
// @Router /folders/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	var deletedFolders int64
	var orphanedSubs []string
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var folder models.Folder
		if err := tx.First(&folder, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errFolderNotFound
			}
			return err
		}
		if folder.IsRoot() {
			return errRootProtected
		}

		var folders []models.Folder
		if err := tx.Find(&folders).Error; err != nil {
			return err
		}
		ids := tree.DescendantIDs(folders, folder.ID)

		// Collect subtitle paths before the rows go away.
		if err := tx.Model(&models.Bookmark{}).
			Where("folder_id IN ? AND subtitle_path <> ''", ids).
			Pluck("subtitle_path", &orphanedSubs).Error; err != nil {
			return err
		}

		if err := tx.Where("folder_id IN ?", ids).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Folder{})
		if res.Error != nil {
			return res.Error
		}
		deletedFolders = res.RowsAffected
		return nil
	})
	if errors.Is(err, errFolderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}
	if errors.Is(err, errRootProtected) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Root folder cannot be deleted"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder"})
		return
	}

	// File cleanup happens after commit; a leftover file is harmless,
	// a dangling DB reference would not be.
	if h.subtitles != nil {
		for _, p := range orphanedSubs {
			h.subtitles.Remove(p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"deleted_folders": deletedFolders})
}

// Flat returns all folders with breadcrumbs
// @Summary List all folders flat
// @Description Get a flat list of every folder with its breadcrumb path, for move-to pickers
// @Tags folders
// @Produce json
// @Success 200 {array} tree.FlatFolder
// @Router /folders/flat [get]
func (h *Handler) Flat(c *gin.Context) {
	folders, err := h.allFolders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}
	c.JSON(http.StatusOK, tree.Flatten(folders))
}

// RegisterRoutes registers folder routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tree", h.GetTree)
	rg.GET("/folders/flat", h.Flat)
	rg.POST("/folders", h.Create)
	rg.PATCH("/folders/:id", h.Rename)
	rg.DELETE("/folders/:id", h.Delete)
}
