package medialog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
)

// Handler handles media log requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new media log handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateEntryRequest represents the request to create a media log entry
type CreateEntryRequest struct {
	Category string `json:"category" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Progress string `json:"progress"`
	Status   string `json:"status"`
}

// UpdateEntryRequest represents the request to update a media log entry
type UpdateEntryRequest struct {
	Title    string  `json:"title"`
	Progress *string `json:"progress"`
	Status   string  `json:"status"`
}

// List returns media log entries, optionally filtered by category
// @Summary List media log entries
// @Description Get all media log entries, optionally scoped to one category
// @Tags medialog
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} models.MediaLogEntry
// @Router /medialog [get]
func (h *Handler) List(c *gin.Context) {
	query := h.db.Model(&models.MediaLogEntry{}).Order("category, status, title ASC")

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	if category != "" && models.ValidCategory(category) {
		query = query.Where("category = ?", category)
	}

	var entries []models.MediaLogEntry
	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Create creates a media log entry
// @Summary Create a media log entry
// @Description Add a work to the media log
// @Tags medialog
// @Accept json
// @Produce json
// @Param request body CreateEntryRequest true "Entry details"
// @Success 201 {object} models.MediaLogEntry
// @Failure 400 {object} map[string]string "Validation error"
// @Router /medialog [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	if !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	status := req.Status
	if status == "" {
		status = models.StatusPlanToStart
	}
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	entry := models.MediaLogEntry{
		Category: category,
		Title:    title,
		Progress: strings.TrimSpace(req.Progress),
		Status:   status,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Update updates a media log entry
// @Summary Update a media log entry
// @Description Update title, progress, or status of a media log entry
// @Tags medialog
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param request body UpdateEntryRequest true "Updated fields"
// @Success 200 {object} models.MediaLogEntry
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /medialog/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var entry models.MediaLogEntry
	if err := h.db.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		entry.Title = title
	}
	if req.Progress != nil {
		entry.Progress = strings.TrimSpace(*req.Progress)
	}
	if req.Status != "" {
		if !models.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		entry.Status = req.Status
	}

	if err := h.db.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete deletes a media log entry
// @Summary Delete a media log entry
// @Description Remove a work from the media log
// @Tags medialog
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]string "Entry deleted"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /medialog/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	res := h.db.Delete(&models.MediaLogEntry{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// RegisterRoutes registers media log routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/medialog", h.List)
	rg.POST("/medialog", h.Create)
	rg.PATCH("/medialog/:id", h.Update)
	rg.DELETE("/medialog/:id", h.Delete)
}
