package models

import "time"

// Media log categories
const (
	CategoryAnime  = "anime"
	CategoryMovies = "movies"
	CategoryTV     = "tv"
	CategoryManga  = "manga"
	CategoryBooks  = "books"
	CategoryGames  = "games"
)

// Media log statuses
const (
	StatusCurrently   = "currently"
	StatusCompleted   = "completed"
	StatusPlanToStart = "plan_to_start"
)

// MediaLogEntry represents a work in progress in the personal media log.
// The log is flat: no folders, no tree semantics.
type MediaLogEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Category  string    `gorm:"not null" json:"category"`
	Title     string    `gorm:"not null" json:"title"`
	Progress  string    `json:"progress"`
	Status    string    `gorm:"not null;default:plan_to_start" json:"status"`
}

// ValidCategory reports whether c is a known media log category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryAnime, CategoryMovies, CategoryTV, CategoryManga, CategoryBooks, CategoryGames:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known media log status.
func ValidStatus(s string) bool {
	switch s {
	case StatusCurrently, StatusCompleted, StatusPlanToStart:
		return true
	}
	return false
}
