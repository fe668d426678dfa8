package models

import "time"

// Folder represents a node in the bookmark folder tree.
// Exactly one folder has a nil ParentID: the root, created at startup and
// never renamed or deleted. Folder names are intentionally not unique;
// same-named folders in different branches are surfaced as merged groups.
type Folder struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`

	// Relationships
	Bookmarks []Bookmark `gorm:"foreignKey:FolderID" json:"bookmarks,omitempty"`
}

// IsRoot reports whether the folder is the tree root.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
