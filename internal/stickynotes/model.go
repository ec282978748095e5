package stickynotes

import (
	"time"

	"github.com/shelfnote/shelfnote/internal/optional"
)

// DefaultTitle is applied when a sticky note is created without a title.
const DefaultTitle = "Quick Note"

// StickyNote is free text that floats outside the folder tree.
type StickyNote struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"column:title;not null;default:'Quick Note'" json:"title"`
	Content    string    `gorm:"column:content;not null" json:"content"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null" json:"modifiedAt"`
}

// TableName provides the explicit table binding for GORM.
func (StickyNote) TableName() string {
	return "sticky_notes"
}

// CreateInput describes a new sticky note. Content is required; a nil Title
// falls back to DefaultTitle.
type CreateInput struct {
	Title   *string `json:"title"`
	Content string  `json:"content"`
}

// StickyNoteUpdate carries the fields of a partial update.
type StickyNoteUpdate struct {
	Title   optional.Value[string] `json:"title"`
	Content optional.Value[string] `json:"content"`
}
