package notes

import (
	"time"

	"github.com/shelfnote/shelfnote/internal/optional"
)

// Note is free text owned by exactly one folder. Content is never null; an
// empty note stores the empty string.
type Note struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	Content    string    `gorm:"column:content;not null;default:''" json:"content"`
	FolderID   int64     `gorm:"column:folder_id;not null" json:"folderId"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null" json:"modifiedAt"`
}

// TableName provides the explicit table binding for GORM.
func (Note) TableName() string {
	return "notes"
}

// CreateInput describes a new note. A nil Content stores the empty string.
type CreateInput struct {
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	FolderID int64   `json:"folderId"`
}

// NoteUpdate carries the fields of a partial update. Omitted fields keep
// their current values; content has no meaningful null distinct from the
// explicit empty string.
type NoteUpdate struct {
	Title   optional.Value[string] `json:"title"`
	Content optional.Value[string] `json:"content"`
}
