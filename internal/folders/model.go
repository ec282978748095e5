package folders

import (
	"time"

	"github.com/shelfnote/shelfnote/internal/optional"
)

// Folder is a named node in the self-referencing folder tree. A nil ParentID
// marks a root-level folder.
type Folder struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	ParentID   *int64    `gorm:"column:parent_id" json:"parentId"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null" json:"modifiedAt"`
}

// TableName provides the explicit table binding for GORM.
func (Folder) TableName() string {
	return "folders"
}

// FolderUpdate carries the fields of a partial update. ParentID needs three
// states: not provided keeps the current parent, provided as null moves the
// folder to the root, provided as a number reparents it.
type FolderUpdate struct {
	Name     optional.Value[string] `json:"name"`
	ParentID optional.Value[*int64] `json:"parentId"`
}
