package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is the canonical row for a category name. Matching is exact
// (case- and whitespace-sensitive); the unique index makes concurrent
// get-or-create converge on a single row.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Projects []Project `gorm:"constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Category) TableName() string { return "categories" }

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Projects []Project `gorm:"many2many:project_tags;" json:"-"`
}

func (Tag) TableName() string { return "tags" }
