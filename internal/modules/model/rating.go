package model

import (
	"time"

	"github.com/google/uuid"
)

// Rating keeps one score per (user, project); repeated submissions update the
// existing row through an upsert on the composite unique index.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:u_user_project,priority:1" json:"user_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:u_user_project,priority:2;index" json:"project_id"`

	Score int `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Rating) TableName() string { return "ratings" }
