package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	ReportTypeProject ReportType = "project"
	ReportTypeComment ReportType = "comment"
)

// ReportTarget is the tagged variant handed to the service layer: exactly one
// of the two IDs is set, matching Type.
type ReportTarget struct {
	Type      ReportType
	ProjectID *uuid.UUID
	CommentID *uuid.UUID
}

func ProjectTarget(id uuid.UUID) ReportTarget {
	return ReportTarget{Type: ReportTypeProject, ProjectID: &id}
}

func CommentTarget(id uuid.UUID) ReportTarget {
	return ReportTarget{Type: ReportTypeComment, CommentID: &id}
}

// Report stores the discriminator plus one target FK; the check constraint
// keeps the pair consistent at the storage layer as well.
type Report struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type   ReportType `gorm:"column:report_type;type:text;not null;check:report_type IN ('project','comment')" json:"report_type"`

	ProjectID *uuid.UUID `gorm:"type:uuid;index;check:chk_report_target,(report_type = 'project' AND project_id IS NOT NULL AND comment_id IS NULL) OR (report_type = 'comment' AND comment_id IS NOT NULL AND project_id IS NULL)" json:"project_id,omitempty"`
	CommentID *uuid.UUID `gorm:"type:uuid;index" json:"comment_id,omitempty"`

	Reason string `gorm:"type:text;not null" json:"reason"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	Comment *Comment `gorm:"foreignKey:CommentID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Report) TableName() string { return "reports" }
