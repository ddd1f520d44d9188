package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Details string `gorm:"type:text;not null" json:"details"`

	TotalTarget decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_target"`

	// Cached sum of all donation amounts, recomputed from donation rows on
	// every recorded donation rather than incremented.
	TotalDonations decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_donations"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`

	IsApproved bool `gorm:"not null;default:false" json:"is_approved"`
	IsFeatured bool `gorm:"not null;default:false;index" json:"is_featured"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> User
	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Category
	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"category,omitempty"`

	// Project <-> Tag
	Tags []Tag `gorm:"many2many:project_tags;" json:"tags"`

	// Project <-> ProjectImage
	Images []ProjectImage `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"images"`

	// Project <-> Donation
	Donations []Donation `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Rating
	Ratings []Rating `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Comment
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

// CancelThreshold is the donation sum at which cancellation stops being
// allowed: a project is cancelable only while donations < ratio * target.
func (p *Project) CancelThreshold(ratio float64) decimal.Decimal {
	return p.TotalTarget.Mul(decimal.NewFromFloat(ratio))
}

type ProjectImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	Bucket string `gorm:"type:text;not null" json:"bucket"`
	S3Key  string `gorm:"column:s3_key;type:text;not null" json:"s3_key"`
	MIME   string `gorm:"column:mime;type:text;not null" json:"mime"`
	SizeB  int64  `gorm:"column:size_bigint;type:bigint;not null" json:"size_b"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Presigned download URL, filled at read time and never persisted.
	URL string `gorm:"-" json:"url,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ProjectImage) TableName() string { return "project_images" }
