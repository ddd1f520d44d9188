package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(30);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(30);not null" json:"last_name"`
	MobilePhone  string    `gorm:"type:varchar(15);not null" json:"mobile_phone"`

	// S3 key of the profile picture, empty when none was uploaded.
	ProfilePicture string `gorm:"type:text;not null;default:''" json:"profile_picture,omitempty"`

	// Accounts start inactive and are activated through the email link.
	IsActive bool `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// User <-> Project
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Donation
	Donations []Donation `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Rating
	Ratings []Rating `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Comment
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> ExtraInfo
	ExtraInfo *ExtraInfo `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (User) TableName() string { return "users" }

// ExtraInfo is the optional profile extension, created lazily on first access.
type ExtraInfo struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	BirthDate *time.Time        `gorm:"type:date" json:"birth_date"`
	Address   string            `gorm:"type:text;not null;default:''" json:"address"`
	Country   string            `gorm:"type:varchar(64);not null;default:''" json:"country"`
	Socials   datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"socials"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ExtraInfo) TableName() string { return "extra_infos" }

// EmailActivation holds the one-shot activation key mailed at registration.
// Rows are deleted once the account is activated.
type EmailActivation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ActivationKey uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"activation_key"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (EmailActivation) TableName() string { return "email_activations" }

func (a *EmailActivation) IsExpired(ttl time.Duration) bool {
	return time.Now().After(a.CreatedAt.Add(ttl))
}

// PasswordReset is a one-shot reset key; used rows stay around marked used.
type PasswordReset struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ResetKey  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"reset_key"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (PasswordReset) TableName() string { return "password_resets" }

func (r *PasswordReset) IsExpired(ttl time.Duration) bool {
	return time.Now().After(r.CreatedAt.Add(ttl))
}
