package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system. Extended profile data lives in
// the Profile model; this row only carries identity and authorization state.
type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Name string `json:"name,omitempty"`

	// Account status
	IsActive bool `gorm:"default:true" json:"is_active"`
	IsAdmin  bool `gorm:"default:false" json:"is_admin"`

	// Bumped on logout to invalidate outstanding tokens
	TokenVersion int `gorm:"default:0" json:"-"`

	// Relations
	Profile       *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Memberships   []TeamMember   `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
	Applications  []Application  `gorm:"foreignKey:ApplicantID" json:"applications,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// RefreshToken tracks issued refresh tokens so they can be revoked
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`

	User User `json:"-"`
}
