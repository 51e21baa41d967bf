package models

import (
	"time"

	"gorm.io/gorm"
)

// Message types
const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeSystem = "system"
)

// Message is a team chat entry. Rows are append-only; deletion only flips
// IsDeleted so position continuity is preserved for the remaining messages.
type Message struct {
	gorm.Model
	TeamID   uint `gorm:"not null;index" json:"team_id"`
	SenderID uint `gorm:"not null;index" json:"sender_id"`

	Content string `gorm:"not null" json:"content"`
	Type    string `gorm:"not null;default:'text'" json:"type"` // text, file, system

	// Object key of an attached file in blob storage
	FileID *string `json:"file_id,omitempty"`

	SentAt    time.Time  `gorm:"not null;index" json:"sent_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	IsDeleted bool       `gorm:"default:false" json:"is_deleted"`

	Team   Team `json:"-"`
	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}
