package models

import "gorm.io/gorm"

// Notification types
const (
	NotificationApplicationUpdate = "application_update"
	NotificationTeamFormed        = "team_formed"
	NotificationTaskAssigned      = "task_assigned"
	NotificationMessage           = "message"
)

// Notification is an append-only per-user event. Rows are produced as side
// effects of other mutations and only ever patched to flip IsRead.
type Notification struct {
	gorm.Model
	UserID uint `gorm:"not null;index:idx_user_read" json:"user_id"`

	Type    string `gorm:"not null" json:"type"` // application_update, team_formed, task_assigned, message
	Title   string `gorm:"not null" json:"title"`
	Message string `json:"message"`

	IsRead bool `gorm:"default:false;index:idx_user_read" json:"is_read"`

	// ID of the entity this notification refers to, if any
	RelatedID string `json:"related_id,omitempty"`

	User User `json:"-"`
}
