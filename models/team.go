package models

import (
	"time"

	"gorm.io/gorm"
)

// Team types
const (
	TeamTypeGroupApplication = "group_application"
	TeamTypeWolfPack         = "wolf_pack"
	TeamTypeStartup          = "startup"
)

// Team statuses
const (
	TeamStatusForming   = "forming"
	TeamStatusActive    = "active"
	TeamStatusCompleted = "completed"
)

// Member roles
const (
	RoleLeader  = "leader"
	RoleMember  = "member"
	RolePending = "pending"
)

// Team represents a collaboration group. CurrentMembers is kept in sync
// with the membership rows by conditional updates at join time.
type Team struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Type        string `gorm:"not null;index" json:"type"`                     // group_application, wolf_pack, startup
	Status      string `gorm:"not null;index;default:'forming'" json:"status"` // forming, active, completed

	MaxMembers     int `gorm:"not null" json:"max_members"`
	CurrentMembers int `gorm:"not null;default:0" json:"current_members"`

	CreatedBy uint       `gorm:"not null;index" json:"created_by"`
	FormedAt  *time.Time `json:"formed_at,omitempty"`

	Tags         StringList `gorm:"type:text" json:"tags"`
	Requirements string     `json:"requirements,omitempty"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Creator User         `gorm:"foreignKey:CreatedBy" json:"-"`
}

// TeamMember represents team membership and the member's role
type TeamMember struct {
	gorm.Model
	TeamID uint `gorm:"not null;index:idx_team_user,unique" json:"team_id"`
	UserID uint `gorm:"not null;index:idx_team_user,unique;index" json:"user_id"`

	Role     string    `gorm:"default:'member'" json:"role"` // leader, member, pending
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}
