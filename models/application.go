package models

import (
	"time"

	"gorm.io/gorm"
)

// Application types
const (
	ApplicationTypeGroup    = "group_application"
	ApplicationTypeWolfPack = "wolf_pack"
)

// Application statuses
const (
	ApplicationStatusPending     = "pending"
	ApplicationStatusApproved    = "approved"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusShortlisted = "shortlisted"
)

// Application is a request either to be placed into an admin-formed group
// (TeamID nil) or to join an existing wolf pack team (TeamID set).
type Application struct {
	gorm.Model
	ApplicantID uint  `gorm:"not null;index" json:"applicant_id"`
	TeamID      *uint `gorm:"index" json:"team_id,omitempty"` // nil for group applications

	Type   string `gorm:"not null;index" json:"type"`                     // group_application, wolf_pack
	Status string `gorm:"not null;index;default:'pending'" json:"status"` // pending, approved, rejected, shortlisted

	ResumeID    string `gorm:"not null" json:"resume_id"`
	CoverLetter string `json:"cover_letter,omitempty"`

	// Review metadata
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`

	// Relations
	Applicant User  `gorm:"foreignKey:ApplicantID" json:"-"`
	Team      *Team `json:"team,omitempty"`
}
