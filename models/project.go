package models

import (
	"time"

	"gorm.io/gorm"
)

// Project categories
const (
	ProjectCategoryStartup    = "startup"
	ProjectCategoryLearning   = "learning"
	ProjectCategoryFreelance  = "freelance"
	ProjectCategoryOpenSource = "open_source"
)

// Project statuses
const (
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusPaused     = "paused"
)

// Project is a posted opportunity. TeamID exists in the schema but no
// workflow links projects to teams yet.
type Project struct {
	gorm.Model
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"not null;index" json:"category"`              // startup, learning, freelance, open_source
	Status      string `gorm:"not null;index;default:'open'" json:"status"` // open, in_progress, completed, paused

	CreatedBy uint  `gorm:"not null;index" json:"created_by"`
	TeamID    *uint `json:"team_id,omitempty"`

	RequiredSkills StringList `gorm:"type:text" json:"required_skills"`
	TimeCommitment string     `json:"time_commitment"` // part_time, full_time, flexible
	Duration       string     `json:"duration,omitempty"`
	Compensation   string     `json:"compensation,omitempty"`

	SpotsAvailable      int        `gorm:"not null" json:"spots_available"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	Tags StringList `gorm:"type:text" json:"tags"`

	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}
