package models

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses. Overdue is only ever set explicitly, never derived.
const (
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusOverdue    = "overdue"
)

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is a weekly assignment given to a team by an admin
type Task struct {
	gorm.Model
	TeamID uint `gorm:"not null;index" json:"team_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	AssignedBy uint      `gorm:"not null" json:"assigned_by"`
	DueDate    time.Time `gorm:"not null" json:"due_date"`

	Status   string `gorm:"not null;index;default:'assigned'" json:"status"` // assigned, in_progress, completed, overdue
	Priority string `gorm:"not null" json:"priority"`                        // low, medium, high

	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	SubmissionNotes string     `json:"submission_notes,omitempty"`

	Week int `gorm:"not null;index" json:"week"`

	Team Team `json:"-"`
}
