package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// Experience levels
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// StringList stores a slice of strings as a JSON column
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Profile holds the extended user record, one per user. Access to the rest
// of the platform is gated on this row existing.
type Profile struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`

	FirstName  string     `gorm:"not null" json:"first_name"`
	LastName   string     `gorm:"not null" json:"last_name"`
	Bio        string     `json:"bio,omitempty"`
	Skills     StringList `gorm:"type:text" json:"skills"`
	Experience string     `gorm:"not null" json:"experience"` // beginner, intermediate, advanced

	LinkedinURL  string `json:"linkedin_url,omitempty"`
	GithubURL    string `json:"github_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`

	// Object key of the uploaded resume in blob storage
	ResumeID *string `json:"resume_id,omitempty"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`

	User User `json:"-"`
}
