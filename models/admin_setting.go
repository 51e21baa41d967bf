package models

import "gorm.io/gorm"

// Well-known setting keys
const (
	SettingGroupSize    = "group_size"     // target size for batch-formed groups
	SettingMinGroupSize = "min_group_size" // smallest remainder that still forms a group
)

// AdminSetting is a key/value row for platform-wide configuration
type AdminSetting struct {
	gorm.Model
	Key       string `gorm:"uniqueIndex;not null" json:"key"`
	Value     string `gorm:"not null" json:"value"`
	UpdatedBy uint   `json:"updated_by"`
}
