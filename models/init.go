package models

import "gorm.io/gorm"

// CreateDefaultSettings seeds the settings the formation workflow reads
func CreateDefaultSettings(db *gorm.DB) error {
	defaults := []AdminSetting{
		{Key: SettingGroupSize, Value: "4"},
		{Key: SettingMinGroupSize, Value: "2"},
	}
	for _, setting := range defaults {
		if err := db.FirstOrCreate(&setting, "key = ?", setting.Key).Error; err != nil {
			return err
		}
	}
	return nil
}
