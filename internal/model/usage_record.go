package model

import "gorm.io/gorm"

// UsageRecord tracks how many billable questions a user has asked on a given
// calendar day, and whether that user has unlimited access for that day.
// Exactly one record exists per (user_id, day) pair.
type UsageRecord struct {
	gorm.Model
	UserID  int64  `gorm:"uniqueIndex:idx_user_day;not null"`
	Day     string `gorm:"type:varchar(10);uniqueIndex:idx_user_day;not null"`
	Count   int    `gorm:"default:0;not null"`
	Premium bool   `gorm:"default:false;not null"`
}
