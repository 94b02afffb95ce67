package models

import (
	"gorm.io/gorm"
)

// User モデルの定義
type User struct {
	gorm.Model
	Username           string `gorm:"not null"`
	SubscriptionStatus string `gorm:"not null;default:'free'"`
}
