package models

import (
	"time"

	"gorm.io/gorm"
)

type Participant struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Username    string         `gorm:"unique;not null" json:"username"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `gorm:"unique;not null" json:"email"`
	IsPremium   bool           `gorm:"default:false" json:"is_premium"`
	TotalPoints int64          `gorm:"default:0" json:"total_points"`
}
