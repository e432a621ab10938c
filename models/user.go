package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	Email                string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username             string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash         string         `gorm:"size:255;not null" json:"-"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	InvestmentPreference string         `gorm:"size:32" json:"investment_preference"` // 안정적, 균형, 공격적
	RiskTolerance        string         `gorm:"size:32" json:"risk_tolerance"`        // 낮음, 중간, 높음
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
