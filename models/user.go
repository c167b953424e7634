package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName       string         `gorm:"size:255" json:"full_name"`
	HashedPassword string         `gorm:"size:255;not null" json:"-"`
	Role           string         `gorm:"size:20;default:'USER';not null" json:"role"` // ADMIN, USER
	IsActive       bool           `gorm:"default:true" json:"is_active"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
