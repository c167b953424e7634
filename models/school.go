package models

import (
	"time"

	"gorm.io/gorm"
)

type School struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	ContactEmail string         `gorm:"size:255;not null" json:"contact_email"`
	ContactPhone string         `gorm:"size:50;not null" json:"contact_phone"`
	Students     []Student      `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
}

// TableName overrides the table name
func (School) TableName() string {
	return "schools"
}
