package models

import (
	"time"

	"gorm.io/gorm"
)

// Student statuses
const (
	StudentStatusActive    = "ACTIVE"
	StudentStatusInactive  = "INACTIVE"
	StudentStatusGraduated = "GRADUATED"
)

type Student struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	SchoolID       uint           `gorm:"not null;index" json:"school_id"`
	School         School         `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	FirstName      string         `gorm:"size:255;not null" json:"first_name"`
	LastName       string         `gorm:"size:255;not null" json:"last_name"`
	Email          string         `gorm:"size:255" json:"email"`
	EnrollmentDate *time.Time     `gorm:"type:date" json:"enrollment_date"`
	Status         string         `gorm:"size:20;default:'ACTIVE';not null" json:"status"` // ACTIVE, INACTIVE, GRADUATED
	Invoices       []Invoice      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"invoices,omitempty"`
}

// TableName overrides the table name
func (Student) TableName() string {
	return "students"
}
