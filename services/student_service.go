package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/school-billing/models"
)

type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

type StudentInput struct {
	SchoolID       uint
	FirstName      string
	LastName       string
	Email          string
	EnrollmentDate *time.Time
	Status         string
}

type UpdateStudentInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	EnrollmentDate *time.Time
	Status         *string
}

// GetAll returns live students with offset/limit pagination.
func (s *StudentService) GetAll(skip, limit int) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.Offset(skip).Limit(limit).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *StudentService) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentService) Create(in StudentInput) (*models.Student, error) {
	status := in.Status
	if status == "" {
		status = models.StudentStatusActive
	}
	student := &models.Student{
		SchoolID:       in.SchoolID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		EnrollmentDate: in.EnrollmentDate,
		Status:         status,
	}
	if err := s.db.Create(student).Error; err != nil {
		return nil, err
	}
	return student, nil
}

func (s *StudentService) Update(student *models.Student, in UpdateStudentInput) (*models.Student, error) {
	if in.FirstName != nil {
		student.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		student.LastName = *in.LastName
	}
	if in.Email != nil {
		student.Email = *in.Email
	}
	if in.EnrollmentDate != nil {
		student.EnrollmentDate = in.EnrollmentDate
	}
	if in.Status != nil {
		student.Status = *in.Status
	}
	if err := s.db.Save(student).Error; err != nil {
		return nil, err
	}
	return student, nil
}

// Delete soft-deletes the student; their invoices drop out of school
// statements through the join filter, not through cascading deletion.
func (s *StudentService) Delete(student *models.Student) error {
	return s.db.Delete(student).Error
}
