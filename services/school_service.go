package services

import (
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/models"
)

type SchoolService struct {
	db *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{db: db}
}

type SchoolInput struct {
	Name         string
	ContactEmail string
	ContactPhone string
}

type UpdateSchoolInput struct {
	Name         *string
	ContactEmail *string
	ContactPhone *string
}

func (s *SchoolService) GetAll() ([]models.School, error) {
	var schools []models.School
	if err := s.db.Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (s *SchoolService) GetByID(id uint) (*models.School, error) {
	var school models.School
	if err := s.db.First(&school, id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (s *SchoolService) Create(in SchoolInput) (*models.School, error) {
	school := &models.School{
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
	}
	if err := s.db.Create(school).Error; err != nil {
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) Update(school *models.School, in UpdateSchoolInput) (*models.School, error) {
	if in.Name != nil {
		school.Name = *in.Name
	}
	if in.ContactEmail != nil {
		school.ContactEmail = *in.ContactEmail
	}
	if in.ContactPhone != nil {
		school.ContactPhone = *in.ContactPhone
	}
	if err := s.db.Save(school).Error; err != nil {
		return nil, err
	}
	return school, nil
}

// Delete soft-deletes the school. Nothing is ever hard-deleted.
func (s *SchoolService) Delete(school *models.School) error {
	return s.db.Delete(school).Error
}
