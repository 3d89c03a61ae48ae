package repository

import (
	"errors"

	"github.com/tmkhang/Margays/internal/model"
	"gorm.io/gorm"
)

type VulnerabilityRepository interface {
	ExistsForSubmission(submissionID uint) (bool, error)
	FindByID(id uint) (*model.VulnerabilityRecord, error)
	FindAll(userID *uint) ([]model.VulnerabilityRecord, error)
	Update(record *model.VulnerabilityRecord) error
}

type vulnerabilityRepository struct {
	db *gorm.DB
}

func NewVulnerabilityRepository(db *gorm.DB) VulnerabilityRepository {
	return &vulnerabilityRepository{db: db}
}

func (r *vulnerabilityRepository) ExistsForSubmission(submissionID uint) (bool, error) {
	var record model.VulnerabilityRecord
	err := r.db.Where("submission_id = ?", submissionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *vulnerabilityRepository) FindByID(id uint) (*model.VulnerabilityRecord, error) {
	var record model.VulnerabilityRecord
	err := r.db.Preload("Findings").First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *vulnerabilityRepository) FindAll(userID *uint) ([]model.VulnerabilityRecord, error) {
	var records []model.VulnerabilityRecord
	query := r.db.Preload("Findings")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	err := query.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *vulnerabilityRepository) Update(record *model.VulnerabilityRecord) error {
	return r.db.Save(record).Error
}
