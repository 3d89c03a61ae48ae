package repository

import (
	"github.com/tmkhang/Margays/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByID(id uint) (*model.Answer, error)
	FindByIDWithDetails(id uint) (*model.Answer, error)
	FindBySubmission(submissionID uint) ([]model.Answer, error)
	CountPendingReview() (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByIDWithDetails(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Preload("Question").Preload("Reviewer").First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindBySubmission(submissionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("submission_id = ?", submissionID).Order("id ASC").Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountPendingReview() (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("status = ? OR reviewed_by IS NULL", model.AnswerPending).
		Count(&count).Error
	return count, err
}
