package repository

import (
	"github.com/tmkhang/Margays/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	FindByIDsIncludingArchived(ids []uint) ([]model.Question, error)
	FindAll() ([]model.Question, error)
	FindArchived() ([]model.Question, error)
	Update(question *model.Question) error
	Archive(id uint) error
	Restore(id uint) (*model.Question, error)
	HasAnswers(questionID uint) (bool, error)
	AnswerStats(questionID uint) (total int64, highRisk int64, pending int64, err error)
	AnswerDistribution(questionID uint, answer string) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// FindByIDsIncludingArchived also returns soft-deleted questions. Answers keep
// referencing archived questions, so review paths need them.
func (r *questionRepository) FindByIDsIncludingArchived(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Unscoped().Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Order("created_at desc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindArchived() ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at desc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

// Archive soft-deletes the question. Existing answers keep referencing it.
func (r *questionRepository) Archive(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}

func (r *questionRepository) Restore(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Unscoped().Where("deleted_at IS NOT NULL").First(&question, id).Error; err != nil {
		return nil, err
	}
	if err := r.db.Unscoped().Model(&question).Update("deleted_at", nil).Error; err != nil {
		return nil, err
	}
	question.DeletedAt = gorm.DeletedAt{}
	return &question, nil
}

func (r *questionRepository) HasAnswers(questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("question_id = ?", questionID).Count(&count).Error
	return count > 0, err
}

func (r *questionRepository) AnswerStats(questionID uint) (int64, int64, int64, error) {
	var total, highRisk, pending int64

	base := r.db.Model(&model.Answer{}).Where("question_id = ?", questionID)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	err := base.Session(&gorm.Session{}).
		Where("admin_risk_level = ? OR (admin_risk_level IS NULL AND system_risk_level = ?)", model.RiskHigh, model.RiskHigh).
		Count(&highRisk).Error
	if err != nil {
		return 0, 0, 0, err
	}
	err = base.Session(&gorm.Session{}).Where("reviewed_by IS NULL").Count(&pending).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return total, highRisk, pending, nil
}

func (r *questionRepository) AnswerDistribution(questionID uint, answer string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("question_id = ? AND answer = ?", questionID, answer).
		Count(&count).Error
	return count, err
}
