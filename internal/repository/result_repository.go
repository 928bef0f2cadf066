package repository

import (
	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) FindByQuizAndUser(quizID, userID uint) (*model.Result, error) {
	var result model.Result
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&result).Error
	return &result, err
}

func (r *ResultRepository) FindByQuizAndGuest(quizID uint, guestID string) (*model.Result, error) {
	var result model.Result
	err := r.DB.Where("quiz_id = ? AND guest_id = ?", quizID, guestID).First(&result).Error
	return &result, err
}

func (r *ResultRepository) Create(result *model.Result) error {
	return r.DB.Create(result).Error
}

func (r *ResultRepository) Save(result *model.Result) error {
	return r.DB.Save(result).Error
}

// CountByOwner counts submissions across every quiz the user owns.
func (r *ResultRepository) CountByOwner(userID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Result{}).
		Joins("JOIN quizzes ON quizzes.id = results.quiz_id AND quizzes.deleted_at IS NULL").
		Where("quizzes.user_id = ?", userID).
		Count(&total).Error
	return total, err
}
