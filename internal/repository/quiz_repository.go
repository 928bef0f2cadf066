package repository

import (
	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions.Answers").First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByIDAndOwner(id, userID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions.Answers").
		Where("id = ? AND user_id = ?", id, userID).
		First(&quiz).Error
	return &quiz, err
}

// FindByIDWithCorrectAnswers loads the quiz with each question restricted to
// its single correct answer, which is all scoring needs.
func (r *QuizRepository) FindByIDWithCorrectAnswers(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").
		Preload("Questions.Answers", "is_correct = ?", true).
		First(&quiz, id).Error
	return &quiz, err
}

// ListAfterCursor fetches limit rows ordered by creation time descending,
// strictly after the cursor row when a cursor is supplied. Ordering ties on
// created_at break by id so the keyset is total.
func (r *QuizRepository) ListAfterCursor(cursor uint, limit int, search string) ([]model.Quiz, error) {
	query := r.DB.Model(&model.Quiz{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	if cursor > 0 {
		var pivot model.Quiz
		if err := r.DB.Select("id", "created_at").First(&pivot, cursor).Error; err != nil {
			return nil, err
		}
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			pivot.CreatedAt, pivot.CreatedAt, pivot.ID,
		)
	}

	var quizzes []model.Quiz
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&quizzes).Error
	return quizzes, err
}

// OldestID returns the id of the globally oldest quiz, used to decide whether
// a continuation cursor should be emitted.
func (r *QuizRepository) OldestID() (uint, error) {
	var quiz model.Quiz
	err := r.DB.Order("created_at ASC, id ASC").First(&quiz).Error
	return quiz.ID, err
}

func (r *QuizRepository) Count(search string) (int64, error) {
	var total int64
	query := r.DB.Model(&model.Quiz{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	err := query.Count(&total).Error
	return total, err
}

func (r *QuizRepository) ListByOwner(userID uint, offset, limit int, search string) ([]model.Quiz, error) {
	query := r.DB.Where("user_id = ?", userID)
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var quizzes []model.Quiz
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CountByOwner(userID uint, search string) (int64, error) {
	var total int64
	query := r.DB.Model(&model.Quiz{}).Where("user_id = ?", userID)
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	err := query.Count(&total).Error
	return total, err
}

func (r *QuizRepository) QuestionIDs(quizID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &ids).Error
	return ids, err
}
