package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	quizDetailKeyPrefix = "quiz:detail:"
	quizDetailTTL       = 10 * time.Minute
)

type QuizService struct {
	Repo       *repository.QuizRepository
	ResultRepo *repository.ResultRepository
	DB         *gorm.DB
	Redis      *redis.Client
}

func NewQuizService(repo *repository.QuizRepository, resultRepo *repository.ResultRepository, db *gorm.DB, rdb *redis.Client) *QuizService {
	return &QuizService{
		Repo:       repo,
		ResultRepo: resultRepo,
		DB:         db,
		Redis:      rdb,
	}
}

type AnswerInput struct {
	ID        uint   `json:"id"`
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionInput struct {
	ID      uint          `json:"id"`
	Text    string        `json:"text" binding:"required"`
	Answers []AnswerInput `json:"answers" binding:"required,len=5,dive"`
}

type QuizInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// PublicAnswer is an answer as shown to a quiz taker: the isCorrect flag
// never leaves the server.
type PublicAnswer struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type PublicQuestion struct {
	ID      uint           `json:"id"`
	Text    string         `json:"text"`
	Answers []PublicAnswer `json:"answers"`
}

type QuizDetail struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	UserID      uint             `json:"userId"`
	CreatedAt   time.Time        `json:"createdAt"`
	Questions   []PublicQuestion `json:"questions"`
}

func (s *QuizService) Create(userID uint, req QuizInput) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	}
	for _, q := range req.Questions {
		question := model.Question{Text: q.Text}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, model.Answer{
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Get returns the taker-facing quiz detail, served from the redis cache when
// warm.
func (s *QuizService) Get(id uint) (*QuizDetail, error) {
	cacheKey := fmt.Sprintf("%s%d", quizDetailKeyPrefix, id)

	if s.Redis != nil {
		val, err := s.Redis.Get(context.Background(), cacheKey).Result()
		if err == nil {
			var detail QuizDetail
			if err := json.Unmarshal([]byte(val), &detail); err == nil {
				return &detail, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("quiz detail cache read failed", zap.Error(err))
		}
	}

	quiz, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	detail := &QuizDetail{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		UserID:      quiz.UserID,
		CreatedAt:   quiz.CreatedAt,
		Questions:   make([]PublicQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		pq := PublicQuestion{ID: q.ID, Text: q.Text}
		for _, a := range q.Answers {
			pq.Answers = append(pq.Answers, PublicAnswer{ID: a.ID, Text: a.Text})
		}
		detail.Questions = append(detail.Questions, pq)
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(detail); err == nil {
			if err := s.Redis.Set(context.Background(), cacheKey, payload, quizDetailTTL).Err(); err != nil {
				logger.Log.Warn("quiz detail cache write failed", zap.Error(err))
			}
		}
	}

	return detail, nil
}

// GetForOwner returns the full quiz, correct answers included, scoped to the
// owning user.
func (s *QuizService) GetForOwner(id, userID uint) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByIDAndOwner(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

// List pages through quizzes with a keyset cursor: newest first, cursor is
// the last-seen quiz id. The continuation cursor is absent once the page
// reaches the globally oldest quiz.
func (s *QuizService) List(cursor uint, limit int, search string) ([]model.Quiz, int64, *uint, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	quizzes, err := s.Repo.ListAfterCursor(cursor, limit, search)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, 0, nil, err
	}

	total, err := s.Repo.Count(search)
	if err != nil {
		return nil, 0, nil, err
	}

	if len(quizzes) == 0 {
		return quizzes, total, nil, nil
	}

	oldestID, err := s.Repo.OldestID()
	if err != nil {
		return nil, 0, nil, err
	}

	lastID := quizzes[len(quizzes)-1].ID
	var nextCursor *uint
	if lastID != oldestID {
		nextCursor = &lastID
	}

	return quizzes, total, nextCursor, nil
}

func (s *QuizService) ListByOwner(userID uint, offset, limit int, search string) ([]model.Quiz, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	quizzes, err := s.Repo.ListByOwner(userID, offset, limit, search)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.Repo.CountByOwner(userID, search)
	return quizzes, total, err
}

// Update applies a full replacement of the quiz's question set while keeping
// stable ids for questions that survive. Incoming questions partition three
// ways against the current question ids: id-matched ones update in place
// (answers dropped and recreated wholesale), current ids missing from the
// input delete, and the rest create. Any structural change makes existing
// results stale, so they are removed in the same transaction as the rewrite;
// a pure in-place update leaves results alone and needs no transaction.
func (s *QuizService) Update(id, userID uint, req QuizInput) (*model.Quiz, error) {
	if _, err := s.GetForOwner(id, userID); err != nil {
		return nil, err
	}

	currentIDs, err := s.Repo.QuestionIDs(id)
	if err != nil {
		return nil, err
	}
	currentSet := make(map[uint]bool, len(currentIDs))
	for _, qid := range currentIDs {
		currentSet[qid] = true
	}

	var toUpdate, toCreate []QuestionInput
	inputSet := make(map[uint]bool, len(req.Questions))
	for _, q := range req.Questions {
		if q.ID != 0 && currentSet[q.ID] {
			toUpdate = append(toUpdate, q)
			inputSet[q.ID] = true
		} else {
			toCreate = append(toCreate, q)
		}
	}

	var toDelete []uint
	for _, qid := range currentIDs {
		if !inputSet[qid] {
			toDelete = append(toDelete, qid)
		}
	}

	structural := len(toDelete) > 0 || len(toCreate) > 0

	apply := func(tx *gorm.DB) error {
		if len(toDelete) > 0 {
			if err := tx.Where("question_id IN ?", toDelete).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", toDelete).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}

		for _, q := range toUpdate {
			if err := tx.Model(&model.Question{}).Where("id = ?", q.ID).Update("text", q.Text).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", q.ID).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			answers := answersFor(q.ID, q.Answers)
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}

		for _, q := range toCreate {
			question := &model.Question{Text: q.Text, QuizID: id}
			if err := tx.Create(question).Error; err != nil {
				return err
			}
			answers := answersFor(question.ID, q.Answers)
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Quiz{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":       req.Title,
			"description": req.Description,
		}).Error; err != nil {
			return err
		}

		if structural {
			// Results reference answer ids that may no longer exist.
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Result{}).Error; err != nil {
				return err
			}
		}
		return nil
	}

	if structural {
		err = s.DB.Transaction(apply)
	} else {
		err = apply(s.DB)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateDetail(id)

	var updated model.Quiz
	if err := s.DB.First(&updated, id).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *QuizService) Delete(id, userID uint) error {
	if _, err := s.GetForOwner(id, userID); err != nil {
		return err
	}

	questionIDs, err := s.Repo.QuestionIDs(id)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Result{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
	if err != nil {
		return err
	}

	s.invalidateDetail(id)
	return nil
}

type DashboardInfo struct {
	QuizCount       int64 `json:"quizCount"`
	SubmissionCount int64 `json:"submissionCount"`
}

func (s *QuizService) Dashboard(userID uint) (*DashboardInfo, error) {
	quizCount, err := s.Repo.CountByOwner(userID, "")
	if err != nil {
		return nil, err
	}

	submissionCount, err := s.ResultRepo.CountByOwner(userID)
	if err != nil {
		return nil, err
	}

	return &DashboardInfo{
		QuizCount:       quizCount,
		SubmissionCount: submissionCount,
	}, nil
}

func (s *QuizService) invalidateDetail(id uint) {
	if s.Redis == nil {
		return
	}
	cacheKey := fmt.Sprintf("%s%d", quizDetailKeyPrefix, id)
	if err := s.Redis.Del(context.Background(), cacheKey).Err(); err != nil {
		logger.Log.Warn("quiz detail cache invalidation failed", zap.Error(err))
	}
}

func answersFor(questionID uint, inputs []AnswerInput) []model.Answer {
	answers := make([]model.Answer, 0, len(inputs))
	for _, a := range inputs {
		answers = append(answers, model.Answer{
			Text:       a.Text,
			IsCorrect:  a.IsCorrect,
			QuestionID: questionID,
		})
	}
	return answers
}
