package service

import (
	"errors"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResultService struct {
	Repo     *repository.ResultRepository
	QuizRepo *repository.QuizRepository
}

func NewResultService(repo *repository.ResultRepository, quizRepo *repository.QuizRepository) *ResultService {
	return &ResultService{
		Repo:     repo,
		QuizRepo: quizRepo,
	}
}

// Identity names who took the quiz: an authenticated user id, or a guest
// token. Exactly one side is set.
type Identity struct {
	UserID  *uint
	GuestID string
}

type UserAnswerInput struct {
	QuestionID uint `json:"questionId" binding:"required"`
	AnswerID   uint `json:"answerId" binding:"required"`
}

// Submit scores the submitted answers against the quiz and upserts the single
// result row for (quiz, identity). A guest without a token gets a fresh one,
// returned on the result so the client can resubmit under the same identity.
// Concurrent submissions for the same identity race last-write-wins; that is
// accepted.
func (s *ResultService) Submit(quizID uint, identity Identity, answers []UserAnswerInput) (*model.Result, error) {
	quiz, err := s.QuizRepo.FindByIDWithCorrectAnswers(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	if identity.UserID == nil && identity.GuestID == "" {
		identity.GuestID = uuid.New().String()
	}

	score := CalcScore(quiz.Questions, answers)

	existing, err := s.find(quizID, identity)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		existing.Score = score
		existing.UserID = identity.UserID
		existing.GuestID = identity.GuestID
		if err := s.Repo.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	result := &model.Result{
		Score:   score,
		QuizID:  quizID,
		UserID:  identity.UserID,
		GuestID: identity.GuestID,
	}
	if err := s.Repo.Create(result); err != nil {
		return nil, err
	}
	return result, nil
}

// CalcScore counts the questions whose correct answer id matches the first
// submitted pair for that question. Questions without a submitted pair, and
// pairs naming unknown questions, contribute nothing.
func CalcScore(questions []model.Question, answers []UserAnswerInput) int {
	score := 0
	for _, question := range questions {
		if len(question.Answers) != 1 {
			// No single correct answer stored, nothing to match against.
			continue
		}
		for _, ua := range answers {
			if ua.QuestionID != question.ID {
				continue
			}
			if ua.AnswerID == question.Answers[0].ID {
				score++
			}
			break
		}
	}
	return score
}

type ReviewQuestion struct {
	ID            uint          `json:"id"`
	Text          string        `json:"text"`
	CorrectAnswer *model.Answer `json:"correctAnswer,omitempty"`
}

type ResultReview struct {
	model.Result
	Questions []ReviewQuestion `json:"questions"`
}

// Get returns the stored result for (quiz, identity) along with each
// question's correct answer for review.
func (s *ResultService) Get(quizID uint, identity Identity) (*ResultReview, error) {
	quiz, err := s.QuizRepo.FindByIDWithCorrectAnswers(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	result, err := s.find(quizID, identity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	} else if err != nil {
		return nil, err
	}

	review := &ResultReview{Result: *result}
	for _, q := range quiz.Questions {
		rq := ReviewQuestion{ID: q.ID, Text: q.Text}
		if len(q.Answers) == 1 {
			answer := q.Answers[0]
			rq.CorrectAnswer = &answer
		}
		review.Questions = append(review.Questions, rq)
	}
	return review, nil
}

func (s *ResultService) find(quizID uint, identity Identity) (*model.Result, error) {
	if identity.UserID != nil {
		return s.Repo.FindByQuizAndUser(quizID, *identity.UserID)
	}
	return s.Repo.FindByQuizAndGuest(quizID, identity.GuestID)
}
