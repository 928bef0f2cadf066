package service

import (
	"errors"
	"testing"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"

	"gorm.io/gorm"
)

func newResultService(db *gorm.DB) *ResultService {
	return NewResultService(repository.NewResultRepository(db), repository.NewQuizRepository(db))
}

func TestCalcScore(t *testing.T) {
	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Answers: []model.Answer{{BaseModel: model.BaseModel{ID: 10}, IsCorrect: true}}},
		{BaseModel: model.BaseModel{ID: 2}, Answers: []model.Answer{{BaseModel: model.BaseModel{ID: 20}, IsCorrect: true}}},
		{BaseModel: model.BaseModel{ID: 3}, Answers: []model.Answer{{BaseModel: model.BaseModel{ID: 30}, IsCorrect: true}}},
	}

	cases := []struct {
		name    string
		answers []UserAnswerInput
		want    int
	}{
		{"no pairs", nil, 0},
		{"all correct", []UserAnswerInput{{1, 10}, {2, 20}, {3, 30}}, 3},
		{"one wrong", []UserAnswerInput{{1, 10}, {2, 99}}, 1},
		{"unanswered questions count zero", []UserAnswerInput{{1, 10}}, 1},
		{"unknown question id ignored", []UserAnswerInput{{42, 10}}, 0},
		{"first duplicate wins", []UserAnswerInput{{1, 99}, {1, 10}}, 0},
		{"first duplicate wins when correct", []UserAnswerInput{{1, 10}, {1, 99}}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalcScore(questions, tc.answers); got != tc.want {
				t.Errorf("CalcScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCalcScoreMonotonic(t *testing.T) {
	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Answers: []model.Answer{{BaseModel: model.BaseModel{ID: 10}, IsCorrect: true}}},
		{BaseModel: model.BaseModel{ID: 2}, Answers: []model.Answer{{BaseModel: model.BaseModel{ID: 20}, IsCorrect: true}}},
		{BaseModel: model.BaseModel{ID: 3}, Answers: []model.Answer{{BaseModel: model.BaseModel{ID: 30}, IsCorrect: true}}},
	}

	correct := []UserAnswerInput{{1, 10}, {2, 20}, {3, 30}}
	prev := 0
	for i := 1; i <= len(correct); i++ {
		score := CalcScore(questions, correct[:i])
		if score < prev {
			t.Fatalf("score decreased from %d to %d after adding a correct pair", prev, score)
		}
		prev = score
	}
	if prev != 3 {
		t.Fatalf("final score = %d, want 3", prev)
	}
}

func TestSubmitUpsertsPerGuest(t *testing.T) {
	db := newTestDB(t)
	svc := newResultService(db)
	quiz := seedQuiz(t, db, 1, 2)

	q1, q2 := quiz.Questions[0], quiz.Questions[1]
	c1, c2 := correctAnswerID(t, q1), correctAnswerID(t, q2)

	identity := Identity{GuestID: "guest-1"}
	first, err := svc.Submit(quiz.ID, identity, []UserAnswerInput{
		{QuestionID: q1.ID, AnswerID: c1},
		{QuestionID: q2.ID, AnswerID: 99999},
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Score != 1 {
		t.Errorf("first score = %d, want 1", first.Score)
	}

	second, err := svc.Submit(quiz.ID, identity, []UserAnswerInput{
		{QuestionID: q1.ID, AnswerID: c1},
		{QuestionID: q2.ID, AnswerID: c2},
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Score != 2 {
		t.Errorf("second score = %d, want 2", second.Score)
	}
	if second.ID != first.ID {
		t.Errorf("resubmission created a new row: %d != %d", second.ID, first.ID)
	}

	var count int64
	db.Model(&model.Result{}).Where("quiz_id = ?", quiz.ID).Count(&count)
	if count != 1 {
		t.Errorf("result rows = %d, want exactly 1 per (quiz, identity)", count)
	}
}

func TestSubmitLastWriteWins(t *testing.T) {
	// Concurrent submissions for one identity race last-write-wins; sequential
	// submissions model the serialized order the store ends up applying.
	db := newTestDB(t)
	svc := newResultService(db)
	quiz := seedQuiz(t, db, 1, 1)

	q := quiz.Questions[0]
	c := correctAnswerID(t, q)
	identity := Identity{GuestID: "racer"}

	if _, err := svc.Submit(quiz.ID, identity, []UserAnswerInput{{QuestionID: q.ID, AnswerID: c}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	last, err := svc.Submit(quiz.ID, identity, []UserAnswerInput{{QuestionID: q.ID, AnswerID: 99999}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored, err := svc.Repo.FindByQuizAndGuest(quiz.ID, "racer")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Score != last.Score || stored.Score != 0 {
		t.Errorf("stored score = %d, want the last submission's 0", stored.Score)
	}
}

func TestSubmitMintsGuestID(t *testing.T) {
	db := newTestDB(t)
	svc := newResultService(db)
	quiz := seedQuiz(t, db, 1, 1)

	result, err := svc.Submit(quiz.ID, Identity{}, []UserAnswerInput{{QuestionID: quiz.Questions[0].ID, AnswerID: 1}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.GuestID == "" {
		t.Error("anonymous submission without guestId should get a minted guest token")
	}
	if result.UserID != nil {
		t.Error("guest result must not carry a user id")
	}
}

func TestSubmitKeysByUserAndGuestSeparately(t *testing.T) {
	db := newTestDB(t)
	svc := newResultService(db)
	quiz := seedQuiz(t, db, 1, 1)

	q := quiz.Questions[0]
	c := correctAnswerID(t, q)
	userID := uint(7)

	if _, err := svc.Submit(quiz.ID, Identity{UserID: &userID}, []UserAnswerInput{{QuestionID: q.ID, AnswerID: c}}); err != nil {
		t.Fatalf("user submit: %v", err)
	}
	if _, err := svc.Submit(quiz.ID, Identity{GuestID: "guest-2"}, []UserAnswerInput{{QuestionID: q.ID, AnswerID: c}}); err != nil {
		t.Fatalf("guest submit: %v", err)
	}

	var count int64
	db.Model(&model.Result{}).Where("quiz_id = ?", quiz.ID).Count(&count)
	if count != 2 {
		t.Errorf("result rows = %d, want 2 distinct identities", count)
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newResultService(db)

	_, err := svc.Submit(12345, Identity{GuestID: "g"}, []UserAnswerInput{{QuestionID: 1, AnswerID: 1}})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestGetResultReview(t *testing.T) {
	db := newTestDB(t)
	svc := newResultService(db)
	quiz := seedQuiz(t, db, 1, 2)

	q := quiz.Questions[0]
	c := correctAnswerID(t, q)
	identity := Identity{GuestID: "reviewer"}

	if _, err := svc.Submit(quiz.ID, identity, []UserAnswerInput{{QuestionID: q.ID, AnswerID: c}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	review, err := svc.Get(quiz.ID, identity)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if review.Score != 1 {
		t.Errorf("review score = %d, want 1", review.Score)
	}
	if len(review.Questions) != 2 {
		t.Fatalf("review questions = %d, want 2", len(review.Questions))
	}
	for _, rq := range review.Questions {
		if rq.CorrectAnswer == nil || !rq.CorrectAnswer.IsCorrect {
			t.Errorf("question %d review is missing its correct answer", rq.ID)
		}
	}
}

func TestGetResultNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newResultService(db)
	quiz := seedQuiz(t, db, 1, 1)

	_, err := svc.Get(quiz.ID, Identity{GuestID: "nobody"})
	if !errors.Is(err, util.ErrResultNotFound) {
		t.Errorf("err = %v, want ErrResultNotFound", err)
	}

	_, err = svc.Get(99999, Identity{GuestID: "nobody"})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}
