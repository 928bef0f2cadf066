package service

import (
	"testing"

	"quiz_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A :memory: database exists per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.Result{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// seedQuiz creates a quiz with the given number of questions, five answers
// each, the first answer correct. Returns the quiz reloaded with its children.
func seedQuiz(t *testing.T, db *gorm.DB, userID uint, questions int) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{Title: "seeded quiz", Description: "fixture", UserID: userID}
	for i := 0; i < questions; i++ {
		question := model.Question{Text: "question"}
		for j := 0; j < model.AnswersPerQuestion; j++ {
			question.Answers = append(question.Answers, model.Answer{
				Text:      "answer",
				IsCorrect: j == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	var reloaded model.Quiz
	if err := db.Preload("Questions.Answers").First(&reloaded, quiz.ID).Error; err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	return &reloaded
}

// correctAnswerID returns the id of the question's correct answer.
func correctAnswerID(t *testing.T, q model.Question) uint {
	t.Helper()
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a.ID
		}
	}
	t.Fatalf("question %d has no correct answer", q.ID)
	return 0
}

func TestSeededQuizInvariants(t *testing.T) {
	db := newTestDB(t)
	quiz := seedQuiz(t, db, 1, 3)

	if len(quiz.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(quiz.Questions))
	}
	for _, q := range quiz.Questions {
		if len(q.Answers) != model.AnswersPerQuestion {
			t.Errorf("question %d has %d answers, want %d", q.ID, len(q.Answers), model.AnswersPerQuestion)
		}
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			t.Errorf("question %d has %d correct answers, want exactly 1", q.ID, correct)
		}
	}
}
