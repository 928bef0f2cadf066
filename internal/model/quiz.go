package model

// AnswersPerQuestion is fixed: every question ships exactly five options,
// one of which carries IsCorrect.
const AnswersPerQuestion = 5

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	UserID      uint   `gorm:"index;not null" json:"userId"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	BaseModel
	Text   string `gorm:"type:text;not null" json:"text"`
	QuizID uint   `gorm:"index;not null" json:"quizId"`

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	BaseModel
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"isCorrect"`
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
}

func (Answer) TableName() string {
	return "answers"
}
