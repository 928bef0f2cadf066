package model

// Result stores one identity's score for one quiz. Exactly one of UserID and
// GuestID is set; at most one row exists per (quiz, identity) pair.
// swagger:model Result
type Result struct {
	BaseModel
	Score   int    `gorm:"not null" json:"score"`
	QuizID  uint   `gorm:"index;not null" json:"quizId"`
	UserID  *uint  `gorm:"index" json:"userId,omitempty"`
	GuestID string `gorm:"size:64;index" json:"guestId,omitempty"`
}

func (Result) TableName() string {
	return "results"
}
