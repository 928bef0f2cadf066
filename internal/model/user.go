package model

// swagger:model User
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`

	Quizzes []Quiz `gorm:"foreignKey:UserID" json:"quizzes,omitempty"`
}

func (User) TableName() string {
	return "users"
}
