package model

import "encoding/json"

const (
	QuestionTrueFalse      = "true_false"
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
)

// QuestionOption 选择题选项
type QuestionOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question 考试题库中的题目；IsActive 控制是否参与组卷
// swagger:model Question
type Question struct {
	BaseModel
	Type        string          `gorm:"size:50;not null" json:"type"` // true_false, single_choice, multiple_choice
	Content     string          `gorm:"type:text;not null" json:"content"`
	Options     json.RawMessage `gorm:"type:json" json:"options,omitempty"` // JSON: []QuestionOption
	CorrectBool *bool           `json:"correctBool,omitempty"`              // 仅判断题使用
	IsActive    bool            `gorm:"default:true" json:"isActive"`
	Order       int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
