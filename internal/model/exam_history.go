package model

import (
	"encoding/json"
	"time"
)

// ExamHistory 一次考试提交的成绩单，写入后不再修改
// swagger:model ExamHistory
type ExamHistory struct {
	UUIDBase
	UserID         uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Score          int       `gorm:"default:0" json:"score"`
	TotalQuestions int       `gorm:"default:0" json:"totalQuestions"` // 配置的组卷题数
	Percentage     int       `gorm:"default:0" json:"percentage"`
	Passed         bool      `gorm:"default:false" json:"passed"`
	TimeAllotted   int       `gorm:"default:0" json:"timeAllotted"` // 分钟
	TimeSpent      int       `gorm:"default:0" json:"timeSpent"`    // 秒
	SubmittedAt    time.Time `json:"submittedAt"`
	GradedAt       time.Time `json:"gradedAt"`
}

func (ExamHistory) TableName() string {
	return "exam_histories"
}

// ExamHistoryEntry 逐题判分记录，题面、选项与标准答案原样快照，供复查
type ExamHistoryEntry struct {
	UUIDBase
	HistoryID       string          `gorm:"index;type:varchar(36)" json:"historyId"`
	QuestionID      uint            `gorm:"index;type:bigint unsigned" json:"questionId"`
	QuestionType    string          `gorm:"size:50" json:"questionType"`
	QuestionContent string          `gorm:"type:text" json:"questionContent"`
	QuestionOptions json.RawMessage `gorm:"type:json" json:"questionOptions,omitempty"`
	CorrectAnswer   string          `gorm:"type:text" json:"correctAnswer"`
	UserAnswer      *string         `gorm:"type:text" json:"userAnswer"` // 未作答为 null
	Answered        bool            `gorm:"default:false" json:"answered"`
	IsCorrect       bool            `gorm:"default:false" json:"isCorrect"`
	Score           int             `gorm:"default:0" json:"score"`
}

func (ExamHistoryEntry) TableName() string {
	return "exam_history_entries"
}
