package model

import (
	"encoding/json"
	"time"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentSuspended = "suspended"
	EnrollmentCancelled = "cancelled"
)

// ProgressEntry 进度账本条目，按资料标题记录
type ProgressEntry struct {
	MaterialTitle string `json:"materialTitle"`
	Progress      int    `json:"progress"`
}

// PresenceEntry 文档账本条目，存在即表示已完成
type PresenceEntry struct {
	MaterialTitle string `json:"materialTitle"`
}

// Enrollment 选课记录，(user_id, course_id) 全局唯一
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned;not null" json:"userId"`
	CourseID uint   `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned;not null" json:"courseId"`
	Status   string `gorm:"size:20;default:'active'" json:"status"`

	EnrolledAt   time.Time  `json:"enrolledAt"`
	LastAccessAt time.Time  `json:"lastAccessAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`

	// 派生字段：CompletionRate 恒等于视频账本的平均值（四舍五入），
	// ExamEligible 是资格评估的缓存，可随时重算
	CompletionRate int  `gorm:"default:0" json:"completionRate"`
	ExamEligible   bool `gorm:"default:false" json:"examEligible"`

	// 视频按百分比、文档按存在性分开记账；LegacyLedger 与视频账本
	// 保持同步，供旧客户端读取
	PercentLedger  json.RawMessage `gorm:"type:json" json:"percentLedger,omitempty"`
	PresenceLedger json.RawMessage `gorm:"type:json" json:"presenceLedger,omitempty"`
	LegacyLedger   json.RawMessage `gorm:"type:json" json:"legacyLedger,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
