package model

const (
	CourseActive   = "active"
	CourseArchived = "archived"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:20;default:'active'" json:"status"`
}

func (Course) TableName() string {
	return "courses"
}

const (
	MaterialVideo    = "video"
	MaterialDocument = "document"
)

// Material 课程资料（视频按百分比计进度，文档只记录是否完成）
// swagger:model Material
type Material struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Type     string `gorm:"size:20;not null" json:"type"` // video, document
	Order    int    `gorm:"default:0" json:"order"`
}

func (Material) TableName() string {
	return "materials"
}
