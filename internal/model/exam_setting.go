package model

// ExamSetting 考试配置，全系统仅一条记录，首次读取时自动创建默认值
// swagger:model ExamSetting
type ExamSetting struct {
	BaseModel
	TimeLimit         int `gorm:"default:60" json:"timeLimit"`          // 分钟
	NumberOfQuestions int `gorm:"default:20" json:"numberOfQuestions"`  // 组卷题数
	PassingScore      int `gorm:"default:70" json:"passingScore"`       // 及格百分比
	ReverifyInterval  int `gorm:"default:1440" json:"reverifyInterval"` // 资格复核间隔（分钟）
}

func (ExamSetting) TableName() string {
	return "exam_settings"
}
