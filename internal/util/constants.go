package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 考试配置默认值，首次读取配置时落库
const (
	DefaultExamTimeLimit     = 60   // 分钟
	DefaultExamQuestionCount = 20
	DefaultExamPassingScore  = 70   // 百分比
	DefaultReverifyInterval  = 1440 // 分钟
)

// 资格评估中未购课程的占位状态
const StatusNotPurchased = "not_purchased"
