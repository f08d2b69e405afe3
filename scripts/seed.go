// 初始化演示数据脚本
//
// 写入示例课程、学习材料与考试题目，便于本地联调。
// 已存在同名数据时跳过，可重复执行。
//
// 用法: go run scripts/seed.go

package main

import (
	"encoding/json"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("写入演示数据...")
	seedCourses(db)
	seedQuestions(db)
	log.Println("完成！")
}

func seedCourses(db *gorm.DB) {
	courses := []struct {
		course    model.Course
		materials []model.Material
	}{
		{
			course: model.Course{Title: "安全生产基础", Description: "岗前必修课程", Status: model.CourseActive},
			materials: []model.Material{
				{Title: "安全须知视频", Type: model.MaterialVideo, Order: 1},
				{Title: "操作规程手册", Type: model.MaterialDocument, Order: 2},
			},
		},
		{
			course: model.Course{Title: "设备操作实务", Description: "设备上手与日常维护", Status: model.CourseActive},
			materials: []model.Material{
				{Title: "设备操作演示", Type: model.MaterialVideo, Order: 1},
				{Title: "维护检查清单", Type: model.MaterialDocument, Order: 2},
			},
		},
	}

	for _, item := range courses {
		var existing model.Course
		if err := db.Where("title = ?", item.course.Title).First(&existing).Error; err == nil {
			log.Printf("课程已存在，跳过: %s", item.course.Title)
			continue
		}
		if err := db.Create(&item.course).Error; err != nil {
			log.Fatalf("创建课程失败: %v", err)
		}
		for i := range item.materials {
			item.materials[i].CourseID = item.course.ID
		}
		if err := db.Create(&item.materials).Error; err != nil {
			log.Fatalf("创建材料失败: %v", err)
		}
		log.Printf("已创建课程: %s", item.course.Title)
	}
}

func seedQuestions(db *gorm.DB) {
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count > 0 {
		log.Printf("题库已有 %d 道题，跳过", count)
		return
	}

	yes := true
	no := false

	questions := []model.Question{
		{
			Content:     "进入作业区必须佩戴安全帽。",
			Type:        model.QuestionTrueFalse,
			CorrectBool: &yes,
			IsActive:    true,
			Order:       1,
		},
		{
			Content:     "发现设备异响可以继续使用直到班次结束。",
			Type:        model.QuestionTrueFalse,
			CorrectBool: &no,
			IsActive:    true,
			Order:       2,
		},
		{
			Content: "灭火器压力表指针处于哪个区域表示正常？",
			Type:    model.QuestionSingleChoice,
			Options: mustOptions([]model.QuestionOption{
				{ID: "a", Text: "红色区域", IsCorrect: false},
				{ID: "b", Text: "绿色区域", IsCorrect: true},
				{ID: "c", Text: "黄色区域", IsCorrect: false},
			}),
			IsActive: true,
			Order:    3,
		},
		{
			Content: "以下哪些属于个人防护用品？",
			Type:    model.QuestionMultipleChoice,
			Options: mustOptions([]model.QuestionOption{
				{ID: "a", Text: "安全帽", IsCorrect: true},
				{ID: "b", Text: "防护手套", IsCorrect: true},
				{ID: "c", Text: "办公椅", IsCorrect: false},
				{ID: "d", Text: "护目镜", IsCorrect: true},
			}),
			IsActive: true,
			Order:    4,
		},
	}

	if err := db.Create(&questions).Error; err != nil {
		log.Fatalf("创建题目失败: %v", err)
	}
	log.Printf("已创建 %d 道题目", len(questions))
}

func mustOptions(opts []model.QuestionOption) json.RawMessage {
	raw, err := json.Marshal(opts)
	if err != nil {
		log.Fatalf("序列化选项失败: %v", err)
	}
	return raw
}
