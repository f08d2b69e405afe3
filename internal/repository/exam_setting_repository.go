package repository

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type ExamSettingRepository struct {
	DB *gorm.DB
}

func NewExamSettingRepository(db *gorm.DB) *ExamSettingRepository {
	return &ExamSettingRepository{DB: db}
}

// GetOrCreate 读取单例配置；不存在则写入默认值后返回
func (r *ExamSettingRepository) GetOrCreate() (*model.ExamSetting, error) {
	var setting model.ExamSetting
	err := r.DB.Order("id asc").First(&setting).Error
	if err == nil {
		return &setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting = model.ExamSetting{
		TimeLimit:         util.DefaultExamTimeLimit,
		NumberOfQuestions: util.DefaultExamQuestionCount,
		PassingScore:      util.DefaultExamPassingScore,
		ReverifyInterval:  util.DefaultReverifyInterval,
	}
	if err := r.DB.Create(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *ExamSettingRepository) Update(setting *model.ExamSetting) error {
	return r.DB.Save(setting).Error
}
