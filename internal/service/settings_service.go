package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
)

// SettingsService 考试配置的唯一入口，首次读取时自动初始化默认值，
// 避免散落的全局状态
type SettingsService struct {
	Repo *repository.ExamSettingRepository
}

func NewSettingsService(repo *repository.ExamSettingRepository) *SettingsService {
	return &SettingsService{Repo: repo}
}

func (s *SettingsService) Get() (*model.ExamSetting, error) {
	return s.Repo.GetOrCreate()
}

type ExamSettingRequest struct {
	TimeLimit         *int `json:"timeLimit"`
	NumberOfQuestions *int `json:"numberOfQuestions"`
	PassingScore      *int `json:"passingScore"`
	ReverifyInterval  *int `json:"reverifyInterval"`
}

func (s *SettingsService) Update(req ExamSettingRequest) (*model.ExamSetting, error) {
	setting, err := s.Repo.GetOrCreate()
	if err != nil {
		return nil, err
	}

	if req.TimeLimit != nil {
		if *req.TimeLimit <= 0 {
			return nil, errors.New("timeLimit must be positive")
		}
		setting.TimeLimit = *req.TimeLimit
	}
	if req.NumberOfQuestions != nil {
		if *req.NumberOfQuestions <= 0 {
			return nil, errors.New("numberOfQuestions must be positive")
		}
		setting.NumberOfQuestions = *req.NumberOfQuestions
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, errors.New("passingScore must be between 0 and 100")
		}
		setting.PassingScore = *req.PassingScore
	}
	if req.ReverifyInterval != nil {
		if *req.ReverifyInterval <= 0 {
			return nil, errors.New("reverifyInterval must be positive")
		}
		setting.ReverifyInterval = *req.ReverifyInterval
	}

	if err := s.Repo.Update(setting); err != nil {
		return nil, err
	}
	return setting, nil
}
