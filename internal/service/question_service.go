package service

import (
	"encoding/json"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// QuestionService 题库维护。题型集合封闭，入库时校验题面与答案结构
type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionRequest struct {
	Type        string                 `json:"type" binding:"required"`
	Content     string                 `json:"content" binding:"required"`
	Options     []model.QuestionOption `json:"options"`
	CorrectBool *bool                  `json:"correctBool"`
	IsActive    *bool                  `json:"isActive"`
	Order       *int                   `json:"order"`
}

func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	q := &model.Question{
		Type:        req.Type,
		Content:     req.Content,
		CorrectBool: req.CorrectBool,
		IsActive:    true,
	}
	if req.Options != nil {
		raw, _ := json.Marshal(req.Options)
		q.Options = raw
	}
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	if req.Order != nil {
		q.Order = *req.Order
	}

	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) List(page, limit int) ([]model.Question, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	q.Type = req.Type
	q.Content = req.Content
	q.CorrectBool = req.CorrectBool
	if req.Options != nil {
		raw, _ := json.Marshal(req.Options)
		q.Options = raw
	} else {
		q.Options = nil
	}
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	if req.Order != nil {
		q.Order = *req.Order
	}

	if err := s.Repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func validateQuestion(req QuestionRequest) error {
	switch req.Type {
	case model.QuestionTrueFalse:
		if req.CorrectBool == nil {
			return errors.New("true_false question requires correctBool")
		}
	case model.QuestionSingleChoice:
		correct := 0
		for _, opt := range req.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if len(req.Options) < 2 || correct != 1 {
			return errors.New("single_choice question requires at least two options with exactly one correct")
		}
	case model.QuestionMultipleChoice:
		correct := 0
		for _, opt := range req.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if len(req.Options) < 2 || correct == 0 {
			return errors.New("multiple_choice question requires at least two options with at least one correct")
		}
	default:
		return util.ErrUnknownQuestionType
	}
	return nil
}
