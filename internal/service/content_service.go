package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// ContentService 课程与资料目录的维护和查询
type ContentService struct {
	Courses   *repository.CourseRepository
	Materials *repository.MaterialRepository
}

func NewContentService(courses *repository.CourseRepository, materials *repository.MaterialRepository) *ContentService {
	return &ContentService{Courses: courses, Materials: materials}
}

type CourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *ContentService) CreateCourse(req CourseRequest) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	course := &model.Course{
		Title:  *req.Title,
		Status: model.CourseActive,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.Courses.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) GetCourse(id uint) (*model.Course, []model.Material, error) {
	course, err := s.Courses.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}
	materials, err := s.Materials.ListByCourse(id)
	if err != nil {
		return nil, nil, err
	}
	return course, materials, nil
}

func (s *ContentService) ListCourses(page, limit int) ([]model.Course, int64, error) {
	return s.Courses.List(page, limit)
}

func (s *ContentService) UpdateCourse(id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.Courses.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.Courses.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) DeleteCourse(id uint) error {
	if _, err := s.Courses.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.Courses.Delete(id)
}

type MaterialRequest struct {
	Title *string `json:"title"`
	Type  *string `json:"type"`
	Order *int    `json:"order"`
}

func (s *ContentService) CreateMaterial(courseID uint, req MaterialRequest) (*model.Material, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	if req.Type == nil || (*req.Type != model.MaterialVideo && *req.Type != model.MaterialDocument) {
		return nil, util.ErrUnknownMaterialType
	}

	material := &model.Material{
		CourseID: courseID,
		Title:    *req.Title,
		Type:     *req.Type,
	}
	if req.Order != nil {
		material.Order = *req.Order
	}

	if err := s.Materials.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

// UpdateMaterial 注意：进度账本按资料标题关联，改标题会使
// 已有学员对该资料的进度脱钩，仅建议修正错别字时使用
func (s *ContentService) UpdateMaterial(id uint, req MaterialRequest) (*model.Material, error) {
	material, err := s.Materials.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMaterialNotFound
		}
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		material.Title = *req.Title
	}
	if req.Type != nil {
		if *req.Type != model.MaterialVideo && *req.Type != model.MaterialDocument {
			return nil, util.ErrUnknownMaterialType
		}
		material.Type = *req.Type
	}
	if req.Order != nil {
		material.Order = *req.Order
	}

	if err := s.Materials.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *ContentService) DeleteMaterial(id uint) error {
	if _, err := s.Materials.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMaterialNotFound
		}
		return err
	}
	return s.Materials.Delete(id)
}
