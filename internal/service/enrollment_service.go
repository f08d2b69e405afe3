package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// EnrollmentService 购课成功后创建选课记录。
// 创建是幂等的：同一学员对同一课程重复下单，返回已存在的记录，
// 对调用方是另一种成功而不是错误
type EnrollmentService struct {
	Enrollments *repository.EnrollmentRepository
	Courses     *repository.CourseRepository
}

func NewEnrollmentService(enrollments *repository.EnrollmentRepository, courses *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{Enrollments: enrollments, Courses: courses}
}

// Enroll 返回的 created 标明本次调用是否真正新建了记录
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, bool, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrCourseNotFound
		}
		return nil, false, err
	}
	if course.Status != model.CourseActive {
		return nil, false, util.ErrCourseNotFound
	}

	if existing, err := s.Enrollments.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := time.Now()
	enrollment := &model.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Status:       model.EnrollmentActive,
		EnrolledAt:   now,
		LastAccessAt: now,
	}
	if err := s.Enrollments.Create(enrollment); err != nil {
		// 并发下单撞到唯一索引：取回已有记录，仍按成功处理
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.Enrollments.FindByUserAndCourse(userID, courseID)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return enrollment, true, nil
}

func (s *EnrollmentService) ListMine(userID uint) ([]model.Enrollment, error) {
	return s.Enrollments.ListByUser(userID)
}
