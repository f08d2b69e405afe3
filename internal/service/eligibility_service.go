package service

import (
	"context"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const eligibilityKeyFormat = "lms:eligibility:%d"

// eligibleStatuses 参与资格评估的选课状态
var eligibleStatuses = []string{model.EnrollmentActive, model.EnrollmentCompleted}

type CourseEligibility struct {
	CourseID       uint   `json:"courseId"`
	CourseTitle    string `json:"courseTitle"`
	CompletionRate int    `json:"completionRate"`
	Status         string `json:"status"`
}

type EligibilityResult struct {
	Eligible bool                `json:"eligible"`
	Courses  []CourseEligibility `json:"courses"`
}

// EligibilityService 判定学员能否参加结业考试：
// 资料目录中出现过的每一门课程都已购买，且每条选课记录完成率为 100。
// 评估结果回写到选课记录的 ExamEligible 字段并缓存到 Redis，
// 两者都只是派生缓存，重算即可恢复
type EligibilityService struct {
	Enrollments *repository.EnrollmentRepository
	Materials   *repository.MaterialRepository
	Courses     *repository.CourseRepository
	Settings    *SettingsService
	rdb         *redis.Client
}

func NewEligibilityService(
	enrollments *repository.EnrollmentRepository,
	materials *repository.MaterialRepository,
	courses *repository.CourseRepository,
	settings *SettingsService,
	rdb *redis.Client,
) *EligibilityService {
	return &EligibilityService{
		Enrollments: enrollments,
		Materials:   materials,
		Courses:     courses,
		Settings:    settings,
		rdb:         rdb,
	}
}

// Evaluate 全量重算资格并刷新缓存，是资格判定的权威路径
func (s *EligibilityService) Evaluate(userID uint) (*EligibilityResult, error) {
	catalogIDs, err := s.Materials.DistinctCourseIDs()
	if err != nil {
		return nil, err
	}

	// 目录为空时无法组卷，直接判定不合格
	if len(catalogIDs) == 0 {
		result := &EligibilityResult{Eligible: false, Courses: []CourseEligibility{}}
		s.writeBack(userID, false)
		return result, nil
	}

	enrollments, err := s.Enrollments.ListByUserAndStatuses(userID, eligibleStatuses)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[uint]*model.Enrollment, len(enrollments))
	for i := range enrollments {
		byCourse[enrollments[i].CourseID] = &enrollments[i]
	}

	titles := s.courseTitles(catalogIDs)

	eligible := true
	courses := make([]CourseEligibility, 0, len(catalogIDs))
	for _, courseID := range catalogIDs {
		entry := CourseEligibility{
			CourseID:    courseID,
			CourseTitle: titles[courseID],
		}
		if e, ok := byCourse[courseID]; ok {
			entry.CompletionRate = e.CompletionRate
			entry.Status = e.Status
			if e.CompletionRate != 100 {
				eligible = false
			}
		} else {
			entry.CompletionRate = 0
			entry.Status = util.StatusNotPurchased
			eligible = false
		}
		courses = append(courses, entry)
	}

	s.writeBack(userID, eligible)

	return &EligibilityResult{Eligible: eligible, Courses: courses}, nil
}

// Eligible 快速判定：优先读 Redis 缓存，未命中再全量评估
func (s *EligibilityService) Eligible(userID uint) (bool, error) {
	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		val, err := s.rdb.Get(ctx, fmt.Sprintf(eligibilityKeyFormat, userID)).Result()
		cancel()
		if err == nil {
			return val == "1", nil
		}
	}

	result, err := s.Evaluate(userID)
	if err != nil {
		return false, err
	}
	return result.Eligible, nil
}

// InvalidateCache 进度写入后调用，使缓存立即失效
func (s *EligibilityService) InvalidateCache(userID uint) {
	if s.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.rdb.Del(ctx, fmt.Sprintf(eligibilityKeyFormat, userID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate eligibility cache",
			zap.Uint("userId", userID), zap.Error(err))
	}
}

// writeBack 回写派生缓存：选课记录上的标记 + Redis 条目。
// 写失败只记日志，评估结果本身照常返回
func (s *EligibilityService) writeBack(userID uint, eligible bool) {
	if err := s.Enrollments.SetExamEligibility(userID, eligibleStatuses, eligible); err != nil {
		logger.Log.Warn("failed to write eligibility flag",
			zap.Uint("userId", userID), zap.Error(err))
	}

	if s.rdb == nil {
		return
	}
	ttl := time.Duration(util.DefaultReverifyInterval) * time.Minute
	if setting, err := s.Settings.Get(); err == nil && setting.ReverifyInterval > 0 {
		ttl = time.Duration(setting.ReverifyInterval) * time.Minute
	}

	val := "0"
	if eligible {
		val = "1"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.rdb.Set(ctx, fmt.Sprintf(eligibilityKeyFormat, userID), val, ttl).Err(); err != nil {
		logger.Log.Warn("failed to cache eligibility",
			zap.Uint("userId", userID), zap.Error(err))
	}
}

func (s *EligibilityService) courseTitles(ids []uint) map[uint]string {
	titles := make(map[uint]string, len(ids))
	courses, err := s.Courses.FindByIDs(ids)
	if err != nil {
		logger.Log.Warn("failed to load course titles for eligibility breakdown", zap.Error(err))
		return titles
	}
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	return titles
}
