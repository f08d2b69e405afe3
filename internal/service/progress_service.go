package service

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 维护选课记录内的进度账本并推导完成率。
// 视频资料按 0-100 百分比记账，文档资料只记是否完成；
// 完成率只由视频账本推导，文档不参与
type ProgressService struct {
	Enrollments *repository.EnrollmentRepository
	Eligibility *EligibilityService
}

func NewProgressService(enrollments *repository.EnrollmentRepository, eligibility *EligibilityService) *ProgressService {
	return &ProgressService{Enrollments: enrollments, Eligibility: eligibility}
}

type ProgressResult struct {
	CompletionRate int    `json:"completionRate"`
	Status         string `json:"status"`
	Skipped        bool   `json:"skipped"`
}

// RecordProgress 记录一条资料进度。
// 视频资料已达 100 后重复提交是幂等空操作（skipped=true），防止完成后被意外回退；
// 文档资料存在即已完成，不支持撤销。
// 写入通过行锁按选课记录串行化，避免并发写丢失账本条目
func (s *ProgressService) RecordProgress(userID, enrollmentID uint, materialTitle, materialType string, value int) (*ProgressResult, error) {
	switch materialType {
	case model.MaterialVideo:
		if value < 0 || value > 100 {
			return nil, util.ErrInvalidProgress
		}
	case model.MaterialDocument:
		// 文档无部分进度，value 忽略
	default:
		return nil, util.ErrUnknownMaterialType
	}

	var result ProgressResult
	err := s.Enrollments.Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.Enrollments.FindByIDForUpdate(tx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrEnrollmentNotFound
			}
			return err
		}
		if enrollment.UserID != userID {
			return util.ErrEnrollmentNotFound
		}
		if enrollment.Status != model.EnrollmentActive && enrollment.Status != model.EnrollmentCompleted {
			return util.ErrEnrollmentInactive
		}

		skipped := false
		switch materialType {
		case model.MaterialVideo:
			skipped = applyVideoProgress(enrollment, materialTitle, value)
		case model.MaterialDocument:
			skipped = applyDocumentProgress(enrollment, materialTitle)
		}

		result.Skipped = skipped
		if skipped {
			result.CompletionRate = enrollment.CompletionRate
			result.Status = enrollment.Status
			return nil
		}

		enrollment.CompletionRate = completionRate(decodeProgressEntries(enrollment.PercentLedger))
		if enrollment.CompletionRate == 100 && enrollment.Status != model.EnrollmentCompleted {
			now := time.Now()
			enrollment.Status = model.EnrollmentCompleted
			enrollment.CompletedAt = &now
		}
		enrollment.LastAccessAt = time.Now()

		if err := s.Enrollments.SaveTx(tx, enrollment); err != nil {
			return err
		}

		result.CompletionRate = enrollment.CompletionRate
		result.Status = enrollment.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 资格复核是次级副作用：失败只记日志，不影响进度写入
	if !result.Skipped && s.Eligibility != nil {
		s.Eligibility.InvalidateCache(userID)
		if _, err := s.Eligibility.Evaluate(userID); err != nil {
			logger.Log.Warn("eligibility recheck failed after progress update",
				zap.Uint("userId", userID), zap.Error(err))
		}
	}

	return &result, nil
}

// applyVideoProgress 返回 true 表示命中幂等守卫，账本未改动
func applyVideoProgress(enrollment *model.Enrollment, title string, value int) bool {
	entries := decodeProgressEntries(enrollment.PercentLedger)

	updated := false
	for i := range entries {
		if entries[i].MaterialTitle == title {
			if entries[i].Progress == 100 {
				return true
			}
			entries[i].Progress = value
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, model.ProgressEntry{MaterialTitle: title, Progress: value})
	}

	raw, _ := json.Marshal(entries)
	enrollment.PercentLedger = raw
	// 旧版合并账本与视频账本保持一致，供尚未迁移的客户端读取
	enrollment.LegacyLedger = raw
	return false
}

func applyDocumentProgress(enrollment *model.Enrollment, title string) bool {
	entries := decodePresenceEntries(enrollment.PresenceLedger)

	for _, e := range entries {
		if e.MaterialTitle == title {
			return true
		}
	}
	entries = append(entries, model.PresenceEntry{MaterialTitle: title})

	raw, _ := json.Marshal(entries)
	enrollment.PresenceLedger = raw
	return false
}

// completionRate 视频账本均值四舍五入；空账本为 0
func completionRate(entries []model.ProgressEntry) int {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Progress
	}
	return int(math.Round(float64(sum) / float64(len(entries))))
}

func decodeProgressEntries(raw json.RawMessage) []model.ProgressEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []model.ProgressEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Log.Warn("corrupt percent ledger, treating as empty", zap.Error(err))
		return nil
	}
	return entries
}

func decodePresenceEntries(raw json.RawMessage) []model.PresenceEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []model.PresenceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Log.Warn("corrupt presence ledger, treating as empty", zap.Error(err))
		return nil
	}
	return entries
}
