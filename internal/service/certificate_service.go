package service

import (
	"errors"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 并发签发撞号时的重试上限
const certificateIssueRetries = 3

// CertificateService 签发结业证书并分配全局递增编号。
// 编号在事务内加锁读最大值后 +1，配合唯一索引与重试消除
// "读最大、加一、插入" 的并发竞态
type CertificateService struct {
	Certificates *repository.CertificateRepository
	Enrollments  *repository.EnrollmentRepository
	Users        *repository.UserRepository
	Notifier     Notifier
}

func NewCertificateService(
	certificates *repository.CertificateRepository,
	enrollments *repository.EnrollmentRepository,
	users *repository.UserRepository,
	notifier Notifier,
) *CertificateService {
	return &CertificateService{
		Certificates: certificates,
		Enrollments:  enrollments,
		Users:        users,
		Notifier:     notifier,
	}
}

type CertificateOverrides struct {
	ValidFrom  *time.Time `json:"validFrom,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// Issue 为学员签发证书，每人仅一张。
// 有效期默认：起始 = 最早选课时间；截止 = 已完成课程中最晚的完成时间，
// 无已完成课程则回退到最晚选课时间；两端均可被调用方覆盖
func (s *CertificateService) Issue(userID uint, overrides CertificateOverrides, issuedBy uint) (*model.Certificate, error) {
	if _, err := s.Certificates.FindByUser(userID); err == nil {
		return nil, util.ErrCertificateExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	validFrom, validUntil, err := s.validityPeriod(userID, overrides)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var cert *model.Certificate
	for attempt := 0; attempt < certificateIssueRetries; attempt++ {
		cert = &model.Certificate{
			UserID:       userID,
			HolderName:   user.Name,
			HolderGender: user.Gender,
			ValidFrom:    validFrom,
			ValidUntil:   validUntil,
			IssuedAt:     now,
			IssuedBy:     issuedBy,
		}

		err = s.Certificates.Transaction(func(tx *gorm.DB) error {
			max, err := s.Certificates.MaxSequenceTx(tx)
			if err != nil {
				return err
			}
			cert.Sequence = max + 1
			cert.Number = fmt.Sprintf("%02d", cert.Sequence)
			return s.Certificates.CreateTx(tx, cert)
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Log.Warn("certificate number collision, retrying",
				zap.Uint("userId", userID), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrCertificateNumber
		}
		return nil, err
	}

	monitoring.RecordCertificateIssued()

	// 通知是尽力而为的副作用，失败不回滚签发
	if s.Notifier != nil {
		if err := s.Notifier.CertificateIssued(userID, cert.Number); err != nil {
			logger.Log.Warn("certificate notification failed",
				zap.Uint("userId", userID), zap.String("number", cert.Number), zap.Error(err))
		}
	}

	return cert, nil
}

func (s *CertificateService) Mine(userID uint) (*model.Certificate, error) {
	cert, err := s.Certificates.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) List(page, limit int) ([]model.Certificate, int64, error) {
	return s.Certificates.List(page, limit)
}

func (s *CertificateService) validityPeriod(userID uint, overrides CertificateOverrides) (time.Time, time.Time, error) {
	var validFrom, validUntil time.Time

	if overrides.ValidFrom == nil || overrides.ValidUntil == nil {
		enrollments, err := s.Enrollments.ListByUser(userID)
		if err != nil {
			return validFrom, validUntil, err
		}
		if len(enrollments) == 0 {
			return validFrom, validUntil, errors.New("learner has no enrollments to derive a validity period from")
		}

		var earliest, latest time.Time
		var latestCompletion *time.Time
		for _, e := range enrollments {
			if earliest.IsZero() || e.EnrolledAt.Before(earliest) {
				earliest = e.EnrolledAt
			}
			if e.EnrolledAt.After(latest) {
				latest = e.EnrolledAt
			}
			if e.Status == model.EnrollmentCompleted && e.CompletedAt != nil {
				if latestCompletion == nil || e.CompletedAt.After(*latestCompletion) {
					latestCompletion = e.CompletedAt
				}
			}
		}

		validFrom = earliest
		if latestCompletion != nil {
			validUntil = *latestCompletion
		} else {
			validUntil = latest
		}
	}

	if overrides.ValidFrom != nil {
		validFrom = *overrides.ValidFrom
	}
	if overrides.ValidUntil != nil {
		validUntil = *overrides.ValidUntil
	}
	return validFrom, validUntil, nil
}
