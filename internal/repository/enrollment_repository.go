package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByIDForUpdate 在事务内加行锁读取，进度写入按选课记录串行化。
// SQLite 不支持 FOR UPDATE，跳过锁子句（事务本身已是串行的）
func (r *EnrollmentRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Enrollment, error) {
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var e model.Enrollment
	err := tx.First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Order("enrolled_at asc").Find(&es).Error
	return es, err
}

func (r *EnrollmentRepository) ListByUserAndStatuses(userID uint, statuses []string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Where("user_id = ? AND status IN ?", userID, statuses).
		Order("enrolled_at asc").Find(&es).Error
	return es, err
}

func (r *EnrollmentRepository) SaveTx(tx *gorm.DB, enrollment *model.Enrollment) error {
	return tx.Save(enrollment).Error
}

// SetExamEligibility 批量回写资格标记（派生缓存，随时可重算）
func (r *EnrollmentRepository) SetExamEligibility(userID uint, statuses []string, eligible bool) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Update("exam_eligible", eligible).Error
}

func (r *EnrollmentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}
