package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ExamHistoryRepository struct {
	DB *gorm.DB
}

func NewExamHistoryRepository(db *gorm.DB) *ExamHistoryRepository {
	return &ExamHistoryRepository{DB: db}
}

// CreateWithEntries 成绩单与逐题记录一并落库，同一事务内完成
func (r *ExamHistoryRepository) CreateWithEntries(history *model.ExamHistory, entries []model.ExamHistoryEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].HistoryID = history.ID
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ExamHistoryRepository) ListByUser(userID uint, page, limit int) ([]model.ExamHistory, int64, error) {
	var hs []model.ExamHistory
	var total int64
	query := r.DB.Model(&model.ExamHistory{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("submitted_at desc").Offset(offset).Limit(limit).Find(&hs).Error
	return hs, total, err
}

func (r *ExamHistoryRepository) FindByID(id string) (*model.ExamHistory, []model.ExamHistoryEntry, error) {
	var h model.ExamHistory
	if err := r.DB.Where("id = ?", id).First(&h).Error; err != nil {
		return nil, nil, err
	}
	var entries []model.ExamHistoryEntry
	if err := r.DB.Where("history_id = ?", id).Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	return &h, entries, nil
}
