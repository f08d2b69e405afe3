package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) FindByUser(userID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ?", userID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// MaxSequenceTx 在事务内加锁读取当前最大编号，配合唯一索引保证编号不重复
func (r *CertificateRepository) MaxSequenceTx(tx *gorm.DB) (int, error) {
	query := tx.Model(&model.Certificate{})
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var max int
	err := query.Select("COALESCE(MAX(sequence), 0)").Scan(&max).Error
	return max, err
}

func (r *CertificateRepository) CreateTx(tx *gorm.DB, cert *model.Certificate) error {
	return tx.Create(cert).Error
}

func (r *CertificateRepository) List(page, limit int) ([]model.Certificate, int64, error) {
	var certs []model.Certificate
	var total int64
	query := r.DB.Model(&model.Certificate{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("sequence asc").Offset(offset).Limit(limit).Find(&certs).Error
	return certs, total, err
}

func (r *CertificateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}
