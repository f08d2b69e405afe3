package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(material *model.Material) error {
	return r.DB.Create(material).Error
}

func (r *MaterialRepository) FindByID(id uint) (*model.Material, error) {
	var m model.Material
	err := r.DB.First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DistinctCourseIDs 资料目录中出现过的全部课程ID，资格评估以此为全集
func (r *MaterialRepository) DistinctCourseIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Material{}).Distinct("course_id").Pluck("course_id", &ids).Error
	return ids, err
}

func (r *MaterialRepository) ListByCourse(courseID uint) ([]model.Material, error) {
	var materials []model.Material
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` asc, created_at asc").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) Update(material *model.Material) error {
	return r.DB.Save(material).Error
}

func (r *MaterialRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Material{}, id).Error
}
