package repository

import (
	"class_tracker/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) ExistsByName(teacherID uint, name string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Class{}).
		Where("teacher_id = ? AND name = ?", teacherID, name).
		Count(&count).Error
	return count > 0, err
}

// FindOwned 只返回属于该老师的班级
func (r *ClassRepository) FindOwned(id, teacherID uint) (*model.Class, error) {
	var class model.Class
	err := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).First(&class).Error
	return &class, err
}

func (r *ClassRepository) ListByTeacher(teacherID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Preload("Students", func(db *gorm.DB) *gorm.DB {
		return db.Order("name")
	}).Where("teacher_id = ?", teacherID).Order("name").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) Delete(id, teacherID uint) (int64, error) {
	result := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.Class{})
	return result.RowsAffected, result.Error
}
