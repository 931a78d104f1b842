package repository

import (
	"class_tracker/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindOwned(id, teacherID uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).First(&student).Error
	return &student, err
}

// CountOwned 统计 ids 中属于该老师的学生数量，classID 非 0 时只统计该班学生
func (r *StudentRepository) CountOwned(ids []uint, teacherID, classID uint) (int64, error) {
	var count int64
	query := r.DB.Model(&model.Student{}).Where("id IN ? AND teacher_id = ?", ids, teacherID)
	if classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *StudentRepository) ListByClass(classID, teacherID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Where("class_id = ? AND teacher_id = ?", classID, teacherID).
		Order("name").Find(&students).Error
	return students, err
}

func (r *StudentRepository) ListByTeacher(teacherID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Where("teacher_id = ?", teacherID).
		Order("class_name, name").Find(&students).Error
	return students, err
}

func (r *StudentRepository) Delete(id, teacherID uint) (int64, error) {
	result := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.Student{})
	return result.RowsAffected, result.Error
}
