package repository

import (
	"class_tracker/internal/model"

	"gorm.io/gorm"
)

type TypeCount struct {
	ErrorType model.GrammarErrorType `json:"errorType"`
	Count     int64                  `json:"count"`
}

type GrammarRepository struct {
	DB *gorm.DB
}

func NewGrammarRepository(db *gorm.DB) *GrammarRepository {
	return &GrammarRepository{DB: db}
}

func (r *GrammarRepository) Create(e *model.GrammarError) error {
	return r.DB.Create(e).Error
}

func (r *GrammarRepository) ClassDistribution(classID, teacherID uint) ([]TypeCount, error) {
	var counts []TypeCount
	err := r.DB.Table("grammar_errors g").
		Select("g.error_type AS error_type, COUNT(*) AS count").
		Joins("JOIN students s ON s.id = g.student_id").
		Where("s.class_id = ? AND s.teacher_id = ?", classID, teacherID).
		Group("g.error_type").
		Order("count DESC, g.error_type").
		Scan(&counts).Error
	return counts, err
}

func (r *GrammarRepository) StudentDistribution(studentID uint) ([]TypeCount, error) {
	var counts []TypeCount
	err := r.DB.Model(&model.GrammarError{}).
		Select("error_type, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("error_type").
		Order("count DESC, error_type").
		Scan(&counts).Error
	return counts, err
}

func (r *GrammarRepository) Recent(studentID uint, limit int) ([]model.GrammarError, error) {
	var errs []model.GrammarError
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&errs).Error
	return errs, err
}

func (r *GrammarRepository) StudentsWithErrors(classID, teacherID uint) (int64, error) {
	var n int64
	err := r.DB.Table("grammar_errors g").
		Joins("JOIN students s ON s.id = g.student_id").
		Where("s.class_id = ? AND s.teacher_id = ?", classID, teacherID).
		Distinct("g.student_id").
		Count(&n).Error
	return n, err
}
