package repository

import (
	"class_tracker/internal/model"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyAverage struct {
	WeekDate string  `json:"weekDate"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}

type StudentAverage struct {
	StudentID   uint    `json:"studentId"`
	StudentName string  `json:"studentName"`
	Average     float64 `json:"average"`
	Tests       int64   `json:"tests"`
}

type SpellingRow struct {
	StudentID   uint    `json:"studentId"`
	StudentName string  `json:"studentName"`
	WeekDate    string  `json:"weekDate"`
	Score       int     `json:"score"`
	MaxScore    int     `json:"maxScore"`
	Percentage  float64 `json:"percentage"`
}

type SpellingRepository struct {
	DB *gorm.DB
}

func NewSpellingRepository(db *gorm.DB) *SpellingRepository {
	return &SpellingRepository{DB: db}
}

// Upsert 按 (student_id, week_date) 插入或覆盖
func (r *SpellingRepository) Upsert(tests []model.SpellingTest) error {
	if len(tests) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "week_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "max_score", "percentage", "updated_at"}),
	}).Create(&tests).Error
}

func (r *SpellingRepository) classScope(classID, teacherID uint) *gorm.DB {
	return r.DB.Table("spelling_tests t").
		Joins("JOIN students s ON s.id = t.student_id").
		Where("s.class_id = ? AND s.teacher_id = ?", classID, teacherID)
}

func (r *SpellingRepository) ListByWeek(classID, teacherID uint, week string) ([]SpellingRow, error) {
	var rows []SpellingRow
	err := r.classScope(classID, teacherID).
		Select("t.student_id, s.name AS student_name, t.week_date, t.score, t.max_score, t.percentage").
		Where("t.week_date = ?", week).
		Order("t.percentage DESC, s.name").
		Scan(&rows).Error
	return rows, err
}

func (r *SpellingRepository) WeeklyAverages(classID, teacherID uint) ([]WeeklyAverage, error) {
	var rows []WeeklyAverage
	err := r.classScope(classID, teacherID).
		Select("t.week_date AS week_date, AVG(t.percentage) AS average, COUNT(*) AS count").
		Group("t.week_date").
		Order("t.week_date").
		Scan(&rows).Error
	return rows, err
}

func (r *SpellingRepository) StudentAverages(classID, teacherID uint) ([]StudentAverage, error) {
	var rows []StudentAverage
	err := r.classScope(classID, teacherID).
		Select("t.student_id, s.name AS student_name, AVG(t.percentage) AS average, COUNT(*) AS tests").
		Group("t.student_id, s.name").
		Order("average DESC, s.name").
		Scan(&rows).Error
	return rows, err
}

func (r *SpellingRepository) LatestWeek(classID, teacherID uint) (string, error) {
	var week sql.NullString
	if err := r.classScope(classID, teacherID).Select("MAX(t.week_date)").Row().Scan(&week); err != nil {
		return "", err
	}
	return week.String, nil
}
