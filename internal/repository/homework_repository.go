package repository

import (
	"class_tracker/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HomeworkRow struct {
	StudentID   uint                 `json:"studentId"`
	StudentName string               `json:"studentName"`
	Date        string               `json:"date"`
	Status      model.HomeworkStatus `json:"status"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type HomeworkRepository struct {
	DB *gorm.DB
}

func NewHomeworkRepository(db *gorm.DB) *HomeworkRepository {
	return &HomeworkRepository{DB: db}
}

// Upsert 按 (student_id, date) 插入或覆盖状态
func (r *HomeworkRepository) Upsert(records []model.HomeworkRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&records).Error
}

func (r *HomeworkRepository) History(classID, teacherID uint, from, to string) ([]HomeworkRow, error) {
	var rows []HomeworkRow
	err := r.DB.Table("homework h").
		Select("h.student_id, s.name AS student_name, h.date, h.status").
		Joins("JOIN students s ON s.id = h.student_id").
		Where("s.class_id = ? AND s.teacher_id = ? AND h.date BETWEEN ? AND ?", classID, teacherID, from, to).
		Order("h.date DESC, s.name").
		Scan(&rows).Error
	return rows, err
}

func (r *HomeworkRepository) StatusCounts(classID, teacherID uint, from, to string) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.DB.Table("homework h").
		Select("h.status AS status, COUNT(*) AS count").
		Joins("JOIN students s ON s.id = h.student_id").
		Where("s.class_id = ? AND s.teacher_id = ? AND h.date BETWEEN ? AND ?", classID, teacherID, from, to).
		Group("h.status").
		Order("h.status").
		Scan(&counts).Error
	return counts, err
}
