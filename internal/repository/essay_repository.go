package repository

import (
	"class_tracker/internal/model"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EssayRow struct {
	ID                uint            `json:"id"`
	StudentID         uint            `json:"studentId"`
	StudentName       string          `json:"studentName"`
	EssayTitle        string          `json:"essayTitle"`
	EssayType         model.EssayType `json:"essayType"`
	Score             int             `json:"score"`
	FeedbackEN        string          `json:"feedbackEn"`
	FeedbackZH        string          `json:"feedbackZh"`
	CriteriaBreakdown datatypes.JSON  `json:"-"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type EssayRepository struct {
	DB *gorm.DB
}

func NewEssayRepository(db *gorm.DB) *EssayRepository {
	return &EssayRepository{DB: db}
}

func (r *EssayRepository) Create(mark *model.EssayMark) error {
	return r.DB.Create(mark).Error
}

func (r *EssayRepository) ListByClass(classID, teacherID uint) ([]EssayRow, error) {
	var rows []EssayRow
	err := r.DB.Table("essay_marks e").
		Select("e.id, e.student_id, s.name AS student_name, e.essay_title, e.essay_type, e.score, e.feedback_en, e.feedback_zh, e.criteria_breakdown, e.created_at").
		Joins("JOIN students s ON s.id = e.student_id").
		Where("s.class_id = ? AND s.teacher_id = ?", classID, teacherID).
		Order("e.created_at DESC, e.id DESC").
		Scan(&rows).Error
	return rows, err
}
