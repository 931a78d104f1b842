package repository

import (
	"class_tracker/internal/model"
	"time"

	"gorm.io/gorm"
)

type CommentFilter struct {
	TeacherID uint
	ClassID   uint
	StudentID uint
	Category  model.CommentCategory
}

type CommentRow struct {
	ID          uint                  `json:"id"`
	StudentID   uint                  `json:"studentId"`
	StudentName string                `json:"studentName"`
	ClassName   string                `json:"className"`
	Category    model.CommentCategory `json:"category"`
	Comment     string                `json:"comment"`
	Evidence    string                `json:"evidence,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(c *model.Comment) error {
	return r.DB.Create(c).Error
}

// List 最新的评语在前
func (r *CommentRepository) List(f CommentFilter) ([]CommentRow, error) {
	query := r.DB.Table("comments c").
		Select("c.id, c.student_id, s.name AS student_name, s.class_name, c.category, c.comment, c.evidence, c.created_at").
		Joins("JOIN students s ON s.id = c.student_id").
		Where("s.teacher_id = ?", f.TeacherID)

	if f.ClassID != 0 {
		query = query.Where("s.class_id = ?", f.ClassID)
	}
	if f.StudentID != 0 {
		query = query.Where("c.student_id = ?", f.StudentID)
	}
	if f.Category != "" {
		query = query.Where("c.category = ?", f.Category)
	}

	var rows []CommentRow
	err := query.Order("c.created_at DESC, c.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *CommentRepository) Delete(id, teacherID uint) (int64, error) {
	result := r.DB.Where("id = ? AND student_id IN (?)", id,
		r.DB.Model(&model.Student{}).Select("id").Where("teacher_id = ?", teacherID),
	).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}
