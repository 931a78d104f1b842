package repository

import (
	"class_tracker/internal/model"
	"time"

	"gorm.io/gorm"
)

type DictationScoreRow struct {
	ID          uint              `json:"id"`
	StudentID   uint              `json:"studentId"`
	StudentName string            `json:"studentName"`
	StudentText string            `json:"studentText"`
	Score       float64           `json:"score"`
	AutoScore   float64           `json:"autoScore"`
	ScoreSource model.ScoreSource `json:"scoreSource"`
	FeedbackEN  string            `json:"feedbackEn"`
	FeedbackZH  string            `json:"feedbackZh"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type DictationRepository struct {
	DB *gorm.DB
}

func NewDictationRepository(db *gorm.DB) *DictationRepository {
	return &DictationRepository{DB: db}
}

func (r *DictationRepository) CreateTask(task *model.DictationTask) error {
	return r.DB.Create(task).Error
}

func (r *DictationRepository) FindTask(id, teacherID uint) (*model.DictationTask, error) {
	var task model.DictationTask
	err := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).First(&task).Error
	return &task, err
}

func (r *DictationRepository) ListTasks(teacherID uint) ([]model.DictationTask, error) {
	var tasks []model.DictationTask
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at DESC, id DESC").Find(&tasks).Error
	return tasks, err
}

func (r *DictationRepository) DeleteTask(id, teacherID uint) (int64, error) {
	result := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.DictationTask{})
	return result.RowsAffected, result.Error
}

func (r *DictationRepository) CreateScore(score *model.DictationScore) error {
	return r.DB.Create(score).Error
}

// ListScores 按分数从高到低
func (r *DictationRepository) ListScores(taskID uint) ([]DictationScoreRow, error) {
	var rows []DictationScoreRow
	err := r.DB.Table("dictation_scores d").
		Select("d.id, d.student_id, s.name AS student_name, d.student_text, d.score, d.auto_score, d.score_source, d.feedback_en, d.feedback_zh, d.created_at").
		Joins("JOIN students s ON s.id = d.student_id").
		Where("d.task_id = ?", taskID).
		Order("d.score DESC, s.name").
		Scan(&rows).Error
	return rows, err
}
