package repository

import (
	"gorm.io/gorm"
)

type StudentSummary struct {
	StudentID        uint     `json:"studentId"`
	StudentName      string   `json:"studentName"`
	HomeworkOnTime   int64    `json:"homeworkOnTime"`
	HomeworkLate     int64    `json:"homeworkLate"`
	HomeworkAbsent   int64    `json:"homeworkAbsent"`
	Comments         int64    `json:"comments"`
	GrammarErrors    int64    `json:"grammarErrors"`
	SpellingAverage  *float64 `json:"spellingAverage"`
	DictationAverage *float64 `json:"dictationAverage"`
	EssayAverage     *float64 `json:"essayAverage"`
}

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// StudentSummaries 班级内每个学生的各项汇总
func (r *ReportRepository) StudentSummaries(classID, teacherID uint) ([]StudentSummary, error) {
	var rows []StudentSummary
	err := r.DB.Raw(`SELECT s.id AS student_id, s.name AS student_name,
			(SELECT COUNT(*) FROM homework h WHERE h.student_id = s.id AND h.status = 'on_time') AS homework_on_time,
			(SELECT COUNT(*) FROM homework h WHERE h.student_id = s.id AND h.status = 'late') AS homework_late,
			(SELECT COUNT(*) FROM homework h WHERE h.student_id = s.id AND h.status = 'absent') AS homework_absent,
			(SELECT COUNT(*) FROM comments c WHERE c.student_id = s.id) AS comments,
			(SELECT COUNT(*) FROM grammar_errors g WHERE g.student_id = s.id) AS grammar_errors,
			(SELECT AVG(t.percentage) FROM spelling_tests t WHERE t.student_id = s.id) AS spelling_average,
			(SELECT AVG(d.score) FROM dictation_scores d WHERE d.student_id = s.id) AS dictation_average,
			(SELECT AVG(e.score) FROM essay_marks e WHERE e.student_id = s.id) AS essay_average
		FROM students s
		WHERE s.class_id = ? AND s.teacher_id = ?
		ORDER BY s.name`, classID, teacherID).Scan(&rows).Error
	return rows, err
}
