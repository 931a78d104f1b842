package model

type HomeworkStatus string

const (
	HomeworkOnTime HomeworkStatus = "on_time"
	HomeworkLate   HomeworkStatus = "late"
	HomeworkAbsent HomeworkStatus = "absent"
)

func (s HomeworkStatus) Valid() bool {
	switch s {
	case HomeworkOnTime, HomeworkLate, HomeworkAbsent:
		return true
	}
	return false
}

// HomeworkRecord 每个学生每天一条，由 (student_id, date) 唯一索引保证
// swagger:model HomeworkRecord
type HomeworkRecord struct {
	BaseModel
	StudentID uint           `gorm:"not null;uniqueIndex:idx_homework_student_date" json:"studentId"`
	Date      string         `gorm:"size:10;not null;uniqueIndex:idx_homework_student_date;index" json:"date"`
	Status    HomeworkStatus `gorm:"size:20;not null" json:"status"`
}

func (HomeworkRecord) TableName() string {
	return "homework"
}
