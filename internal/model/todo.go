package model

type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoDone       TodoStatus = "done"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoPending, TodoInProgress, TodoDone:
		return true
	}
	return false
}

// swagger:model Todo
type Todo struct {
	BaseModel
	Task      string     `gorm:"type:text;not null" json:"task"`
	Status    TodoStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	TeacherID uint       `gorm:"not null;index" json:"teacherId"`
}

func (Todo) TableName() string {
	return "todos"
}
