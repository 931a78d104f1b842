package model

type ScoreSource string

const (
	ScoreSourceAI       ScoreSource = "ai"
	ScoreSourceFallback ScoreSource = "fallback"
)

// swagger:model DictationTask
type DictationTask struct {
	BaseModel
	Name          string  `gorm:"size:200;not null" json:"name"`
	Transcript    string  `gorm:"type:text;not null" json:"transcript"`
	AudioFile     *string `gorm:"size:500" json:"audioFile,omitempty"`
	AudioDuration float64 `gorm:"default:0" json:"audioDuration,omitempty"`
	TeacherID     uint    `gorm:"not null;index" json:"teacherId"`

	Scores []DictationScore `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DictationTask) TableName() string {
	return "dictation_tasks"
}

// DictationScore Score 为老师确认后的分数，AutoScore 为系统给出的分数
// swagger:model DictationScore
type DictationScore struct {
	BaseModel
	StudentID   uint        `gorm:"not null;index" json:"studentId"`
	TaskID      uint        `gorm:"not null;index" json:"taskId"`
	StudentText string      `gorm:"type:text;not null" json:"studentText"`
	Score       float64     `gorm:"not null" json:"score"`
	AutoScore   float64     `gorm:"default:0" json:"autoScore"`
	ScoreSource ScoreSource `gorm:"size:20" json:"scoreSource,omitempty"`
	FeedbackEN  string      `gorm:"column:feedback_en;type:text" json:"feedbackEn"`
	FeedbackZH  string      `gorm:"column:feedback_zh;type:text" json:"feedbackZh"`
}

func (DictationScore) TableName() string {
	return "dictation_scores"
}
