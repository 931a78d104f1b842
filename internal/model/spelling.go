package model

const DefaultSpellingMaxScore = 20

// swagger:model SpellingTest
type SpellingTest struct {
	BaseModel
	StudentID  uint    `gorm:"not null;uniqueIndex:idx_spelling_student_week" json:"studentId"`
	Score      int     `gorm:"not null" json:"score"`
	MaxScore   int     `gorm:"not null;default:20" json:"maxScore"`
	WeekDate   string  `gorm:"size:10;not null;uniqueIndex:idx_spelling_student_week;index" json:"weekDate"`
	Percentage float64 `gorm:"not null" json:"percentage"`
}

func (SpellingTest) TableName() string {
	return "spelling_tests"
}
