package model

// swagger:model Class
type Class struct {
	BaseModel
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_class_teacher_name" json:"name"`
	TeacherID uint      `gorm:"not null;uniqueIndex:idx_class_teacher_name" json:"teacherId"`
	Students  []Student `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
}

func (Class) TableName() string {
	return "classes"
}

// Student 保留冗余的 class_name 字段，同时通过 class_id 建立外键
// swagger:model Student
type Student struct {
	BaseModel
	Name      string `gorm:"size:100;not null" json:"name"`
	ClassName string `gorm:"size:100;not null;index" json:"className"`
	ClassID   uint   `gorm:"not null;index" json:"classId"`
	TeacherID uint   `gorm:"not null;index" json:"teacherId"`

	HomeworkRecords []HomeworkRecord `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments        []Comment        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DictationScores []DictationScore `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SpellingTests   []SpellingTest   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GrammarErrors   []GrammarError   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EssayMarks      []EssayMark      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Student) TableName() string {
	return "students"
}
