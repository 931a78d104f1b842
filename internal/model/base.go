package model

import (
	"time"
)

// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 所有需要迁移的模型，顺序由 gorm 按依赖关系调整
func All() []interface{} {
	return []interface{}{
		&User{},
		&Permission{},
		&Session{},
		&Class{},
		&Student{},
		&HomeworkRecord{},
		&Comment{},
		&DictationTask{},
		&DictationScore{},
		&SpellingTest{},
		&GrammarError{},
		&EssayMark{},
		&Todo{},
	}
}
