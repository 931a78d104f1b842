package model

type CommentCategory string

const (
	CategoryEnglish   CommentCategory = "English"
	CategoryUOI       CommentCategory = "UOI"
	CategoryBehaviour CommentCategory = "General Behaviour"
)

var CommentCategories = []CommentCategory{CategoryEnglish, CategoryUOI, CategoryBehaviour}

func (c CommentCategory) Valid() bool {
	for _, v := range CommentCategories {
		if v == c {
			return true
		}
	}
	return false
}

// swagger:model Comment
type Comment struct {
	BaseModel
	StudentID uint            `gorm:"not null;index" json:"studentId"`
	Category  CommentCategory `gorm:"size:30;not null" json:"category"`
	Comment   string          `gorm:"type:text;not null" json:"comment"`
	Evidence  string          `gorm:"type:text" json:"evidence,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
