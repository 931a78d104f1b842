package model

type GrammarErrorType string

const (
	ErrSubjectVerbAgreement GrammarErrorType = "subject-verb agreement"
	ErrVerbTense            GrammarErrorType = "verb tense"
	ErrArticles             GrammarErrorType = "articles"
	ErrPrepositions         GrammarErrorType = "prepositions"
	ErrWordOrder            GrammarErrorType = "word order"
	ErrPlurals              GrammarErrorType = "plurals"
	ErrPronouns             GrammarErrorType = "pronouns"
)

var GrammarErrorTypes = []GrammarErrorType{
	ErrSubjectVerbAgreement,
	ErrVerbTense,
	ErrArticles,
	ErrPrepositions,
	ErrWordOrder,
	ErrPlurals,
	ErrPronouns,
}

func (t GrammarErrorType) Valid() bool {
	for _, v := range GrammarErrorTypes {
		if v == t {
			return true
		}
	}
	return false
}

// swagger:model GrammarError
type GrammarError struct {
	BaseModel
	StudentID uint             `gorm:"not null;index" json:"studentId"`
	ErrorType GrammarErrorType `gorm:"size:40;not null;index" json:"errorType"`
	Example   string           `gorm:"type:text" json:"example"`
}

func (GrammarError) TableName() string {
	return "grammar_errors"
}
