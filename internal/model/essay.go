package model

import (
	"gorm.io/datatypes"
)

type EssayType string

const (
	EssayOpinion  EssayType = "opinion_argumentative"
	EssayCreative EssayType = "creative_narrative"
)

func (t EssayType) Valid() bool {
	return t == EssayOpinion || t == EssayCreative
}

// 每项评分标准满分
const CriterionMaxScore = 25

// CriteriaBreakdown 以紧凑 JSON 存入 essay_marks.criteria_breakdown
type CriteriaBreakdown struct {
	ContentIdeas int `json:"content_ideas" yaml:"content_ideas" validate:"min=0,max=25"`
	Organization int `json:"organization" yaml:"organization" validate:"min=0,max=25"`
	LanguageUse  int `json:"language_use" yaml:"language_use" validate:"min=0,max=25"`
	Conventions  int `json:"conventions" yaml:"conventions" validate:"min=0,max=25"`
}

func (b CriteriaBreakdown) Total() int {
	return b.ContentIdeas + b.Organization + b.LanguageUse + b.Conventions
}

func (b CriteriaBreakdown) Valid() bool {
	for _, s := range []int{b.ContentIdeas, b.Organization, b.LanguageUse, b.Conventions} {
		if s < 0 || s > CriterionMaxScore {
			return false
		}
	}
	return true
}

// swagger:model EssayMark
type EssayMark struct {
	BaseModel
	StudentID         uint           `gorm:"not null;index" json:"studentId"`
	EssayTitle        string         `gorm:"size:300;not null" json:"essayTitle"`
	EssayType         EssayType      `gorm:"size:30;not null" json:"essayType"`
	EssayText         string         `gorm:"type:text;not null" json:"essayText"`
	Score             int            `json:"score"`
	FeedbackEN        string         `gorm:"column:feedback_en;type:text" json:"feedbackEn"`
	FeedbackZH        string         `gorm:"column:feedback_zh;type:text" json:"feedbackZh"`
	CriteriaBreakdown datatypes.JSON `json:"criteriaBreakdown,omitempty"`
}

func (EssayMark) TableName() string {
	return "essay_marks"
}
