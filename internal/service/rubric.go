package service

import (
	"class_tracker/internal/model"
	"fmt"
	"strings"
)

type Criterion struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	MaxScore    int      `json:"maxScore"`
	Descriptors []string `json:"descriptors"`
}

type Rubric struct {
	EssayType model.EssayType `json:"essayType"`
	Label     string          `json:"label"`
	Title     string          `json:"title"`
	Criteria  []Criterion     `json:"criteria"`
}

var conventions = Criterion{
	Key:         "conventions",
	Title:       "CONVENTIONS",
	MaxScore:    model.CriterionMaxScore,
	Descriptors: []string{"Grammar and usage", "Spelling accuracy", "Punctuation", "Capitalization"},
}

// ISA Year 4 写作评分标准
var rubrics = map[model.EssayType]Rubric{
	model.EssayOpinion: {
		EssayType: model.EssayOpinion,
		Label:     "Opinion Argumentative",
		Title:     "ISA Year 4 Opinion/Argumentative Writing Criteria",
		Criteria: []Criterion{
			{
				Key:         "content_ideas",
				Title:       "CONTENT & IDEAS",
				MaxScore:    model.CriterionMaxScore,
				Descriptors: []string{"Clear opinion/position statement", "Relevant supporting reasons and evidence", "Understanding of topic", "Development of ideas"},
			},
			{
				Key:         "organization",
				Title:       "ORGANIZATION",
				MaxScore:    model.CriterionMaxScore,
				Descriptors: []string{"Clear introduction with thesis", "Logical sequence of ideas", "Appropriate transitions", "Strong conclusion"},
			},
			{
				Key:         "language_use",
				Title:       "LANGUAGE USE",
				MaxScore:    model.CriterionMaxScore,
				Descriptors: []string{"Appropriate vocabulary for purpose", "Varied sentence structure", "Clear expression of ideas", "Academic tone"},
			},
			conventions,
		},
	},
	model.EssayCreative: {
		EssayType: model.EssayCreative,
		Label:     "Creative Narrative",
		Title:     "ISA Year 4 Creative/Narrative Writing Criteria",
		Criteria: []Criterion{
			{
				Key:         "content_ideas",
				Title:       "CONTENT & CREATIVITY",
				MaxScore:    model.CriterionMaxScore,
				Descriptors: []string{"Original and engaging ideas", "Character development", "Plot development", "Descriptive details"},
			},
			{
				Key:         "organization",
				Title:       "ORGANIZATION",
				MaxScore:    model.CriterionMaxScore,
				Descriptors: []string{"Clear beginning, middle, end", "Logical sequence of events", "Smooth transitions", "Satisfying conclusion"},
			},
			{
				Key:         "language_use",
				Title:       "LANGUAGE USE",
				MaxScore:    model.CriterionMaxScore,
				Descriptors: []string{"Rich, descriptive vocabulary", "Varied sentence structure", "Voice and style", "Figurative language use"},
			},
			conventions,
		},
	},
}

func RubricFor(t model.EssayType) (Rubric, bool) {
	r, ok := rubrics[t]
	return r, ok
}

// Prompt 按编号列出各项标准及其描述
func (r Rubric) Prompt() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString(":\n\n")
	for i, c := range r.Criteria {
		fmt.Fprintf(&b, "%d. %s (%d points):\n", i+1, c.Title, c.MaxScore)
		for _, d := range c.Descriptors {
			b.WriteString("- " + d + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func Rubrics() []Rubric {
	return []Rubric{rubrics[model.EssayOpinion], rubrics[model.EssayCreative]}
}
