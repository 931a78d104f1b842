package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	"class_tracker/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const essayPrompt = `
You are marking a Year 4 student's %s essay according to ISA (International Schools Assessment) criteria.

%s
STUDENT: %s
ESSAY TYPE: %s

STUDENT'S ESSAY:
"%s"

Provide detailed marking in JSON format:
{
    "total_score": <score out of 100>,
    "content_ideas": {"score": <out of 25>, "comments": "<specific feedback>"},
    "organization": {"score": <out of 25>, "comments": "<specific feedback>"},
    "language_use": {"score": <out of 25>, "comments": "<specific feedback>"},
    "conventions": {"score": <out of 25>, "comments": "<specific feedback>"},
    "feedback_english": "<comprehensive, copy-pastable feedback for student in English>",
    "feedback_chinese": "<same feedback translated to Chinese>",
    "strengths": ["<strength 1>", "<strength 2>", "<strength 3>"],
    "areas_for_improvement": ["<area 1>", "<area 2>", "<area 3>"],
    "next_steps": "<specific suggestions for improvement>"
}

Make feedback encouraging but honest. Focus on specific examples from the text.
`

type CriterionResult struct {
	Score    float64 `json:"score"`
	Comments string  `json:"comments"`
}

// EssayMarking AI 评分结果，字段名与模型输出一致
type EssayMarking struct {
	TotalScore          int             `json:"total_score"`
	ContentIdeas        CriterionResult `json:"content_ideas"`
	Organization        CriterionResult `json:"organization"`
	LanguageUse         CriterionResult `json:"language_use"`
	Conventions         CriterionResult `json:"conventions"`
	FeedbackEnglish     string          `json:"feedback_english"`
	FeedbackChinese     string          `json:"feedback_chinese"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areas_for_improvement"`
	NextSteps           string          `json:"next_steps"`
}

// Breakdown 各项分数取整后的明细
func (m *EssayMarking) Breakdown() model.CriteriaBreakdown {
	return model.CriteriaBreakdown{
		ContentIdeas: int(m.ContentIdeas.Score + 0.5),
		Organization: int(m.Organization.Score + 0.5),
		LanguageUse:  int(m.LanguageUse.Score + 0.5),
		Conventions:  int(m.Conventions.Score + 0.5),
	}
}

type MarkEssayRequest struct {
	StudentID  uint            `json:"studentId" binding:"required"`
	EssayTitle string          `json:"essayTitle" binding:"required"`
	EssayType  model.EssayType `json:"essayType" binding:"required"`
	EssayText  string          `json:"essayText" binding:"required"`
}

type SaveEssayRequest struct {
	StudentID  uint                     `json:"studentId" binding:"required"`
	EssayTitle string                   `json:"essayTitle" binding:"required"`
	EssayType  model.EssayType          `json:"essayType" binding:"required"`
	EssayText  string                   `json:"essayText" binding:"required"`
	Score      int                      `json:"score"`
	FeedbackEN string                   `json:"feedbackEn"`
	FeedbackZH string                   `json:"feedbackZh"`
	Breakdown  *model.CriteriaBreakdown `json:"breakdown"`
}

type EssayHistoryItem struct {
	repository.EssayRow
	Breakdown *model.CriteriaBreakdown `json:"breakdown,omitempty"`
}

type EssayService struct {
	EssayRepo   *repository.EssayRepository
	StudentRepo *repository.StudentRepository
	AI          *AIService
}

func NewEssayService(essayRepo *repository.EssayRepository, studentRepo *repository.StudentRepository, ai *AIService) *EssayService {
	return &EssayService{EssayRepo: essayRepo, StudentRepo: studentRepo, AI: ai}
}

func essayPromptFor(rubric Rubric, studentName, essayText string) string {
	kind := strings.ReplaceAll(string(rubric.EssayType), "_", "/")
	return fmt.Sprintf(essayPrompt, kind, rubric.Prompt(), studentName, rubric.Label, essayText)
}

// Mark 没有兜底：AI 失败即返回 ErrEssayMarking
func (s *EssayService) Mark(ctx context.Context, teacherID uint, req MarkEssayRequest) (*EssayMarking, error) {
	rubric, ok := RubricFor(req.EssayType)
	if !ok {
		return nil, util.ValidationError("invalid essay type %q", req.EssayType)
	}
	if strings.TrimSpace(req.EssayText) == "" || strings.TrimSpace(req.EssayTitle) == "" {
		return nil, util.ValidationError("essay title and text are required")
	}
	student, err := s.StudentRepo.FindOwned(req.StudentID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}

	if s.AI == nil || !s.AI.Enabled() {
		monitoring.RecordScoring("essay", "error")
		return nil, fmt.Errorf("%w: %v", util.ErrEssayMarking, util.ErrAIUnavailable)
	}

	content, err := s.AI.Complete(ctx, s.AI.EssayModel(), essayPromptFor(rubric, student.Name, req.EssayText))
	if err != nil {
		logger.Log.Warn("AI essay marking failed", zap.Error(err))
		monitoring.RecordScoring("essay", "error")
		return nil, fmt.Errorf("%w: %v", util.ErrEssayMarking, err)
	}

	var marking EssayMarking
	if err := decodeJSONReply(content, &marking); err != nil {
		logger.Log.Warn("AI essay reply could not be decoded", zap.Error(err))
		monitoring.RecordScoring("essay", "error")
		return nil, fmt.Errorf("%w: %v", util.ErrEssayMarking, err)
	}

	normalizeMarking(&marking)
	monitoring.RecordScoring("essay", string(model.ScoreSourceAI))
	return &marking, nil
}

// normalizeMarking 各项限制在 0-25 并用四项之和作为总分
func normalizeMarking(m *EssayMarking) {
	max := float64(model.CriterionMaxScore)
	for _, c := range []*CriterionResult{&m.ContentIdeas, &m.Organization, &m.LanguageUse, &m.Conventions} {
		c.Score = clamp(c.Score, 0, max)
	}
	m.TotalScore = m.Breakdown().Total()
	if m.Strengths == nil {
		m.Strengths = []string{}
	}
	if m.AreasForImprovement == nil {
		m.AreasForImprovement = []string{}
	}
}

// Save 提供明细时总分必须等于四项之和
func (s *EssayService) Save(teacherID uint, req SaveEssayRequest) (*model.EssayMark, error) {
	if !req.EssayType.Valid() {
		return nil, util.ValidationError("invalid essay type %q", req.EssayType)
	}
	if req.Score < 0 || req.Score > 100 {
		return nil, util.ValidationError("score must be between 0 and 100")
	}

	var breakdown datatypes.JSON
	if req.Breakdown != nil {
		if !req.Breakdown.Valid() {
			return nil, util.ValidationError("each criterion must be between 0 and %d", model.CriterionMaxScore)
		}
		if req.Breakdown.Total() != req.Score {
			return nil, util.ValidationError("score %d does not match criteria total %d", req.Score, req.Breakdown.Total())
		}
		data, err := json.Marshal(req.Breakdown)
		if err != nil {
			return nil, err
		}
		breakdown = datatypes.JSON(data)
	}

	if _, err := s.StudentRepo.FindOwned(req.StudentID, teacherID); err != nil {
		if isNotFound(err) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}

	mark := &model.EssayMark{
		StudentID:         req.StudentID,
		EssayTitle:        strings.TrimSpace(req.EssayTitle),
		EssayType:         req.EssayType,
		EssayText:         req.EssayText,
		Score:             req.Score,
		FeedbackEN:        req.FeedbackEN,
		FeedbackZH:        req.FeedbackZH,
		CriteriaBreakdown: breakdown,
	}
	if err := s.EssayRepo.Create(mark); err != nil {
		return nil, err
	}
	return mark, nil
}

func (s *EssayService) History(teacherID, classID uint) ([]EssayHistoryItem, error) {
	rows, err := s.EssayRepo.ListByClass(classID, teacherID)
	if err != nil {
		return nil, err
	}

	items := make([]EssayHistoryItem, 0, len(rows))
	for _, r := range rows {
		item := EssayHistoryItem{EssayRow: r}
		if len(r.CriteriaBreakdown) > 0 && string(r.CriteriaBreakdown) != "null" {
			var b model.CriteriaBreakdown
			if err := json.Unmarshal(r.CriteriaBreakdown, &b); err != nil {
				logger.Log.Warn("Invalid criteria breakdown", zap.Uint("essay_id", r.ID), zap.Error(err))
			} else {
				item.Breakdown = &b
			}
		}
		items = append(items, item)
	}
	return items, nil
}
