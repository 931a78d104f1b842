package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"strings"
)

const recentGrammarExamples = 10

type RecordGrammarErrorRequest struct {
	StudentID uint                   `json:"studentId" binding:"required"`
	ErrorType model.GrammarErrorType `json:"errorType" binding:"required"`
	Example   string                 `json:"example" binding:"required"`
}

type GrammarClassSummary struct {
	Distribution       []repository.TypeCount `json:"distribution"`
	TotalErrors        int64                  `json:"totalErrors"`
	StudentsWithErrors int64                  `json:"studentsWithErrors"`
	AvgPerStudent      float64                `json:"avgPerStudent"`
	MostCommon         string                 `json:"mostCommon,omitempty"`
}

type GrammarStudentSummary struct {
	Student      *model.Student         `json:"student"`
	Distribution []repository.TypeCount `json:"distribution"`
	Recent       []model.GrammarError   `json:"recent"`
}

type GrammarService struct {
	GrammarRepo *repository.GrammarRepository
	StudentRepo *repository.StudentRepository
}

func NewGrammarService(grammarRepo *repository.GrammarRepository, studentRepo *repository.StudentRepository) *GrammarService {
	return &GrammarService{GrammarRepo: grammarRepo, StudentRepo: studentRepo}
}

func (s *GrammarService) Record(teacherID uint, req RecordGrammarErrorRequest) (*model.GrammarError, error) {
	req.Example = strings.TrimSpace(req.Example)
	if req.Example == "" {
		return nil, util.ValidationError("example is required")
	}
	if !req.ErrorType.Valid() {
		return nil, util.ValidationError("invalid grammar error type %q", req.ErrorType)
	}
	if _, err := s.StudentRepo.FindOwned(req.StudentID, teacherID); err != nil {
		if isNotFound(err) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}

	e := &model.GrammarError{StudentID: req.StudentID, ErrorType: req.ErrorType, Example: req.Example}
	if err := s.GrammarRepo.Create(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *GrammarService) ClassSummary(teacherID, classID uint) (*GrammarClassSummary, error) {
	dist, err := s.GrammarRepo.ClassDistribution(classID, teacherID)
	if err != nil {
		return nil, err
	}
	withErrors, err := s.GrammarRepo.StudentsWithErrors(classID, teacherID)
	if err != nil {
		return nil, err
	}
	students, err := s.StudentRepo.ListByClass(classID, teacherID)
	if err != nil {
		return nil, err
	}

	summary := &GrammarClassSummary{Distribution: dist, StudentsWithErrors: withErrors}
	for _, d := range dist {
		summary.TotalErrors += d.Count
	}
	if len(dist) > 0 {
		summary.MostCommon = string(dist[0].ErrorType)
	}
	if len(students) > 0 {
		summary.AvgPerStudent = util.Round(float64(summary.TotalErrors)/float64(len(students)), 1)
	}
	return summary, nil
}

func (s *GrammarService) StudentSummary(teacherID, studentID uint) (*GrammarStudentSummary, error) {
	student, err := s.StudentRepo.FindOwned(studentID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	dist, err := s.GrammarRepo.StudentDistribution(studentID)
	if err != nil {
		return nil, err
	}
	recent, err := s.GrammarRepo.Recent(studentID, recentGrammarExamples)
	if err != nil {
		return nil, err
	}
	return &GrammarStudentSummary{Student: student, Distribution: dist, Recent: recent}, nil
}
