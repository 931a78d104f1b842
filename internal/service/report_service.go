package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
)

type ClassReport struct {
	Class    *model.Class                `json:"class"`
	Students []repository.StudentSummary `json:"students"`
}

type ReportService struct {
	ReportRepo *repository.ReportRepository
	ClassRepo  *repository.ClassRepository
}

func NewReportService(reportRepo *repository.ReportRepository, classRepo *repository.ClassRepository) *ReportService {
	return &ReportService{ReportRepo: reportRepo, ClassRepo: classRepo}
}

func (s *ReportService) ClassReport(teacherID, classID uint) (*ClassReport, error) {
	class, err := s.ClassRepo.FindOwned(classID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	students, err := s.ReportRepo.StudentSummaries(classID, teacherID)
	if err != nil {
		return nil, err
	}
	for i := range students {
		roundPtr(students[i].SpellingAverage)
		roundPtr(students[i].DictationAverage)
		roundPtr(students[i].EssayAverage)
	}
	return &ClassReport{Class: class, Students: students}, nil
}

func roundPtr(v *float64) {
	if v != nil {
		*v = util.Round(*v, 1)
	}
}
