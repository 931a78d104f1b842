package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"strings"
)

type AddCommentRequest struct {
	StudentID uint                  `json:"studentId" binding:"required"`
	Category  model.CommentCategory `json:"category" binding:"required"`
	Comment   string                `json:"comment" binding:"required"`
	Evidence  string                `json:"evidence"`
}

// StudentCommentReport 按类别分组的学生评语
type StudentCommentReport struct {
	Student    *model.Student                     `json:"student"`
	Total      int                                `json:"total"`
	ByCategory map[string][]repository.CommentRow `json:"byCategory"`
}

type CommentService struct {
	CommentRepo *repository.CommentRepository
	StudentRepo *repository.StudentRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, studentRepo *repository.StudentRepository) *CommentService {
	return &CommentService{CommentRepo: commentRepo, StudentRepo: studentRepo}
}

func (s *CommentService) Add(teacherID uint, req AddCommentRequest) (*model.Comment, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment == "" {
		return nil, util.ValidationError("comment is required")
	}
	if !req.Category.Valid() {
		return nil, util.ValidationError("invalid comment category %q", req.Category)
	}
	if _, err := s.StudentRepo.FindOwned(req.StudentID, teacherID); err != nil {
		if isNotFound(err) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}

	comment := &model.Comment{
		StudentID: req.StudentID,
		Category:  req.Category,
		Comment:   req.Comment,
		Evidence:  strings.TrimSpace(req.Evidence),
	}
	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) List(f repository.CommentFilter) ([]repository.CommentRow, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, util.ValidationError("invalid comment category %q", f.Category)
	}
	return s.CommentRepo.List(f)
}

func (s *CommentService) StudentReport(teacherID, studentID uint) (*StudentCommentReport, error) {
	student, err := s.StudentRepo.FindOwned(studentID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.CommentRepo.List(repository.CommentFilter{TeacherID: teacherID, StudentID: studentID})
	if err != nil {
		return nil, err
	}

	report := &StudentCommentReport{
		Student:    student,
		Total:      len(rows),
		ByCategory: make(map[string][]repository.CommentRow),
	}
	for _, r := range rows {
		report.ByCategory[string(r.Category)] = append(report.ByCategory[string(r.Category)], r)
	}
	return report, nil
}

func (s *CommentService) Delete(teacherID, commentID uint) error {
	n, err := s.CommentRepo.Delete(commentID, teacherID)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}
