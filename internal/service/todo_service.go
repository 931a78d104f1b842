package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"strings"
)

type TodoBoard struct {
	Pending    []model.Todo `json:"pending"`
	InProgress []model.Todo `json:"inProgress"`
	Done       []model.Todo `json:"done"`
	Total      int          `json:"total"`
}

type TodoService struct {
	TodoRepo *repository.TodoRepository
}

func NewTodoService(todoRepo *repository.TodoRepository) *TodoService {
	return &TodoService{TodoRepo: todoRepo}
}

func (s *TodoService) Add(teacherID uint, task string) (*model.Todo, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, util.ValidationError("task is required")
	}
	todo := &model.Todo{Task: task, Status: model.TodoPending, TeacherID: teacherID}
	if err := s.TodoRepo.Create(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Board(teacherID uint) (*TodoBoard, error) {
	todos, err := s.TodoRepo.ListByTeacher(teacherID)
	if err != nil {
		return nil, err
	}
	board := &TodoBoard{
		Pending:    []model.Todo{},
		InProgress: []model.Todo{},
		Done:       []model.Todo{},
		Total:      len(todos),
	}
	for _, t := range todos {
		switch t.Status {
		case model.TodoInProgress:
			board.InProgress = append(board.InProgress, t)
		case model.TodoDone:
			board.Done = append(board.Done, t)
		default:
			board.Pending = append(board.Pending, t)
		}
	}
	return board, nil
}

func (s *TodoService) SetStatus(teacherID, todoID uint, status model.TodoStatus) error {
	if !status.Valid() {
		return util.ValidationError("invalid todo status %q", status)
	}
	n, err := s.TodoRepo.UpdateStatus(todoID, teacherID, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (s *TodoService) Delete(teacherID, todoID uint) error {
	n, err := s.TodoRepo.Delete(todoID, teacherID)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (s *TodoService) CompleteAllPending(teacherID uint) (int64, error) {
	return s.TodoRepo.CompletePending(teacherID)
}

func (s *TodoService) ClearDone(teacherID uint) (int64, error) {
	return s.TodoRepo.ClearDone(teacherID)
}
