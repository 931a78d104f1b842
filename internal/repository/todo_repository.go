package repository

import (
	"class_tracker/internal/model"

	"gorm.io/gorm"
)

type TodoRepository struct {
	DB *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

func (r *TodoRepository) Create(todo *model.Todo) error {
	return r.DB.Create(todo).Error
}

func (r *TodoRepository) ListByTeacher(teacherID uint) ([]model.Todo, error) {
	var todos []model.Todo
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at DESC, id DESC").Find(&todos).Error
	return todos, err
}

func (r *TodoRepository) UpdateStatus(id, teacherID uint, status model.TodoStatus) (int64, error) {
	result := r.DB.Model(&model.Todo{}).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *TodoRepository) Delete(id, teacherID uint) (int64, error) {
	result := r.DB.Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.Todo{})
	return result.RowsAffected, result.Error
}

func (r *TodoRepository) CompletePending(teacherID uint) (int64, error) {
	result := r.DB.Model(&model.Todo{}).
		Where("teacher_id = ? AND status = ?", teacherID, model.TodoPending).
		Update("status", model.TodoDone)
	return result.RowsAffected, result.Error
}

func (r *TodoRepository) ClearDone(teacherID uint) (int64, error) {
	result := r.DB.Where("teacher_id = ? AND status = ?", teacherID, model.TodoDone).Delete(&model.Todo{})
	return result.RowsAffected, result.Error
}
