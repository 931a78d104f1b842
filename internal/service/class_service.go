package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNameLength = 100

type RowError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type AddStudentsResult struct {
	Added  []model.Student `json:"added"`
	Failed []RowError      `json:"failed"`
}

type ClassService struct {
	ClassRepo   *repository.ClassRepository
	StudentRepo *repository.StudentRepository
}

func NewClassService(classRepo *repository.ClassRepository, studentRepo *repository.StudentRepository) *ClassService {
	return &ClassService{ClassRepo: classRepo, StudentRepo: studentRepo}
}

func (s *ClassService) CreateClass(teacherID uint, name string) (*model.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.ValidationError("class name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, util.ValidationError("class name is too long")
	}

	exists, err := s.ClassRepo.ExistsByName(teacherID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: class %q", util.ErrDuplicate, name)
	}

	class := &model.Class{Name: name, TeacherID: teacherID}
	if err := s.ClassRepo.Create(class); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: class %q", util.ErrDuplicate, name)
		}
		return nil, err
	}
	return class, nil
}

func (s *ClassService) ListClasses(teacherID uint) ([]model.Class, error) {
	return s.ClassRepo.ListByTeacher(teacherID)
}

func (s *ClassService) DeleteClass(teacherID, classID uint) error {
	n, err := s.ClassRepo.Delete(classID, teacherID)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ParseNames 每行一个名字，忽略空行
func ParseNames(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// AddStudents 所有行在同一事务中写入，每行使用独立的保存点；
// 单行失败只跳过该行，其余行继续
func (s *ClassService) AddStudents(teacherID, classID uint, text string) (*AddStudentsResult, error) {
	names := ParseNames(text)
	if len(names) == 0 {
		return nil, util.ValidationError("at least one student name is required")
	}

	class, err := s.ClassRepo.FindOwned(classID, teacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	result := &AddStudentsResult{Added: []model.Student{}, Failed: []RowError{}}
	// 同名学生允许重复添加
	err = s.StudentRepo.DB.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if utf8.RuneCountInString(name) > maxNameLength {
				result.Failed = append(result.Failed, RowError{Name: name, Error: "name is too long"})
				continue
			}

			student := model.Student{Name: name, ClassName: class.Name, ClassID: class.ID, TeacherID: teacherID}
			err := tx.Transaction(func(sp *gorm.DB) error {
				return repository.NewStudentRepository(sp).Create(&student)
			})
			if err != nil {
				logger.Log.Warn("Failed to add student", zap.String("name", name), zap.Error(err))
				result.Failed = append(result.Failed, RowError{Name: name, Error: err.Error()})
				continue
			}
			result.Added = append(result.Added, student)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ClassService) ListStudents(teacherID, classID uint) ([]model.Student, error) {
	if _, err := s.ClassRepo.FindOwned(classID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return s.StudentRepo.ListByClass(classID, teacherID)
}

func (s *ClassService) DeleteStudent(teacherID, studentID uint) error {
	n, err := s.StudentRepo.Delete(studentID, teacherID)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ExportStudents 当前老师的全部学生
func (s *ClassService) ExportStudents(teacherID uint) (*util.Table, error) {
	students, err := s.StudentRepo.ListByTeacher(teacherID)
	if err != nil {
		return nil, err
	}
	table := &util.Table{Columns: []string{"id", "name", "class_name", "created_at"}}
	for _, st := range students {
		table.Rows = append(table.Rows, []interface{}{st.ID, st.Name, st.ClassName, st.CreatedAt.Format(util.TimeFormat)})
	}
	return table, nil
}

// ownedStudents 校验所有学生都属于该老师
// ownedStudents 批量写入前校验学生都属于该老师的这个班
func ownedStudents(repo *repository.StudentRepository, teacherID, classID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	list := make([]uint, 0, len(unique))
	for id := range unique {
		list = append(list, id)
	}

	inClass, err := repo.CountOwned(list, teacherID, classID)
	if err != nil {
		return err
	}
	if int(inClass) == len(list) {
		return nil
	}
	owned, err := repo.CountOwned(list, teacherID, 0)
	if err != nil {
		return err
	}
	if int(owned) != len(list) {
		return util.ErrPermissionDenied
	}
	return util.ValidationError("some students are not in class %d", classID)
}
