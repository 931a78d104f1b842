package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/testutil"
	"class_tracker/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewStudentRepository(db))
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	other := testutil.CreateUser(t, db, "t2", "pass", model.Teacher)
	class, students := testutil.CreateClass(t, db, teacher, "5A", "Alice", "Bob")
	alice, bob := students[0].ID, students[1].ID

	add := func(studentID uint, category model.CommentCategory, text string) *model.Comment {
		c, err := svc.Add(teacher.ID, AddCommentRequest{StudentID: studentID, Category: category, Comment: text, Evidence: " p.12 "})
		require.NoError(t, err)
		return c
	}
	first := add(alice, model.CategoryEnglish, "Reads fluently")
	add(alice, model.CategoryBehaviour, "Helps classmates")
	add(bob, model.CategoryEnglish, "Needs to practise spelling")
	assert.Equal(t, "p.12", first.Evidence)

	_, err := svc.Add(teacher.ID, AddCommentRequest{StudentID: alice, Category: "Maths", Comment: "x"})
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = svc.Add(teacher.ID, AddCommentRequest{StudentID: alice, Category: model.CategoryUOI, Comment: "   "})
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = svc.Add(other.ID, AddCommentRequest{StudentID: alice, Category: model.CategoryUOI, Comment: "x"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	t.Run("list filters", func(t *testing.T) {
		rows, err := svc.List(repository.CommentFilter{TeacherID: teacher.ID, ClassID: class.ID})
		require.NoError(t, err)
		assert.Len(t, rows, 3)

		rows, err = svc.List(repository.CommentFilter{TeacherID: teacher.ID, Category: model.CategoryEnglish})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "5A", rows[0].ClassName)

		rows, err = svc.List(repository.CommentFilter{TeacherID: other.ID})
		require.NoError(t, err)
		assert.Empty(t, rows)

		_, err = svc.List(repository.CommentFilter{TeacherID: teacher.ID, Category: "Art"})
		assert.ErrorIs(t, err, util.ErrValidation)
	})

	t.Run("student report", func(t *testing.T) {
		report, err := svc.StudentReport(teacher.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Total)
		assert.Len(t, report.ByCategory["English"], 1)
		assert.Len(t, report.ByCategory["General Behaviour"], 1)
		assert.NotContains(t, report.ByCategory, "UOI")

		_, err = svc.StudentReport(other.ID, alice)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(other.ID, first.ID), util.ErrNotFound)
		require.NoError(t, svc.Delete(teacher.ID, first.ID))
		assert.ErrorIs(t, svc.Delete(teacher.ID, first.ID), util.ErrNotFound)
	})
}
