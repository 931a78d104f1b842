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

func TestTodoService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTodoService(repository.NewTodoRepository(db))
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	other := testutil.CreateUser(t, db, "t2", "pass", model.Teacher)

	_, err := svc.Add(teacher.ID, "  ")
	assert.ErrorIs(t, err, util.ErrValidation)

	var ids []uint
	for _, task := range []string{"Mark essays", "Print worksheets", "Email parents", "Plan trip"} {
		todo, err := svc.Add(teacher.ID, task)
		require.NoError(t, err)
		assert.Equal(t, model.TodoPending, todo.Status)
		ids = append(ids, todo.ID)
	}
	_, err = svc.Add(other.ID, "Not mine")
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(teacher.ID, ids[0], model.TodoInProgress))
	require.NoError(t, svc.SetStatus(teacher.ID, ids[1], model.TodoDone))
	assert.ErrorIs(t, svc.SetStatus(teacher.ID, ids[2], "later"), util.ErrValidation)
	assert.ErrorIs(t, svc.SetStatus(other.ID, ids[2], model.TodoDone), util.ErrNotFound)

	board, err := svc.Board(teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, board.Total)
	assert.Len(t, board.Pending, 2)
	assert.Len(t, board.InProgress, 1)
	assert.Len(t, board.Done, 1)

	n, err := svc.CompleteAllPending(teacher.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = svc.ClearDone(teacher.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	board, err = svc.Board(teacher.ID)
	require.NoError(t, err)
	require.Len(t, board.InProgress, 1)
	assert.Equal(t, "Mark essays", board.InProgress[0].Task)
	assert.Empty(t, board.Pending)

	assert.ErrorIs(t, svc.Delete(other.ID, ids[0]), util.ErrNotFound)
	require.NoError(t, svc.Delete(teacher.ID, ids[0]))

	board, err = svc.Board(other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, board.Total)
}
