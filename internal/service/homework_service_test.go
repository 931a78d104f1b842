package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/testutil"
	"class_tracker/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newHomeworkService(db *gorm.DB) *HomeworkService {
	return NewHomeworkService(repository.NewHomeworkRepository(db), repository.NewStudentRepository(db))
}

func TestHomeworkService_GridDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newHomeworkService(db)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	class, students := testutil.CreateClass(t, db, teacher, "5A", "Bob", "Alice")

	require.NoError(t, svc.Save(teacher.ID, SaveHomeworkRequest{
		ClassID:  class.ID,
		Date:     "2024-01-10",
		Statuses: map[uint]model.HomeworkStatus{students[0].ID: model.HomeworkLate},
	}))

	grid, err := svc.Grid(teacher.ID, class.ID, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, grid, 2)

	assert.Equal(t, "Alice", grid[0].StudentName)
	assert.Equal(t, model.HomeworkOnTime, grid[0].Status)
	assert.False(t, grid[0].Recorded)

	assert.Equal(t, "Bob", grid[1].StudentName)
	assert.Equal(t, model.HomeworkLate, grid[1].Status)
	assert.True(t, grid[1].Recorded)

	// 其它日期没有记录
	grid, err = svc.Grid(teacher.ID, class.ID, "2024-01-11")
	require.NoError(t, err)
	for _, row := range grid {
		assert.False(t, row.Recorded)
	}

	_, err = svc.Grid(teacher.ID, class.ID, "10/01/2024")
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestHomeworkService_SaveValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newHomeworkService(db)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	other := testutil.CreateUser(t, db, "t2", "pass", model.Teacher)
	class, students := testutil.CreateClass(t, db, teacher, "5A", "Alice")
	_, sibling := testutil.CreateClass(t, db, teacher, "5B", "Zoe")
	_, foreign := testutil.CreateClass(t, db, other, "6B", "Mallory")

	tests := []struct {
		name    string
		req     SaveHomeworkRequest
		wantErr error
	}{
		{
			name:    "bad date",
			req:     SaveHomeworkRequest{ClassID: class.ID, Date: "2024-13-40", Statuses: map[uint]model.HomeworkStatus{students[0].ID: model.HomeworkLate}},
			wantErr: util.ErrValidation,
		},
		{
			name:    "empty statuses",
			req:     SaveHomeworkRequest{ClassID: class.ID, Date: "2024-01-10", Statuses: map[uint]model.HomeworkStatus{}},
			wantErr: util.ErrValidation,
		},
		{
			name:    "unknown status",
			req:     SaveHomeworkRequest{ClassID: class.ID, Date: "2024-01-10", Statuses: map[uint]model.HomeworkStatus{students[0].ID: "sick"}},
			wantErr: util.ErrValidation,
		},
		{
			name: "student of another teacher",
			req: SaveHomeworkRequest{ClassID: class.ID, Date: "2024-01-10", Statuses: map[uint]model.HomeworkStatus{
				students[0].ID: model.HomeworkLate,
				foreign[0].ID:  model.HomeworkAbsent,
			}},
			wantErr: util.ErrPermissionDenied,
		},
		{
			name: "own student from another class",
			req: SaveHomeworkRequest{ClassID: class.ID, Date: "2024-01-10", Statuses: map[uint]model.HomeworkStatus{
				students[0].ID: model.HomeworkLate,
				sibling[0].ID:  model.HomeworkAbsent,
			}},
			wantErr: util.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Save(teacher.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// 校验失败时整张表不写入
	var n int64
	require.NoError(t, db.Model(&model.HomeworkRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestHomeworkService_History(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newHomeworkService(db)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	class, students := testutil.CreateClass(t, db, teacher, "5A", "Alice", "Bob")
	alice, bob := students[0].ID, students[1].ID

	save := func(date string, statuses map[uint]model.HomeworkStatus) {
		require.NoError(t, svc.Save(teacher.ID, SaveHomeworkRequest{ClassID: class.ID, Date: date, Statuses: statuses}))
	}
	save("2024-01-08", map[uint]model.HomeworkStatus{alice: model.HomeworkOnTime, bob: model.HomeworkLate})
	save("2024-01-09", map[uint]model.HomeworkStatus{alice: model.HomeworkAbsent, bob: model.HomeworkLate})
	save("2024-01-20", map[uint]model.HomeworkStatus{alice: model.HomeworkLate})

	history, err := svc.History(teacher.ID, class.ID, "2024-01-08", "2024-01-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", history.From)
	assert.Equal(t, "2024-01-09", history.To)
	require.Len(t, history.Records, 4)
	assert.Equal(t, "2024-01-09", history.Records[0].Date)
	assert.Equal(t, "Alice", history.Records[0].StudentName)
	assert.Equal(t, map[string]int64{"on_time": 1, "late": 2, "absent": 1}, history.Counts)

	// 缺省 from 为 to 往前 7 天
	history, err = svc.History(teacher.ID, class.ID, "", "2024-01-20")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-13", history.From)
	assert.Len(t, history.Records, 1)

	_, err = svc.History(teacher.ID, class.ID, "2024-01-20", "2024-01-01")
	assert.ErrorIs(t, err, util.ErrValidation)
}

// 建班、录入作业覆盖、记录语法错误的完整流程
func TestClassroomScenario(t *testing.T) {
	db := testutil.NewDB(t)
	classes := newClassService(db)
	homework := newHomeworkService(db)
	grammar := NewGrammarService(repository.NewGrammarRepository(db), repository.NewStudentRepository(db))
	teacher := testutil.CreateUser(t, db, "teacher", "pass", model.Teacher)

	class, err := classes.CreateClass(teacher.ID, "5A")
	require.NoError(t, err)

	result, err := classes.AddStudents(teacher.ID, class.ID, "Alice\nBob")
	require.NoError(t, err)
	require.Len(t, result.Added, 2)
	assert.Empty(t, result.Failed)

	students, err := classes.ListStudents(teacher.ID, class.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	alice, bob := students[0], students[1]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "5A", alice.ClassName)
	assert.Equal(t, "Bob", bob.Name)

	history, err := homework.History(teacher.ID, class.ID, "2000-01-01", "2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, history.Records)

	for _, status := range []model.HomeworkStatus{model.HomeworkLate, model.HomeworkAbsent} {
		require.NoError(t, homework.Save(teacher.ID, SaveHomeworkRequest{
			ClassID:  class.ID,
			Date:     "2024-01-10",
			Statuses: map[uint]model.HomeworkStatus{alice.ID: status},
		}))
	}

	var records []model.HomeworkRecord
	require.NoError(t, db.Where("student_id = ?", alice.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.HomeworkAbsent, records[0].Status)
	assert.Equal(t, "2024-01-10", records[0].Date)

	_, err = grammar.Record(teacher.ID, RecordGrammarErrorRequest{
		StudentID: bob.ID,
		ErrorType: model.ErrVerbTense,
		Example:   "Yesterday I go to school",
	})
	require.NoError(t, err)

	summary, err := grammar.ClassSummary(teacher.ID, class.ID)
	require.NoError(t, err)
	require.Len(t, summary.Distribution, 1)
	assert.Equal(t, model.ErrVerbTense, summary.Distribution[0].ErrorType)
	assert.EqualValues(t, 1, summary.Distribution[0].Count)
	assert.EqualValues(t, 1, summary.TotalErrors)
	assert.EqualValues(t, 1, summary.StudentsWithErrors)
	assert.Equal(t, 0.5, summary.AvgPerStudent)
	assert.Equal(t, "verb tense", summary.MostCommon)
}
