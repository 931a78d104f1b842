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

func TestReportService_ClassReport(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewReportService(repository.NewReportRepository(db), repository.NewClassRepository(db))
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	other := testutil.CreateUser(t, db, "t2", "pass", model.Teacher)
	class, students := testutil.CreateClass(t, db, teacher, "5A", "Bob", "Alice")
	bob, alice := students[0].ID, students[1].ID

	for _, row := range []interface{}{
		&model.HomeworkRecord{StudentID: alice, Date: "2024-01-08", Status: model.HomeworkOnTime},
		&model.HomeworkRecord{StudentID: alice, Date: "2024-01-09", Status: model.HomeworkLate},
		&model.HomeworkRecord{StudentID: alice, Date: "2024-01-10", Status: model.HomeworkAbsent},
		&model.Comment{StudentID: alice, Category: model.CategoryUOI, Comment: "Curious"},
		&model.GrammarError{StudentID: alice, ErrorType: model.ErrArticles, Example: "a egg"},
		&model.SpellingTest{StudentID: alice, Score: 18, MaxScore: 20, WeekDate: "2024-01-08", Percentage: 90},
		&model.SpellingTest{StudentID: alice, Score: 15, MaxScore: 20, WeekDate: "2024-01-15", Percentage: 75},
		&model.EssayMark{StudentID: alice, EssayTitle: "Pets", EssayType: model.EssayOpinion, EssayText: "Dogs", Score: 71},
	} {
		require.NoError(t, db.Create(row).Error)
	}

	report, err := svc.ClassReport(teacher.ID, class.ID)
	require.NoError(t, err)
	assert.Equal(t, "5A", report.Class.Name)
	require.Len(t, report.Students, 2)

	a := report.Students[0]
	assert.Equal(t, "Alice", a.StudentName)
	assert.EqualValues(t, 1, a.HomeworkOnTime)
	assert.EqualValues(t, 1, a.HomeworkLate)
	assert.EqualValues(t, 1, a.HomeworkAbsent)
	assert.EqualValues(t, 1, a.Comments)
	assert.EqualValues(t, 1, a.GrammarErrors)
	require.NotNil(t, a.SpellingAverage)
	assert.Equal(t, 82.5, *a.SpellingAverage)
	require.NotNil(t, a.EssayAverage)
	assert.Equal(t, 71.0, *a.EssayAverage)
	assert.Nil(t, a.DictationAverage)

	b := report.Students[1]
	assert.Equal(t, bob, b.StudentID)
	assert.Nil(t, b.SpellingAverage)
	assert.Zero(t, b.Comments)

	_, err = svc.ClassReport(other.ID, class.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
