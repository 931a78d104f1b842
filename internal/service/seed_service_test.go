package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/testutil"
	"class_tracker/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDemoFixture(t *testing.T) {
	f, err := LoadDemoFixture()
	require.NoError(t, err)
	assert.Equal(t, "demo", f.Teacher.Username)
	require.NotEmpty(t, f.Classes)

	known := map[string]bool{}
	for _, c := range f.Classes {
		for _, s := range c.Students {
			known[s] = true
		}
	}
	for _, h := range f.Homework {
		assert.True(t, known[h.Student], h.Student)
		assert.True(t, h.Status.Valid())
	}
	for _, g := range f.Grammar {
		assert.True(t, g.ErrorType.Valid(), g.ErrorType)
	}
	for _, e := range f.Essays {
		assert.True(t, e.Type.Valid(), e.Type)
		if e.Breakdown != nil {
			assert.True(t, e.Breakdown.Valid())
		}
	}
}

func TestParseSeedFixture(t *testing.T) {
	const teacher = "teacher: {username: demo, password: demo, full_name: Demo Teacher}\n"

	_, err := ParseSeedFixture([]byte(teacher + "classes: [{name: 4A, students: [Alice]}]\n"))
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing teacher", body: "classes: [{name: 4A}]\n"},
		{name: "blank student", body: teacher + "classes: [{name: 4A, students: [\"\"]}]\n"},
		{name: "unknown homework status", body: teacher + "homework: [{student: Alice, date: \"2024-01-10\", status: sick}]\n"},
		{name: "bad homework date", body: teacher + "homework: [{student: Alice, date: 10/01/2024, status: late}]\n"},
		{name: "unknown comment category", body: teacher + "comments: [{student: Alice, category: Maths, comment: ok}]\n"},
		{name: "unknown grammar type", body: teacher + "grammar: [{student: Alice, error_type: spelling, example: x}]\n"},
		{name: "unknown todo status", body: teacher + "todos: [{task: x, status: later}]\n"},
		{name: "spelling above max", body: teacher + "spelling: [{student: Alice, week_date: \"2024-01-08\", score: 21, max_score: 20}]\n"},
		{name: "unknown essay type", body: teacher + "essays: [{student: Alice, title: t, type: poem, text: x}]\n"},
		{name: "criterion above 25", body: teacher + "essays: [{student: Alice, title: t, type: creative_narrative, text: x, breakdown: {content_ideas: 30}}]\n"},
		{name: "dictation task without transcript", body: teacher + "dictation: {task: {name: Week 1}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedFixture([]byte(tt.body))
			assert.ErrorIs(t, err, util.ErrValidation)
		})
	}

	_, err = ParseSeedFixture([]byte("teacher: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestSeedService_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSeedService(db)
	other := testutil.CreateUser(t, db, "keeper", "pass", model.Teacher)
	testutil.CreateClass(t, db, other, "Other", "Zed")

	first, err := svc.SeedDemo()
	require.NoError(t, err)
	assert.Equal(t, "demo", first.Username)
	assert.Equal(t, 2, first.Classes)
	assert.Equal(t, 5, first.Students)
	assert.Positive(t, first.Rows)

	second, err := svc.SeedDemo()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var demo model.User
	require.NoError(t, db.Where("username = ?", "demo").First(&demo).Error)
	ok, _ := VerifyPassword(demo.PasswordHash, "demo")
	assert.True(t, ok)

	var classes, students, dictation int64
	require.NoError(t, db.Model(&model.Class{}).Where("teacher_id = ?", demo.ID).Count(&classes).Error)
	require.NoError(t, db.Model(&model.Student{}).Count(&students).Error)
	require.NoError(t, db.Model(&model.DictationScore{}).Count(&dictation).Error)
	assert.EqualValues(t, 2, classes)
	assert.EqualValues(t, 6, students)
	assert.EqualValues(t, 1, dictation)

	var score model.DictationScore
	require.NoError(t, db.First(&score).Error)
	assert.Equal(t, model.ScoreSourceFallback, score.ScoreSource)
	assert.Greater(t, score.Score, 80.0)
}
