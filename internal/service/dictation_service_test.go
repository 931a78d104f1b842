package service

import (
	"class_tracker/internal/config"
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/testutil"
	"class_tracker/internal/util"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const transcript = "The quick brown fox jumps over the lazy dog"

func newDictationService(t *testing.T, db *gorm.DB, ai *AIService) *DictationService {
	t.Helper()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()}}
	svc := NewDictationService(repository.NewDictationRepository(db), repository.NewStudentRepository(db), ai, NewStorageService(cfg))
	svc.ProbeAudio = func(string) (float64, error) { return 12.5, nil }
	return svc
}

func createTask(t *testing.T, svc *DictationService, teacherID uint) *model.DictationTask {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), teacherID, CreateDictationTaskRequest{Name: "Week 1", Transcript: transcript}, nil)
	require.NoError(t, err)
	return task
}

func TestDictationService_CreateTaskWithAudio(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	svc := newDictationService(t, db, nil)

	audio := &AudioUpload{Filename: "fox.mp3", ContentType: "audio/mpeg", Reader: strings.NewReader("ID3 fake audio")}
	task, err := svc.CreateTask(context.Background(), teacher.ID, CreateDictationTaskRequest{Name: " Week 1 ", Transcript: transcript}, audio)
	require.NoError(t, err)

	assert.Equal(t, "Week 1", task.Name)
	assert.Equal(t, 12.5, task.AudioDuration)
	require.NotNil(t, task.AudioFile)
	assert.True(t, strings.HasSuffix(*task.AudioFile, "dictation_audio/Week 1_fox.mp3"))

	data, err := os.ReadFile(filepath.FromSlash(*task.AudioFile))
	require.NoError(t, err)
	assert.Equal(t, "ID3 fake audio", string(data))

	// 时长探测失败不影响创建
	svc.ProbeAudio = func(string) (float64, error) { return 0, errors.New("ffprobe missing") }
	task2, err := svc.CreateTask(context.Background(), teacher.ID, CreateDictationTaskRequest{Name: "Week 2", Transcript: transcript},
		&AudioUpload{Filename: "fox.wav", Reader: strings.NewReader("RIFF")})
	require.NoError(t, err)
	assert.Zero(t, task2.AudioDuration)

	_, err = svc.CreateTask(context.Background(), teacher.ID, CreateDictationTaskRequest{Name: "Week 3", Transcript: transcript},
		&AudioUpload{Filename: "fox.exe", Reader: strings.NewReader("MZ")})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.CreateTask(context.Background(), teacher.ID, CreateDictationTaskRequest{Name: "Week 4", Transcript: "  "}, nil)
	assert.ErrorIs(t, err, util.ErrValidation)

	tasks, err := svc.ListTasks(teacher.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	require.NoError(t, svc.DeleteTask(context.Background(), teacher.ID, task.ID))
	_, err = os.Stat(filepath.FromSlash(*task.AudioFile))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, svc.DeleteTask(context.Background(), teacher.ID, task.ID), util.ErrNotFound)
}

func TestDictationService_ScoreWithAI(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	other := testutil.CreateUser(t, db, "t2", "pass", model.Teacher)
	_, students := testutil.CreateClass(t, db, teacher, "5A", "Alice")

	ai, stub := newAIStub(t, "```json\n"+`{"score": 105, "feedback_english": "You missed one word.", "feedback_chinese": "漏了一个词。",
		"errors": [{"type": "missed_word", "correct": "lazy", "student": "", "explanation": "The speaker said lazy"}]}`+"\n```")
	svc := newDictationService(t, db, ai)
	task := createTask(t, svc, teacher.ID)

	req := ScoreDictationRequest{TaskID: task.ID, StudentID: students[0].ID, StudentText: "The quick brown fox jumps over the dog"}
	result, err := svc.Score(context.Background(), teacher.ID, req)
	require.NoError(t, err)

	assert.Equal(t, model.ScoreSourceAI, result.Source)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, "漏了一个词。", result.FeedbackZH)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "lazy", result.Errors[0].Correct)
	assert.Contains(t, result.Diff, "-The quick brown fox jumps over the lazy dog")
	assert.Equal(t, "dictation-model", stub.lastReq.Model)
	assert.Contains(t, stub.lastReq.Messages[0].Content, transcript)

	t.Run("ai disabled per request", func(t *testing.T) {
		off := false
		calls := stub.calls
		r := req
		r.UseAI = &off
		result, err := svc.Score(context.Background(), teacher.ID, r)
		require.NoError(t, err)
		assert.Equal(t, model.ScoreSourceFallback, result.Source)
		assert.Equal(t, calls, stub.calls)
	})

	t.Run("reply without score falls back", func(t *testing.T) {
		stub.reply(http.StatusOK, `{"feedback_english": "ok"}`)
		result, err := svc.Score(context.Background(), teacher.ID, req)
		require.NoError(t, err)
		assert.Equal(t, model.ScoreSourceFallback, result.Source)
	})

	t.Run("upstream error falls back", func(t *testing.T) {
		stub.reply(http.StatusBadGateway, "")
		result, err := svc.Score(context.Background(), teacher.ID, req)
		require.NoError(t, err)
		assert.Equal(t, model.ScoreSourceFallback, result.Source)
		assert.Empty(t, result.Errors)
	})

	t.Run("scoping", func(t *testing.T) {
		_, err := svc.Score(context.Background(), other.ID, ScoreDictationRequest{TaskID: task.ID, StudentText: "x"})
		assert.ErrorIs(t, err, util.ErrNotFound)

		_, err = svc.Score(context.Background(), teacher.ID, ScoreDictationRequest{TaskID: task.ID, StudentID: 9999, StudentText: "x"})
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
	})
}

func TestDictationService_ScoreWithoutKey(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	svc := newDictationService(t, db, NewAIService(config.AIConfig{}))
	task := createTask(t, svc, teacher.ID)

	result, err := svc.Score(context.Background(), teacher.ID, ScoreDictationRequest{TaskID: task.ID, StudentText: transcript})
	require.NoError(t, err)
	assert.Equal(t, model.ScoreSourceFallback, result.Source)
	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, result.Diff)
}

func TestDictationService_SaveAndList(t *testing.T) {
	db := testutil.NewDB(t)
	teacher := testutil.CreateUser(t, db, "t1", "pass", model.Teacher)
	other := testutil.CreateUser(t, db, "t2", "pass", model.Teacher)
	_, students := testutil.CreateClass(t, db, teacher, "5A", "Alice", "Bob")
	svc := newDictationService(t, db, nil)
	task := createTask(t, svc, teacher.ID)

	tests := []struct {
		name    string
		req     SaveDictationRequest
		wantErr error
	}{
		{"score too high", SaveDictationRequest{TaskID: task.ID, StudentID: students[0].ID, StudentText: "x", Score: 101}, util.ErrValidation},
		{"negative score", SaveDictationRequest{TaskID: task.ID, StudentID: students[0].ID, StudentText: "x", Score: -1}, util.ErrValidation},
		{"bad source", SaveDictationRequest{TaskID: task.ID, StudentID: students[0].ID, StudentText: "x", Score: 50, ScoreSource: "guess"}, util.ErrValidation},
		{"unknown task", SaveDictationRequest{TaskID: 9999, StudentID: students[0].ID, StudentText: "x", Score: 50}, util.ErrNotFound},
		{"unknown student", SaveDictationRequest{TaskID: task.ID, StudentID: 9999, StudentText: "x", Score: 50}, util.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(teacher.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.Save(teacher.ID, SaveDictationRequest{TaskID: task.ID, StudentID: students[0].ID, StudentText: "a", Score: 72, AutoScore: 70, ScoreSource: model.ScoreSourceFallback})
	require.NoError(t, err)
	_, err = svc.Save(teacher.ID, SaveDictationRequest{TaskID: task.ID, StudentID: students[1].ID, StudentText: "b", Score: 95, AutoScore: 95, ScoreSource: model.ScoreSourceAI})
	require.NoError(t, err)

	rows, err := svc.ListScores(teacher.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[0].StudentName)
	assert.Equal(t, model.ScoreSourceAI, rows[0].ScoreSource)
	assert.Equal(t, 72.0, rows[1].Score)

	_, err = svc.ListScores(other.ID, task.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
