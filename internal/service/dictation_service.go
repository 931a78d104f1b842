package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	"class_tracker/pkg/monitoring"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const dictationPrompt = `
You are evaluating a student's DICTATION exercise. This is purely about listening accuracy - the student heard spoken text and wrote what they heard. Judge only their listening and transcription accuracy, not their writing skills or word choice.

CORRECT TEXT (what was spoken):
"%s"

STUDENT'S TRANSCRIPTION (what they heard and wrote):
"%s"

Provide your response in JSON format:
{
    "score": <percentage from 0-100 based on accuracy of transcription>,
    "feedback_english": "<factual feedback about what they heard correctly/incorrectly>",
    "feedback_chinese": "<same feedback in Chinese>",
    "errors": [
        {
            "type": "<missed_word/extra_word/misspelled_word/wrong_word>",
            "correct": "<what was actually said>",
            "student": "<what they wrote>",
            "explanation": "<simple factual explanation>"
        }
    ]
}

IMPORTANT:
- This is dictation - focus only on listening accuracy, not language skills
- Don't comment on grammar or writing ability - only transcription accuracy
- Be factual: "You heard X but the speaker said Y"
- Give credit for phonetically similar attempts (e.g. "there/their")
- Score based on percentage of words transcribed correctly
`

type DictationError struct {
	Type        string `json:"type"`
	Correct     string `json:"correct"`
	Student     string `json:"student"`
	Explanation string `json:"explanation"`
}

// DictationResult 评分草稿，老师确认后才保存
type DictationResult struct {
	Score      float64           `json:"score"`
	FeedbackEN string            `json:"feedbackEn"`
	FeedbackZH string            `json:"feedbackZh"`
	Errors     []DictationError  `json:"errors"`
	Source     model.ScoreSource `json:"source"`
	Diff       string            `json:"diff"`
}

type aiDictationReply struct {
	Score           *float64         `json:"score"`
	FeedbackEnglish string           `json:"feedback_english"`
	FeedbackChinese string           `json:"feedback_chinese"`
	Errors          []DictationError `json:"errors"`
}

type CreateDictationTaskRequest struct {
	Name       string `form:"name" json:"name" binding:"required"`
	Transcript string `form:"transcript" json:"transcript" binding:"required"`
}

// AudioUpload 上传的音频文件
type AudioUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

type ScoreDictationRequest struct {
	TaskID      uint   `json:"taskId" binding:"required"`
	StudentID   uint   `json:"studentId"`
	StudentText string `json:"studentText" binding:"required"`
	UseAI       *bool  `json:"useAi"`
}

type SaveDictationRequest struct {
	TaskID      uint              `json:"taskId" binding:"required"`
	StudentID   uint              `json:"studentId" binding:"required"`
	StudentText string            `json:"studentText" binding:"required"`
	Score       float64           `json:"score"`
	AutoScore   float64           `json:"autoScore"`
	ScoreSource model.ScoreSource `json:"scoreSource"`
	FeedbackEN  string            `json:"feedbackEn"`
	FeedbackZH  string            `json:"feedbackZh"`
}

type DictationService struct {
	DictationRepo *repository.DictationRepository
	StudentRepo   *repository.StudentRepository
	AI            *AIService
	Storage       *StorageService
	// ProbeAudio 返回音频时长（秒），测试中可替换
	ProbeAudio func(path string) (float64, error)
}

func NewDictationService(dictationRepo *repository.DictationRepository, studentRepo *repository.StudentRepository, ai *AIService, storage *StorageService) *DictationService {
	return &DictationService{
		DictationRepo: dictationRepo,
		StudentRepo:   studentRepo,
		AI:            ai,
		Storage:       storage,
		ProbeAudio: func(path string) (float64, error) {
			info, err := util.GetAudioInfo(path)
			if err != nil {
				return 0, err
			}
			return info.Duration, nil
		},
	}
}

func (s *DictationService) CreateTask(ctx context.Context, teacherID uint, req CreateDictationTaskRequest, audio *AudioUpload) (*model.DictationTask, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Transcript = strings.TrimSpace(req.Transcript)
	if req.Name == "" || req.Transcript == "" {
		return nil, util.ValidationError("task name and transcript are required")
	}

	task := &model.DictationTask{Name: req.Name, Transcript: req.Transcript, TeacherID: teacherID}

	if audio != nil {
		if !util.IsAllowedAudio(audio.Filename) {
			return nil, util.ValidationError("audio must be one of %s", strings.Join(util.AllowedAudioExtensions, ", "))
		}
		location, duration, err := s.storeAudio(ctx, req.Name, audio)
		if err != nil {
			return nil, err
		}
		task.AudioFile = &location
		task.AudioDuration = duration
	}

	if err := s.DictationRepo.CreateTask(task); err != nil {
		return nil, err
	}
	logger.Log.Info("Dictation task created", zap.String("name", task.Name), zap.Uint("teacher_id", teacherID))
	return task, nil
}

// storeAudio 先落地到临时文件以便 ffprobe 读取时长，再交给存储后端
func (s *DictationService) storeAudio(ctx context.Context, taskName string, audio *AudioUpload) (string, float64, error) {
	tmp, err := os.CreateTemp("", "dictation-*"+filepath.Ext(audio.Filename))
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, audio.Reader); err != nil {
		tmp.Close()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}

	var duration float64
	if s.ProbeAudio != nil {
		d, err := s.ProbeAudio(tmp.Name())
		if err != nil {
			logger.Log.Warn("Failed to probe audio duration", zap.String("file", audio.Filename), zap.Error(err))
		} else {
			duration = d
		}
	}

	contentType := audio.ContentType
	if contentType == "" {
		contentType = util.MimeOctetStream
	}
	location, err := s.Storage.UploadFile(ctx, util.AudioObjectName(taskName, audio.Filename), tmp.Name(), contentType)
	if err != nil {
		return "", 0, fmt.Errorf("failed to store audio: %w", err)
	}
	return location, duration, nil
}

func (s *DictationService) ListTasks(teacherID uint) ([]model.DictationTask, error) {
	return s.DictationRepo.ListTasks(teacherID)
}

func (s *DictationService) DeleteTask(ctx context.Context, teacherID, taskID uint) error {
	task, err := s.DictationRepo.FindTask(taskID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return util.ErrNotFound
		}
		return err
	}
	if _, err := s.DictationRepo.DeleteTask(taskID, teacherID); err != nil {
		return err
	}
	if task.AudioFile != nil {
		name := util.AudioObjectDir + "/" + path.Base(*task.AudioFile)
		if err := s.Storage.Delete(ctx, name); err != nil {
			logger.Log.Warn("Failed to delete dictation audio", zap.String("object", name), zap.Error(err))
		}
	}
	return nil
}

// Score 只计算不保存；AI 不可用或返回异常时退回本地算法
func (s *DictationService) Score(ctx context.Context, teacherID uint, req ScoreDictationRequest) (*DictationResult, error) {
	task, err := s.DictationRepo.FindTask(req.TaskID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if req.StudentID != 0 {
		if _, err := s.StudentRepo.FindOwned(req.StudentID, teacherID); err != nil {
			if isNotFound(err) {
				return nil, util.ErrPermissionDenied
			}
			return nil, err
		}
	}

	useAI := req.UseAI == nil || *req.UseAI
	result := s.ScoreText(ctx, task.Transcript, req.StudentText, useAI)
	return result, nil
}

func (s *DictationService) ScoreText(ctx context.Context, reference, submission string, useAI bool) *DictationResult {
	var result *DictationResult
	if useAI && s.AI != nil && s.AI.Enabled() {
		r, err := s.scoreWithAI(ctx, reference, submission)
		if err != nil {
			logger.Log.Warn("AI dictation scoring failed, using fallback", zap.Error(err))
		} else {
			result = r
		}
	}
	if result == nil {
		result = BasicDictationScore(reference, submission)
	}

	result.Diff = UnifiedDiff(reference, submission)
	monitoring.RecordScoring("dictation", string(result.Source))
	return result
}

func (s *DictationService) scoreWithAI(ctx context.Context, reference, submission string) (*DictationResult, error) {
	content, err := s.AI.Complete(ctx, s.AI.DictationModel(), fmt.Sprintf(dictationPrompt, reference, submission))
	if err != nil {
		return nil, err
	}

	var reply aiDictationReply
	if err := decodeJSONReply(content, &reply); err != nil {
		return nil, err
	}
	if reply.Score == nil {
		return nil, fmt.Errorf("%w: missing score", util.ErrAIResponse)
	}

	errs := reply.Errors
	if errs == nil {
		errs = []DictationError{}
	}
	return &DictationResult{
		Score:      clamp(*reply.Score, 0, 100),
		FeedbackEN: reply.FeedbackEnglish,
		FeedbackZH: reply.FeedbackChinese,
		Errors:     errs,
		Source:     model.ScoreSourceAI,
	}, nil
}

// Save 保存老师确认后的分数
func (s *DictationService) Save(teacherID uint, req SaveDictationRequest) (*model.DictationScore, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, util.ValidationError("score must be between 0 and 100")
	}
	if req.ScoreSource != "" && req.ScoreSource != model.ScoreSourceAI && req.ScoreSource != model.ScoreSourceFallback {
		return nil, util.ValidationError("invalid score source %q", req.ScoreSource)
	}
	if _, err := s.DictationRepo.FindTask(req.TaskID, teacherID); err != nil {
		if isNotFound(err) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.StudentRepo.FindOwned(req.StudentID, teacherID); err != nil {
		if isNotFound(err) {
			return nil, util.ErrPermissionDenied
		}
		return nil, err
	}

	score := &model.DictationScore{
		StudentID:   req.StudentID,
		TaskID:      req.TaskID,
		StudentText: req.StudentText,
		Score:       req.Score,
		AutoScore:   clamp(req.AutoScore, 0, 100),
		ScoreSource: req.ScoreSource,
		FeedbackEN:  req.FeedbackEN,
		FeedbackZH:  req.FeedbackZH,
	}
	if err := s.DictationRepo.CreateScore(score); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *DictationService) ListScores(teacherID, taskID uint) ([]repository.DictationScoreRow, error) {
	if _, err := s.DictationRepo.FindTask(taskID, teacherID); err != nil {
		if isNotFound(err) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return s.DictationRepo.ListScores(taskID)
}
