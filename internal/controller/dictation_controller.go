package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 上传音频大小上限
const maxAudioSize = 50 << 20

type DictationController struct {
	DictationService *service.DictationService
}

func NewDictationController(dictationService *service.DictationService) *DictationController {
	return &DictationController{DictationService: dictationService}
}

// CreateTask godoc
// @Summary 创建听写任务
// @Description 支持同时上传 mp3/wav/ogg 音频
// @Tags 听写
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "任务名称"
// @Param transcript formData string true "标准文本"
// @Param audio formData file false "音频文件"
// @Success 201 {object} util.Response{data=model.DictationTask} "成功"
// @Failure 400 {object} util.Response "请求参数错误或音频格式不支持"
// @Router /api/dictation/tasks [post]
func (c *DictationController) CreateTask(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.CreateDictationTaskRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var audio *service.AudioUpload
	fileHeader, err := ctx.FormFile("audio")
	switch {
	case err == nil:
		if fileHeader.Size > maxAudioSize {
			util.BadRequest(ctx, "audio file is too large")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer file.Close()

		mimeType, err := util.ValidateMimeType(file, util.AllowedAudioMimeTypes)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		audio = &service.AudioUpload{Filename: fileHeader.Filename, ContentType: mimeType, Reader: file}
	case err != http.ErrMissingFile:
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.DictationService.CreateTask(ctx.Request.Context(), user.UserID, req, audio)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// ListTasks godoc
// @Summary 听写任务列表
// @Tags 听写
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.DictationTask} "成功"
// @Router /api/dictation/tasks [get]
func (c *DictationController) ListTasks(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	tasks, err := c.DictationService.ListTasks(user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// DeleteTask godoc
// @Summary 删除听写任务
// @Description 同时删除任务的成绩和音频
// @Tags 听写
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/dictation/tasks/{id} [delete]
func (c *DictationController) DeleteTask(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	taskID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.DictationService.DeleteTask(ctx.Request.Context(), user.UserID, taskID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Score godoc
// @Summary 听写评分（不保存）
// @Description 默认调用 AI 评分，失败时使用本地相似度算法
// @Tags 听写
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ScoreDictationRequest true "学生答案"
// @Success 200 {object} util.Response{data=service.DictationResult} "评分草稿"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/dictation/score [post]
func (c *DictationController) Score(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.ScoreDictationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.DictationService.Score(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SaveScore godoc
// @Summary 保存老师确认后的听写成绩
// @Tags 听写
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SaveDictationRequest true "确认后的成绩"
// @Success 201 {object} util.Response{data=model.DictationScore} "成功"
// @Failure 400 {object} util.Response "分数超出范围"
// @Router /api/dictation/scores [post]
func (c *DictationController) SaveScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.SaveDictationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	score, err := c.DictationService.Save(user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, score)
}

// ListScores godoc
// @Summary 听写任务成绩
// @Description 按分数从高到低
// @Tags 听写
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=[]repository.DictationScoreRow} "成功"
// @Router /api/dictation/tasks/{id}/scores [get]
func (c *DictationController) ListScores(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	taskID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	scores, err := c.DictationService.ListScores(user.UserID, taskID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}
