package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type SpellingController struct {
	SpellingService *service.SpellingService
}

func NewSpellingController(spellingService *service.SpellingService) *SpellingController {
	return &SpellingController{SpellingService: spellingService}
}

// SaveScores godoc
// @Summary 保存拼写周测成绩
// @Description 0 分视为未参加，不写入；分数须在 0 与满分之间
// @Tags 拼写测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SaveSpellingRequest true "成绩"
// @Success 200 {object} util.Response{data=service.SaveSpellingResult} "成功"
// @Failure 400 {object} util.Response "分数超出范围"
// @Router /api/spelling [put]
func (c *SpellingController) SaveScores(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.SaveSpellingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SpellingService.Save(user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Week godoc
// @Summary 某周的拼写成绩
// @Tags 拼写测验
// @Produce json
// @Security BearerAuth
// @Param classId query int true "班级ID"
// @Param week query string true "周日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]repository.SpellingRow} "成功"
// @Router /api/spelling [get]
func (c *SpellingController) Week(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := requiredQueryID(ctx, "classId")
	if !ok {
		return
	}

	rows, err := c.SpellingService.Week(user.UserID, classID, ctx.Query("week"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// Analytics godoc
// @Summary 拼写成绩分析
// @Description 周平均、学生平均和最近一周统计
// @Tags 拼写测验
// @Produce json
// @Security BearerAuth
// @Param classId query int true "班级ID"
// @Success 200 {object} util.Response{data=service.SpellingAnalytics} "成功"
// @Router /api/spelling/analytics [get]
func (c *SpellingController) Analytics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := requiredQueryID(ctx, "classId")
	if !ok {
		return
	}

	analytics, err := c.SpellingService.Analytics(user.UserID, classID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
