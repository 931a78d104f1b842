package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type GrammarController struct {
	GrammarService *service.GrammarService
}

func NewGrammarController(grammarService *service.GrammarService) *GrammarController {
	return &GrammarController{GrammarService: grammarService}
}

// RecordError godoc
// @Summary 记录语法错误
// @Tags 语法错误
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.RecordGrammarErrorRequest true "错误类型和例句"
// @Success 201 {object} util.Response{data=service.GrammarStudentSummary} "成功，返回该学生的错误统计"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/grammar [post]
func (c *GrammarController) RecordError(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.RecordGrammarErrorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.GrammarService.Record(user.UserID, req); err != nil {
		util.HandleError(ctx, err)
		return
	}

	summary, err := c.GrammarService.StudentSummary(user.UserID, req.StudentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, summary)
}

// ClassSummary godoc
// @Summary 班级语法错误分布
// @Tags 语法错误
// @Produce json
// @Security BearerAuth
// @Param classId query int true "班级ID"
// @Success 200 {object} util.Response{data=service.GrammarClassSummary} "成功"
// @Router /api/grammar [get]
func (c *GrammarController) ClassSummary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := requiredQueryID(ctx, "classId")
	if !ok {
		return
	}

	summary, err := c.GrammarService.ClassSummary(user.UserID, classID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// StudentSummary godoc
// @Summary 学生语法错误统计
// @Tags 语法错误
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.GrammarStudentSummary} "成功"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/students/{id}/grammar [get]
func (c *GrammarController) StudentSummary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	studentID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	summary, err := c.GrammarService.StudentSummary(user.UserID, studentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
