package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type EssayController struct {
	EssayService *service.EssayService
}

func NewEssayController(essayService *service.EssayService) *EssayController {
	return &EssayController{EssayService: essayService}
}

// Rubrics godoc
// @Summary 作文评分标准
// @Tags 作文
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.Rubric} "成功"
// @Router /api/essays/rubrics [get]
func (c *EssayController) Rubrics(ctx *gin.Context) {
	util.Success(ctx, service.Rubrics())
}

// Mark godoc
// @Summary AI 批改作文（不保存）
// @Tags 作文
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.MarkEssayRequest true "作文"
// @Success 200 {object} util.Response{data=service.EssayMarking} "批改草稿"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "批改失败"
// @Router /api/essays/mark [post]
func (c *EssayController) Mark(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.MarkEssayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	marking, err := c.EssayService.Mark(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, marking)
}

// Save godoc
// @Summary 保存作文成绩
// @Description 提供分项明细时总分必须等于各项之和
// @Tags 作文
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SaveEssayRequest true "确认后的成绩"
// @Success 201 {object} util.Response{data=model.EssayMark} "成功"
// @Failure 400 {object} util.Response "分数与明细不一致"
// @Router /api/essays [post]
func (c *EssayController) Save(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.SaveEssayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mark, err := c.EssayService.Save(user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, mark)
}

// History godoc
// @Summary 作文成绩历史
// @Tags 作文
// @Produce json
// @Security BearerAuth
// @Param classId query int true "班级ID"
// @Success 200 {object} util.Response{data=[]service.EssayHistoryItem} "成功"
// @Router /api/essays [get]
func (c *EssayController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := requiredQueryID(ctx, "classId")
	if !ok {
		return
	}

	history, err := c.EssayService.History(user.UserID, classID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, history)
}
