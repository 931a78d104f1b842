package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type HomeworkController struct {
	HomeworkService *service.HomeworkService
}

func NewHomeworkController(homeworkService *service.HomeworkService) *HomeworkController {
	return &HomeworkController{HomeworkService: homeworkService}
}

// Grid godoc
// @Summary 某天的作业登记表
// @Description 未登记的学生默认按时提交
// @Tags 作业
// @Produce json
// @Security BearerAuth
// @Param classId query int true "班级ID"
// @Param date query string false "日期 YYYY-MM-DD，默认今天"
// @Success 200 {object} util.Response{data=[]service.HomeworkGridRow} "成功"
// @Router /api/homework/grid [get]
func (c *HomeworkController) Grid(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := requiredQueryID(ctx, "classId")
	if !ok {
		return
	}

	grid, err := c.HomeworkService.Grid(user.UserID, classID, ctx.DefaultQuery("date", util.Today()))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, grid)
}

// Save godoc
// @Summary 保存作业登记
// @Description 按 (学生, 日期) 覆盖写入，重复提交结果相同
// @Tags 作业
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SaveHomeworkRequest true "登记内容"
// @Success 200 {object} util.Response{data=[]service.HomeworkGridRow} "成功，返回最新登记表"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "包含不属于当前老师的学生"
// @Router /api/homework [put]
func (c *HomeworkController) Save(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.SaveHomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.HomeworkService.Save(user.UserID, req); err != nil {
		util.HandleError(ctx, err)
		return
	}

	grid, err := c.HomeworkService.Grid(user.UserID, req.ClassID, req.Date)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, grid)
}

// History godoc
// @Summary 作业历史
// @Tags 作业
// @Produce json
// @Security BearerAuth
// @Param classId query int true "班级ID"
// @Param from query string false "开始日期，默认 7 天前"
// @Param to query string false "结束日期，默认今天"
// @Success 200 {object} util.Response{data=service.HomeworkHistory} "成功"
// @Router /api/homework [get]
func (c *HomeworkController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := requiredQueryID(ctx, "classId")
	if !ok {
		return
	}

	history, err := c.HomeworkService.History(user.UserID, classID, ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, history)
}
