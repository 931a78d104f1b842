package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// ClassReport godoc
// @Summary 班级学生汇总报告
// @Description 每个学生的作业、评语、语法错误数量及各项平均分
// @Tags 报告
// @Produce json
// @Security BearerAuth
// @Param id path int true "班级ID"
// @Success 200 {object} util.Response{data=service.ClassReport} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{id}/report [get]
func (c *ReportController) ClassReport(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	report, err := c.ReportService.ClassReport(user.UserID, classID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
