package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminController 统计、导出、数据浏览与清空
type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// swagger:model QueryRequest
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// swagger:model PurgeRequest
type PurgeRequest struct {
	Confirmation string `json:"confirmation" binding:"required"`
}

// Overview godoc
// @Summary 系统概览
// @Description 各类数据总数及每位老师的使用情况
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Overview} "成功"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/admin/overview [get]
func (c *AdminController) Overview(ctx *gin.Context) {
	overview, err := c.AdminService.Overview()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// Export godoc
// @Summary 导出数据
// @Tags 管理员
// @Produce text/csv
// @Security BearerAuth
// @Param dataset path string true "students | essays | dictation | comments"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} util.Response "未知数据集"
// @Router /api/admin/export/{dataset} [get]
func (c *AdminController) Export(ctx *gin.Context) {
	dataset := ctx.Param("dataset")

	table, err := c.AdminService.Export(ctx.Request.Context(), dataset)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.CSV(ctx, dataset+".csv", table)
}

// Tables godoc
// @Summary 可浏览的数据表
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]string} "成功"
// @Router /api/admin/tables [get]
func (c *AdminController) Tables(ctx *gin.Context) {
	util.Success(ctx, c.AdminService.Tables())
}

// BrowseTable godoc
// @Summary 浏览数据表
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param table path string true "表名"
// @Param page query int false "页码"
// @Param pageSize query int false "每页行数"
// @Success 200 {object} util.Response{data=service.TablePage} "成功"
// @Failure 400 {object} util.Response "未知数据表"
// @Router /api/admin/tables/{table} [get]
func (c *AdminController) BrowseTable(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize"))

	result, err := c.AdminService.BrowseTable(ctx.Param("table"), page, pageSize)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Query godoc
// @Summary 只读 SQL 查询
// @Description 仅接受单条 SELECT/WITH 语句，最多返回 1000 行
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QueryRequest true "SQL"
// @Success 200 {object} util.Response{data=service.QueryResult} "成功"
// @Failure 400 {object} util.Response "语句不允许或执行失败"
// @Failure 403 {object} util.Response "缺少 db_browser 权限"
// @Router /api/admin/query [post]
func (c *AdminController) Query(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AdminService.Query(ctx.Request.Context(), user.Username, req.Query)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Purge godoc
// @Summary 清空全部班级数据
// @Description 需要 purge_data 权限并输入确认语 DELETE ALL DATA
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PurgeRequest true "确认语"
// @Success 200 {object} util.Response{data=map[string]int64} "各表删除行数"
// @Failure 400 {object} util.Response "确认语不正确"
// @Failure 403 {object} util.Response "缺少 purge_data 权限"
// @Router /api/admin/purge [post]
func (c *AdminController) Purge(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req PurgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	deleted, err := c.AdminService.Purge(user.Username, req.Confirmation)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, deleted)
}
