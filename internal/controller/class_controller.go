package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// ClassController 班级与学生管理
type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

// swagger:model CreateClassRequest
type CreateClassRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddStudentsRequest 每行一个学生姓名
// swagger:model AddStudentsRequest
type AddStudentsRequest struct {
	Names string `json:"names" binding:"required"`
}

// CreateClass godoc
// @Summary 创建班级
// @Tags 班级管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateClassRequest true "班级名称"
// @Success 201 {object} util.Response{data=[]model.Class} "创建成功，返回最新班级列表"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "班级名称重复"
// @Router /api/classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.ClassService.CreateClass(user.UserID, req.Name); err != nil {
		util.HandleError(ctx, err)
		return
	}

	classes, err := c.ClassService.ListClasses(user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, classes)
}

// ListClasses godoc
// @Summary 班级列表
// @Description 返回当前老师的班级及学生
// @Tags 班级管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Class} "成功"
// @Router /api/classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	classes, err := c.ClassService.ListClasses(user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

// DeleteClass godoc
// @Summary 删除班级
// @Description 同时删除班级下的学生及其全部记录
// @Tags 班级管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "班级ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{id} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ClassService.DeleteClass(user.UserID, classID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddStudents godoc
// @Summary 批量添加学生
// @Description 每行一个姓名，失败的行单独报告，其余行照常写入
// @Tags 班级管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "班级ID"
// @Param request body AddStudentsRequest true "学生姓名"
// @Success 200 {object} util.Response{data=service.AddStudentsResult} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{id}/students [post]
func (c *ClassController) AddStudents(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req AddStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ClassService.AddStudents(user.UserID, classID, req.Names)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListStudents godoc
// @Summary 班级学生列表
// @Tags 班级管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "班级ID"
// @Success 200 {object} util.Response{data=[]model.Student} "成功"
// @Router /api/classes/{id}/students [get]
func (c *ClassController) ListStudents(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.ClassService.ListStudents(user.UserID, classID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// DeleteStudent godoc
// @Summary 删除学生
// @Tags 班级管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/students/{id} [delete]
func (c *ClassController) DeleteStudent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	studentID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ClassService.DeleteStudent(user.UserID, studentID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ExportStudents godoc
// @Summary 导出学生名单
// @Tags 班级管理
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Router /api/students/export [get]
func (c *ClassController) ExportStudents(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	table, err := c.ClassService.ExportStudents(user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.CSV(ctx, "students.csv", table)
}
