package controller

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	CommentService *service.CommentService
}

func NewCommentController(commentService *service.CommentService) *CommentController {
	return &CommentController{CommentService: commentService}
}

// AddComment godoc
// @Summary 添加评语
// @Tags 评语
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AddCommentRequest true "评语"
// @Success 201 {object} util.Response{data=[]repository.CommentRow} "成功，返回该学生的评语"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "学生不属于当前老师"
// @Router /api/comments [post]
func (c *CommentController) AddComment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.CommentService.Add(user.UserID, req); err != nil {
		util.HandleError(ctx, err)
		return
	}

	comments, err := c.CommentService.List(repository.CommentFilter{TeacherID: user.UserID, StudentID: req.StudentID})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, comments)
}

// ListComments godoc
// @Summary 评语列表
// @Description 可按班级、学生、类别过滤，最新的在前
// @Tags 评语
// @Produce json
// @Security BearerAuth
// @Param classId query int false "班级ID"
// @Param studentId query int false "学生ID"
// @Param category query string false "类别"
// @Success 200 {object} util.Response{data=[]repository.CommentRow} "成功"
// @Router /api/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	classID, ok := queryID(ctx, "classId")
	if !ok {
		return
	}
	studentID, ok := queryID(ctx, "studentId")
	if !ok {
		return
	}

	comments, err := c.CommentService.List(repository.CommentFilter{
		TeacherID: user.UserID,
		ClassID:   classID,
		StudentID: studentID,
		Category:  model.CommentCategory(ctx.Query("category")),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}

// StudentReport godoc
// @Summary 学生评语报告
// @Description 按类别分组
// @Tags 评语
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentCommentReport} "成功"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/students/{id}/comments [get]
func (c *CommentController) StudentReport(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	studentID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	report, err := c.CommentService.StudentReport(user.UserID, studentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// DeleteComment godoc
// @Summary 删除评语
// @Tags 评语
// @Produce json
// @Security BearerAuth
// @Param id path int true "评语ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "评语不存在"
// @Router /api/comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	commentID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.CommentService.Delete(user.UserID, commentID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
