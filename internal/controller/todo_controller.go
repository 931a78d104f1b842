package controller

import (
	"class_tracker/internal/model"
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type TodoController struct {
	TodoService *service.TodoService
}

func NewTodoController(todoService *service.TodoService) *TodoController {
	return &TodoController{TodoService: todoService}
}

// swagger:model AddTodoRequest
type AddTodoRequest struct {
	Task string `json:"task" binding:"required"`
}

// swagger:model SetTodoStatusRequest
type SetTodoStatusRequest struct {
	Status model.TodoStatus `json:"status" binding:"required"`
}

func (c *TodoController) board(ctx *gin.Context, teacherID uint, created bool) {
	board, err := c.TodoService.Board(teacherID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, board)
		return
	}
	util.Success(ctx, board)
}

// AddTodo godoc
// @Summary 添加待办
// @Tags 待办事项
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddTodoRequest true "待办内容"
// @Success 201 {object} util.Response{data=service.TodoBoard} "成功"
// @Router /api/todos [post]
func (c *TodoController) AddTodo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req AddTodoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.TodoService.Add(user.UserID, req.Task); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.board(ctx, user.UserID, true)
}

// ListTodos godoc
// @Summary 待办看板
// @Description 按状态分组
// @Tags 待办事项
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TodoBoard} "成功"
// @Router /api/todos [get]
func (c *TodoController) ListTodos(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	c.board(ctx, user.UserID, false)
}

// SetStatus godoc
// @Summary 修改待办状态
// @Tags 待办事项
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "待办ID"
// @Param request body SetTodoStatusRequest true "新状态"
// @Success 200 {object} util.Response{data=service.TodoBoard} "成功"
// @Failure 404 {object} util.Response "待办不存在"
// @Router /api/todos/{id} [put]
func (c *TodoController) SetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	todoID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req SetTodoStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.TodoService.SetStatus(user.UserID, todoID, req.Status); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.board(ctx, user.UserID, false)
}

// DeleteTodo godoc
// @Summary 删除待办
// @Tags 待办事项
// @Produce json
// @Security BearerAuth
// @Param id path int true "待办ID"
// @Success 200 {object} util.Response{data=service.TodoBoard} "成功"
// @Router /api/todos/{id} [delete]
func (c *TodoController) DeleteTodo(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	todoID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.TodoService.Delete(user.UserID, todoID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.board(ctx, user.UserID, false)
}

// CompleteAll godoc
// @Summary 全部待办标记完成
// @Tags 待办事项
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TodoBoard} "成功"
// @Router /api/todos/complete-all [post]
func (c *TodoController) CompleteAll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	if _, err := c.TodoService.CompleteAllPending(user.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.board(ctx, user.UserID, false)
}

// ClearDone godoc
// @Summary 清除已完成待办
// @Tags 待办事项
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TodoBoard} "成功"
// @Router /api/todos/clear-done [post]
func (c *TodoController) ClearDone(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	if _, err := c.TodoService.ClearDone(user.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.board(ctx, user.UserID, false)
}
