package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 管理员维护账号和权限
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// swagger:model SetActiveRequest
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// swagger:model PermissionRequest
type PermissionRequest struct {
	Permission string `json:"permission" binding:"required"`
}

// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListUsers godoc
// @Summary 账号列表
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.UserService.ListUsers()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// CreateUser godoc
// @Summary 创建账号
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateUserRequest true "账号信息"
// @Success 201 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已存在"
// @Router /api/admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.CreateUser(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// SetActive godoc
// @Summary 启用或停用账号
// @Description 不能停用自己的账号
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body SetActiveRequest true "是否启用"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id}/active [put]
func (c *UserController) SetActive(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	userID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetActive(actor.UserID, userID, *req.Active); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GrantPermission godoc
// @Summary 授予权限
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body PermissionRequest true "权限名称"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/permissions [post]
func (c *UserController) GrantPermission(ctx *gin.Context) {
	userID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req PermissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.GrantPermission(userID, req.Permission); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RevokePermission godoc
// @Summary 收回权限
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param name path string true "权限名称"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/permissions/{name} [delete]
func (c *UserController) RevokePermission(ctx *gin.Context) {
	userID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.UserService.RevokePermission(userID, ctx.Param("name")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ResetPassword godoc
// @Summary 重置密码
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body ResetPasswordRequest true "新密码"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/password [put]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	userID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ResetPassword(userID, req.Password); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
