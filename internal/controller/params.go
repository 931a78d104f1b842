package controller

import (
	"class_tracker/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// idParam 解析路径中的 ID，非法时直接返回 400
func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryID 解析可选的查询参数 ID，缺省为 0
func queryID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func requiredQueryID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := queryID(ctx, name)
	if !ok {
		return 0, false
	}
	if id == 0 {
		util.BadRequest(ctx, name+" is required")
		return 0, false
	}
	return id, true
}
