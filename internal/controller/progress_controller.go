package controller

import (
	"errors"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// swagger:model UpsertProgressRequest
type UpsertProgressRequest struct {
	ResourceID uint `json:"resourceId" binding:"required"`
	Progress   int  `json:"progress"`
}

// UpsertProgress godoc
// @Summary 记录资源进度
// @Description 同一 (用户,资源) 只保留一行，进度收敛到 0-100
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpsertProgressRequest true "进度"
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/progress [post]
func (c *ProgressController) UpsertProgress(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpsertProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	row, err := c.ProgressService.Upsert(caller, caller.ID, req.ResourceID, req.Progress)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrResourceNotFound):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, row)
}

// GetProgress godoc
// @Summary 当前用户的进度列表
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserProgress} "成功"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.ProgressService.ListForUser(caller, caller.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// GetUserProgress godoc
// @Summary 指定学生的进度列表
// @Description 辅导员和管理员可见
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path string true "用户ID"
// @Success 200 {object} util.Response{data=[]model.UserProgress} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/progress/user/{userId} [get]
func (c *ProgressController) GetUserProgress(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.ProgressService.ListForUser(caller, ctx.Param("userId"))
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
