package controller

import (
	"errors"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetStats godoc
// @Summary 平台统计
// @Description 按角色的用户数、按状态的预约数等，仅管理员
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PlatformStats} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/analytics/stats [get]
func (c *AnalyticsController) GetStats(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.AnalyticsService.GetStats(caller)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
