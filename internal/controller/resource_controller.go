package controller

import (
	"errors"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// swagger:model CreateResourceRequest
type CreateResourceRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" binding:"required,oneof=worksheet video audio interactive"`
	FileURL     string  `json:"fileUrl"`
	Duration    float64 `json:"duration"`
}

// CreateResource godoc
// @Summary 创建资源
// @Description 辅导员或管理员上传心理教育资源
// @Tags 资源
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateResourceRequest true "资源信息"
// @Success 201 {object} util.Response{data=model.Resource} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resource, err := c.ResourceService.Create(caller, service.ResourceInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        model.ResourceType(req.Type),
		FileURL:     req.FileURL,
		Duration:    req.Duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrInvalidResource):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, resource)
}

// GetResources godoc
// @Summary 资源列表
// @Description 活跃资源，支持按类型过滤
// @Tags 资源
// @Produce  json
// @Security ApiKeyAuth
// @Param   type query string false "资源类型"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/resources [get]
func (c *ResourceController) GetResources(ctx *gin.Context) {
	page, limit := pagination(ctx)
	resources, total, err := c.ResourceService.List(model.ResourceType(ctx.Query("type")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  resources,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetResource godoc
// @Summary 资源详情
// @Tags 资源
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "资源ID"
// @Success 200 {object} util.Response{data=model.Resource} "成功"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/resources/{id} [get]
func (c *ResourceController) GetResource(ctx *gin.Context) {
	resource, err := c.ResourceService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, resource)
}

// swagger:model UpdateResourceRequest
type UpdateResourceRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type" binding:"omitempty,oneof=worksheet video audio interactive"`
	FileURL     *string `json:"fileUrl"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateResource godoc
// @Summary 更新资源
// @Description 辅导员只能改自己上传的资源
// @Tags 资源
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "资源ID"
// @Param   body body UpdateResourceRequest true "补丁"
// @Success 200 {object} util.Response{data=model.Resource} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/resources/{id} [patch]
func (c *ResourceController) UpdateResource(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	patch := service.ResourcePatch{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		IsActive:    req.IsActive,
	}
	if req.Type != nil {
		t := model.ResourceType(*req.Type)
		patch.Type = &t
	}

	resource, err := c.ResourceService.Update(caller, util.MustParseUint(ctx.Param("id")), patch)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrResourceNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrInvalidResource):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resource)
}

// DeleteResource godoc
// @Summary 删除资源
// @Description 软删除，仅翻转 isActive
// @Tags 资源
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "资源ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/resources/{id} [delete]
func (c *ResourceController) DeleteResource(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.ResourceService.Delete(caller, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrResourceNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "deleted"})
}

// UploadResourceFile godoc
// @Summary 上传资源文件
// @Description 保存文件并返回访问URL，音视频自动探测时长
// @Tags 资源
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "资源文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/resources/upload [post]
func (c *ResourceController) UploadResourceFile(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, duration, err := c.ResourceService.UploadFile(ctx.Request.Context(), caller, file)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"fileUrl": url, "duration": duration})
}
