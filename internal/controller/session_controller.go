package controller

import (
	"errors"
	"time"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// swagger:model CreateSessionRequest
type CreateSessionRequest struct {
	StudentID    string    `json:"studentId"`
	CounsellorID string    `json:"counsellorId" binding:"required"`
	ScheduledAt  time.Time `json:"scheduledAt" binding:"required"`
	Type         string    `json:"type" binding:"omitempty,oneof=individual group"`
	Notes        string    `json:"notes"`
}

// CreateSession godoc
// @Summary 创建辅导预约
// @Description 学生发起预约，初始状态为 pending
// @Tags 预约
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSessionRequest true "预约信息"
// @Success 201 {object} util.Response{data=model.CounsellingSession} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 学生缺省以本人身份预约
	if req.StudentID == "" {
		req.StudentID = caller.ID
	}

	session, err := c.SessionService.CreateSession(caller, service.CreateSessionInput{
		StudentID:    req.StudentID,
		CounsellorID: req.CounsellorID,
		ScheduledAt:  req.ScheduledAt,
		Type:         model.SessionType(req.Type),
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrNotACounsellor),
			errors.Is(err, util.ErrNotAStudent),
			errors.Is(err, util.ErrScheduleInPast),
			errors.Is(err, util.ErrInvalidStatus):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, session)
}

// swagger:model UpdateSessionRequest
type UpdateSessionRequest struct {
	Status       *string    `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes        *string    `json:"notes"`
	StudentNotes *string    `json:"studentNotes"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
}

// UpdateSession godoc
// @Summary 更新预约
// @Description 状态迁移按状态机校验，completed/cancelled 为终态
// @Tags 预约
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "预约ID"
// @Param   body body UpdateSessionRequest true "补丁"
// @Success 200 {object} util.Response{data=model.CounsellingSession} "成功"
// @Failure 400 {object} util.Response "非法状态迁移"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "预约不存在"
// @Router /api/sessions/{id} [patch]
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	input := service.UpdateSessionInput{
		Notes:        req.Notes,
		StudentNotes: req.StudentNotes,
		ScheduledAt:  req.ScheduledAt,
	}
	if req.Status != nil {
		status := model.SessionStatus(*req.Status)
		input.Status = &status
	}

	session, err := c.SessionService.UpdateSession(caller, util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrInvalidTransition),
			errors.Is(err, util.ErrInvalidStatus),
			errors.Is(err, util.ErrScheduleInPast):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// GetSession godoc
// @Summary 预约详情
// @Description 仅预约双方和管理员可见
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "预约ID"
// @Success 200 {object} util.Response{data=model.CounsellingSession} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "预约不存在"
// @Router /api/sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.GetSession(caller, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session)
}

// GetStudentSessions godoc
// @Summary 当前学生的预约列表
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CounsellingSession} "成功"
// @Router /api/sessions/student [get]
func (c *SessionController) GetStudentSessions(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.SessionService.ListForStudent(caller.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// GetCounsellorSessions godoc
// @Summary 当前辅导员的预约列表
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CounsellingSession} "成功"
// @Router /api/sessions/counsellor [get]
func (c *SessionController) GetCounsellorSessions(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.SessionService.ListForCounsellor(caller.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// GetPendingSessions godoc
// @Summary 待确认预约
// @Description 辅导员看到指派给自己的，管理员看到全部
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CounsellingSession} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/sessions/pending [get]
func (c *SessionController) GetPendingSessions(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.SessionService.ListPending(caller)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// GetAllSessions godoc
// @Summary 全部预约（管理员）
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/sessions/all [get]
func (c *SessionController) GetAllSessions(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	sessions, total, err := c.SessionService.ListAll(caller, page, limit)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  sessions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
