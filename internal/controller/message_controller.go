package controller

import (
	"errors"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

// swagger:model SendMessageRequest
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage godoc
// @Summary 发送私信
// @Tags 消息
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.Message} "发送成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.MessageService.Send(caller.ID, req.ReceiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound),
			errors.Is(err, util.ErrSelfConversation),
			errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, msg)
}

// GetConversations godoc
// @Summary 会话列表
// @Description 按对端汇总，带最后一条消息和未读数
// @Tags 消息
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ConversationSummary} "成功"
// @Router /api/messages/conversations [get]
func (c *MessageController) GetConversations(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.MessageService.Conversations(caller.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetConversation godoc
// @Summary 与指定用户的消息
// @Description 按时间升序
// @Tags 消息
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path string true "对端用户ID"
// @Success 200 {object} util.Response{data=[]model.Message} "成功"
// @Router /api/messages/{userId} [get]
func (c *MessageController) GetConversation(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	messages, err := c.MessageService.Conversation(caller.ID, ctx.Param("userId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

// MarkMessageRead godoc
// @Summary 标记消息已读
// @Description 仅接收方可标记
// @Tags 消息
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "消息ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "消息不存在"
// @Router /api/messages/{id}/read [patch]
func (c *MessageController) MarkMessageRead(ctx *gin.Context) {
	caller := middleware.CurrentUser(ctx)
	if caller == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.MessageService.MarkRead(caller.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMessageNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "read"})
}
