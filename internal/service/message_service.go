package service

import (
	"errors"
	"strings"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/util"

	"gorm.io/gorm"
)

type MessageService struct {
	MessageRepo *repository.MessageRepository
	UserRepo    *repository.UserRepository
}

func NewMessageService(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository) *MessageService {
	return &MessageService{
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
	}
}

func (s *MessageService) Send(senderID, receiverID, content string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, util.ErrSelfConversation
	}
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrEmptyMessage
	}

	if _, err := s.UserRepo.FindByID(receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Status:     model.MessageSent,
	}
	if err := s.MessageRepo.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Conversation 调用者与对端的全部消息，按时间升序
func (s *MessageService) Conversation(callerID, partnerID string) ([]model.Message, error) {
	return s.MessageRepo.FindConversation(callerID, partnerID)
}

// Conversations 按对端汇总：最后一条消息和未读数
func (s *MessageService) Conversations(callerID string) ([]model.ConversationSummary, error) {
	partnerIDs, err := s.MessageRepo.FindPartners(callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.ConversationSummary, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		partner, err := s.UserRepo.FindByID(partnerID)
		if err != nil {
			continue
		}

		last, err := s.MessageRepo.LastMessage(callerID, partnerID)
		if err != nil {
			continue
		}

		unread, err := s.MessageRepo.CountUnread(callerID, partnerID)
		if err != nil {
			unread = 0
		}

		summaries = append(summaries, model.ConversationSummary{
			Partner:     *partner,
			LastMessage: *last,
			UnreadCount: unread,
		})
	}
	return summaries, nil
}

// MarkRead 只有接收方可以标记已读
func (s *MessageService) MarkRead(callerID string, id uint) error {
	msg, err := s.MessageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMessageNotFound
		}
		return err
	}

	if msg.ReceiverID != callerID {
		return util.ErrPermissionDenied
	}
	return s.MessageRepo.MarkRead(id)
}
