package repository

import (
	"youth_hub_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(msg *model.Message) error {
	return r.DB.Create(msg).Error
}

func (r *MessageRepository) FindByID(id uint) (*model.Message, error) {
	var msg model.Message
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

// FindConversation 两个用户之间的全部消息，按时间升序
func (r *MessageRepository) FindConversation(userA, userB string) ([]model.Message, error) {
	var messages []model.Message
	err := r.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// FindPartners 与该用户有过往来的所有对端ID
func (r *MessageRepository) FindPartners(userID string) ([]string, error) {
	var partners []string
	err := r.DB.Model(&model.Message{}).
		Select("DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END", userID).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Scan(&partners).Error
	return partners, err
}

func (r *MessageRepository) LastMessage(userA, userB string) (*model.Message, error) {
	var msg model.Message
	err := r.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	return &msg, err
}

func (r *MessageRepository) CountUnread(receiverID, senderID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND status = ?", receiverID, senderID, model.MessageSent).
		Count(&count).Error
	return count, err
}

func (r *MessageRepository) MarkRead(id uint) error {
	return r.DB.Model(&model.Message{}).
		Where("id = ?", id).
		Update("status", model.MessageRead).Error
}
