package model

type MessageStatus string

const (
	MessageSent MessageStatus = "sent"
	MessageRead MessageStatus = "read"
)

// Message 两个用户之间的一条私信，会话由过滤推导，无独立实体
// swagger:model Message
type Message struct {
	BaseModel
	SenderID   string        `gorm:"type:varchar(36);index:idx_sender_receiver;not null" json:"senderId"`
	ReceiverID string        `gorm:"type:varchar(36);index:idx_sender_receiver;not null" json:"receiverId"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	Status     MessageStatus `gorm:"size:10;default:'sent'" json:"status"`
}

func (Message) TableName() string {
	return "messages"
}

// ConversationSummary 会话概要（对端、最后一条消息、未读数）
type ConversationSummary struct {
	Partner     User    `json:"partner"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int64   `json:"unreadCount"`
}
