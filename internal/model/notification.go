package model

// Notification 站内通知，预约创建等事件触发，发送失败只记录日志
// swagger:model Notification
type Notification struct {
	BaseModel
	UserID  string `gorm:"type:varchar(36);index;not null" json:"userId"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Body    string `gorm:"type:text" json:"body"`
	IsRead  bool   `gorm:"default:false;index" json:"isRead"`
	Related string `gorm:"size:100" json:"related"` // 例如 session:42
}

func (Notification) TableName() string {
	return "notifications"
}
