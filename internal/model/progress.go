package model

import "time"

// UserProgress 每个 (user, resource) 一行，进度 0-100
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID      string     `gorm:"type:varchar(36);uniqueIndex:idx_user_resource;not null" json:"userId"`
	ResourceID  uint       `gorm:"uniqueIndex:idx_user_resource;not null" json:"resourceId"`
	Resource    Resource   `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Progress    int        `gorm:"default:0" json:"progress"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
