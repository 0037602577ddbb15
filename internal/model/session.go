package model

import (
	"time"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type SessionType string

const (
	SessionIndividual SessionType = "individual"
	SessionGroup      SessionType = "group"
)

func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionPending, SessionConfirmed, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

func ValidSessionType(t SessionType) bool {
	return t == SessionIndividual || t == SessionGroup
}

// sessionTransitions 状态机允许的边，completed/cancelled 为终态
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionPending:   {SessionConfirmed, SessionCancelled},
	SessionConfirmed: {SessionCompleted, SessionCancelled},
}

// CanTransition reports whether a counselling session may move from
// one status to another.
func CanTransition(from, to SessionStatus) bool {
	for _, next := range sessionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CounsellingSession 学生与辅导员之间的预约记录
// swagger:model CounsellingSession
type CounsellingSession struct {
	BaseModel
	StudentID    string        `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Student      User          `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CounsellorID string        `gorm:"type:varchar(36);index;not null" json:"counsellorId"`
	Counsellor   User          `gorm:"foreignKey:CounsellorID" json:"counsellor,omitempty"`
	ScheduledAt  time.Time     `gorm:"index;not null" json:"scheduledAt"`
	Status       SessionStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Type         SessionType   `gorm:"size:20;default:'individual'" json:"type"`
	Notes        string        `gorm:"type:text" json:"notes"`
	StudentNotes string        `gorm:"type:text" json:"studentNotes"`
}

func (CounsellingSession) TableName() string {
	return "counselling_sessions"
}
