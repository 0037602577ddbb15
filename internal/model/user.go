package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Counsellor UserRole = "counsellor"
	Admin      UserRole = "admin"
)

func ValidRole(r UserRole) bool {
	switch r {
	case Student, Counsellor, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	UUIDBase
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	Role      UserRole  `gorm:"size:20;default:'student';index" json:"role"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
