package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSessionNotFound    = errors.New("session not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidResource    = errors.New("unknown resource type")
	ErrEmptyMessage       = errors.New("message content is empty")
	ErrNotACounsellor     = errors.New("counsellor id does not resolve to a counsellor")
	ErrNotAStudent        = errors.New("student id does not resolve to a student")
	ErrScheduleInPast     = errors.New("session must be scheduled in the future")
	ErrInvalidStatus      = errors.New("unknown session status")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrSelfConversation   = errors.New("cannot message yourself")
	ErrAccountDisabled    = errors.New("account disabled")
)
