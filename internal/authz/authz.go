package authz

import (
	"youth_hub_backend/internal/model"
)

// Action 业务动作，路由层统一通过 CanPerform 判定，不再在每个 handler 里散落角色判断
type Action string

const (
	SessionCreate   Action = "session:create"
	SessionView     Action = "session:view"
	SessionConfirm  Action = "session:confirm"
	SessionComplete Action = "session:complete"
	SessionCancel   Action = "session:cancel"
	SessionListAll  Action = "session:list_all"
	ResourceCreate  Action = "resource:create"
	ResourceManage  Action = "resource:manage"
	ProgressWrite   Action = "progress:write"
	ProgressView    Action = "progress:view"
	MessageSend     Action = "message:send"
	StatsView       Action = "stats:view"
	UserManage      Action = "user:manage"
)

// CanPerform 纯函数：(角色, 动作, 资源归属者, 调用者) -> 是否允许。
// 管理员可操作一切；辅导员可管理自己创建的资源和被指派的预约；
// 学生只能操作属于自己的预约/进度，创建预约时只能以自己为学生。
func CanPerform(role model.UserRole, action Action, ownerID, callerID string) bool {
	if role == model.Admin {
		return true
	}

	switch action {
	case SessionCreate:
		return role == model.Student && ownerID == callerID

	case SessionView, SessionCancel:
		// 预约双方都可以查看；取消允许归属学生或被指派的辅导员
		return (role == model.Student || role == model.Counsellor) && ownerID == callerID

	case SessionConfirm, SessionComplete:
		return role == model.Counsellor && ownerID == callerID

	case SessionListAll, StatsView, UserManage:
		return false

	case ResourceCreate:
		return role == model.Counsellor

	case ResourceManage:
		return role == model.Counsellor && ownerID == callerID

	case ProgressWrite:
		return role == model.Student && ownerID == callerID

	case ProgressView:
		// 学生看自己的，辅导员可以查看学生进度
		if role == model.Counsellor {
			return true
		}
		return ownerID == callerID

	case MessageSend:
		return ownerID == callerID
	}

	return false
}

// TransitionAction 将一次状态变更映射到对应的授权动作
func TransitionAction(to model.SessionStatus) Action {
	switch to {
	case model.SessionConfirmed:
		return SessionConfirm
	case model.SessionCompleted:
		return SessionComplete
	case model.SessionCancelled:
		return SessionCancel
	}
	return SessionView
}
