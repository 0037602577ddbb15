package service

import (
	"errors"
	"time"
	"youth_hub_backend/internal/authz"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/util"
	"youth_hub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type SessionService struct {
	SessionRepo   *repository.SessionRepository
	UserRepo      *repository.UserRepository
	Notifications *NotificationService
}

func NewSessionService(sessionRepo *repository.SessionRepository, userRepo *repository.UserRepository, notifications *NotificationService) *SessionService {
	return &SessionService{
		SessionRepo:   sessionRepo,
		UserRepo:      userRepo,
		Notifications: notifications,
	}
}

type CreateSessionInput struct {
	StudentID    string
	CounsellorID string
	ScheduledAt  time.Time
	Type         model.SessionType
	Notes        string
}

// CreateSession 学生本人发起预约，初始状态为 pending。
// 辅导员ID必须指向辅导员角色的用户，时间必须在未来。
func (s *SessionService) CreateSession(caller *model.User, input CreateSessionInput) (*model.CounsellingSession, error) {
	if !authz.CanPerform(caller.Role, authz.SessionCreate, input.StudentID, caller.ID) {
		return nil, util.ErrPermissionDenied
	}

	student, err := s.UserRepo.FindByID(input.StudentID)
	if err != nil || student.Role != model.Student {
		return nil, util.ErrNotAStudent
	}

	counsellor, err := s.UserRepo.FindByID(input.CounsellorID)
	if err != nil || counsellor.Role != model.Counsellor {
		return nil, util.ErrNotACounsellor
	}

	if !input.ScheduledAt.After(time.Now()) {
		return nil, util.ErrScheduleInPast
	}

	if input.Type == "" {
		input.Type = model.SessionIndividual
	}
	if !model.ValidSessionType(input.Type) {
		return nil, util.ErrInvalidStatus
	}

	session := &model.CounsellingSession{
		StudentID:    input.StudentID,
		CounsellorID: input.CounsellorID,
		ScheduledAt:  input.ScheduledAt,
		Status:       model.SessionPending,
		Type:         input.Type,
		Notes:        input.Notes,
	}

	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	// 双方各发一条通知，失败只记录日志不影响预约结果
	s.Notifications.NotifySessionBooked(session, student, counsellor)

	return session, nil
}

type UpdateSessionInput struct {
	Status       *model.SessionStatus
	Notes        *string
	StudentNotes *string
	ScheduledAt  *time.Time
}

// UpdateSession 应用补丁。状态变更按状态机校验非法边，
// 并按角色判定谁可以走哪条边。
func (s *SessionService) UpdateSession(caller *model.User, id uint, input UpdateSessionInput) (*model.CounsellingSession, error) {
	session, err := s.SessionRepo.UpdateTx(id, func(session *model.CounsellingSession) error {
		if input.Status != nil {
			if err := s.applyTransition(caller, session, *input.Status); err != nil {
				return err
			}
		}

		if input.Notes != nil {
			// 辅导员记录：被指派的辅导员或管理员可写
			if !authz.CanPerform(caller.Role, authz.SessionConfirm, session.CounsellorID, caller.ID) {
				return util.ErrPermissionDenied
			}
			session.Notes = *input.Notes
		}

		if input.StudentNotes != nil {
			if caller.Role != model.Admin && caller.ID != session.StudentID {
				return util.ErrPermissionDenied
			}
			session.StudentNotes = *input.StudentNotes
		}

		if input.ScheduledAt != nil {
			// 只有待确认的预约可以改期，由预约双方操作
			if session.Status != model.SessionPending {
				return util.ErrInvalidTransition
			}
			if caller.Role != model.Admin && caller.ID != session.StudentID && caller.ID != session.CounsellorID {
				return util.ErrPermissionDenied
			}
			if !input.ScheduledAt.After(time.Now()) {
				return util.ErrScheduleInPast
			}
			session.ScheduledAt = *input.ScheduledAt
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) applyTransition(caller *model.User, session *model.CounsellingSession, to model.SessionStatus) error {
	if !model.ValidSessionStatus(to) {
		return util.ErrInvalidStatus
	}
	if !model.CanTransition(session.Status, to) {
		return util.ErrInvalidTransition
	}

	action := authz.TransitionAction(to)
	owner := session.CounsellorID
	if action == authz.SessionCancel && caller.Role == model.Student {
		owner = session.StudentID
	}
	if !authz.CanPerform(caller.Role, action, owner, caller.ID) {
		return util.ErrPermissionDenied
	}

	session.Status = to
	monitoring.SessionTransitions.WithLabelValues(string(to)).Inc()
	return nil
}

func (s *SessionService) GetSession(caller *model.User, id uint) (*model.CounsellingSession, error) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	owner := session.StudentID
	if caller.Role == model.Counsellor {
		owner = session.CounsellorID
	}
	if !authz.CanPerform(caller.Role, authz.SessionView, owner, caller.ID) {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *SessionService) ListForStudent(studentID string) ([]model.CounsellingSession, error) {
	return s.SessionRepo.FindByStudent(studentID)
}

func (s *SessionService) ListForCounsellor(counsellorID string) ([]model.CounsellingSession, error) {
	return s.SessionRepo.FindByCounsellor(counsellorID)
}

// ListPending 辅导员看到指派给自己的待确认预约，管理员看到全部
func (s *SessionService) ListPending(caller *model.User) ([]model.CounsellingSession, error) {
	if caller.Role == model.Admin {
		return s.SessionRepo.FindPending("")
	}
	if caller.Role != model.Counsellor {
		return nil, util.ErrPermissionDenied
	}
	return s.SessionRepo.FindPending(caller.ID)
}

func (s *SessionService) ListAll(caller *model.User, page, limit int) ([]model.CounsellingSession, int64, error) {
	if !authz.CanPerform(caller.Role, authz.SessionListAll, "", caller.ID) {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.SessionRepo.FindAll(page, limit)
}
