package service

import (
	"errors"
	"youth_hub_backend/internal/authz"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByID(id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type ProfilePatch struct {
	FirstName *string
	LastName  *string
}

func (s *UserService) UpdateProfile(userID string, patch ProfilePatch) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(caller *model.User, role model.UserRole, page, limit int) ([]model.User, int64, error) {
	if !authz.CanPerform(caller.Role, authz.UserManage, "", caller.ID) {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.UserRepo.List(role, page, limit)
}

// ListCounsellors 学生预约时需要可选的辅导员列表，任何登录用户可见
func (s *UserService) ListCounsellors() ([]model.User, error) {
	counsellors, _, err := s.UserRepo.List(model.Counsellor, 1, 200)
	return counsellors, err
}

// ChangeRole 角色只读，唯一例外是管理员显式改派
func (s *UserService) ChangeRole(caller *model.User, userID string, role model.UserRole) (*model.User, error) {
	if !authz.CanPerform(caller.Role, authz.UserManage, "", caller.ID) {
		return nil, util.ErrPermissionDenied
	}
	if !model.ValidRole(role) {
		return nil, util.ErrInvalidStatus
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateRole(user.ID, role); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *UserService) SetDisabled(caller *model.User, userID string, disabled bool) error {
	if !authz.CanPerform(caller.Role, authz.UserManage, "", caller.ID) {
		return util.ErrPermissionDenied
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(user.ID, disabled)
}
