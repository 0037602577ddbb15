package service

import (
	"errors"
	"youth_hub_backend/internal/authz"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	ResourceRepo *repository.ResourceRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, resourceRepo *repository.ResourceRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		ResourceRepo: resourceRepo,
	}
}

// Upsert 进度收敛到 [0,100]，同一 (user, resource) 更新原行而不是新增
func (s *ProgressService) Upsert(caller *model.User, userID string, resourceID uint, progress int) (*model.UserProgress, error) {
	if !authz.CanPerform(caller.Role, authz.ProgressWrite, userID, caller.ID) {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.ResourceRepo.FindByID(resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}

	return s.ProgressRepo.Upsert(userID, resourceID, util.ClampPercent(progress))
}

func (s *ProgressService) ListForUser(caller *model.User, userID string) ([]model.UserProgress, error) {
	if !authz.CanPerform(caller.Role, authz.ProgressView, userID, caller.ID) {
		return nil, util.ErrPermissionDenied
	}
	return s.ProgressRepo.FindByUser(userID)
}
