package service

import (
	"youth_hub_backend/internal/authz"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/util"
)

type AnalyticsService struct {
	Repo *repository.AnalyticsRepository
}

func NewAnalyticsService(repo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{Repo: repo}
}

// PlatformStats 管理端总览
type PlatformStats struct {
	UsersByRole       map[string]int64 `json:"usersByRole"`
	SessionsByStatus  map[string]int64 `json:"sessionsByStatus"`
	ActiveResources   int64            `json:"activeResources"`
	TotalMessages     int64            `json:"totalMessages"`
	CompletedProgress int64            `json:"completedProgress"`
}

func (s *AnalyticsService) GetStats(caller *model.User) (*PlatformStats, error) {
	if !authz.CanPerform(caller.Role, authz.StatsView, "", caller.ID) {
		return nil, util.ErrPermissionDenied
	}

	usersByRole, err := s.Repo.CountUsersByRole()
	if err != nil {
		return nil, err
	}

	sessionsByStatus, err := s.Repo.CountSessionsByStatus()
	if err != nil {
		return nil, err
	}

	activeResources, err := s.Repo.CountActiveResources()
	if err != nil {
		return nil, err
	}

	totalMessages, err := s.Repo.CountMessages()
	if err != nil {
		return nil, err
	}

	completed, err := s.Repo.CountCompletedProgress()
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		UsersByRole:       usersByRole,
		SessionsByStatus:  sessionsByStatus,
		ActiveResources:   activeResources,
		TotalMessages:     totalMessages,
		CompletedProgress: completed,
	}, nil
}
