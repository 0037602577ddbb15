package repository

import (
	"youth_hub_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) CountUsersByRole() (map[string]int64, error) {
	type row struct {
		Role  string
		Count int64
	}
	var rows []row
	err := r.DB.Model(&model.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Role] = rw.Count
	}
	return counts, nil
}

func (r *AnalyticsRepository) CountSessionsByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.CounsellingSession{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *AnalyticsRepository) CountActiveResources() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Resource{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepository) CountMessages() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Message{}).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepository) CountCompletedProgress() (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserProgress{}).Where("progress >= ?", 100).Count(&count).Error
	return count, err
}
