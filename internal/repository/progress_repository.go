package repository

import (
	"errors"
	"time"
	"youth_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 每个 (user, resource) 只保留一行；读-改-写放在事务中执行
func (r *ProgressRepository) Upsert(userID string, resourceID uint, progress int) (*model.UserProgress, error) {
	var row model.UserProgress
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND resource_id = ?", userID, resourceID).First(&row).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = model.UserProgress{UserID: userID, ResourceID: resourceID}
		}

		row.Progress = progress
		if progress >= 100 {
			now := time.Now()
			row.CompletedAt = &now
		} else {
			row.CompletedAt = nil
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProgressRepository) FindByUser(userID string) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Preload("Resource").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) FindByUserAndResource(userID string, resourceID uint) (*model.UserProgress, error) {
	var row model.UserProgress
	err := r.DB.Where("user_id = ? AND resource_id = ?", userID, resourceID).First(&row).Error
	return &row, err
}
