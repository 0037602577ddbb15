package repository

import (
	"youth_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	return r.DB.Create(resource).Error
}

func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var resource model.Resource
	err := r.DB.First(&resource, id).Error
	return &resource, err
}

func (r *ResourceRepository) FindActive(resourceType model.ResourceType, page, limit int) ([]model.Resource, int64, error) {
	var resources []model.Resource
	var total int64

	db := r.DB.Model(&model.Resource{}).Where("is_active = ?", true)
	if resourceType != "" {
		db = db.Where("type = ?", resourceType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&resources).Error
	return resources, total, err
}

func (r *ResourceRepository) Update(resource *model.Resource) error {
	return r.DB.Save(resource).Error
}

// Deactivate 软删除：只翻转 is_active，记录保留
func (r *ResourceRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Resource{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
