package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
	"youth_hub_backend/internal/authz"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/util"
	"youth_hub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	resourceListCacheKey = "resources:list"
	resourceListCacheTTL = 5 * time.Minute
)

// cachedResourceList Redis里缓存的资源首页快照
type cachedResourceList struct {
	List  []model.Resource `json:"list"`
	Total int64            `json:"total"`
}

type ResourceService struct {
	Repo    *repository.ResourceRepository
	Storage *StorageService
	Redis   *redis.Client
}

func NewResourceService(repo *repository.ResourceRepository, storage *StorageService, rdb *redis.Client) *ResourceService {
	return &ResourceService{
		Repo:    repo,
		Storage: storage,
		Redis:   rdb,
	}
}

type ResourceInput struct {
	Title       string
	Description string
	Type        model.ResourceType
	FileURL     string
	Duration    float64
}

func (s *ResourceService) Create(caller *model.User, input ResourceInput) (*model.Resource, error) {
	if !authz.CanPerform(caller.Role, authz.ResourceCreate, caller.ID, caller.ID) {
		return nil, util.ErrPermissionDenied
	}
	if !model.ValidResourceType(input.Type) {
		return nil, util.ErrInvalidResource
	}

	resource := &model.Resource{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		FileURL:     input.FileURL,
		Duration:    input.Duration,
		UploadedBy:  caller.ID,
		IsActive:    true,
	}
	if err := s.Repo.Create(resource); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return resource, nil
}

// List 无过滤的默认首页走Redis缓存，写操作通过 invalidateCache 失效
func (s *ResourceService) List(resourceType model.ResourceType, page, limit int) ([]model.Resource, int64, error) {
	cacheable := s.Redis != nil && resourceType == "" && page == 1 && limit == 20

	if cacheable {
		raw, err := s.Redis.Get(context.Background(), resourceListCacheKey).Bytes()
		if err == nil {
			var cached cachedResourceList
			if json.Unmarshal(raw, &cached) == nil {
				return cached.List, cached.Total, nil
			}
		}
	}

	list, total, err := s.Repo.FindActive(resourceType, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		raw, err := json.Marshal(cachedResourceList{List: list, Total: total})
		if err == nil {
			if err := s.Redis.Set(context.Background(), resourceListCacheKey, raw, resourceListCacheTTL).Err(); err != nil {
				logger.Log.Warn("resource cache write failed", zap.Error(err))
			}
		}
	}
	return list, total, nil
}

func (s *ResourceService) Get(id uint) (*model.Resource, error) {
	resource, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}
	return resource, nil
}

type ResourcePatch struct {
	Title       *string
	Description *string
	Type        *model.ResourceType
	FileURL     *string
	IsActive    *bool
}

// Update 辅导员只能改自己上传的资源，管理员不受限
func (s *ResourceService) Update(caller *model.User, id uint, patch ResourcePatch) (*model.Resource, error) {
	resource, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !authz.CanPerform(caller.Role, authz.ResourceManage, resource.UploadedBy, caller.ID) {
		return nil, util.ErrPermissionDenied
	}

	if patch.Title != nil {
		resource.Title = *patch.Title
	}
	if patch.Description != nil {
		resource.Description = *patch.Description
	}
	if patch.Type != nil {
		if !model.ValidResourceType(*patch.Type) {
			return nil, util.ErrInvalidResource
		}
		resource.Type = *patch.Type
	}
	if patch.FileURL != nil {
		resource.FileURL = *patch.FileURL
	}
	if patch.IsActive != nil {
		resource.IsActive = *patch.IsActive
	}

	if err := s.Repo.Update(resource); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return resource, nil
}

func (s *ResourceService) Delete(caller *model.User, id uint) error {
	resource, err := s.Get(id)
	if err != nil {
		return err
	}
	if !authz.CanPerform(caller.Role, authz.ResourceManage, resource.UploadedBy, caller.ID) {
		return util.ErrPermissionDenied
	}
	if err := s.Repo.Deactivate(id); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

// UploadFile 保存上传文件并探测音视频时长
func (s *ResourceService) UploadFile(ctx context.Context, caller *model.User, file *multipart.FileHeader) (string, float64, error) {
	if !authz.CanPerform(caller.Role, authz.ResourceCreate, caller.ID, caller.ID) {
		return "", 0, util.ErrPermissionDenied
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	filename := fmt.Sprintf("resources/%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	url, err := s.Storage.Provider.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", 0, err
	}

	var duration float64
	if util.IsMediaFile(file.Filename) {
		duration = s.probeDuration(file)
	}

	return url, duration, nil
}

// probeDuration 将上传内容落盘后用 ffprobe 读取时长，失败时时长记 0
func (s *ResourceService) probeDuration(file *multipart.FileHeader) float64 {
	src, err := file.Open()
	if err != nil {
		return 0
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "media-probe-*"+filepath.Ext(file.Filename))
	if err != nil {
		return 0
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return 0
	}

	info, err := util.ProbeMedia(tmp.Name())
	if err != nil {
		logger.Log.Warn("media probe failed", zap.String("file", file.Filename), zap.Error(err))
		return 0
	}
	return info.Duration
}

func (s *ResourceService) invalidateCache() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), resourceListCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("resource cache invalidation failed", zap.Error(err))
	}
}
