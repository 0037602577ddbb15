package repository

import (
	"youth_hub_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.CounsellingSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.CounsellingSession, error) {
	var session model.CounsellingSession
	err := r.DB.Preload("Student").Preload("Counsellor").First(&session, id).Error
	return &session, err
}

func (r *SessionRepository) FindByStudent(studentID string) ([]model.CounsellingSession, error) {
	var sessions []model.CounsellingSession
	err := r.DB.Preload("Counsellor").
		Where("student_id = ?", studentID).
		Order("scheduled_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) FindByCounsellor(counsellorID string) ([]model.CounsellingSession, error) {
	var sessions []model.CounsellingSession
	err := r.DB.Preload("Student").
		Where("counsellor_id = ?", counsellorID).
		Order("scheduled_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// FindPending 辅导员只看到指派给自己的待确认预约；counsellorID 为空时返回全部
func (r *SessionRepository) FindPending(counsellorID string) ([]model.CounsellingSession, error) {
	var sessions []model.CounsellingSession
	db := r.DB.Preload("Student").Preload("Counsellor").
		Where("status = ?", model.SessionPending)
	if counsellorID != "" {
		db = db.Where("counsellor_id = ?", counsellorID)
	}
	err := db.Order("scheduled_at ASC").Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) FindAll(page, limit int) ([]model.CounsellingSession, int64, error) {
	var sessions []model.CounsellingSession
	var total int64

	db := r.DB.Model(&model.CounsellingSession{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Student").Preload("Counsellor").
		Order("scheduled_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&sessions).Error
	return sessions, total, err
}

// UpdateTx 预约的读-改-写在事务里执行，保证状态迁移原子生效
func (r *SessionRepository) UpdateTx(id uint, apply func(*model.CounsellingSession) error) (*model.CounsellingSession, error) {
	var session model.CounsellingSession
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, id).Error; err != nil {
			return err
		}
		if err := apply(&session); err != nil {
			return err
		}
		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}
