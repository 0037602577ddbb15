package service

import (
	"fmt"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

type NotificationService struct {
	Repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{Repo: repo}
}

// NotifySessionBooked 预约创建后给双方各发一条通知。
// 异步发送，失败只记录日志不向调用方传播。
func (s *NotificationService) NotifySessionBooked(session *model.CounsellingSession, student, counsellor *model.User) {
	related := fmt.Sprintf("session:%d", session.ID)
	when := session.ScheduledAt.Format("2006-01-02 15:04")

	go s.send(&model.Notification{
		UserID:  student.ID,
		Title:   "预约已提交",
		Body:    fmt.Sprintf("你与 %s %s 的辅导预约（%s）已提交，等待确认。", counsellor.FirstName, counsellor.LastName, when),
		Related: related,
	})
	go s.send(&model.Notification{
		UserID:  counsellor.ID,
		Title:   "新的预约请求",
		Body:    fmt.Sprintf("%s %s 预约了 %s 的辅导，请确认。", student.FirstName, student.LastName, when),
		Related: related,
	})
}

func (s *NotificationService) send(n *model.Notification) {
	if err := s.Repo.Create(n); err != nil {
		logger.Log.Error("notification send failed",
			zap.String("userId", n.UserID),
			zap.String("related", n.Related),
			zap.Error(err))
	}
}

func (s *NotificationService) ListForUser(userID string, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.FindByUser(userID, limit)
}

func (s *NotificationService) MarkRead(userID string, id uint) error {
	return s.Repo.MarkRead(id, userID)
}
