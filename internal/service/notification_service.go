package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"clockwise/backend/internal/dto"
	"clockwise/backend/internal/model"
	"clockwise/backend/internal/repository"
)

// ── 站内通知业务错误 ──

var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 站内通知接口（仅本人可见、可标记已读）
type NotificationService interface {
	ListMyNotifications(ctx context.Context, userID string, page *dto.PageQuery) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, page *dto.PageQuery) ([]dto.NotificationResponse, int64, error) {
	page.Normalize()
	list, total, err := s.repo.Notification.ListByUser(ctx, userID, page.Offset(), page.PageSize)
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, *toNotificationResponse(&list[i]))
	}
	return out, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	ok, err := s.repo.Notification.MarkRead(ctx, notificationID, userID)
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.String("id", notificationID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func toNotificationResponse(n *model.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:          n.NotificationID,
		Type:        n.Type,
		Title:       n.Title,
		Content:     n.Content,
		IsRead:      n.IsRead,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}
