package service

import (
	"go.uber.org/zap"

	"clockwise/backend/config"
	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/repository"
	"clockwise/backend/pkg/push"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Marketplace  MarketplaceService
	Post         PostService
	Notification NotificationService
	Export       ExportService

	Conflicts *ConflictCoordinator
	Notifier  *NotificationCoordinator
}

// NewService 创建 Service 聚合（协调器由调用方 Start/Close）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	gateway messaging.Gateway,
	sender push.Sender,
	logger *zap.Logger,
) *Service {
	conflicts := NewConflictCoordinator(gateway, cfg.Messaging.ConflictCheckTimeout, logger)
	notifier := NewNotificationCoordinator(gateway, repo, sender, cfg.Messaging.PendingNotifyTTL, logger)

	return &Service{
		Marketplace:  NewMarketplaceService(repo, gateway, conflicts, notifier, logger),
		Post:         NewPostService(repo, notifier, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
		Conflicts:    conflicts,
		Notifier:     notifier,
	}
}
