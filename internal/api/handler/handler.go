package handler

import "clockwise/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Marketplace  *MarketplaceHandler
	Post         *PostHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Marketplace:  NewMarketplaceHandler(svc.Marketplace),
		Post:         NewPostHandler(svc.Post),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
