package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/model"
	"clockwise/backend/internal/repository"
	"clockwise/backend/pkg/push"
)

// 待发通知类别：决定用户目录响应到达后的收件人过滤规则
const (
	notifyKindNewPost          = "new-post"
	notifyKindNewExchangeShift = "new-exchange-shift"
	notifyKindRequestToPoster  = "shift-request-to-poster"
	notifyKindManagerApproval  = "manager-approval"
	notifyKindDualApproval     = "dual-approval"
)

// pendingNotification 待发通知登记项
// 发出"按业务单元拉取用户"请求时创建，目录响应到达或过期时销毁
type pendingNotification struct {
	kind        string
	notifType   string
	title       string
	body        string
	data        map[string]string
	posterID    string
	requesterID string
	audience    model.TargetAudience
	relatedType string
	relatedID   string
	createdAt   time.Time
}

// NotificationCoordinator 通知分发协调器
//
// 推送需要业务单元的用户名单（推送令牌、角色），名单在用户目录服务，
// 只能异步获取：先登记待发内容，发出拉取请求，目录响应到达后按
// 类别过滤收件人并逐个推送。单个收件人失败只记日志，不中断批次。
// 登记项超过 TTL 未等到响应时由清理协程删除，避免泄漏。
type NotificationCoordinator struct {
	gateway messaging.Gateway
	repo    *repository.Repository
	sender  push.Sender
	logger  *zap.Logger
	ttl     time.Duration

	mu      sync.Mutex
	pending map[string]*pendingNotification

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewNotificationCoordinator 创建通知分发协调器
func NewNotificationCoordinator(gateway messaging.Gateway, repo *repository.Repository, sender push.Sender, ttl time.Duration, logger *zap.Logger) *NotificationCoordinator {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &NotificationCoordinator{
		gateway: gateway,
		repo:    repo,
		sender:  sender,
		logger:  logger,
		ttl:     ttl,
		pending: make(map[string]*pendingNotification),
		stop:    make(chan struct{}),
	}
}

// Start 启动过期登记项清理协程
func (c *NotificationCoordinator) Start() {
	c.wg.Add(1)
	go c.janitor()
}

// Close 停止清理协程
func (c *NotificationCoordinator) Close() {
	close(c.stop)
	c.wg.Wait()
}

// ── 触发入口（均为尽力而为，失败只记日志）──

// NotifyNewPost 新公告通知（按公告受众过滤）
func (c *NotificationCoordinator) NotifyNewPost(ctx context.Context, post *model.MarketplacePost) {
	c.dispatch(ctx, post.BusinessUnitID, &pendingNotification{
		kind:        notifyKindNewPost,
		notifType:   model.NotificationTypeNewPost,
		title:       post.Title,
		body:        post.Content,
		audience:    post.TargetAudience,
		relatedType: "post",
		relatedID:   post.PostID,
	})
}

// NotifyNewExchangeShift 新挂牌班次通知（发布者除外的全员）
func (c *NotificationCoordinator) NotifyNewExchangeShift(ctx context.Context, shift *model.ExchangeShift) {
	c.dispatch(ctx, shift.BusinessUnitID, &pendingNotification{
		kind:      notifyKindNewExchangeShift,
		notifType: model.NotificationTypeNewExchangeShift,
		title:     "新的换班机会",
		body: fmt.Sprintf("%s 挂出了 %s 的班次（%s - %s）",
			shift.PosterName, shift.Position,
			shift.StartTime.Format("01-02 15:04"), shift.EndTime.Format("15:04")),
		posterID:    shift.PosterUserID,
		relatedType: "exchange_shift",
		relatedID:   shift.ExchangeShiftID,
	})
}

// NotifyRequestToPoster 新申请通知（仅发布者）
func (c *NotificationCoordinator) NotifyRequestToPoster(ctx context.Context, shift *model.ExchangeShift, req *model.ShiftRequest) {
	c.dispatch(ctx, shift.BusinessUnitID, &pendingNotification{
		kind:        notifyKindRequestToPoster,
		notifType:   model.NotificationTypeShiftRequest,
		title:       "你的挂牌班次收到新申请",
		body:        fmt.Sprintf("%s 申请了你挂出的班次", req.RequesterName),
		posterID:    shift.PosterUserID,
		relatedType: "shift_request",
		relatedID:   req.ShiftRequestID,
	})
}

// NotifyManagerApproval 待审批通知（经理与管理员）
func (c *NotificationCoordinator) NotifyManagerApproval(ctx context.Context, shift *model.ExchangeShift, req *model.ShiftRequest) {
	c.dispatch(ctx, shift.BusinessUnitID, &pendingNotification{
		kind:        notifyKindManagerApproval,
		notifType:   model.NotificationTypeManagerApproval,
		title:       "换班申请待审批",
		body:        fmt.Sprintf("%s 与 %s 的换班申请等待审批", shift.PosterName, req.RequesterName),
		relatedType: "exchange_shift",
		relatedID:   shift.ExchangeShiftID,
	})
}

// NotifyApprovalResult 审批结果通知（仅发布者与申请者）
func (c *NotificationCoordinator) NotifyApprovalResult(ctx context.Context, shift *model.ExchangeShift, req *model.ShiftRequest, approved bool) {
	body := "你们的换班申请已被驳回，班次重新挂牌"
	if approved {
		body = "你们的换班申请已通过审批"
	}
	c.dispatch(ctx, shift.BusinessUnitID, &pendingNotification{
		kind:        notifyKindDualApproval,
		notifType:   model.NotificationTypeApprovalResult,
		title:       "换班审批结果",
		body:        body,
		posterID:    shift.PosterUserID,
		requesterID: req.RequesterUserID,
		relatedType: "exchange_shift",
		relatedID:   shift.ExchangeShiftID,
	})
}

// HandleUsersResponse 入站用户目录响应：配对登记项并分发通知
func (c *NotificationCoordinator) HandleUsersResponse(ctx context.Context, resp *messaging.BusinessUnitUsersResponse) {
	c.mu.Lock()
	entry, ok := c.pending[resp.CorrelationID]
	if ok {
		delete(c.pending, resp.CorrelationID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Warn("收到未知关联 ID 的用户目录响应，已丢弃",
			zap.String("correlation_id", resp.CorrelationID))
		return
	}

	recipients := filterRecipients(entry, resp.Users)
	if len(recipients) == 0 {
		c.logger.Debug("通知无匹配收件人", zap.String("kind", entry.kind))
		return
	}

	for _, user := range recipients {
		// 单个收件人失败不影响其他收件人
		if user.PushToken != "" {
			if err := c.sender.Send(ctx, user.PushToken, entry.title, entry.body, entry.data); err != nil {
				c.logger.Warn("推送发送失败",
					zap.String("user_id", user.ID),
					zap.String("kind", entry.kind),
					zap.Error(err),
				)
			}
		}

		notification := &model.Notification{
			UserID:  user.ID,
			Type:    entry.notifType,
			Title:   entry.title,
			Content: entry.body,
		}
		if entry.relatedType != "" {
			rt, rid := entry.relatedType, entry.relatedID
			notification.RelatedType = &rt
			notification.RelatedID = &rid
		}
		if err := c.repo.Notification.Create(ctx, notification); err != nil {
			c.logger.Warn("写入站内通知失败",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}
}

// ── 内部 ──

// dispatch 登记待发通知并向用户目录发出拉取请求
func (c *NotificationCoordinator) dispatch(ctx context.Context, businessUnitID string, entry *pendingNotification) {
	corrID := uuid.New().String()
	entry.createdAt = time.Now()

	c.mu.Lock()
	c.pending[corrID] = entry
	c.mu.Unlock()

	req := messaging.BusinessUnitUsersRequest{
		CorrelationID:  corrID,
		BusinessUnitID: businessUnitID,
	}
	if err := c.gateway.Send(ctx, messaging.TopicBusinessUnitUsersRequest, businessUnitID, req); err != nil {
		c.mu.Lock()
		delete(c.pending, corrID)
		c.mu.Unlock()
		c.logger.Warn("发送用户目录请求失败，通知取消",
			zap.String("kind", entry.kind), zap.Error(err))
	}
}

// janitor 周期清理超过 TTL 未收到目录响应的登记项
func (c *NotificationCoordinator) janitor() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *NotificationCoordinator) sweep() {
	cutoff := time.Now().Add(-c.ttl)

	c.mu.Lock()
	for corrID, entry := range c.pending {
		if entry.createdAt.Before(cutoff) {
			delete(c.pending, corrID)
			c.logger.Warn("待发通知等待用户目录响应超时，已丢弃",
				zap.String("correlation_id", corrID),
				zap.String("kind", entry.kind),
			)
		}
	}
	c.mu.Unlock()
}

// filterRecipients 按通知类别过滤收件人
func filterRecipients(entry *pendingNotification, users []messaging.DirectoryUser) []messaging.DirectoryUser {
	var out []messaging.DirectoryUser
	for _, u := range users {
		switch entry.kind {
		case notifyKindNewPost:
			if entry.audience == model.AudienceManagersOnly && !isManagerRole(u.Role) {
				continue
			}
		case notifyKindNewExchangeShift:
			if u.ID == entry.posterID {
				continue
			}
		case notifyKindRequestToPoster:
			if u.ID != entry.posterID {
				continue
			}
		case notifyKindManagerApproval:
			if !isManagerRole(u.Role) {
				continue
			}
		case notifyKindDualApproval:
			if u.ID != entry.posterID && u.ID != entry.requesterID {
				continue
			}
		default:
			continue
		}
		out = append(out, u)
	}
	return out
}

func isManagerRole(role string) bool {
	return role == "manager" || role == "admin"
}
