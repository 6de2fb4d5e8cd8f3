package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clockwise/backend/internal/messaging"
)

// ConflictCoordinator 冲突检查协调器
//
// 向排班系统发出异步冲突检查请求，并用关联 ID 把稍后到达的响应
// 配对回等待中的调用。等待由超时兜底；超时或发送失败一律按
// 保守默认处理（视为不可执行），绝不把错误抛给提交申请的调用方。
//
// pending 表由请求路径与消息处理路径并发访问，互斥锁保护；
// 响应与超时谁先到谁负责删除登记项，另一方成为空操作。
type ConflictCoordinator struct {
	gateway messaging.Gateway
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]chan bool
}

// NewConflictCoordinator 创建冲突检查协调器
func NewConflictCoordinator(gateway messaging.Gateway, timeout time.Duration, logger *zap.Logger) *ConflictCoordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ConflictCoordinator{
		gateway: gateway,
		logger:  logger,
		timeout: timeout,
		pending: make(map[string]chan bool),
	}
}

// CheckTakeShift 接班冲突检查：返回该用户在时间段内接班是否可执行
// 超时/发送失败按"有冲突"处理，返回 false
func (c *ConflictCoordinator) CheckTakeShift(ctx context.Context, userID string, start, end time.Time) bool {
	corrID := uuid.New().String()
	ch := c.register(corrID)

	req := messaging.ScheduleConflictCheckRequest{
		CorrelationID: corrID,
		UserID:        userID,
		StartTime:     start,
		EndTime:       end,
	}
	if err := c.gateway.Send(ctx, messaging.TopicScheduleConflictCheckRequest, userID, req); err != nil {
		c.unregister(corrID)
		c.logger.Warn("发送接班冲突检查请求失败，按有冲突处理",
			zap.String("correlation_id", corrID), zap.Error(err))
		return false
	}

	hasConflict, ok := c.await(ctx, corrID, ch)
	if !ok {
		c.logger.Warn("接班冲突检查超时，按有冲突处理",
			zap.String("correlation_id", corrID), zap.String("user_id", userID))
		return false
	}
	return !hasConflict
}

// CheckSwapShift 换班冲突检查：返回双方互换是否可行
// 超时/发送失败按"不可行"处理
func (c *ConflictCoordinator) CheckSwapShift(ctx context.Context, posterID, requesterID, originalShiftID, swapShiftID string) bool {
	corrID := uuid.New().String()
	ch := c.register(corrID)

	req := messaging.SwapConflictCheckRequest{
		CorrelationID:   corrID,
		PosterUserID:    posterID,
		RequesterUserID: requesterID,
		OriginalShiftID: originalShiftID,
		SwapShiftID:     swapShiftID,
	}
	if err := c.gateway.Send(ctx, messaging.TopicSwapConflictCheckRequest, requesterID, req); err != nil {
		c.unregister(corrID)
		c.logger.Warn("发送换班冲突检查请求失败，按不可行处理",
			zap.String("correlation_id", corrID), zap.Error(err))
		return false
	}

	possible, ok := c.await(ctx, corrID, ch)
	if !ok {
		c.logger.Warn("换班冲突检查超时，按不可行处理",
			zap.String("correlation_id", corrID), zap.String("requester_id", requesterID))
		return false
	}
	return possible
}

// ResolveScheduleConflictCheck 入站接班检查响应
func (c *ConflictCoordinator) ResolveScheduleConflictCheck(correlationID string, hasConflict bool) {
	c.resolve(correlationID, hasConflict)
}

// ResolveSwapConflictCheck 入站换班检查响应
func (c *ConflictCoordinator) ResolveSwapConflictCheck(correlationID string, isSwapPossible bool) {
	c.resolve(correlationID, isSwapPossible)
}

// ── 内部 ──

func (c *ConflictCoordinator) register(corrID string) chan bool {
	ch := make(chan bool, 1)
	c.mu.Lock()
	c.pending[corrID] = ch
	c.mu.Unlock()
	return ch
}

// unregister 删除登记项；已被响应方删除时为空操作
func (c *ConflictCoordinator) unregister(corrID string) {
	c.mu.Lock()
	delete(c.pending, corrID)
	c.mu.Unlock()
}

// await 等待响应；第二个返回值为 false 表示超时/取消
func (c *ConflictCoordinator) await(ctx context.Context, corrID string, ch chan bool) (bool, bool) {
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v, true
	case <-timer.C:
		c.unregister(corrID)
		return false, false
	case <-ctx.Done():
		c.unregister(corrID)
		return false, false
	}
}

// resolve 配对响应；未知关联 ID 记录日志后丢弃
func (c *ConflictCoordinator) resolve(corrID string, value bool) {
	c.mu.Lock()
	ch, ok := c.pending[corrID]
	if ok {
		delete(c.pending, corrID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Warn("收到未知关联 ID 的冲突检查响应，已丢弃",
			zap.String("correlation_id", corrID))
		return
	}

	ch <- value // 缓冲为 1，不会阻塞
}
