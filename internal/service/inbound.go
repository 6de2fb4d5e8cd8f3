package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"clockwise/backend/internal/messaging"
)

// RegisterInboundHandlers 注册所有入站消息处理器，须在网关 Start 之前调用
//
// 重投策略：
//   - 确认消息涉及数据库写入，处理失败返回错误触发重投
//   - 冲突检查响应与用户目录响应只配对内存登记项，配对失败（未知 ID、
//     等待方已超时）重投也无意义，反序列化失败同理，一律确认后丢弃
func RegisterInboundHandlers(gateway messaging.Gateway, svc *Service, logger *zap.Logger) {
	gateway.Subscribe(messaging.TopicShiftExchangeConfirmation, func(ctx context.Context, msg *messaging.Message) error {
		var conf messaging.ShiftExchangeConfirmation
		if err := json.Unmarshal(msg.Payload, &conf); err != nil {
			logger.Warn("确认消息反序列化失败，已丢弃",
				zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}
		return svc.Marketplace.HandleConfirmation(ctx, &conf)
	})

	gateway.Subscribe(messaging.TopicScheduleConflictCheckResponse, func(ctx context.Context, msg *messaging.Message) error {
		var resp messaging.ScheduleConflictCheckResponse
		if err := json.Unmarshal(msg.Payload, &resp); err != nil {
			logger.Warn("接班冲突检查响应反序列化失败，已丢弃",
				zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}
		svc.Conflicts.ResolveScheduleConflictCheck(resp.CorrelationID, resp.HasConflict)
		return nil
	})

	gateway.Subscribe(messaging.TopicSwapConflictCheckResponse, func(ctx context.Context, msg *messaging.Message) error {
		var resp messaging.SwapConflictCheckResponse
		if err := json.Unmarshal(msg.Payload, &resp); err != nil {
			logger.Warn("换班冲突检查响应反序列化失败，已丢弃",
				zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}
		svc.Conflicts.ResolveSwapConflictCheck(resp.CorrelationID, resp.IsSwapPossible)
		return nil
	})

	gateway.Subscribe(messaging.TopicBusinessUnitUsersResponse, func(ctx context.Context, msg *messaging.Message) error {
		var resp messaging.BusinessUnitUsersResponse
		if err := json.Unmarshal(msg.Payload, &resp); err != nil {
			logger.Warn("用户目录响应反序列化失败，已丢弃",
				zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}
		svc.Notifier.HandleUsersResponse(ctx, &resp)
		return nil
	})
}
