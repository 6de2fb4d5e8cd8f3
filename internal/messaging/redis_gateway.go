package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clockwise/backend/config"
)

const (
	readBlock    = 5 * time.Second  // XREADGROUP 阻塞时长
	readCount    = 16               // 单次最多拉取条数
	claimMinIdle = 60 * time.Second // 未确认消息重投的最小闲置时间
	claimEvery   = 30 * time.Second // 重投扫描周期
)

// RedisGateway 基于 Redis Streams 的消息网关实现
// 出站 XADD；入站消费者组 XREADGROUP，处理器成功返回后才 XACK，
// 失败消息留在 pending 列表，由 XAUTOCLAIM 周期性重投
type RedisGateway struct {
	rdb      *goredis.Client
	group    string
	consumer string
	logger   *zap.Logger

	mu       sync.Mutex
	handlers map[string]Handler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRedisGateway 创建消息网关
func NewRedisGateway(rdb *goredis.Client, cfg *config.MessagingConfig, logger *zap.Logger) *RedisGateway {
	consumer := cfg.Consumer
	if consumer == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "collaboration-service"
		}
		consumer = host
	}

	return &RedisGateway{
		rdb:      rdb,
		group:    cfg.Group,
		consumer: consumer,
		logger:   logger,
		handlers: make(map[string]Handler),
	}
}

// Send 发送出站消息
func (g *RedisGateway) Send(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	err = g.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			"payload": data,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("写入消息流 %s 失败: %w", topic, err)
	}

	return nil
}

// Subscribe 注册主题处理器（须在 Start 之前调用）
func (g *RedisGateway) Subscribe(topic string, h Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[topic] = h
}

// Start 为每个已订阅主题创建消费者组并启动消费循环
func (g *RedisGateway) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	g.mu.Lock()
	topics := make([]string, 0, len(g.handlers))
	for topic := range g.handlers {
		topics = append(topics, topic)
	}
	g.mu.Unlock()

	for _, topic := range topics {
		err := g.rdb.XGroupCreateMkStream(ctx, topic, g.group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			cancel()
			return fmt.Errorf("创建消费者组失败 (topic=%s): %w", topic, err)
		}

		g.wg.Add(1)
		go g.consumeLoop(runCtx, topic)
	}

	g.logger.Info("消息网关已启动",
		zap.Strings("topics", topics),
		zap.String("group", g.group),
		zap.String("consumer", g.consumer),
	)

	return nil
}

// Close 停止消费并等待在途处理完成
func (g *RedisGateway) Close() error {
	if g.cancel != nil {
		g.cancel()
	}
	g.wg.Wait()
	return nil
}

func (g *RedisGateway) consumeLoop(ctx context.Context, topic string) {
	defer g.wg.Done()

	lastClaim := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// 周期性回收本组超时未确认的消息
		if time.Since(lastClaim) >= claimEvery {
			g.claimStale(ctx, topic)
			lastClaim = time.Now()
		}

		streams, err := g.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
			Group:    g.group,
			Consumer: g.consumer,
			Streams:  []string{topic, ">"},
			Count:    readCount,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if err == goredis.Nil || ctx.Err() != nil {
				continue
			}
			g.logger.Error("读取消息流失败", zap.String("topic", topic), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, entry := range stream.Messages {
				g.dispatch(ctx, topic, entry)
			}
		}
	}
}

func (g *RedisGateway) dispatch(ctx context.Context, topic string, entry goredis.XMessage) {
	msg := &Message{
		ID:    entry.ID,
		Topic: topic,
	}
	if v, ok := entry.Values["key"].(string); ok {
		msg.Key = v
	}
	if v, ok := entry.Values["payload"].(string); ok {
		msg.Payload = []byte(v)
	}

	g.mu.Lock()
	h := g.handlers[topic]
	g.mu.Unlock()
	if h == nil {
		return
	}

	if err := h(ctx, msg); err != nil {
		// 不确认，留待 XAUTOCLAIM 重投
		g.logger.Error("消息处理失败，等待重投",
			zap.String("topic", topic),
			zap.String("id", entry.ID),
			zap.Error(err),
		)
		return
	}

	if err := g.rdb.XAck(ctx, topic, g.group, entry.ID).Err(); err != nil {
		g.logger.Error("消息确认失败", zap.String("topic", topic), zap.String("id", entry.ID), zap.Error(err))
	}
}

func (g *RedisGateway) claimStale(ctx context.Context, topic string) {
	entries, _, err := g.rdb.XAutoClaim(ctx, &goredis.XAutoClaimArgs{
		Stream:   topic,
		Group:    g.group,
		Consumer: g.consumer,
		MinIdle:  claimMinIdle,
		Start:    "0-0",
		Count:    readCount,
	}).Result()
	if err != nil {
		if err != goredis.Nil && ctx.Err() == nil {
			g.logger.Warn("回收未确认消息失败", zap.String("topic", topic), zap.Error(err))
		}
		return
	}

	for _, entry := range entries {
		g.dispatch(ctx, topic, entry)
	}
}
