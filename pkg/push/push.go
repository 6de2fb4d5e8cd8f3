package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"clockwise/backend/config"
)

// Sender 推送发送器接口
// 推送为尽力而为：失败由调用方记录日志，不影响业务流程
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// ── HTTP 中继实现 ──

// httpSender 通过 HTTP 中继服务转发推送（中继侧对接具体推送通道）
type httpSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewSender 根据配置创建推送发送器
// endpoint 为空时返回日志降级实现，便于本地开发
func NewSender(cfg *config.PushConfig, logger *zap.Logger) Sender {
	if cfg.Endpoint == "" {
		logger.Warn("未配置推送中继地址，推送降级为日志输出")
		return &logSender{logger: logger}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &httpSender{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type pushMessage struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (s *httpSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(pushMessage{Token: token, Title: title, Body: body, Data: data})
	if err != nil {
		return fmt.Errorf("序列化推送消息失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("构建推送请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("推送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("推送中继返回异常状态: %d", resp.StatusCode)
	}

	return nil
}

// ── 日志降级实现 ──

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, token, title, body string, _ map[string]string) error {
	s.logger.Info("推送（日志模式）",
		zap.String("token", token),
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}
