package messaging

import "context"

// Message 网关投递给处理器的入站消息
type Message struct {
	ID      string // 流内条目 ID
	Topic   string
	Key     string
	Payload []byte
}

// Handler 入站消息处理器
// 返回非 nil 错误时消息不确认，稍后重投
type Handler func(ctx context.Context, msg *Message) error

// Gateway 异步消息网关
// 工作流引擎与协调器只依赖此接口，不感知具体传输实现
type Gateway interface {
	// Send 发送出站消息，payload 序列化为 JSON
	Send(ctx context.Context, topic, key string, payload interface{}) error
	// Subscribe 注册主题处理器，须在 Start 之前调用
	Subscribe(topic string, h Handler)
	// Start 启动入站消费循环
	Start(ctx context.Context) error
	// Close 停止消费并等待在途处理完成
	Close() error
}
