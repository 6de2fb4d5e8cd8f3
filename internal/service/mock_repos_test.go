package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/model"
)

// ── Mock ExchangeShiftRepository ──
//
// 互斥锁保护，条件更新语义与真实实现一致，供并发竞争测试使用

type mockExchangeShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*model.ExchangeShift
	seq    int
}

func newMockExchangeShiftRepo() *mockExchangeShiftRepo {
	return &mockExchangeShiftRepo{shifts: make(map[string]*model.ExchangeShift)}
}

func (m *mockExchangeShiftRepo) Create(_ context.Context, shift *model.ExchangeShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.ExchangeShiftID == "" {
		m.seq++
		shift.ExchangeShiftID = fmt.Sprintf("es-%d", m.seq)
	}
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now
	m.shifts[shift.ExchangeShiftID] = shift
	return nil
}

func (m *mockExchangeShiftRepo) GetByID(_ context.Context, id string) (*model.ExchangeShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeShiftRepo) GetByIDInBusinessUnit(_ context.Context, id, businessUnitID string) (*model.ExchangeShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok && s.BusinessUnitID == businessUnitID {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeShiftRepo) GetByShiftAndPoster(_ context.Context, shiftID, posterID string) (*model.ExchangeShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shifts {
		if s.ShiftID == shiftID && s.PosterUserID == posterID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExchangeShiftRepo) ListOpen(_ context.Context, businessUnitID string, offset, limit int) ([]model.ExchangeShift, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.ExchangeShift
	for _, s := range m.shifts {
		if s.BusinessUnitID == businessUnitID && s.Status == model.ExchangeShiftOpen {
			all = append(all, *s)
		}
	}
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

func (m *mockExchangeShiftRepo) ListByPoster(_ context.Context, posterID string) ([]model.ExchangeShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ExchangeShift
	for _, s := range m.shifts {
		if s.PosterUserID == posterID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockExchangeShiftRepo) ListAwaitingApproval(_ context.Context, businessUnitID string, offset, limit int) ([]model.ExchangeShift, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.ExchangeShift
	for _, s := range m.shifts {
		if s.BusinessUnitID == businessUnitID && s.Status == model.ExchangeShiftAwaitingApproval {
			all = append(all, *s)
		}
	}
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

func (m *mockExchangeShiftRepo) ListSettled(_ context.Context, businessUnitID string) ([]model.ExchangeShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ExchangeShift
	for _, s := range m.shifts {
		if s.BusinessUnitID == businessUnitID && s.Status.IsSettled() {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockExchangeShiftRepo) MarkAwaitingApproval(_ context.Context, id, requestID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[id]
	if !ok || !s.Status.CanAcceptRequests() {
		return false, nil
	}
	s.Status = model.ExchangeShiftAwaitingApproval
	rid := requestID
	s.AcceptedRequestID = &rid
	s.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockExchangeShiftRepo) Reopen(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		s.Status = model.ExchangeShiftOpen
		s.AcceptedRequestID = nil
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockExchangeShiftRepo) UpdateStatus(_ context.Context, id string, status model.ExchangeShiftStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		s.Status = status
		s.UpdatedAt = time.Now()
	}
	return nil
}

// ── Mock ShiftRequestRepository ──

type mockShiftRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*model.ShiftRequest
	seq      int
}

func newMockShiftRequestRepo() *mockShiftRequestRepo {
	return &mockShiftRequestRepo{requests: make(map[string]*model.ShiftRequest)}
}

func (m *mockShiftRequestRepo) Create(_ context.Context, req *model.ShiftRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ShiftRequestID == "" {
		m.seq++
		req.ShiftRequestID = fmt.Sprintf("sr-%d", m.seq)
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	m.requests[req.ShiftRequestID] = req
	return nil
}

func (m *mockShiftRequestRepo) GetByID(_ context.Context, id string) (*model.ShiftRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRequestRepo) GetByShiftAndRequester(_ context.Context, exchangeShiftID, requesterID string) (*model.ShiftRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.ExchangeShiftID == exchangeShiftID && r.RequesterUserID == requesterID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRequestRepo) ListByShift(_ context.Context, exchangeShiftID string) ([]model.ShiftRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if r.ExchangeShiftID == exchangeShiftID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockShiftRequestRepo) ListByRequester(_ context.Context, requesterID string) ([]model.ShiftRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ShiftRequest
	for _, r := range m.requests {
		if r.RequesterUserID == requesterID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockShiftRequestRepo) ListForPoster(_ context.Context, _ string) ([]model.ShiftRequest, error) {
	return nil, nil
}

func (m *mockShiftRequestRepo) UpdateStatus(_ context.Context, id string, status model.ShiftRequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		r.Status = status
		r.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockShiftRequestRepo) SetExecutionPossible(_ context.Context, id string, possible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		p := possible
		r.ExecutionPossible = &p
	}
	return nil
}

func (m *mockShiftRequestRepo) DeclineOtherPending(_ context.Context, exchangeShiftID, winnerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.ExchangeShiftID == exchangeShiftID && r.ShiftRequestID != winnerID && r.Status == model.RequestPending {
			r.Status = model.RequestDeclinedByPoster
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	n.NotificationID = fmt.Sprintf("ntf-%d", m.seq)
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.NotificationID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// forUser 收件过滤辅助（测试断言用）
func (m *mockNotificationRepo) forUser(userID string) []*model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ── Mock PostRepository ──

type mockPostRepo struct {
	mu    sync.Mutex
	posts map[string]*model.MarketplacePost
	seq   int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.MarketplacePost)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.MarketplacePost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	post.PostID = fmt.Sprintf("post-%d", m.seq)
	post.CreatedAt = time.Now()
	m.posts[post.PostID] = post
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.MarketplacePost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) ListByBusinessUnit(_ context.Context, businessUnitID string, offset, limit int) ([]model.MarketplacePost, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.MarketplacePost
	for _, p := range m.posts {
		if p.BusinessUnitID == businessUnitID {
			all = append(all, *p)
		}
	}
	return pageSlice(all, offset, limit), int64(len(all)), nil
}

// ── Mock Gateway ──

type sentMessage struct {
	topic   string
	key     string
	payload interface{}
}

type mockGateway struct {
	mu       sync.Mutex
	sent     []sentMessage
	sendErr  error
	onSend   func(topic, key string, payload interface{})
	handlers map[string]messaging.Handler
}

func newMockGateway() *mockGateway {
	return &mockGateway{handlers: make(map[string]messaging.Handler)}
}

func (g *mockGateway) Send(_ context.Context, topic, key string, payload interface{}) error {
	g.mu.Lock()
	if g.sendErr != nil {
		err := g.sendErr
		g.mu.Unlock()
		return err
	}
	g.sent = append(g.sent, sentMessage{topic: topic, key: key, payload: payload})
	cb := g.onSend
	g.mu.Unlock()

	if cb != nil {
		cb(topic, key, payload)
	}
	return nil
}

func (g *mockGateway) Subscribe(topic string, h messaging.Handler) {
	g.handlers[topic] = h
}

func (g *mockGateway) Start(_ context.Context) error { return nil }
func (g *mockGateway) Close() error                  { return nil }

func (g *mockGateway) sentOn(topic string) []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var result []sentMessage
	for _, msg := range g.sent {
		if msg.topic == topic {
			result = append(result, msg)
		}
	}
	return result
}

// ── Mock PushSender ──

type sentPush struct {
	token string
	title string
	body  string
}

type mockPushSender struct {
	mu         sync.Mutex
	sent       []sentPush
	failTokens map[string]bool
}

func newMockPushSender() *mockPushSender {
	return &mockPushSender{failTokens: make(map[string]bool)}
}

func (m *mockPushSender) Send(_ context.Context, token, title, body string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTokens[token] {
		return fmt.Errorf("push failed for %s", token)
	}
	m.sent = append(m.sent, sentPush{token: token, title: title, body: body})
	return nil
}

func (m *mockPushSender) tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []string
	for _, p := range m.sent {
		result = append(result, p.token)
	}
	return result
}

// ── 通用辅助 ──

func pageSlice[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
