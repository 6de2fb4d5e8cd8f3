package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/model"
	"clockwise/backend/internal/repository"
)

func setupNotifier(t *testing.T, ttl time.Duration) (*NotificationCoordinator, *mockGateway, *mockPushSender, *mockNotificationRepo) {
	t.Helper()

	gateway := newMockGateway()
	sender := newMockPushSender()
	notifs := newMockNotificationRepo()
	repo := &repository.Repository{
		ExchangeShift: newMockExchangeShiftRepo(),
		ShiftRequest:  newMockShiftRequestRepo(),
		Notification:  notifs,
		Post:          newMockPostRepo(),
	}
	coord := NewNotificationCoordinator(gateway, repo, sender, ttl, zap.NewNop())
	return coord, gateway, sender, notifs
}

// respondUsers 提取最近一次用户目录请求的关联 ID 并回送名单
func respondUsers(t *testing.T, coord *NotificationCoordinator, gateway *mockGateway, users []messaging.DirectoryUser) {
	t.Helper()

	sent := gateway.sentOn(messaging.TopicBusinessUnitUsersRequest)
	if len(sent) == 0 {
		t.Fatal("未发出用户目录拉取请求")
	}
	req := sent[len(sent)-1].payload.(messaging.BusinessUnitUsersRequest)
	coord.HandleUsersResponse(context.Background(), &messaging.BusinessUnitUsersResponse{
		CorrelationID: req.CorrelationID,
		Users:         users,
	})
}

func directoryUsers() []messaging.DirectoryUser {
	return []messaging.DirectoryUser{
		{ID: "poster-1", PushToken: "tok-poster", Role: "employee"},
		{ID: "user-2", PushToken: "tok-2", Role: "employee"},
		{ID: "user-3", PushToken: "tok-3", Role: "employee"},
		{ID: "mgr-1", PushToken: "tok-mgr", Role: "manager"},
		{ID: "adm-1", PushToken: "tok-adm", Role: "admin"},
	}
}

func TestNotifyNewExchangeShiftExcludesPoster(t *testing.T) {
	coord, gateway, sender, notifs := setupNotifier(t, time.Second)

	coord.NotifyNewExchangeShift(context.Background(), &model.ExchangeShift{
		ExchangeShiftID: "es-1",
		PosterUserID:    "poster-1",
		PosterName:      "张三",
		BusinessUnitID:  "bu-1",
		StartTime:       time.Now(),
		EndTime:         time.Now().Add(8 * time.Hour),
	})
	respondUsers(t, coord, gateway, directoryUsers())

	tokens := sender.tokens()
	if len(tokens) != 4 {
		t.Fatalf("期望推送给除发布者外的 4 人, 实际 %d", len(tokens))
	}
	for _, tok := range tokens {
		if tok == "tok-poster" {
			t.Error("发布者不应收到自己挂牌的通知")
		}
	}
	if len(notifs.forUser("poster-1")) != 0 {
		t.Error("发布者不应有站内记录")
	}
	if len(notifs.forUser("user-2")) != 1 {
		t.Error("其余用户应各有一条站内记录")
	}
}

func TestNotifyRequestToPosterOnlyPoster(t *testing.T) {
	coord, gateway, sender, _ := setupNotifier(t, time.Second)

	coord.NotifyRequestToPoster(context.Background(),
		&model.ExchangeShift{ExchangeShiftID: "es-1", PosterUserID: "poster-1", BusinessUnitID: "bu-1"},
		&model.ShiftRequest{ShiftRequestID: "sr-1", RequesterName: "李四"},
	)
	respondUsers(t, coord, gateway, directoryUsers())

	tokens := sender.tokens()
	if len(tokens) != 1 || tokens[0] != "tok-poster" {
		t.Errorf("新申请应只推送给发布者, 实际 %v", tokens)
	}
}

func TestNotifyManagerApprovalOnlyManagers(t *testing.T) {
	coord, gateway, sender, _ := setupNotifier(t, time.Second)

	coord.NotifyManagerApproval(context.Background(),
		&model.ExchangeShift{ExchangeShiftID: "es-1", PosterUserID: "poster-1", PosterName: "张三", BusinessUnitID: "bu-1"},
		&model.ShiftRequest{ShiftRequestID: "sr-1", RequesterName: "李四"},
	)
	respondUsers(t, coord, gateway, directoryUsers())

	tokens := sender.tokens()
	if len(tokens) != 2 {
		t.Fatalf("待审批通知应只推送给经理与管理员, 实际 %v", tokens)
	}
}

func TestNotifyApprovalResultOnlyParties(t *testing.T) {
	coord, gateway, sender, _ := setupNotifier(t, time.Second)

	coord.NotifyApprovalResult(context.Background(),
		&model.ExchangeShift{ExchangeShiftID: "es-1", PosterUserID: "poster-1", BusinessUnitID: "bu-1"},
		&model.ShiftRequest{ShiftRequestID: "sr-1", RequesterUserID: "user-2"},
		true,
	)
	respondUsers(t, coord, gateway, directoryUsers())

	tokens := sender.tokens()
	if len(tokens) != 2 {
		t.Fatalf("审批结果应只推送给双方, 实际 %v", tokens)
	}
}

func TestNotifyNewPostManagersOnlyAudience(t *testing.T) {
	coord, gateway, sender, _ := setupNotifier(t, time.Second)

	coord.NotifyNewPost(context.Background(), &model.MarketplacePost{
		PostID:         "post-1",
		BusinessUnitID: "bu-1",
		Title:          "排班调整",
		Content:        "下周一生效",
		TargetAudience: model.AudienceManagersOnly,
	})
	respondUsers(t, coord, gateway, directoryUsers())

	if len(sender.tokens()) != 2 {
		t.Errorf("MANAGERS_ONLY 公告应只推送给经理与管理员, 实际 %v", sender.tokens())
	}
}

func TestPushFailureDoesNotBlockOtherRecipients(t *testing.T) {
	coord, gateway, sender, notifs := setupNotifier(t, time.Second)
	sender.failTokens["tok-2"] = true

	coord.NotifyNewExchangeShift(context.Background(), &model.ExchangeShift{
		ExchangeShiftID: "es-1", PosterUserID: "poster-1", BusinessUnitID: "bu-1",
		StartTime: time.Now(), EndTime: time.Now().Add(time.Hour),
	})
	respondUsers(t, coord, gateway, directoryUsers())

	if len(sender.tokens()) != 3 {
		t.Errorf("单个收件人失败不应影响其他收件人, 实际成功 %d", len(sender.tokens()))
	}
	// 推送失败的用户仍应有站内记录
	if len(notifs.forUser("user-2")) != 1 {
		t.Error("推送失败的用户仍应有站内记录")
	}
}

func TestUnknownCorrelationIDDropped(t *testing.T) {
	coord, _, sender, _ := setupNotifier(t, time.Second)

	coord.HandleUsersResponse(context.Background(), &messaging.BusinessUnitUsersResponse{
		CorrelationID: "never-registered",
		Users:         directoryUsers(),
	})

	if len(sender.tokens()) != 0 {
		t.Error("未知关联 ID 的响应不应触发推送")
	}
}

func TestJanitorExpiresStaleEntries(t *testing.T) {
	coord, gateway, sender, _ := setupNotifier(t, 60*time.Millisecond)
	coord.Start()
	defer coord.Close()

	coord.NotifyRequestToPoster(context.Background(),
		&model.ExchangeShift{ExchangeShiftID: "es-1", PosterUserID: "poster-1", BusinessUnitID: "bu-1"},
		&model.ShiftRequest{ShiftRequestID: "sr-1"},
	)

	// 等待清理协程扫过 TTL
	time.Sleep(200 * time.Millisecond)

	coord.mu.Lock()
	pending := len(coord.pending)
	coord.mu.Unlock()
	if pending != 0 {
		t.Errorf("过期登记项应被清理, 实际剩余 %d", pending)
	}

	// 迟到的响应被当作未知关联 ID 丢弃
	respondUsers(t, coord, gateway, directoryUsers())
	if len(sender.tokens()) != 0 {
		t.Error("迟到的目录响应不应触发推送")
	}
}

func TestDispatchSendFailureRemovesEntry(t *testing.T) {
	coord, gateway, _, _ := setupNotifier(t, time.Second)
	gateway.sendErr = context.DeadlineExceeded

	coord.NotifyRequestToPoster(context.Background(),
		&model.ExchangeShift{ExchangeShiftID: "es-1", PosterUserID: "poster-1", BusinessUnitID: "bu-1"},
		&model.ShiftRequest{ShiftRequestID: "sr-1"},
	)

	coord.mu.Lock()
	defer coord.mu.Unlock()
	if len(coord.pending) != 0 {
		t.Error("拉取请求发送失败后应取消登记")
	}
}
