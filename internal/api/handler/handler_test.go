package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"clockwise/backend/internal/dto"
	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/service"
	apperrors "clockwise/backend/pkg/errors"
	"clockwise/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock MarketplaceService ──

type mockMarketplaceService struct {
	postResult       *dto.ExchangeShiftResponse
	postErr          error
	submitResult     *dto.ShiftRequestResponse
	submitErr        error
	acceptResult     *dto.ApprovalDecisionResponse
	acceptErr        error
	updateResult     *dto.ApprovalDecisionResponse
	updateErr        error
	cancelResult     *dto.ExchangeShiftResponse
	cancelErr        error
	openList         []dto.ExchangeShiftResponse
	openTotal        int64
	openErr          error
	myShifts         []dto.ExchangeShiftResponse
	myShiftsErr      error
	shiftRequests    []dto.ShiftRequestResponse
	shiftRequestsErr error
	calendarContent  string
	calendarErr      error
}

func (m *mockMarketplaceService) PostShift(_ context.Context, _ *dto.PostShiftRequest, _, _, _ string) (*dto.ExchangeShiftResponse, error) {
	return m.postResult, m.postErr
}
func (m *mockMarketplaceService) SubmitRequest(_ context.Context, _ string, _ *dto.SubmitShiftRequestRequest, _, _ string) (*dto.ShiftRequestResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockMarketplaceService) AcceptRequest(_ context.Context, _, _, _ string) (*dto.ApprovalDecisionResponse, error) {
	return m.acceptResult, m.acceptErr
}
func (m *mockMarketplaceService) UpdateShiftStatus(_ context.Context, _, _, _ string) (*dto.ApprovalDecisionResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockMarketplaceService) ApproveRequest(_ context.Context, _ string) (*dto.ApprovalDecisionResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockMarketplaceService) RejectRequest(_ context.Context, _ string) (*dto.ApprovalDecisionResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockMarketplaceService) CancelShift(_ context.Context, _, _ string) (*dto.ExchangeShiftResponse, error) {
	return m.cancelResult, m.cancelErr
}
func (m *mockMarketplaceService) HandleConfirmation(_ context.Context, _ *messaging.ShiftExchangeConfirmation) error {
	return nil
}
func (m *mockMarketplaceService) ListOpenShifts(_ context.Context, _ string, _ *dto.PageQuery) ([]dto.ExchangeShiftResponse, int64, error) {
	return m.openList, m.openTotal, m.openErr
}
func (m *mockMarketplaceService) ListMyShifts(_ context.Context, _ string) ([]dto.ExchangeShiftResponse, error) {
	return m.myShifts, m.myShiftsErr
}
func (m *mockMarketplaceService) ListShiftRequests(_ context.Context, _, _ string) ([]dto.ShiftRequestResponse, error) {
	return m.shiftRequests, m.shiftRequestsErr
}
func (m *mockMarketplaceService) ListMyRequests(_ context.Context, _ string) ([]dto.ShiftRequestResponse, error) {
	return m.shiftRequests, m.shiftRequestsErr
}
func (m *mockMarketplaceService) ListIncomingRequests(_ context.Context, _ string) ([]dto.ShiftRequestResponse, error) {
	return m.shiftRequests, m.shiftRequestsErr
}
func (m *mockMarketplaceService) ListAwaitingApproval(_ context.Context, _ string, _ *dto.PageQuery) ([]dto.ExchangeShiftResponse, int64, error) {
	return m.openList, m.openTotal, m.openErr
}
func (m *mockMarketplaceService) RenderShiftCalendar(_ context.Context, _ string) (string, string, error) {
	return m.calendarContent, "shift.ics", m.calendarErr
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	list    []dto.NotificationResponse
	total   int64
	listErr error
	readErr error
}

func (m *mockNotificationService) ListMyNotifications(_ context.Context, _ string, _ *dto.PageQuery) ([]dto.NotificationResponse, int64, error) {
	return m.list, m.total, m.listErr
}
func (m *mockNotificationService) MarkRead(_ context.Context, _, _ string) error {
	return m.readErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// withAuth 模拟 JWT 中间件注入的用户上下文
func withAuth(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", role)
		c.Set("business_unit_id", "test-bu-id")
		c.Set("user_name", "测试用户")
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// MarketplaceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestMarketplaceHandler_PostShift_Success(t *testing.T) {
	mock := &mockMarketplaceService{
		postResult: &dto.ExchangeShiftResponse{ID: "es-1", Status: "OPEN"},
	}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/exchange-shifts", jsonBody(map[string]interface{}{
		"shift_id":   "ext-1",
		"start_time": "2026-09-01T08:00:00Z",
		"end_time":   "2026-09-01T16:00:00Z",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/exchange-shifts", withAuth("employee"), h.PostShift)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestMarketplaceHandler_PostShift_BadJSON(t *testing.T) {
	h := NewMarketplaceHandler(&mockMarketplaceService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/exchange-shifts", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/exchange-shifts", withAuth("employee"), h.PostShift)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMarketplaceHandler_PostShift_Unauthenticated(t *testing.T) {
	h := NewMarketplaceHandler(&mockMarketplaceService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/exchange-shifts", jsonBody(map[string]interface{}{
		"shift_id":   "ext-1",
		"start_time": "2026-09-01T08:00:00Z",
		"end_time":   "2026-09-01T16:00:00Z",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/exchange-shifts", h.PostShift) // 无认证中间件
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestMarketplaceHandler_SubmitRequest_DuplicateMapsToConflict(t *testing.T) {
	mock := &mockMarketplaceService{submitErr: service.ErrDuplicateRequest}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/exchange-shifts/es-1/requests", jsonBody(map[string]string{
		"request_type": "TAKE_SHIFT",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/exchange-shifts/:id/requests", withAuth("employee"), h.SubmitRequest)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11105 {
		t.Errorf("expected error code 11105, got %d", resp.Code)
	}
}

func TestMarketplaceHandler_SubmitRequest_InvalidType(t *testing.T) {
	h := NewMarketplaceHandler(&mockMarketplaceService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/exchange-shifts/es-1/requests", jsonBody(map[string]string{
		"request_type": "STEAL_SHIFT",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/exchange-shifts/:id/requests", withAuth("employee"), h.SubmitRequest)
	r.ServeHTTP(w, req)

	// oneof 绑定校验直接拒绝
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMarketplaceHandler_AcceptRequest_RaceLoserMapsToConflict(t *testing.T) {
	mock := &mockMarketplaceService{acceptErr: apperrors.ErrConcurrentUpdate}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/exchange-shifts/es-1/accept", jsonBody(map[string]string{
		"request_id": "sr-1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/exchange-shifts/:id/accept", withAuth("employee"), h.AcceptRequest)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestMarketplaceHandler_UpdateShiftStatus_NotFoundInOtherUnit(t *testing.T) {
	mock := &mockMarketplaceService{updateErr: service.ErrShiftNotFound}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/exchange-shifts/es-1/status", jsonBody(map[string]string{
		"status": "APPROVED",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/exchange-shifts/:id/status", withAuth("manager"), h.UpdateShiftStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestMarketplaceHandler_ListOpenShifts_Paged(t *testing.T) {
	mock := &mockMarketplaceService{
		openList:  []dto.ExchangeShiftResponse{{ID: "es-1"}, {ID: "es-2"}},
		openTotal: 2,
	}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/exchange-shifts?page=0&page_size=10", nil)

	r := gin.New()
	r.GET("/exchange-shifts", withAuth("employee"), h.ListOpenShifts)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Data.Pagination.Total)
	}
	if resp.Data.Pagination.Page != 0 {
		t.Errorf("expected page 0, got %d", resp.Data.Pagination.Page)
	}
}

func TestMarketplaceHandler_CancelShift_ForbiddenForNonPoster(t *testing.T) {
	mock := &mockMarketplaceService{cancelErr: service.ErrNotShiftPoster}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/exchange-shifts/es-1", nil)

	r := gin.New()
	r.DELETE("/exchange-shifts/:id", withAuth("employee"), h.CancelShift)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestMarketplaceHandler_DownloadShiftCalendar(t *testing.T) {
	mock := &mockMarketplaceService{calendarContent: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	h := NewMarketplaceHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/exchange-shifts/es-1/calendar", nil)

	r := gin.New()
	r.GET("/exchange-shifts/:id/calendar", withAuth("employee"), h.DownloadShiftCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("expected text/calendar content type, got %s", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("VCALENDAR")) {
		t.Error("expected ICS content in body")
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_MarkRead_NotFound(t *testing.T) {
	mock := &mockNotificationService{readErr: service.ErrNotificationNotFound}
	h := NewNotificationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/notifications/ntf-1/read", nil)

	r := gin.New()
	r.PUT("/notifications/:id/read", withAuth("employee"), h.MarkRead)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestNotificationHandler_List_Success(t *testing.T) {
	mock := &mockNotificationService{
		list:  []dto.NotificationResponse{{ID: "ntf-1", Title: "新的换班机会"}},
		total: 1,
	}
	h := NewNotificationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/notifications", nil)

	r := gin.New()
	r.GET("/notifications", withAuth("employee"), h.ListMyNotifications)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
