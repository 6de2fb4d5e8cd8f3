package dto

import "time"

// ── 请求 ──

// PostShiftRequest 挂牌班次
type PostShiftRequest struct {
	ShiftID   string    `json:"shift_id" binding:"required"`
	Position  string    `json:"position"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// SubmitShiftRequestRequest 提交接班/换班申请
type SubmitShiftRequestRequest struct {
	RequestType string  `json:"request_type" binding:"required,oneof=TAKE_SHIFT SWAP_SHIFT"`
	SwapShiftID *string `json:"swap_shift_id"`
}

// AcceptRequestRequest 发布者选定申请
type AcceptRequestRequest struct {
	RequestID string `json:"request_id" binding:"required"`
}

// UpdateShiftStatusRequest 经理审批
type UpdateShiftStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

// PageQuery 分页查询参数（page 从 0 开始）
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize 规范化分页参数
func (q *PageQuery) Normalize() {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

// Offset 换算为偏移量
func (q *PageQuery) Offset() int {
	return q.Page * q.PageSize
}

// ── 响应 ──

// ExchangeShiftResponse 挂牌班次响应
type ExchangeShiftResponse struct {
	ID                string  `json:"id"`
	ShiftID           string  `json:"shift_id"`
	PosterUserID      string  `json:"poster_user_id"`
	PosterName        string  `json:"poster_name"`
	BusinessUnitID    string  `json:"business_unit_id"`
	Status            string  `json:"status"`
	AcceptedRequestID *string `json:"accepted_request_id,omitempty"`
	Position          string  `json:"position"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// ShiftRequestResponse 申请响应
type ShiftRequestResponse struct {
	ID                string                 `json:"id"`
	ExchangeShiftID   string                 `json:"exchange_shift_id"`
	RequesterUserID   string                 `json:"requester_user_id"`
	RequesterName     string                 `json:"requester_name"`
	RequestType       string                 `json:"request_type"`
	SwapShiftID       *string                `json:"swap_shift_id,omitempty"`
	Status            string                 `json:"status"`
	ExecutionPossible *bool                  `json:"execution_possible,omitempty"`
	ExchangeShift     *ExchangeShiftResponse `json:"exchange_shift,omitempty"`
	CreatedAt         string                 `json:"created_at"`
	UpdatedAt         string                 `json:"updated_at"`
}

// ApprovalDecisionResponse 审批结果响应（班次 + 被选定的申请）
type ApprovalDecisionResponse struct {
	Shift   ExchangeShiftResponse `json:"shift"`
	Request ShiftRequestResponse  `json:"request"`
}
