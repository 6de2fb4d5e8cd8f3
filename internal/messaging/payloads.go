package messaging

import "time"

// 外部系统约定的 JSON 载荷（字段名沿用排班系统的 camelCase 约定）

// 审批事件状态
const (
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

// 确认状态
const (
	ConfirmationStatusSuccess = "SUCCESS"
	ConfirmationStatusFailed  = "FAILED"
)

// ShiftExchangeApprovalEvent 出站审批事件（发给排班系统）
type ShiftExchangeApprovalEvent struct {
	ExchangeShiftID string  `json:"exchangeShiftId"`
	RequestID       string  `json:"requestId"`
	ShiftID         string  `json:"shiftId"`
	SwapShiftID     *string `json:"swapShiftId,omitempty"`
	RequestType     string  `json:"requestType"`
	PosterUserID    string  `json:"posterUserId"`
	RequesterUserID string  `json:"requesterUserId"`
	Status          string  `json:"status"` // APPROVED | REJECTED
}

// ShiftExchangeConfirmation 入站确认（排班系统执行结果）
type ShiftExchangeConfirmation struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"` // SUCCESS | FAILED
	Message   string `json:"message,omitempty"`
}

// ScheduleConflictCheckRequest 接班冲突检查请求
type ScheduleConflictCheckRequest struct {
	CorrelationID string    `json:"correlationId"`
	UserID        string    `json:"userId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}

// ScheduleConflictCheckResponse 接班冲突检查响应
type ScheduleConflictCheckResponse struct {
	CorrelationID string `json:"correlationId"`
	HasConflict   bool   `json:"hasConflict"`
}

// SwapConflictCheckRequest 换班冲突检查请求
type SwapConflictCheckRequest struct {
	CorrelationID   string `json:"correlationId"`
	PosterUserID    string `json:"posterUserId"`
	RequesterUserID string `json:"requesterUserId"`
	OriginalShiftID string `json:"originalShiftId"`
	SwapShiftID     string `json:"swapShiftId"`
}

// SwapConflictCheckResponse 换班冲突检查响应
type SwapConflictCheckResponse struct {
	CorrelationID  string `json:"correlationId"`
	IsSwapPossible bool   `json:"isSwapPossible"`
}

// BusinessUnitUsersRequest 按业务单元拉取用户请求
type BusinessUnitUsersRequest struct {
	CorrelationID  string `json:"correlationId"`
	BusinessUnitID string `json:"businessUnitId"`
}

// DirectoryUser 用户目录返回的用户记录
type DirectoryUser struct {
	ID        string `json:"id"`
	PushToken string `json:"pushToken"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// BusinessUnitUsersResponse 按业务单元拉取用户响应
type BusinessUnitUsersResponse struct {
	CorrelationID string          `json:"correlationId"`
	Users         []DirectoryUser `json:"users"`
}
