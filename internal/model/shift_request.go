package model

import "errors"

// ShiftRequestType 申请类型
type ShiftRequestType string

const (
	RequestTakeShift ShiftRequestType = "TAKE_SHIFT" // 无条件接班
	RequestSwapShift ShiftRequestType = "SWAP_SHIFT" // 用自己指定的班次互换
)

// ShiftRequestStatus 申请状态
type ShiftRequestStatus string

const (
	RequestPending           ShiftRequestStatus = "PENDING"
	RequestAcceptedByPoster  ShiftRequestStatus = "ACCEPTED_BY_POSTER"
	RequestDeclinedByPoster  ShiftRequestStatus = "DECLINED_BY_POSTER"
	RequestApprovedByManager ShiftRequestStatus = "APPROVED_BY_MANAGER"
	RequestRejectedByManager ShiftRequestStatus = "REJECTED_BY_MANAGER"
	RequestCompleted         ShiftRequestStatus = "COMPLETED"
	RequestProcessingFailed  ShiftRequestStatus = "PROCESSING_FAILED" // 排班系统确认失败
)

var (
	ErrRequestTypeInvalid  = errors.New("申请类型无效")
	ErrSwapShiftIDRequired = errors.New("换班申请必须指定用于互换的班次")
	ErrSwapShiftIDInvalid  = errors.New("接班申请不允许携带互换班次")
)

// ShiftRequest 接班/换班申请 — 对应 shift_requests
// 同一用户对同一挂牌班次只允许存在一条申请（数据库唯一索引兜底）
type ShiftRequest struct {
	ShiftRequestID    string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_request_id"`
	ExchangeShiftID   string             `gorm:"type:uuid;not null"                             json:"exchange_shift_id"`
	RequesterUserID   string             `gorm:"type:uuid;not null"                             json:"requester_user_id"`
	RequesterName     string             `gorm:"type:varchar(100);not null;default:''"          json:"requester_name"`
	RequestType       ShiftRequestType   `gorm:"type:varchar(16);not null"                      json:"request_type"`
	SwapShiftID       *string            `gorm:"type:varchar(64)"                               json:"swap_shift_id,omitempty"`
	Status            ShiftRequestStatus `gorm:"type:varchar(32);not null;default:'PENDING'"    json:"status"`
	ExecutionPossible *bool              `json:"execution_possible,omitempty"` // 冲突检查结果，检查完成前为 null
	Timestamps

	ExchangeShift *ExchangeShift `gorm:"foreignKey:ExchangeShiftID;references:ExchangeShiftID" json:"exchange_shift,omitempty"`
}

// TableName 指定表名
func (ShiftRequest) TableName() string { return "shift_requests" }

// NewShiftRequest 构造申请并强制类型不变式：
// TAKE_SHIFT 不允许携带互换班次，SWAP_SHIFT 必须携带互换班次。
// Service 层只通过此构造函数创建申请，非法组合不会落库。
func NewShiftRequest(exchangeShiftID, requesterID, requesterName string, reqType ShiftRequestType, swapShiftID *string) (*ShiftRequest, error) {
	switch reqType {
	case RequestTakeShift:
		if swapShiftID != nil && *swapShiftID != "" {
			return nil, ErrSwapShiftIDInvalid
		}
		swapShiftID = nil
	case RequestSwapShift:
		if swapShiftID == nil || *swapShiftID == "" {
			return nil, ErrSwapShiftIDRequired
		}
	default:
		return nil, ErrRequestTypeInvalid
	}

	return &ShiftRequest{
		ExchangeShiftID: exchangeShiftID,
		RequesterUserID: requesterID,
		RequesterName:   requesterName,
		RequestType:     reqType,
		SwapShiftID:     swapShiftID,
		Status:          RequestPending,
	}, nil
}
