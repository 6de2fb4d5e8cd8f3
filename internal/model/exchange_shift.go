package model

import "time"

// ExchangeShiftStatus 挂牌班次状态
type ExchangeShiftStatus string

const (
	ExchangeShiftOpen             ExchangeShiftStatus = "OPEN"                     // 接受申请
	ExchangeShiftPendingSelection ExchangeShiftStatus = "PENDING_SELECTION"        // 过渡状态（当前流程未写入，兼容历史数据）
	ExchangeShiftAwaitingApproval ExchangeShiftStatus = "AWAITING_MANAGER_APPROVAL" // 发布者已选定申请，等待经理审批
	ExchangeShiftApproved         ExchangeShiftStatus = "APPROVED"
	ExchangeShiftRejected         ExchangeShiftStatus = "REJECTED"
	ExchangeShiftCancelled        ExchangeShiftStatus = "CANCELLED"
	ExchangeShiftCompleted        ExchangeShiftStatus = "COMPLETED" // 排班系统确认成功后的最终状态
)

// CanAcceptRequests 是否仍可接受接班/换班申请
func (s ExchangeShiftStatus) CanAcceptRequests() bool {
	return s == ExchangeShiftOpen || s == ExchangeShiftPendingSelection
}

// IsTerminal 是否为不可再流转的最终状态
func (s ExchangeShiftStatus) IsTerminal() bool {
	return s == ExchangeShiftCancelled || s == ExchangeShiftCompleted
}

// IsSettled 审批链路是否已走完（导出/历史查询用）
func (s ExchangeShiftStatus) IsSettled() bool {
	switch s {
	case ExchangeShiftApproved, ExchangeShiftRejected, ExchangeShiftCancelled, ExchangeShiftCompleted:
		return true
	}
	return false
}

// ExchangeShift 挂牌换班的班次 — 对应 exchange_shifts
// 不做物理删除：发布者撤回通过 CANCELLED 状态软删除
// 不变式：AcceptedRequestID 非空 当且仅当 状态 ∈ {AWAITING_MANAGER_APPROVAL, APPROVED, REJECTED}
type ExchangeShift struct {
	ExchangeShiftID   string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exchange_shift_id"`
	ShiftID           string              `gorm:"type:varchar(64);not null"                      json:"shift_id"` // 外部排班系统中的班次 ID
	PosterUserID      string              `gorm:"type:uuid;not null"                             json:"poster_user_id"`
	PosterName        string              `gorm:"type:varchar(100);not null;default:''"          json:"poster_name"`
	BusinessUnitID    string              `gorm:"type:uuid;not null"                             json:"business_unit_id"`
	Status            ExchangeShiftStatus `gorm:"type:varchar(32);not null;default:'OPEN'"       json:"status"`
	AcceptedRequestID *string             `gorm:"type:uuid"                                      json:"accepted_request_id,omitempty"`
	Position          string              `gorm:"type:varchar(100);not null;default:''"          json:"position"`
	StartTime         time.Time           `gorm:"not null"                                       json:"start_time"`
	EndTime           time.Time           `gorm:"not null"                                       json:"end_time"`
	Timestamps
}

// TableName 指定表名
func (ExchangeShift) TableName() string { return "exchange_shifts" }
