package model

// 通知类型
const (
	NotificationTypeNewPost          = "new_post"
	NotificationTypeNewExchangeShift = "new_exchange_shift"
	NotificationTypeShiftRequest     = "shift_request"
	NotificationTypeManagerApproval  = "manager_approval"
	NotificationTypeApprovalResult   = "approval_result"
)

// Notification 站内通知 — 对应 notifications
// 推送本身尽力而为，站内记录保证用户事后可见
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // exchange_shift | shift_request | post
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	Timestamps
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
