package messaging

// 与外部排班系统、用户目录交换消息的主题（Redis Stream 键名）
const (
	// 出站：审批结果（APPROVED/REJECTED 都发送，供排班系统执行与审计）
	TopicShiftExchangeApproval = "shift-exchange-approval"
	// 入站：排班系统对已审批换班的最终确认
	TopicShiftExchangeConfirmation = "shift-exchange-confirmation"

	// 接班冲突检查：单人时间重叠
	TopicScheduleConflictCheckRequest  = "schedule-conflict-check-request"
	TopicScheduleConflictCheckResponse = "schedule-conflict-check-response"

	// 换班冲突检查：双方互换可行性
	TopicSwapConflictCheckRequest  = "swap-conflict-check-request"
	TopicSwapConflictCheckResponse = "swap-conflict-check-response"

	// 用户目录：按业务单元拉取用户（通知分发用）
	TopicBusinessUnitUsersRequest  = "business-unit-users-request"
	TopicBusinessUnitUsersResponse = "business-unit-users-response"
)
