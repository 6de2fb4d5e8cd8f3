package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clockwise/backend/internal/dto"
	"clockwise/backend/internal/messaging"
	"clockwise/backend/internal/model"
	"clockwise/backend/internal/repository"
	apperrors "clockwise/backend/pkg/errors"
)

// ── 换班市场业务错误 ──

var (
	ErrShiftNotFound          = errors.New("挂牌班次不存在")
	ErrRequestNotFound        = errors.New("申请不存在")
	ErrShiftNotAccepting      = errors.New("该班次已不再接受申请")
	ErrOwnShiftRequest        = errors.New("不能申请自己挂出的班次")
	ErrDuplicateRequest       = errors.New("你已申请过该班次")
	ErrNotShiftPoster         = errors.New("只有发布者可以执行该操作")
	ErrRequestNotPending      = errors.New("申请已被处理")
	ErrRequestNotAwaiting     = errors.New("申请不在待审批状态")
	ErrShiftNotAwaiting       = errors.New("班次不在待审批状态")
	ErrShiftNotCancellable    = errors.New("当前状态不允许撤回")
	ErrApprovalStatusInvalid  = errors.New("审批状态只能为 APPROVED 或 REJECTED")
	ErrShiftTimeInvalid       = errors.New("班次结束时间必须晚于开始时间")
)

// MarketplaceService 换班市场工作流引擎
//
// 状态机（ExchangeShift）：
//
//	OPEN → AWAITING_MANAGER_APPROVAL → { APPROVED → COMPLETED | REJECTED → OPEN }
//	OPEN → CANCELLED（终态）
//	排班系统确认 FAILED → 回到 OPEN 重新挂牌
//
// 所有状态变更都经由本服务的条件更新，保证"每个班次至多一个被选定申请"
type MarketplaceService interface {
	PostShift(ctx context.Context, req *dto.PostShiftRequest, posterID, posterName, businessUnitID string) (*dto.ExchangeShiftResponse, error)
	SubmitRequest(ctx context.Context, exchangeShiftID string, req *dto.SubmitShiftRequestRequest, requesterID, requesterName string) (*dto.ShiftRequestResponse, error)
	AcceptRequest(ctx context.Context, exchangeShiftID, requestID, posterID string) (*dto.ApprovalDecisionResponse, error)
	UpdateShiftStatus(ctx context.Context, exchangeShiftID, status, businessUnitID string) (*dto.ApprovalDecisionResponse, error)
	ApproveRequest(ctx context.Context, requestID string) (*dto.ApprovalDecisionResponse, error)
	RejectRequest(ctx context.Context, requestID string) (*dto.ApprovalDecisionResponse, error)
	CancelShift(ctx context.Context, exchangeShiftID, posterID string) (*dto.ExchangeShiftResponse, error)
	HandleConfirmation(ctx context.Context, conf *messaging.ShiftExchangeConfirmation) error

	ListOpenShifts(ctx context.Context, businessUnitID string, page *dto.PageQuery) ([]dto.ExchangeShiftResponse, int64, error)
	ListMyShifts(ctx context.Context, posterID string) ([]dto.ExchangeShiftResponse, error)
	ListShiftRequests(ctx context.Context, exchangeShiftID, callerID string) ([]dto.ShiftRequestResponse, error)
	ListMyRequests(ctx context.Context, requesterID string) ([]dto.ShiftRequestResponse, error)
	ListIncomingRequests(ctx context.Context, posterID string) ([]dto.ShiftRequestResponse, error)
	ListAwaitingApproval(ctx context.Context, businessUnitID string, page *dto.PageQuery) ([]dto.ExchangeShiftResponse, int64, error)

	RenderShiftCalendar(ctx context.Context, exchangeShiftID string) (string, string, error)
}

type marketplaceService struct {
	repo      *repository.Repository
	gateway   messaging.Gateway
	conflicts *ConflictCoordinator
	notifier  *NotificationCoordinator
	logger    *zap.Logger
}

// NewMarketplaceService 创建 MarketplaceService 实例
func NewMarketplaceService(
	repo *repository.Repository,
	gateway messaging.Gateway,
	conflicts *ConflictCoordinator,
	notifier *NotificationCoordinator,
	logger *zap.Logger,
) MarketplaceService {
	return &marketplaceService{
		repo:      repo,
		gateway:   gateway,
		conflicts: conflicts,
		notifier:  notifier,
		logger:    logger,
	}
}

// ────────────────────── PostShift ──────────────────────

func (s *marketplaceService) PostShift(ctx context.Context, req *dto.PostShiftRequest, posterID, posterName, businessUnitID string) (*dto.ExchangeShiftResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrShiftTimeInvalid
	}

	// 幂等：同一发布者重复挂牌同一班次视为成功的空操作
	existing, err := s.repo.ExchangeShift.GetByShiftAndPoster(ctx, req.ShiftID, posterID)
	if err == nil {
		s.logger.Info("班次已挂牌，返回已有记录",
			zap.String("shift_id", req.ShiftID),
			zap.String("poster_id", posterID),
			zap.String("exchange_shift_id", existing.ExchangeShiftID),
		)
		return toShiftResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询已挂牌班次失败", zap.Error(err))
		return nil, err
	}

	shift := &model.ExchangeShift{
		ShiftID:        req.ShiftID,
		PosterUserID:   posterID,
		PosterName:     posterName,
		BusinessUnitID: businessUnitID,
		Status:         model.ExchangeShiftOpen,
		Position:       req.Position,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}
	if err := s.repo.ExchangeShift.Create(ctx, shift); err != nil {
		s.logger.Error("挂牌班次失败", zap.Error(err))
		return nil, err
	}

	s.notifier.NotifyNewExchangeShift(ctx, shift)

	return toShiftResponse(shift), nil
}

// ────────────────────── SubmitRequest ──────────────────────

func (s *marketplaceService) SubmitRequest(ctx context.Context, exchangeShiftID string, req *dto.SubmitShiftRequestRequest, requesterID, requesterName string) (*dto.ShiftRequestResponse, error) {
	// 前置条件按序检查，各自对应独立的错误
	shift, err := s.getShift(ctx, exchangeShiftID)
	if err != nil {
		return nil, err
	}
	if !shift.Status.CanAcceptRequests() {
		return nil, ErrShiftNotAccepting
	}
	if shift.PosterUserID == requesterID {
		return nil, ErrOwnShiftRequest
	}
	if _, err := s.repo.ShiftRequest.GetByShiftAndRequester(ctx, exchangeShiftID, requesterID); err == nil {
		return nil, ErrDuplicateRequest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询已有申请失败", zap.Error(err))
		return nil, err
	}

	request, err := model.NewShiftRequest(exchangeShiftID, requesterID, requesterName,
		model.ShiftRequestType(req.RequestType), req.SwapShiftID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ShiftRequest.Create(ctx, request); err != nil {
		s.logger.Error("创建申请失败", zap.Error(err))
		return nil, err
	}

	// 冲突检查在响应前完成（等待受协调器 30s 超时约束），
	// 检查失败/超时按"不可执行"落库，不向调用方抛错
	var possible bool
	switch request.RequestType {
	case model.RequestTakeShift:
		possible = s.conflicts.CheckTakeShift(ctx, requesterID, shift.StartTime, shift.EndTime)
	case model.RequestSwapShift:
		possible = s.conflicts.CheckSwapShift(ctx, shift.PosterUserID, requesterID, shift.ShiftID, *request.SwapShiftID)
	}
	if err := s.repo.ShiftRequest.SetExecutionPossible(ctx, request.ShiftRequestID, possible); err != nil {
		s.logger.Error("写入冲突检查结果失败",
			zap.String("request_id", request.ShiftRequestID), zap.Error(err))
	}
	request.ExecutionPossible = &possible

	s.notifier.NotifyRequestToPoster(ctx, shift, request)

	return toRequestResponse(request, nil), nil
}

// ────────────────────── AcceptRequest ──────────────────────

func (s *marketplaceService) AcceptRequest(ctx context.Context, exchangeShiftID, requestID, posterID string) (*dto.ApprovalDecisionResponse, error) {
	shift, err := s.getShift(ctx, exchangeShiftID)
	if err != nil {
		return nil, err
	}
	if shift.PosterUserID != posterID {
		return nil, ErrNotShiftPoster
	}
	if !shift.Status.CanAcceptRequests() {
		return nil, ErrShiftNotAccepting
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ExchangeShiftID != exchangeShiftID {
		return nil, ErrRequestNotFound
	}
	if request.Status != model.RequestPending {
		return nil, ErrRequestNotPending
	}

	// 三步更新作为一个事务提交：选定申请 + 胜出者状态 + 落选者批量拒绝。
	// 并发竞争由条件更新裁决：状态已变的竞争者影响零行，显式失败。
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	won, err := txRepo.ExchangeShift.MarkAwaitingApproval(ctx, exchangeShiftID, requestID)
	if err != nil {
		rollback(tx)
		s.logger.Error("选定申请失败", zap.Error(err))
		return nil, err
	}
	if !won {
		rollback(tx)
		return nil, apperrors.ErrConcurrentUpdate
	}

	if err := txRepo.ShiftRequest.UpdateStatus(ctx, requestID, model.RequestAcceptedByPoster); err != nil {
		rollback(tx)
		s.logger.Error("更新胜出申请状态失败", zap.Error(err))
		return nil, err
	}

	if err := txRepo.ShiftRequest.DeclineOtherPending(ctx, exchangeShiftID, requestID); err != nil {
		rollback(tx)
		s.logger.Error("批量拒绝其他申请失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	shift.Status = model.ExchangeShiftAwaitingApproval
	shift.AcceptedRequestID = &request.ShiftRequestID
	request.Status = model.RequestAcceptedByPoster

	s.notifier.NotifyManagerApproval(ctx, shift, request)

	return &dto.ApprovalDecisionResponse{
		Shift:   *toShiftResponse(shift),
		Request: *toRequestResponse(request, nil),
	}, nil
}

// ────────────────────── 经理审批 ──────────────────────

func (s *marketplaceService) UpdateShiftStatus(ctx context.Context, exchangeShiftID, status, businessUnitID string) (*dto.ApprovalDecisionResponse, error) {
	if status != messaging.ApprovalStatusApproved && status != messaging.ApprovalStatusRejected {
		return nil, ErrApprovalStatusInvalid
	}

	shift, err := s.repo.ExchangeShift.GetByIDInBusinessUnit(ctx, exchangeShiftID, businessUnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询挂牌班次失败", zap.String("id", exchangeShiftID), zap.Error(err))
		return nil, err
	}
	if shift.Status != model.ExchangeShiftAwaitingApproval || shift.AcceptedRequestID == nil {
		return nil, ErrShiftNotAwaiting
	}

	request, err := s.getRequest(ctx, *shift.AcceptedRequestID)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, shift, request, status == messaging.ApprovalStatusApproved)
}

func (s *marketplaceService) ApproveRequest(ctx context.Context, requestID string) (*dto.ApprovalDecisionResponse, error) {
	return s.decideByRequest(ctx, requestID, true)
}

func (s *marketplaceService) RejectRequest(ctx context.Context, requestID string) (*dto.ApprovalDecisionResponse, error) {
	return s.decideByRequest(ctx, requestID, false)
}

func (s *marketplaceService) decideByRequest(ctx context.Context, requestID string, approved bool) (*dto.ApprovalDecisionResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != model.RequestAcceptedByPoster {
		return nil, ErrRequestNotAwaiting
	}

	shift, err := s.getShift(ctx, request.ExchangeShiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status != model.ExchangeShiftAwaitingApproval || shift.AcceptedRequestID == nil {
		return nil, ErrShiftNotAwaiting
	}

	return s.settle(ctx, shift, request, approved)
}

// settle 落定经理审批：本地状态先提交，事件与通知在提交之后、尽力而为
func (s *marketplaceService) settle(ctx context.Context, shift *model.ExchangeShift, request *model.ShiftRequest, approved bool) (*dto.ApprovalDecisionResponse, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	if approved {
		if err := txRepo.ExchangeShift.UpdateStatus(ctx, shift.ExchangeShiftID, model.ExchangeShiftApproved); err != nil {
			rollback(tx)
			s.logger.Error("更新班次状态失败", zap.Error(err))
			return nil, err
		}
		if err := txRepo.ShiftRequest.UpdateStatus(ctx, request.ShiftRequestID, model.RequestApprovedByManager); err != nil {
			rollback(tx)
			s.logger.Error("更新申请状态失败", zap.Error(err))
			return nil, err
		}
	} else {
		// 驳回：班次清除已选申请并回到 OPEN，重新进入市场
		if err := txRepo.ExchangeShift.Reopen(ctx, shift.ExchangeShiftID); err != nil {
			rollback(tx)
			s.logger.Error("重新挂牌失败", zap.Error(err))
			return nil, err
		}
		if err := txRepo.ShiftRequest.UpdateStatus(ctx, request.ShiftRequestID, model.RequestRejectedByManager); err != nil {
			rollback(tx)
			s.logger.Error("更新申请状态失败", zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	eventStatus := messaging.ApprovalStatusRejected
	if approved {
		shift.Status = model.ExchangeShiftApproved
		request.Status = model.RequestApprovedByManager
		eventStatus = messaging.ApprovalStatusApproved
	} else {
		shift.Status = model.ExchangeShiftOpen
		shift.AcceptedRequestID = nil
		request.Status = model.RequestRejectedByManager
	}

	// 审批事件两种结果都发给排班系统（通过的供执行，驳回的供审计）。
	// 发送失败只记警告：本地状态是事实源，绝不因事件回滚已提交的变更。
	event := messaging.ShiftExchangeApprovalEvent{
		ExchangeShiftID: shift.ExchangeShiftID,
		RequestID:       request.ShiftRequestID,
		ShiftID:         shift.ShiftID,
		SwapShiftID:     request.SwapShiftID,
		RequestType:     string(request.RequestType),
		PosterUserID:    shift.PosterUserID,
		RequesterUserID: request.RequesterUserID,
		Status:          eventStatus,
	}
	if err := s.gateway.Send(ctx, messaging.TopicShiftExchangeApproval, shift.ExchangeShiftID, event); err != nil {
		s.logger.Warn("发送审批事件失败（状态已提交，不回滚）",
			zap.String("exchange_shift_id", shift.ExchangeShiftID),
			zap.String("status", eventStatus),
			zap.Error(err),
		)
	}

	s.notifier.NotifyApprovalResult(ctx, shift, request, approved)

	return &dto.ApprovalDecisionResponse{
		Shift:   *toShiftResponse(shift),
		Request: *toRequestResponse(request, nil),
	}, nil
}

// ────────────────────── CancelShift ──────────────────────

func (s *marketplaceService) CancelShift(ctx context.Context, exchangeShiftID, posterID string) (*dto.ExchangeShiftResponse, error) {
	shift, err := s.getShift(ctx, exchangeShiftID)
	if err != nil {
		return nil, err
	}
	if shift.PosterUserID != posterID {
		return nil, ErrNotShiftPoster
	}
	if !shift.Status.CanAcceptRequests() {
		return nil, ErrShiftNotCancellable
	}

	if err := s.repo.ExchangeShift.UpdateStatus(ctx, exchangeShiftID, model.ExchangeShiftCancelled); err != nil {
		s.logger.Error("撤回挂牌失败", zap.String("id", exchangeShiftID), zap.Error(err))
		return nil, err
	}

	shift.Status = model.ExchangeShiftCancelled
	return toShiftResponse(shift), nil
}

// ────────────────────── HandleConfirmation ──────────────────────

// HandleConfirmation 处理排班系统的最终确认（入站消息）
// 未知申请或未知状态只记日志不报错，避免毒消息无限重投
func (s *marketplaceService) HandleConfirmation(ctx context.Context, conf *messaging.ShiftExchangeConfirmation) error {
	request, err := s.repo.ShiftRequest.GetByID(ctx, conf.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("收到未知申请的确认消息，已忽略",
				zap.String("request_id", conf.RequestID))
			return nil
		}
		s.logger.Error("查询申请失败", zap.String("request_id", conf.RequestID), zap.Error(err))
		return err
	}

	switch conf.Status {
	case messaging.ConfirmationStatusSuccess:
		if err := s.repo.ShiftRequest.UpdateStatus(ctx, request.ShiftRequestID, model.RequestCompleted); err != nil {
			s.logger.Error("更新申请状态失败", zap.Error(err))
			return err
		}
		if err := s.repo.ExchangeShift.UpdateStatus(ctx, request.ExchangeShiftID, model.ExchangeShiftCompleted); err != nil {
			s.logger.Error("更新班次状态失败", zap.Error(err))
			return err
		}
		s.logger.Info("换班执行成功",
			zap.String("exchange_shift_id", request.ExchangeShiftID),
			zap.String("request_id", request.ShiftRequestID),
		)

	case messaging.ConfirmationStatusFailed:
		// 执行失败：申请标记失败，班次回到市场重新挂牌
		if err := s.repo.ShiftRequest.UpdateStatus(ctx, request.ShiftRequestID, model.RequestProcessingFailed); err != nil {
			s.logger.Error("更新申请状态失败", zap.Error(err))
			return err
		}
		if err := s.repo.ExchangeShift.Reopen(ctx, request.ExchangeShiftID); err != nil {
			s.logger.Error("重新挂牌失败", zap.Error(err))
			return err
		}
		s.logger.Warn("换班执行失败，班次已重新挂牌",
			zap.String("exchange_shift_id", request.ExchangeShiftID),
			zap.String("request_id", request.ShiftRequestID),
			zap.String("message", conf.Message),
		)

	default:
		s.logger.Warn("收到未知确认状态，已忽略",
			zap.String("request_id", conf.RequestID),
			zap.String("status", conf.Status),
		)
	}

	return nil
}

// ────────────────────── 查询 ──────────────────────

func (s *marketplaceService) ListOpenShifts(ctx context.Context, businessUnitID string, page *dto.PageQuery) ([]dto.ExchangeShiftResponse, int64, error) {
	page.Normalize()
	shifts, total, err := s.repo.ExchangeShift.ListOpen(ctx, businessUnitID, page.Offset(), page.PageSize)
	if err != nil {
		s.logger.Error("查询挂牌班次失败", zap.Error(err))
		return nil, 0, err
	}
	return toShiftResponses(shifts), total, nil
}

func (s *marketplaceService) ListMyShifts(ctx context.Context, posterID string) ([]dto.ExchangeShiftResponse, error) {
	shifts, err := s.repo.ExchangeShift.ListByPoster(ctx, posterID)
	if err != nil {
		s.logger.Error("查询我的挂牌班次失败", zap.Error(err))
		return nil, err
	}
	return toShiftResponses(shifts), nil
}

func (s *marketplaceService) ListShiftRequests(ctx context.Context, exchangeShiftID, callerID string) ([]dto.ShiftRequestResponse, error) {
	shift, err := s.getShift(ctx, exchangeShiftID)
	if err != nil {
		return nil, err
	}
	if shift.PosterUserID != callerID {
		return nil, ErrNotShiftPoster
	}

	reqs, err := s.repo.ShiftRequest.ListByShift(ctx, exchangeShiftID)
	if err != nil {
		s.logger.Error("查询班次申请失败", zap.Error(err))
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

func (s *marketplaceService) ListMyRequests(ctx context.Context, requesterID string) ([]dto.ShiftRequestResponse, error) {
	reqs, err := s.repo.ShiftRequest.ListByRequester(ctx, requesterID)
	if err != nil {
		s.logger.Error("查询我的申请失败", zap.Error(err))
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

func (s *marketplaceService) ListIncomingRequests(ctx context.Context, posterID string) ([]dto.ShiftRequestResponse, error) {
	reqs, err := s.repo.ShiftRequest.ListForPoster(ctx, posterID)
	if err != nil {
		s.logger.Error("查询收到的申请失败", zap.Error(err))
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

func (s *marketplaceService) ListAwaitingApproval(ctx context.Context, businessUnitID string, page *dto.PageQuery) ([]dto.ExchangeShiftResponse, int64, error) {
	page.Normalize()
	shifts, total, err := s.repo.ExchangeShift.ListAwaitingApproval(ctx, businessUnitID, page.Offset(), page.PageSize)
	if err != nil {
		s.logger.Error("查询待审批班次失败", zap.Error(err))
		return nil, 0, err
	}
	return toShiftResponses(shifts), total, nil
}

// ── 内部辅助方法 ──

func (s *marketplaceService) getShift(ctx context.Context, id string) (*model.ExchangeShift, error) {
	shift, err := s.repo.ExchangeShift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询挂牌班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return shift, nil
}

func (s *marketplaceService) getRequest(ctx context.Context, id string) (*model.ShiftRequest, error) {
	request, err := s.repo.ShiftRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return request, nil
}

func rollback(tx *gorm.DB) {
	if tx != nil {
		tx.Rollback()
	}
}

func toShiftResponse(shift *model.ExchangeShift) *dto.ExchangeShiftResponse {
	return &dto.ExchangeShiftResponse{
		ID:                shift.ExchangeShiftID,
		ShiftID:           shift.ShiftID,
		PosterUserID:      shift.PosterUserID,
		PosterName:        shift.PosterName,
		BusinessUnitID:    shift.BusinessUnitID,
		Status:            string(shift.Status),
		AcceptedRequestID: shift.AcceptedRequestID,
		Position:          shift.Position,
		StartTime:         shift.StartTime.Format(time.RFC3339),
		EndTime:           shift.EndTime.Format(time.RFC3339),
		CreatedAt:         shift.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         shift.UpdatedAt.Format(time.RFC3339),
	}
}

func toShiftResponses(shifts []model.ExchangeShift) []dto.ExchangeShiftResponse {
	out := make([]dto.ExchangeShiftResponse, 0, len(shifts))
	for i := range shifts {
		out = append(out, *toShiftResponse(&shifts[i]))
	}
	return out
}

func toRequestResponse(req *model.ShiftRequest, shift *model.ExchangeShift) *dto.ShiftRequestResponse {
	resp := &dto.ShiftRequestResponse{
		ID:                req.ShiftRequestID,
		ExchangeShiftID:   req.ExchangeShiftID,
		RequesterUserID:   req.RequesterUserID,
		RequesterName:     req.RequesterName,
		RequestType:       string(req.RequestType),
		SwapShiftID:       req.SwapShiftID,
		Status:            string(req.Status),
		ExecutionPossible: req.ExecutionPossible,
		CreatedAt:         req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         req.UpdatedAt.Format(time.RFC3339),
	}
	if shift == nil {
		shift = req.ExchangeShift
	}
	if shift != nil {
		resp.ExchangeShift = toShiftResponse(shift)
	}
	return resp
}

func toRequestResponses(reqs []model.ShiftRequest) []dto.ShiftRequestResponse {
	out := make([]dto.ShiftRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, *toRequestResponse(&reqs[i], nil))
	}
	return out
}
