package repository

import (
	"context"

	"gorm.io/gorm"

	"clockwise/backend/internal/model"
)

// ShiftRequestRepository 接班/换班申请数据访问接口
type ShiftRequestRepository interface {
	Create(ctx context.Context, req *model.ShiftRequest) error
	GetByID(ctx context.Context, id string) (*model.ShiftRequest, error)
	GetByShiftAndRequester(ctx context.Context, exchangeShiftID, requesterID string) (*model.ShiftRequest, error)
	ListByShift(ctx context.Context, exchangeShiftID string) ([]model.ShiftRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]model.ShiftRequest, error)
	// ListForPoster 查询打到"我挂牌的班次"上的所有申请（联表）
	ListForPoster(ctx context.Context, posterID string) ([]model.ShiftRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.ShiftRequestStatus) error
	SetExecutionPossible(ctx context.Context, id string, possible bool) error
	// DeclineOtherPending 将同一挂牌班次上除胜出者外的全部 PENDING 申请置为 DECLINED_BY_POSTER。
	// 幂等：重复执行影响零行。
	DeclineOtherPending(ctx context.Context, exchangeShiftID, winnerID string) error
}

// shiftRequestRepo ShiftRequestRepository 的 GORM 实现
type shiftRequestRepo struct {
	db *gorm.DB
}

// NewShiftRequestRepo 创建 ShiftRequestRepository 实例
func NewShiftRequestRepo(db *gorm.DB) ShiftRequestRepository {
	return &shiftRequestRepo{db: db}
}

func (r *shiftRequestRepo) Create(ctx context.Context, req *model.ShiftRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *shiftRequestRepo) GetByID(ctx context.Context, id string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	err := r.db.WithContext(ctx).
		Where("shift_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepo) GetByShiftAndRequester(ctx context.Context, exchangeShiftID, requesterID string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	err := r.db.WithContext(ctx).
		Where("exchange_shift_id = ? AND requester_user_id = ?", exchangeShiftID, requesterID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepo) ListByShift(ctx context.Context, exchangeShiftID string) ([]model.ShiftRequest, error) {
	var reqs []model.ShiftRequest
	err := r.db.WithContext(ctx).
		Where("exchange_shift_id = ?", exchangeShiftID).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *shiftRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]model.ShiftRequest, error) {
	var reqs []model.ShiftRequest
	err := r.db.WithContext(ctx).
		Preload("ExchangeShift").
		Where("requester_user_id = ?", requesterID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *shiftRequestRepo) ListForPoster(ctx context.Context, posterID string) ([]model.ShiftRequest, error) {
	var reqs []model.ShiftRequest
	err := r.db.WithContext(ctx).
		Preload("ExchangeShift").
		Joins("JOIN exchange_shifts ON exchange_shifts.exchange_shift_id = shift_requests.exchange_shift_id").
		Where("exchange_shifts.poster_user_id = ?", posterID).
		Order("shift_requests.created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *shiftRequestRepo) UpdateStatus(ctx context.Context, id string, status model.ShiftRequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.ShiftRequest{}).
		Where("shift_request_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *shiftRequestRepo) SetExecutionPossible(ctx context.Context, id string, possible bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ShiftRequest{}).
		Where("shift_request_id = ?", id).
		Updates(map[string]interface{}{
			"execution_possible": possible,
			"updated_at":         gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *shiftRequestRepo) DeclineOtherPending(ctx context.Context, exchangeShiftID, winnerID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ShiftRequest{}).
		Where("exchange_shift_id = ? AND shift_request_id <> ? AND status = ?",
			exchangeShiftID, winnerID, model.RequestPending).
		Updates(map[string]interface{}{
			"status":     model.RequestDeclinedByPoster,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}
