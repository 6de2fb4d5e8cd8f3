package repository

import (
	"context"

	"gorm.io/gorm"

	"clockwise/backend/internal/model"
)

// ExchangeShiftRepository 挂牌班次数据访问接口
type ExchangeShiftRepository interface {
	Create(ctx context.Context, shift *model.ExchangeShift) error
	GetByID(ctx context.Context, id string) (*model.ExchangeShift, error)
	GetByIDInBusinessUnit(ctx context.Context, id, businessUnitID string) (*model.ExchangeShift, error)
	GetByShiftAndPoster(ctx context.Context, shiftID, posterID string) (*model.ExchangeShift, error)
	ListOpen(ctx context.Context, businessUnitID string, offset, limit int) ([]model.ExchangeShift, int64, error)
	ListByPoster(ctx context.Context, posterID string) ([]model.ExchangeShift, error)
	ListAwaitingApproval(ctx context.Context, businessUnitID string, offset, limit int) ([]model.ExchangeShift, int64, error)
	ListSettled(ctx context.Context, businessUnitID string) ([]model.ExchangeShift, error)
	// MarkAwaitingApproval 条件更新：仅当状态仍可接受申请时选定申请并进入待审批。
	// 返回 false 表示并发竞争失败（状态已被抢先变更），零行受影响。
	MarkAwaitingApproval(ctx context.Context, id, requestID string) (bool, error)
	// Reopen 清除已选申请并回到 OPEN（经理驳回 / 排班系统确认失败）
	Reopen(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status model.ExchangeShiftStatus) error
}

// exchangeShiftRepo ExchangeShiftRepository 的 GORM 实现
type exchangeShiftRepo struct {
	db *gorm.DB
}

// NewExchangeShiftRepo 创建 ExchangeShiftRepository 实例
func NewExchangeShiftRepo(db *gorm.DB) ExchangeShiftRepository {
	return &exchangeShiftRepo{db: db}
}

func (r *exchangeShiftRepo) Create(ctx context.Context, shift *model.ExchangeShift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *exchangeShiftRepo) GetByID(ctx context.Context, id string) (*model.ExchangeShift, error) {
	var shift model.ExchangeShift
	err := r.db.WithContext(ctx).
		Where("exchange_shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *exchangeShiftRepo) GetByIDInBusinessUnit(ctx context.Context, id, businessUnitID string) (*model.ExchangeShift, error) {
	var shift model.ExchangeShift
	err := r.db.WithContext(ctx).
		Where("exchange_shift_id = ? AND business_unit_id = ?", id, businessUnitID).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *exchangeShiftRepo) GetByShiftAndPoster(ctx context.Context, shiftID, posterID string) (*model.ExchangeShift, error) {
	var shift model.ExchangeShift
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND poster_user_id = ?", shiftID, posterID).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *exchangeShiftRepo) ListOpen(ctx context.Context, businessUnitID string, offset, limit int) ([]model.ExchangeShift, int64, error) {
	return r.listByStatus(ctx, businessUnitID,
		[]model.ExchangeShiftStatus{model.ExchangeShiftOpen, model.ExchangeShiftPendingSelection},
		offset, limit)
}

func (r *exchangeShiftRepo) ListByPoster(ctx context.Context, posterID string) ([]model.ExchangeShift, error) {
	var shifts []model.ExchangeShift
	err := r.db.WithContext(ctx).
		Where("poster_user_id = ?", posterID).
		Order("created_at DESC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *exchangeShiftRepo) ListAwaitingApproval(ctx context.Context, businessUnitID string, offset, limit int) ([]model.ExchangeShift, int64, error) {
	return r.listByStatus(ctx, businessUnitID,
		[]model.ExchangeShiftStatus{model.ExchangeShiftAwaitingApproval},
		offset, limit)
}

func (r *exchangeShiftRepo) ListSettled(ctx context.Context, businessUnitID string) ([]model.ExchangeShift, error) {
	var shifts []model.ExchangeShift
	err := r.db.WithContext(ctx).
		Where("business_unit_id = ? AND status IN ?", businessUnitID, []model.ExchangeShiftStatus{
			model.ExchangeShiftApproved,
			model.ExchangeShiftRejected,
			model.ExchangeShiftCancelled,
			model.ExchangeShiftCompleted,
		}).
		Order("updated_at DESC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *exchangeShiftRepo) MarkAwaitingApproval(ctx context.Context, id, requestID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ExchangeShift{}).
		Where("exchange_shift_id = ? AND status IN ?", id, []model.ExchangeShiftStatus{
			model.ExchangeShiftOpen, model.ExchangeShiftPendingSelection,
		}).
		Updates(map[string]interface{}{
			"status":              model.ExchangeShiftAwaitingApproval,
			"accepted_request_id": requestID,
			"updated_at":          gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *exchangeShiftRepo) Reopen(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.ExchangeShift{}).
		Where("exchange_shift_id = ?", id).
		Updates(map[string]interface{}{
			"status":              model.ExchangeShiftOpen,
			"accepted_request_id": nil,
			"updated_at":          gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *exchangeShiftRepo) UpdateStatus(ctx context.Context, id string, status model.ExchangeShiftStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.ExchangeShift{}).
		Where("exchange_shift_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *exchangeShiftRepo) listByStatus(ctx context.Context, businessUnitID string, statuses []model.ExchangeShiftStatus, offset, limit int) ([]model.ExchangeShift, int64, error) {
	var shifts []model.ExchangeShift
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.ExchangeShift{}).
		Where("business_unit_id = ? AND status IN ?", businessUnitID, statuses)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&shifts).Error; err != nil {
		return nil, 0, err
	}

	return shifts, total, nil
}
