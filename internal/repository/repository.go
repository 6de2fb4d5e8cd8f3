package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	ExchangeShift ExchangeShiftRepository
	ShiftRequest  ShiftRequestRepository
	Notification  NotificationRepository
	Post          PostRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		ExchangeShift: NewExchangeShiftRepo(db),
		ShiftRequest:  NewShiftRequestRepo(db),
		Notification:  NewNotificationRepo(db),
		Post:          NewPostRepo(db),
	}
}

// BeginTx 开启事务
// 单元测试中 db 为 nil（mock 仓储），此时返回 nil 事务，调用方按 nil 判定跳过提交/回滚
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		db:            tx,
		ExchangeShift: NewExchangeShiftRepo(tx),
		ShiftRequest:  NewShiftRequestRepo(tx),
		Notification:  NewNotificationRepo(tx),
		Post:          NewPostRepo(tx),
	}
}
