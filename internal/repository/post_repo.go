package repository

import (
	"context"

	"gorm.io/gorm"

	"clockwise/backend/internal/model"
)

// PostRepository 公告数据访问接口
type PostRepository interface {
	Create(ctx context.Context, post *model.MarketplacePost) error
	GetByID(ctx context.Context, id string) (*model.MarketplacePost, error)
	ListByBusinessUnit(ctx context.Context, businessUnitID string, offset, limit int) ([]model.MarketplacePost, int64, error)
}

// postRepo PostRepository 的 GORM 实现
type postRepo struct {
	db *gorm.DB
}

// NewPostRepo 创建 PostRepository 实例
func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *model.MarketplacePost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.MarketplacePost, error) {
	var post model.MarketplacePost
	err := r.db.WithContext(ctx).
		Where("post_id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) ListByBusinessUnit(ctx context.Context, businessUnitID string, offset, limit int) ([]model.MarketplacePost, int64, error) {
	var posts []model.MarketplacePost
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.MarketplacePost{}).
		Where("business_unit_id = ?", businessUnitID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
