package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clockwise/backend/internal/dto"
	"clockwise/backend/internal/model"
	"clockwise/backend/internal/repository"
)

// ── 公告模块业务错误 ──

var (
	ErrPostNotFound        = errors.New("公告不存在")
	ErrPostAudienceInvalid = errors.New("目标受众取值无效")
)

// PostService 业务单元公告接口
type PostService interface {
	CreatePost(ctx context.Context, req *dto.CreatePostRequest, authorID, authorName, businessUnitID string) (*dto.PostResponse, error)
	GetPost(ctx context.Context, postID string) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, businessUnitID string, page *dto.PageQuery) ([]dto.PostResponse, int64, error)
}

type postService struct {
	repo     *repository.Repository
	notifier *NotificationCoordinator
	logger   *zap.Logger
}

// NewPostService 创建 PostService 实例
func NewPostService(repo *repository.Repository, notifier *NotificationCoordinator, logger *zap.Logger) PostService {
	return &postService{repo: repo, notifier: notifier, logger: logger}
}

func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest, authorID, authorName, businessUnitID string) (*dto.PostResponse, error) {
	audience := model.AudienceAllEmployees
	if req.TargetAudience != "" {
		audience = model.TargetAudience(req.TargetAudience)
		if !audience.Valid() {
			return nil, ErrPostAudienceInvalid
		}
	}

	post := &model.MarketplacePost{
		BusinessUnitID: businessUnitID,
		AuthorUserID:   authorID,
		AuthorName:     authorName,
		Title:          req.Title,
		Content:        req.Content,
		TargetAudience: audience,
	}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}

	s.notifier.NotifyNewPost(ctx, post)

	return toPostResponse(post), nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*dto.PostResponse, error) {
	post, err := s.repo.Post.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("查询公告失败", zap.String("id", postID), zap.Error(err))
		return nil, err
	}
	return toPostResponse(post), nil
}

func (s *postService) ListPosts(ctx context.Context, businessUnitID string, page *dto.PageQuery) ([]dto.PostResponse, int64, error) {
	page.Normalize()
	posts, total, err := s.repo.Post.ListByBusinessUnit(ctx, businessUnitID, page.Offset(), page.PageSize)
	if err != nil {
		s.logger.Error("查询公告列表失败", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, *toPostResponse(&posts[i]))
	}
	return out, total, nil
}

func toPostResponse(post *model.MarketplacePost) *dto.PostResponse {
	return &dto.PostResponse{
		ID:             post.PostID,
		BusinessUnitID: post.BusinessUnitID,
		AuthorUserID:   post.AuthorUserID,
		AuthorName:     post.AuthorName,
		Title:          post.Title,
		Content:        post.Content,
		TargetAudience: string(post.TargetAudience),
		CreatedAt:      post.CreatedAt.Format(time.RFC3339),
	}
}
