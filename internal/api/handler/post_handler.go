package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clockwise/backend/internal/dto"
	"clockwise/backend/internal/service"
	"clockwise/backend/pkg/response"
)

// PostHandler 公告模块 HTTP 处理器
type PostHandler struct {
	postSvc service.PostService
}

// NewPostHandler 创建 PostHandler
func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// CreatePost 发布公告（经理/管理员）
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	buID, ok := MustGetBusinessUnitID(c)
	if !ok {
		return
	}

	post, err := h.postSvc.CreatePost(c.Request.Context(), &req, userID, GetUserName(c), buID)
	if err != nil {
		h.handlePostError(c, err)
		return
	}

	response.Created(c, post)
}

// GetPost 查询公告详情
// GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postSvc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePostError(c, err)
		return
	}
	response.OK(c, post)
}

// ListPosts 查询本业务单元公告列表
// GET /api/v1/posts?page=0&page_size=20
func (h *PostHandler) ListPosts(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 12001, "分页参数无效")
		return
	}

	buID, ok := MustGetBusinessUnitID(c)
	if !ok {
		return
	}

	list, total, err := h.postSvc.ListPosts(c.Request.Context(), buID, &page)
	if err != nil {
		h.handlePostError(c, err)
		return
	}

	response.OKPage(c, list, total, page.Page, page.PageSize)
}

func (h *PostHandler) handlePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, 12101, "公告不存在")
	case errors.Is(err, service.ErrPostAudienceInvalid):
		response.BadRequest(c, 12102, "目标受众取值无效")
	default:
		response.InternalError(c)
	}
}
