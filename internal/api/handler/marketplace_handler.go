package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clockwise/backend/internal/dto"
	"clockwise/backend/internal/model"
	"clockwise/backend/internal/service"
	apperrors "clockwise/backend/pkg/errors"
	"clockwise/backend/pkg/response"
)

// MarketplaceHandler 换班市场 HTTP 处理器
type MarketplaceHandler struct {
	marketSvc service.MarketplaceService
}

// NewMarketplaceHandler 创建 MarketplaceHandler
func NewMarketplaceHandler(marketSvc service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketSvc: marketSvc}
}

// PostShift 挂牌班次
// POST /api/v1/exchange-shifts
func (h *MarketplaceHandler) PostShift(c *gin.Context) {
	var req dto.PostShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
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

	shift, err := h.marketSvc.PostShift(c.Request.Context(), &req, userID, GetUserName(c), buID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.Created(c, shift)
}

// ListOpenShifts 查询本业务单元的挂牌班次
// GET /api/v1/exchange-shifts?page=0&page_size=20
func (h *MarketplaceHandler) ListOpenShifts(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 11001, "分页参数无效")
		return
	}

	buID, ok := MustGetBusinessUnitID(c)
	if !ok {
		return
	}

	list, total, err := h.marketSvc.ListOpenShifts(c.Request.Context(), buID, &page)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OKPage(c, list, total, page.Page, page.PageSize)
}

// ListMyShifts 查询我挂出的班次
// GET /api/v1/exchange-shifts/my
func (h *MarketplaceHandler) ListMyShifts(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.marketSvc.ListMyShifts(c.Request.Context(), userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CancelShift 撤回挂牌
// DELETE /api/v1/exchange-shifts/:id
func (h *MarketplaceHandler) CancelShift(c *gin.Context) {
	id := c.Param("id")
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.marketSvc.CancelShift(c.Request.Context(), id, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, shift)
}

// SubmitRequest 提交接班/换班申请
// POST /api/v1/exchange-shifts/:id/requests
func (h *MarketplaceHandler) SubmitRequest(c *gin.Context) {
	id := c.Param("id")

	var req dto.SubmitShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	request, err := h.marketSvc.SubmitRequest(c.Request.Context(), id, &req, userID, GetUserName(c))
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.Created(c, request)
}

// ListShiftRequests 查询某班次收到的申请（仅发布者）
// GET /api/v1/exchange-shifts/:id/requests
func (h *MarketplaceHandler) ListShiftRequests(c *gin.Context) {
	id := c.Param("id")
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.marketSvc.ListShiftRequests(c.Request.Context(), id, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AcceptRequest 发布者选定申请
// POST /api/v1/exchange-shifts/:id/accept
func (h *MarketplaceHandler) AcceptRequest(c *gin.Context) {
	id := c.Param("id")

	var req dto.AcceptRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.marketSvc.AcceptRequest(c.Request.Context(), id, req.RequestID, userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateShiftStatus 经理审批（按班次）
// PUT /api/v1/exchange-shifts/:id/status
func (h *MarketplaceHandler) UpdateShiftStatus(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateShiftStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	buID, ok := MustGetBusinessUnitID(c)
	if !ok {
		return
	}

	result, err := h.marketSvc.UpdateShiftStatus(c.Request.Context(), id, req.Status, buID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAwaitingApproval 查询待审批班次（经理）
// GET /api/v1/exchange-shifts/awaiting-approval
func (h *MarketplaceHandler) ListAwaitingApproval(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 11001, "分页参数无效")
		return
	}

	buID, ok := MustGetBusinessUnitID(c)
	if !ok {
		return
	}

	list, total, err := h.marketSvc.ListAwaitingApproval(c.Request.Context(), buID, &page)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OKPage(c, list, total, page.Page, page.PageSize)
}

// ApproveRequest 经理按申请批准
// POST /api/v1/shift-requests/:id/approve
func (h *MarketplaceHandler) ApproveRequest(c *gin.Context) {
	result, err := h.marketSvc.ApproveRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	response.OK(c, result)
}

// RejectRequest 经理按申请驳回
// POST /api/v1/shift-requests/:id/reject
func (h *MarketplaceHandler) RejectRequest(c *gin.Context) {
	result, err := h.marketSvc.RejectRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMyRequests 查询我提交的申请
// GET /api/v1/shift-requests/my
func (h *MarketplaceHandler) ListMyRequests(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.marketSvc.ListMyRequests(c.Request.Context(), userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListIncomingRequests 查询我挂出班次收到的申请
// GET /api/v1/shift-requests/incoming
func (h *MarketplaceHandler) ListIncomingRequests(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.marketSvc.ListIncomingRequests(c.Request.Context(), userID)
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// DownloadShiftCalendar 下载班次 ICS 日历
// GET /api/v1/exchange-shifts/:id/calendar
func (h *MarketplaceHandler) DownloadShiftCalendar(c *gin.Context) {
	content, filename, err := h.marketSvc.RenderShiftCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMarketplaceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// handleMarketplaceError 业务错误统一映射
func (h *MarketplaceHandler) handleMarketplaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 11101, "挂牌班次不存在")
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 11102, "申请不存在")
	case errors.Is(err, service.ErrShiftNotAccepting):
		response.Conflict(c, 11103, "该班次已不再接受申请")
	case errors.Is(err, service.ErrOwnShiftRequest):
		response.BadRequest(c, 11104, "不能申请自己挂出的班次")
	case errors.Is(err, service.ErrDuplicateRequest):
		response.Conflict(c, 11105, "你已申请过该班次")
	case errors.Is(err, service.ErrNotShiftPoster):
		response.Forbidden(c, 11106, "只有发布者可以执行该操作")
	case errors.Is(err, service.ErrRequestNotPending):
		response.Conflict(c, 11107, "申请已被处理")
	case errors.Is(err, service.ErrRequestNotAwaiting):
		response.Conflict(c, 11108, "申请不在待审批状态")
	case errors.Is(err, service.ErrShiftNotAwaiting):
		response.Conflict(c, 11109, "班次不在待审批状态")
	case errors.Is(err, service.ErrShiftNotCancellable):
		response.Conflict(c, 11110, "当前状态不允许撤回")
	case errors.Is(err, service.ErrApprovalStatusInvalid):
		response.BadRequest(c, 11111, "审批状态取值无效")
	case errors.Is(err, service.ErrShiftTimeInvalid):
		response.BadRequest(c, 11112, "班次结束时间必须晚于开始时间")
	case errors.Is(err, apperrors.ErrConcurrentUpdate):
		response.Conflict(c, 11114, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, model.ErrRequestTypeInvalid),
		errors.Is(err, model.ErrSwapShiftIDRequired),
		errors.Is(err, model.ErrSwapShiftIDInvalid):
		response.BadRequest(c, 11113, err.Error())
	default:
		response.InternalError(c)
	}
}
