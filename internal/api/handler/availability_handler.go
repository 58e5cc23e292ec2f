package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// AvailabilityHandler 可用时间申请 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Submit 提交可用时间申请
// POST /api/v1/availability
func (h *AvailabilityHandler) Submit(c *gin.Context) {
	var req dto.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.availabilitySvc.Submit(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMine 我的申请
// GET /api/v1/availability/my
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	list, err := h.availabilitySvc.ListMine(c.Request.Context(), employeeID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListPending 待审批申请
// GET /api/v1/availability/pending
func (h *AvailabilityHandler) ListPending(c *gin.Context) {
	list, err := h.availabilitySvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Review 审批申请
// PUT /api/v1/availability/:id/review
func (h *AvailabilityHandler) Review(c *gin.Context) {
	var req dto.ReviewAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.availabilitySvc.Review(c.Request.Context(), c.Param("id"), req.Approve, reviewerID); err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAvailabilityNotFound):
		response.NotFound(c, 17001, "可用时间申请不存在")
	case errors.Is(err, service.ErrAvailabilityNotPending):
		response.Conflict(c, 17002, "申请已处理")
	case errors.Is(err, service.ErrAvailabilityDates):
		response.BadRequest(c, 17003, "临时申请必须提供有效的起止日期")
	case errors.Is(err, service.ErrAvailabilityPastEndDate):
		response.BadRequest(c, 17004, "临时申请的结束日期不能早于今天")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13005, "结束时间必须晚于开始时间")
	default:
		response.InternalError(c)
	}
}
