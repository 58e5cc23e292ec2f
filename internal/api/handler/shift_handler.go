package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	apperrors "staffhub/pkg/errors"
	"staffhub/pkg/response"
)

// ShiftHandler 班次与开放班次 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// ── 班次 ──

// Create 手动排班
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// List 按日期范围查询班次
// GET /api/v1/shifts?from=2024-01-01&to=2024-01-31
func (h *ShiftHandler) List(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	list, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListMine 我的班次
// GET /api/v1/shifts/my?from=...&to=...
func (h *ShiftHandler) ListMine(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	list, err := h.shiftSvc.ListMine(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Cancel 取消班次
// PUT /api/v1/shifts/:id/cancel
func (h *ShiftHandler) Cancel(c *gin.Context) {
	if err := h.shiftSvc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// Complete 完成班次
// PUT /api/v1/shifts/:id/complete
func (h *ShiftHandler) Complete(c *gin.Context) {
	if err := h.shiftSvc.Complete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 开放班次 ──

// CreateOpenShift 发布开放班次
// POST /api/v1/open-shifts
func (h *ShiftHandler) CreateOpenShift(c *gin.Context) {
	var req dto.CreateOpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	open, err := h.shiftSvc.CreateOpenShift(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, open)
}

// ListOpenShifts 可认领的开放班次
// GET /api/v1/open-shifts
func (h *ShiftHandler) ListOpenShifts(c *gin.Context) {
	list, err := h.shiftSvc.ListOpenShifts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ClaimOpenShift 认领开放班次
// POST /api/v1/open-shifts/:id/claim
func (h *ShiftHandler) ClaimOpenShift(c *gin.Context) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.ClaimOpenShift(c.Request.Context(), c.Param("id"), employeeID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// CancelOpenShift 撤回开放班次
// PUT /api/v1/open-shifts/:id/cancel
func (h *ShiftHandler) CancelOpenShift(c *gin.Context) {
	if err := h.shiftSvc.CancelOpenShift(c.Request.Context(), c.Param("id")); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 13001, "班次不存在")
	case errors.Is(err, service.ErrShiftNotActive):
		response.Conflict(c, 13002, "班次不处于进行中状态")
	case errors.Is(err, service.ErrOpenShiftNotFound):
		response.NotFound(c, 13003, "开放班次不存在")
	case errors.Is(err, service.ErrOpenShiftUnavailable), errors.Is(err, apperrors.ErrInvalidState):
		response.Conflict(c, 13004, "开放班次已被认领或已取消")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13005, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13006, "日期格式错误")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 13007, "日期范围无效")
	case errors.Is(err, service.ErrShiftAssigneeInactive):
		response.BadRequest(c, 13008, "排班员工不存在或未激活")
	default:
		response.InternalError(c)
	}
}
