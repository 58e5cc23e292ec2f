package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// EmployeeHandler 员工管理 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// List 员工列表
// GET /api/v1/employees?status=pending
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	list, total, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 员工详情
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.employeeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, emp)
}

// Approve 审批通过
// PUT /api/v1/employees/:id/approve
func (h *EmployeeHandler) Approve(c *gin.Context) {
	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.Approve(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, emp)
}

// Reject 驳回注册
// PUT /api/v1/employees/:id/reject
func (h *EmployeeHandler) Reject(c *gin.Context) {
	var req dto.RejectEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.Reject(c.Request.Context(), c.Param("id"), req.Reason, callerID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, emp)
}

// Deactivate 停用员工
// PUT /api/v1/employees/:id/deactivate
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.Deactivate(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignRole 分配角色
// PUT /api/v1/employees/:id/role
func (h *EmployeeHandler) AssignRole(c *gin.Context) {
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.AssignRole(c.Request.Context(), c.Param("id"), model.Role(req.Role), callerID); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, "员工不存在")
	case errors.Is(err, service.ErrEmployeeNotPending):
		response.Conflict(c, 12002, "员工不处于待审批状态")
	case errors.Is(err, service.ErrEmployeeNotActive):
		response.Conflict(c, 12003, "员工未激活")
	case errors.Is(err, service.ErrEmployeeSelfOperate):
		response.BadRequest(c, 12004, "不能对自己执行该操作")
	case errors.Is(err, service.ErrEmployeeInvalidRole):
		response.BadRequest(c, 12005, "无效的角色")
	default:
		response.InternalError(c)
	}
}
