package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// CustomerHandler 顾客与积分 HTTP 处理器
type CustomerHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHandler 创建 CustomerHandler
func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

// Create 登记顾客
// POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	customer, err := h.customerSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.Created(c, customer)
}

// Get 顾客详情
// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, customer)
}

// List 顾客列表
// GET /api/v1/customers?keyword=&tier=
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.CustomerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	list, total, err := h.customerSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// EarnPoints 累计积分
// POST /api/v1/customers/:id/points/earn
func (h *CustomerHandler) EarnPoints(c *gin.Context) {
	h.applyPoints(c, h.customerSvc.EarnPoints)
}

// RedeemPoints 兑换积分
// POST /api/v1/customers/:id/points/redeem
func (h *CustomerHandler) RedeemPoints(c *gin.Context) {
	h.applyPoints(c, h.customerSvc.RedeemPoints)
}

// ListTransactions 积分流水
// GET /api/v1/customers/:id/transactions
func (h *CustomerHandler) ListTransactions(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	list, total, err := h.customerSvc.ListTransactions(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

type pointsFunc func(ctx context.Context, id string, req *dto.PointsRequest, employeeID string) (*dto.CustomerResponse, error)

func (h *CustomerHandler) applyPoints(c *gin.Context, apply pointsFunc) {
	var req dto.PointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	customer, err := apply(c.Request.Context(), c.Param("id"), &req, employeeID)
	if err != nil {
		h.handleCustomerError(c, err)
		return
	}

	response.OK(c, customer)
}

func (h *CustomerHandler) handleCustomerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		response.NotFound(c, 18001, "顾客不存在")
	case errors.Is(err, service.ErrCustomerPhoneExists):
		response.Conflict(c, 18002, "该手机号已登记")
	case errors.Is(err, service.ErrInsufficientPoints):
		response.BadRequest(c, 18003, "积分余额不足")
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.Conflict(c, 18004, "数据已被其他操作修改，请重试")
	default:
		response.InternalError(c)
	}
}
