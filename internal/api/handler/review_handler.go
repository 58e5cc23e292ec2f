package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// ReviewHandler 绩效评估 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// List 评估计划列表（含紧急程度）
// GET /api/v1/reviews?urgency=overdue
func (h *ReviewHandler) List(c *gin.Context) {
	var req dto.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	list, err := h.reviewSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Complete 标记评估完成
// PUT /api/v1/reviews/:id/complete
func (h *ReviewHandler) Complete(c *gin.Context) {
	var req dto.CompleteReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.reviewSvc.Complete(c.Request.Context(), c.Param("id"), callerID, req.Notes); err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		response.NotFound(c, 14001, "评估计划不存在")
	case errors.Is(err, service.ErrReviewAlreadyCompleted):
		response.Conflict(c, 14002, "评估已完成")
	default:
		response.InternalError(c)
	}
}
