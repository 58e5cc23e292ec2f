package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/repository"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// NotificationHandler 通知 HTTP 处理器
// 管理员收件箱与个人收件箱共用同一组处理函数，由 inboxFor 区分
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// AdminInbox 管理员收件箱路由使用的收件箱解析器
func AdminInbox(_ *gin.Context) (repository.NotificationRecipient, bool) {
	return service.AdminInbox(), true
}

// MyInbox 当前员工收件箱路由使用的收件箱解析器
func MyInbox(c *gin.Context) (repository.NotificationRecipient, bool) {
	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return repository.NotificationRecipient{}, false
	}
	return service.EmployeeInbox(employeeID), true
}

// InboxResolver 按路由决定收件箱
type InboxResolver func(c *gin.Context) (repository.NotificationRecipient, bool)

// List 通知列表
// GET /api/v1/admin/notifications | /api/v1/notifications
func (h *NotificationHandler) List(inboxFor InboxResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.NotificationListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			response.BadRequest(c, response.CodeBadRequest, "参数校验失败")
			return
		}

		inbox, ok := inboxFor(c)
		if !ok {
			return
		}

		list, total, err := h.notificationSvc.List(c.Request.Context(), inbox, &req)
		if err != nil {
			response.InternalError(c)
			return
		}

		response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
	}
}

// UnreadCount 未读数
// GET .../notifications/unread-count
func (h *NotificationHandler) UnreadCount(inboxFor InboxResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		inbox, ok := inboxFor(c)
		if !ok {
			return
		}

		result, err := h.notificationSvc.UnreadCount(c.Request.Context(), inbox)
		if err != nil {
			response.InternalError(c)
			return
		}

		response.OK(c, result)
	}
}

// MarkRead 标记单条已读
// PUT .../notifications/:id/read
func (h *NotificationHandler) MarkRead(inboxFor InboxResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		inbox, ok := inboxFor(c)
		if !ok {
			return
		}

		if err := h.notificationSvc.MarkRead(c.Request.Context(), inbox, c.Param("id")); err != nil {
			h.handleNotificationError(c, err)
			return
		}

		response.OK(c, nil)
	}
}

// MarkAllRead 全部标记已读
// PUT .../notifications/read-all
func (h *NotificationHandler) MarkAllRead(inboxFor InboxResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		inbox, ok := inboxFor(c)
		if !ok {
			return
		}

		n, err := h.notificationSvc.MarkAllRead(c.Request.Context(), inbox)
		if err != nil {
			response.InternalError(c)
			return
		}

		response.OK(c, gin.H{"updated": n})
	}
}

func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 15001, "通知不存在")
	default:
		response.InternalError(c)
	}
}
