package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// ErrNotificationNotFound 通知不存在或不属于当前收件箱
var ErrNotificationNotFound = errors.New("通知不存在")

// AdminInbox 管理员公共收件箱
func AdminInbox() repository.NotificationRecipient {
	return repository.NotificationRecipient{Type: model.RecipientAdmin}
}

// EmployeeInbox 员工个人收件箱
func EmployeeInbox(employeeID string) repository.NotificationRecipient {
	return repository.NotificationRecipient{Type: model.RecipientEmployee, ID: &employeeID}
}

// NotificationService 通知业务接口
type NotificationService interface {
	List(ctx context.Context, inbox repository.NotificationRecipient, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, inbox repository.NotificationRecipient) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, inbox repository.NotificationRecipient, id string) error
	MarkAllRead(ctx context.Context, inbox repository.NotificationRecipient) (int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, inbox repository.NotificationRecipient, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.List(ctx, inbox, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("recipient_type", inbox.Type), zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, toNotificationResponse(&notifications[i]))
	}
	return result, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, inbox repository.NotificationRecipient) (*dto.UnreadCountResponse, error) {
	count, err := s.repo.Notification.CountUnread(ctx, inbox)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, inbox repository.NotificationRecipient, id string) error {
	ok, err := s.repo.Notification.MarkRead(ctx, inbox, id, nowFunc())
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, inbox repository.NotificationRecipient) (int64, error) {
	n, err := s.repo.Notification.MarkAllRead(ctx, inbox, nowFunc())
	if err != nil {
		s.logger.Error("批量标记已读失败", zap.String("recipient_type", inbox.Type), zap.Error(err))
		return 0, err
	}
	return n, nil
}
