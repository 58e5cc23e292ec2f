package service

import (
	"context"

	"go.uber.org/zap"

	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/mail"
)

// notifier 业务事件通知：写入站内通知，并按需发送邮件
// 通知失败只记录日志，不影响主流程
type notifier struct {
	repo       *repository.Repository
	mailer     mail.Sender
	adminEmail string
	logger     *zap.Logger
}

func newNotifier(repo *repository.Repository, mailer mail.Sender, adminEmail string, logger *zap.Logger) *notifier {
	return &notifier{repo: repo, mailer: mailer, adminEmail: adminEmail, logger: logger}
}

// notifyAdmins 写入管理员公共收件箱，并抄送管理员邮箱
func (n *notifier) notifyAdmins(ctx context.Context, notifType, title, message, priority string, data interface{}) {
	if n == nil {
		return
	}
	notification := &model.Notification{
		Type:          notifType,
		Title:         title,
		Message:       message,
		RecipientType: model.RecipientAdmin,
		Priority:      priority,
	}
	n.create(ctx, notification, data)

	if n.mailer != nil && n.adminEmail != "" {
		if err := n.mailer.Send(ctx, n.adminEmail, title, message); err != nil {
			n.logger.Warn("发送管理员邮件失败", zap.String("type", notifType), zap.Error(err))
		}
	}
}

// notifyEmployee 写入员工个人通知，email 非空时同时发送邮件
func (n *notifier) notifyEmployee(ctx context.Context, employeeID, email, notifType, title, message string, data interface{}) {
	if n == nil {
		return
	}
	notification := &model.Notification{
		Type:          notifType,
		Title:         title,
		Message:       message,
		RecipientType: model.RecipientEmployee,
		RecipientID:   &employeeID,
		Priority:      model.PriorityMedium,
	}
	n.create(ctx, notification, data)

	if n.mailer != nil && email != "" {
		if err := n.mailer.Send(ctx, email, title, message); err != nil {
			n.logger.Warn("发送员工邮件失败", zap.String("employee_id", employeeID), zap.Error(err))
		}
	}
}

func (n *notifier) create(ctx context.Context, notification *model.Notification, data interface{}) {
	if data != nil {
		if err := notification.SetData(data); err != nil {
			n.logger.Warn("序列化通知载荷失败", zap.String("type", notification.Type), zap.Error(err))
		}
	}
	if err := n.repo.Notification.Create(ctx, notification); err != nil {
		n.logger.Warn("写入通知失败", zap.String("type", notification.Type), zap.Error(err))
	}
}
