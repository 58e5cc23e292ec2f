package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/internal/model"
)

// NotificationRecipient 通知接收方；RecipientID 为 nil 表示该类接收方的公共收件箱
type NotificationRecipient struct {
	Type string
	ID   *string
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	// ExistsUnreadForSchedule 是否存在 since 之后创建、载荷 schedule_id 匹配的未读管理员通知
	ExistsUnreadForSchedule(ctx context.Context, notificationType, scheduleID string, since time.Time) (bool, error)
	List(ctx context.Context, recipient NotificationRecipient, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, recipient NotificationRecipient) (int64, error)
	MarkRead(ctx context.Context, recipient NotificationRecipient, id string, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, recipient NotificationRecipient, at time.Time) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepo) ExistsUnreadForSchedule(ctx context.Context, notificationType, scheduleID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("type = ? AND recipient_type = ? AND is_read = ?", notificationType, model.RecipientAdmin, false).
		Where("data ->> 'schedule_id' = ?", scheduleID).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepo) scoped(ctx context.Context, recipient NotificationRecipient) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_type = ?", recipient.Type)
	if recipient.ID != nil {
		db = db.Where("recipient_id = ?", *recipient.ID)
	} else {
		db = db.Where("recipient_id IS NULL")
	}
	return db
}

func (r *notificationRepo) List(ctx context.Context, recipient NotificationRecipient, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	db := r.scoped(ctx, recipient)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipient NotificationRecipient) (int64, error) {
	var count int64
	err := r.scoped(ctx, recipient).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, recipient NotificationRecipient, id string, at time.Time) (bool, error) {
	result := r.scoped(ctx, recipient).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected > 0, result.Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipient NotificationRecipient, at time.Time) (int64, error) {
	result := r.scoped(ctx, recipient).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}
