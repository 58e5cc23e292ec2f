package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// ReviewDispatcher 扫描未完成的绩效评估，为逾期与即将到期的计划生成管理员提醒
//
// 去重：同类型、管理员接收、未读、载荷 schedule_id 相同且创建于 dedupWindow 内的通知
// 已存在时跳过。窗口外仍未读的旧通知不阻止再次提醒。
type ReviewDispatcher struct {
	reviews       repository.ReviewScheduleRepository
	employees     repository.EmployeeRepository
	notifications repository.NotificationRepository
	dueSoonDays   int
	dedupWindow   time.Duration
	logger        *zap.Logger
}

// NewReviewDispatcher 创建评估提醒任务
func NewReviewDispatcher(
	reviews repository.ReviewScheduleRepository,
	employees repository.EmployeeRepository,
	notifications repository.NotificationRepository,
	dueSoonDays int,
	dedupWindow time.Duration,
	logger *zap.Logger,
) *ReviewDispatcher {
	return &ReviewDispatcher{
		reviews:       reviews,
		employees:     employees,
		notifications: notifications,
		dueSoonDays:   dueSoonDays,
		dedupWindow:   dedupWindow,
		logger:        logger,
	}
}

func (j *ReviewDispatcher) Name() string { return NameReviewNotifications }

func (j *ReviewDispatcher) Description() string {
	return "Notify admins about overdue and upcoming performance reviews"
}

func (j *ReviewDispatcher) Run(ctx context.Context, now time.Time, out io.Writer) (Result, error) {
	fmt.Fprintln(out, "Checking performance review schedules...")

	schedules, err := j.reviews.ListIncomplete(ctx, "")
	if err != nil {
		return Result{Status: StatusFailure}, fmt.Errorf("查询未完成评估失败: %w", err)
	}

	since := now.Add(-j.dedupWindow)
	created, skipped := 0, 0
	for i := range schedules {
		sch := &schedules[i]
		urgency := sch.UrgencyAt(now, j.dueSoonDays)
		if !urgency.IsUrgent() {
			continue
		}

		employee, err := j.employees.GetByID(ctx, sch.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return Result{Affected: created, Status: StatusFailure}, fmt.Errorf("查询员工失败: %w", err)
		}

		notifType := notificationTypeFor(urgency)
		exists, err := j.notifications.ExistsUnreadForSchedule(ctx, notifType, sch.ScheduleID, since)
		if err != nil {
			return Result{Affected: created, Status: StatusFailure}, fmt.Errorf("查询已有提醒失败: %w", err)
		}
		if exists {
			skipped++
			continue
		}

		notification, err := buildReviewNotification(sch, employee, urgency, now)
		if err != nil {
			return Result{Affected: created, Status: StatusFailure}, err
		}
		if err := j.notifications.Create(ctx, notification); err != nil {
			return Result{Affected: created, Status: StatusFailure}, fmt.Errorf("写入提醒失败: %w", err)
		}
		created++
		fmt.Fprintf(out, "  %s\n", notification.Message)
	}

	fmt.Fprintf(out, "Created %d review notifications (%d already notified).\n", created, skipped)
	return Result{Affected: created, Status: StatusSuccess}, nil
}

func notificationTypeFor(u model.Urgency) string {
	if u.Status == model.UrgencyOverdue {
		return model.NotificationReviewOverdue
	}
	return model.NotificationReviewDueSoon
}

func buildReviewNotification(sch *model.ReviewSchedule, employee *model.Employee, u model.Urgency, now time.Time) (*model.Notification, error) {
	name := employee.DisplayName()
	label := model.ReviewTypeLabel(sch.ReviewType)
	days := u.DaysOverdue
	if days < 0 {
		days = -days
	}

	n := &model.Notification{
		RecipientType: model.RecipientAdmin,
		BaseModel:     model.BaseModel{CreatedAt: now, UpdatedAt: now},
	}
	if u.Status == model.UrgencyOverdue {
		n.Type = model.NotificationReviewOverdue
		n.Priority = model.PriorityHigh
		n.Title = "Performance Review Overdue"
		n.Message = fmt.Sprintf("%s for %s is overdue by %d days", label, name, days)
	} else {
		n.Type = model.NotificationReviewDueSoon
		n.Priority = model.PriorityMedium
		n.Title = "Performance Review Due Soon"
		n.Message = fmt.Sprintf("%s for %s is due in %d days", label, name, days)
	}

	err := n.SetData(model.ReviewNotificationData{
		ScheduleID:      sch.ScheduleID,
		EmployeeID:      sch.EmployeeID,
		EmployeeName:    name,
		ReviewType:      sch.ReviewType,
		ReviewTypeLabel: label,
		ScheduledDate:   sch.ScheduledDate.Format(model.DateLayout),
		DaysOverdue:     u.DaysOverdue,
		UrgencyStatus:   u.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化提醒载荷失败: %w", err)
	}
	return n, nil
}
