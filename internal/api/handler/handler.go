package handler

import (
	"staffhub/internal/job"
	"staffhub/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Employee     *EmployeeHandler
	Shift        *ShiftHandler
	Review       *ReviewHandler
	Notification *NotificationHandler
	Availability *AvailabilityHandler
	Customer     *CustomerHandler
	Export       *ExportHandler
	Job          *JobHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, runner JobRunner) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Employee:     NewEmployeeHandler(svc.Employee),
		Shift:        NewShiftHandler(svc.Shift),
		Review:       NewReviewHandler(svc.Review),
		Notification: NewNotificationHandler(svc.Notification),
		Availability: NewAvailabilityHandler(svc.Availability),
		Customer:     NewCustomerHandler(svc.Customer),
		Export:       NewExportHandler(svc.Export),
		Job:          NewJobHandler(runner),
	}
}

var _ JobRunner = (*job.Runner)(nil)
