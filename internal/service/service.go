package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/internal/repository"
	"staffhub/pkg/jwt"
	"staffhub/pkg/mail"
)

// nowFunc 当前时间来源，测试中可替换
var nowFunc = time.Now

// TokenBlacklist Token 黑名单存储（由 Redis 实现，可为 nil 表示不可用）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Employee     EmployeeService
	Shift        ShiftService
	Review       ReviewService
	Notification NotificationService
	Availability AvailabilityService
	Customer     CustomerService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	mailer mail.Sender,
	logger *zap.Logger,
) *Service {
	notifier := newNotifier(repo, mailer, cfg.Mail.AdminAddress, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, blacklist, notifier, logger),
		Employee:     NewEmployeeService(repo, notifier, logger),
		Shift:        NewShiftService(repo, logger),
		Review:       NewReviewService(repo, cfg.Jobs.ReviewDueSoonDays, cfg.Jobs.Location(), logger),
		Notification: NewNotificationService(repo, logger),
		Availability: NewAvailabilityService(repo, notifier, logger),
		Customer:     NewCustomerService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
