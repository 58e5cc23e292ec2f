package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	pkgerrors "staffhub/pkg/errors"
)

// ── 绩效评估模块业务错误 ──

var (
	ErrReviewNotFound         = errors.New("评估计划不存在")
	ErrReviewAlreadyCompleted = errors.New("评估已完成")
)

// ReviewService 绩效评估业务接口
type ReviewService interface {
	List(ctx context.Context, req *dto.ReviewListRequest) ([]dto.ReviewScheduleResponse, error)
	Complete(ctx context.Context, id, completedBy, notes string) error
	// EnsureDefaultSchedules 员工尚无评估计划时，按默认偏移生成；返回新建条数
	EnsureDefaultSchedules(ctx context.Context, employeeID string, startDate string) (int, error)
}

type reviewService struct {
	repo        *repository.Repository
	dueSoonDays int
	loc         *time.Location
	logger      *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
// loc 与周期任务一致，保证列表的紧急程度与提醒通知按同一自然日计算
func NewReviewService(repo *repository.Repository, dueSoonDays int, loc *time.Location, logger *zap.Logger) ReviewService {
	if loc == nil {
		loc = time.UTC
	}
	return &reviewService{repo: repo, dueSoonDays: dueSoonDays, loc: loc, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *reviewService) List(ctx context.Context, req *dto.ReviewListRequest) ([]dto.ReviewScheduleResponse, error) {
	var (
		schedules []model.ReviewSchedule
		err       error
	)
	if req.IncludeCompleted && req.EmployeeID != "" {
		schedules, err = s.repo.Review.ListByEmployee(ctx, req.EmployeeID)
	} else {
		schedules, err = s.repo.Review.ListIncomplete(ctx, req.EmployeeID)
	}
	if err != nil {
		s.logger.Error("查询评估计划失败", zap.Error(err))
		return nil, err
	}

	today := nowFunc().In(s.loc)
	names := make(map[string]string)
	result := make([]dto.ReviewScheduleResponse, 0, len(schedules))
	for i := range schedules {
		sch := &schedules[i]
		urgency := sch.UrgencyAt(today, s.dueSoonDays)
		if req.Urgency != "" && urgency.Status != req.Urgency {
			continue
		}

		name, ok := names[sch.EmployeeID]
		if !ok {
			if emp, err := s.repo.Employee.GetByID(ctx, sch.EmployeeID); err == nil {
				name = emp.DisplayName()
			}
			names[sch.EmployeeID] = name
		}

		result = append(result, dto.ReviewScheduleResponse{
			ID:              sch.ScheduleID,
			EmployeeID:      sch.EmployeeID,
			EmployeeName:    name,
			ReviewType:      sch.ReviewType,
			ReviewTypeLabel: model.ReviewTypeLabel(sch.ReviewType),
			ScheduledDate:   sch.ScheduledDate.Format(model.DateLayout),
			Completed:       sch.Completed,
			UrgencyStatus:   urgency.Status,
			DaysOverdue:     urgency.DaysOverdue,
		})
	}
	return result, nil
}

// ────────────────────── Complete ──────────────────────

func (s *reviewService) Complete(ctx context.Context, id, completedBy, notes string) error {
	schedule, err := s.repo.Review.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if schedule.Completed {
		return ErrReviewAlreadyCompleted
	}

	if err := s.repo.Review.MarkCompleted(ctx, id, completedBy, notes, nowFunc()); err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidState) {
			return ErrReviewAlreadyCompleted
		}
		s.logger.Error("完成评估失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("评估已完成", zap.String("id", id), zap.String("by", completedBy))
	return nil
}

// ────────────────────── EnsureDefaultSchedules ──────────────────────

func (s *reviewService) EnsureDefaultSchedules(ctx context.Context, employeeID string, startDate string) (int, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return 0, ErrInvalidDate
	}
	return ensureDefaultReviews(ctx, s.repo, employeeID, start)
}

// ensureDefaultReviews 供排班模块在员工首次完成班次时复用
func ensureDefaultReviews(ctx context.Context, repo *repository.Repository, employeeID string, start time.Time) (int, error) {
	count, err := repo.Review.CountByEmployee(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	start = model.DateOnly(start)
	schedules := make([]model.ReviewSchedule, 0, len(model.DefaultReviewOffsets))
	for _, offset := range model.DefaultReviewOffsets {
		schedules = append(schedules, model.ReviewSchedule{
			EmployeeID:    employeeID,
			ReviewType:    offset.ReviewType,
			ScheduledDate: start.AddDate(0, 0, offset.Days),
		})
	}
	if err := repo.Review.BatchCreate(ctx, schedules); err != nil {
		return 0, err
	}
	return len(schedules), nil
}
