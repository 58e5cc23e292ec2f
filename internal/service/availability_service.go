package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	pkgerrors "staffhub/pkg/errors"
)

// ── 可用时间模块业务错误 ──

var (
	ErrAvailabilityNotFound    = errors.New("可用时间申请不存在")
	ErrAvailabilityNotPending  = errors.New("申请已处理")
	ErrAvailabilityDates       = errors.New("临时申请必须提供有效的起止日期")
	ErrAvailabilityPastEndDate = errors.New("临时申请的结束日期不能早于今天")
)

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AvailabilityService 可用时间申请业务接口
type AvailabilityService interface {
	Submit(ctx context.Context, employeeID string, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]dto.AvailabilityResponse, error)
	ListPending(ctx context.Context) ([]dto.AvailabilityResponse, error)
	Review(ctx context.Context, id string, approve bool, reviewerID string) error
}

type availabilityService struct {
	repo     *repository.Repository
	notifier *notifier
	logger   *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, notifier *notifier, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, notifier: notifier, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *availabilityService) Submit(ctx context.Context, employeeID string, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if !validTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	request := &model.AvailabilityRequest{
		EmployeeID: employeeID,
		Type:       req.Type,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.RequestStatusPending,
		Reason:     req.Reason,
	}

	// 永久申请忽略生效日期
	if req.Type == model.AvailabilityTemporary {
		if req.EffectiveStartDate == nil || req.EffectiveEndDate == nil {
			return nil, ErrAvailabilityDates
		}
		start, err := parseDate(*req.EffectiveStartDate)
		if err != nil {
			return nil, ErrAvailabilityDates
		}
		end, err := parseDate(*req.EffectiveEndDate)
		if err != nil || end.Before(start) {
			return nil, ErrAvailabilityDates
		}
		if model.DaysBetween(end, nowFunc()) > 0 {
			return nil, ErrAvailabilityPastEndDate
		}
		request.EffectiveStartDate = &start
		request.EffectiveEndDate = &end
	}

	if err := s.repo.Availability.Create(ctx, request); err != nil {
		s.logger.Error("提交可用时间申请失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	name := employeeID
	if emp, err := s.repo.Employee.GetByID(ctx, employeeID); err == nil {
		name = emp.DisplayName()
	}
	s.notifier.notifyAdmins(ctx,
		model.NotificationAvailabilitySubmitted,
		"Availability Request Submitted",
		fmt.Sprintf("%s submitted a %s availability request for %s.", name, request.Type, weekdayNames[request.DayOfWeek]),
		model.PriorityLow,
		map[string]interface{}{"request_id": request.RequestID, "employee_id": employeeID},
	)

	resp := toAvailabilityResponse(request)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *availabilityService) ListMine(ctx context.Context, employeeID string) ([]dto.AvailabilityResponse, error) {
	requests, err := s.repo.Availability.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toAvailabilityResponses(requests), nil
}

func (s *availabilityService) ListPending(ctx context.Context) ([]dto.AvailabilityResponse, error) {
	requests, err := s.repo.Availability.ListPending(ctx)
	if err != nil {
		s.logger.Error("查询待审批申请失败", zap.Error(err))
		return nil, err
	}
	return toAvailabilityResponses(requests), nil
}

func toAvailabilityResponses(requests []model.AvailabilityRequest) []dto.AvailabilityResponse {
	result := make([]dto.AvailabilityResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toAvailabilityResponse(&requests[i]))
	}
	return result
}

// ────────────────────── Review ──────────────────────

func (s *availabilityService) Review(ctx context.Context, id string, approve bool, reviewerID string) error {
	request, err := s.repo.Availability.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAvailabilityNotFound
		}
		return err
	}
	if request.Status != model.RequestStatusPending {
		return ErrAvailabilityNotPending
	}

	status := model.RequestStatusRejected
	if approve {
		status = model.RequestStatusApproved
	}
	if err := s.repo.Availability.Review(ctx, id, status, reviewerID, nowFunc()); err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidState) {
			return ErrAvailabilityNotPending
		}
		s.logger.Error("审批可用时间申请失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.notifyEmployee(ctx, request.EmployeeID, "",
		model.NotificationAvailabilityReviewed,
		"Availability Request "+statusTitle(status),
		fmt.Sprintf("Your availability request for %s has been %s.", weekdayNames[request.DayOfWeek], status),
		map[string]interface{}{"request_id": id, "status": status},
	)
	return nil
}

func statusTitle(status string) string {
	if status == model.RequestStatusApproved {
		return "Approved"
	}
	return "Rejected"
}
