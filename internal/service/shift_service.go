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

// ── 排班模块业务错误 ──

var (
	ErrShiftNotFound         = errors.New("班次不存在")
	ErrShiftNotActive        = errors.New("班次不处于进行中状态")
	ErrOpenShiftNotFound     = errors.New("开放班次不存在")
	ErrOpenShiftUnavailable  = errors.New("开放班次已被认领或已取消")
	ErrInvalidTimeRange      = errors.New("结束时间必须晚于开始时间")
	ErrInvalidDate           = errors.New("日期格式错误")
	ErrInvalidDateRange      = errors.New("结束日期不能早于开始日期")
	ErrShiftAssigneeInactive = errors.New("排班员工不存在或未激活")
)

// maxShiftRangeDays 单次查询的最大日期跨度
const maxShiftRangeDays = 92

// ShiftService 排班业务接口
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest, callerID string) (*dto.ShiftResponse, error)
	List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
	ListMine(ctx context.Context, employeeID string, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error)
	Cancel(ctx context.Context, id string) error
	// Complete 完成班次；员工首次完成班次时生成默认绩效评估计划
	Complete(ctx context.Context, id string) error

	CreateOpenShift(ctx context.Context, req *dto.CreateOpenShiftRequest, callerID string) (*dto.OpenShiftResponse, error)
	ListOpenShifts(ctx context.Context) ([]dto.OpenShiftResponse, error)
	// ClaimOpenShift 认领开放班次并生成 created_from=open_shift 的班次
	ClaimOpenShift(ctx context.Context, id, employeeID string) (*dto.ShiftResponse, error)
	CancelOpenShift(ctx context.Context, id string) error
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// parseDateRange 解析并校验查询区间
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := parseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	to, err := parseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if to.Before(from) || model.DaysBetween(from, to) > maxShiftRangeDays {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

// ────────────────────── Create ──────────────────────

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest, callerID string) (*dto.ShiftResponse, error) {
	date, err := parseDate(req.ShiftDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !validTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	var assignee *model.Employee
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		assignee, err = s.repo.Employee.GetByID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftAssigneeInactive
			}
			return nil, err
		}
		if !assignee.IsActive() {
			return nil, ErrShiftAssigneeInactive
		}
	}

	shift := &model.Shift{
		ShiftDate:   date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Position:    req.Position,
		Status:      model.ShiftStatusActive,
		CreatedFrom: model.ShiftOriginManual,
		CreatedBy:   &callerID,
	}
	if assignee != nil {
		shift.EmployeeID = &assignee.EmployeeID
	}

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}
	shift.Employee = assignee

	resp := toShiftResponse(shift)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *shiftService) List(ctx context.Context, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, &repository.ShiftListFilters{
		From:       from,
		To:         to,
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
	})
}

func (s *shiftService) ListMine(ctx context.Context, employeeID string, req *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, &repository.ShiftListFilters{
		From:       from,
		To:         to,
		EmployeeID: employeeID,
		Status:     req.Status,
	})
}

func (s *shiftService) list(ctx context.Context, filters *repository.ShiftListFilters) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.Shift.List(ctx, filters)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, toShiftResponse(&shifts[i]))
	}
	return result, nil
}

// ────────────────────── Cancel / Complete ──────────────────────

func (s *shiftService) Cancel(ctx context.Context, id string) error {
	if _, err := s.loadShift(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Shift.UpdateStatus(ctx, id, model.ShiftStatusActive, model.ShiftStatusCancelled, nil); err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidState) {
			return ErrShiftNotActive
		}
		s.logger.Error("取消班次失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *shiftService) Complete(ctx context.Context, id string) error {
	shift, err := s.loadShift(ctx, id)
	if err != nil {
		return err
	}

	now := nowFunc()
	return s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Shift.UpdateStatus(ctx, id, model.ShiftStatusActive, model.ShiftStatusCompleted, &now); err != nil {
			if errors.Is(err, pkgerrors.ErrInvalidState) {
				return ErrShiftNotActive
			}
			return err
		}
		if shift.EmployeeID == nil {
			return nil
		}

		completed, err := txRepo.Shift.CountCompletedByEmployee(ctx, *shift.EmployeeID)
		if err != nil {
			return err
		}
		if completed != 1 {
			return nil
		}
		created, err := ensureDefaultReviews(ctx, txRepo, *shift.EmployeeID, shift.ShiftDate)
		if err != nil {
			return err
		}
		if created > 0 {
			s.logger.Info("首次完成班次，已生成默认评估计划",
				zap.String("employee_id", *shift.EmployeeID), zap.Int("count", created))
		}
		return nil
	})
}

func (s *shiftService) loadShift(ctx context.Context, id string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return shift, nil
}

// ────────────────────── Open Shifts ──────────────────────

func (s *shiftService) CreateOpenShift(ctx context.Context, req *dto.CreateOpenShiftRequest, callerID string) (*dto.OpenShiftResponse, error) {
	date, err := parseDate(req.ShiftDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !validTimeRange(req.StartTime, req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	openShift := &model.OpenShift{
		ShiftDate: date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Position:  req.Position,
		Status:    model.OpenShiftStatusOpen,
		CreatedBy: &callerID,
	}
	if err := s.repo.OpenShift.Create(ctx, openShift); err != nil {
		s.logger.Error("发布开放班次失败", zap.Error(err))
		return nil, err
	}

	resp := toOpenShiftResponse(openShift)
	return &resp, nil
}

func (s *shiftService) ListOpenShifts(ctx context.Context) ([]dto.OpenShiftResponse, error) {
	openShifts, err := s.repo.OpenShift.ListOpen(ctx, model.DateOnly(nowFunc()))
	if err != nil {
		s.logger.Error("查询开放班次失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.OpenShiftResponse, 0, len(openShifts))
	for i := range openShifts {
		result = append(result, toOpenShiftResponse(&openShifts[i]))
	}
	return result, nil
}

// ClaimOpenShift 同一自然日已有其他班次时仍允许认领，冲突标记由冲突检测任务统一计算
func (s *shiftService) ClaimOpenShift(ctx context.Context, id, employeeID string) (*dto.ShiftResponse, error) {
	var shift *model.Shift
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		openShift, err := txRepo.OpenShift.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOpenShiftNotFound
			}
			return err
		}
		if openShift.Status != model.OpenShiftStatusOpen {
			return ErrOpenShiftUnavailable
		}

		if err := txRepo.OpenShift.MarkClaimed(ctx, id, employeeID, nowFunc()); err != nil {
			if errors.Is(err, pkgerrors.ErrInvalidState) {
				return ErrOpenShiftUnavailable
			}
			return err
		}

		shift = &model.Shift{
			EmployeeID:  &employeeID,
			ShiftDate:   openShift.ShiftDate,
			StartTime:   openShift.StartTime,
			EndTime:     openShift.EndTime,
			Position:    openShift.Position,
			Status:      model.ShiftStatusActive,
			CreatedFrom: model.ShiftOriginOpenShift,
			OpenShiftID: &openShift.OpenShiftID,
		}
		return txRepo.Shift.Create(ctx, shift)
	})
	if err != nil {
		if !errors.Is(err, ErrOpenShiftNotFound) && !errors.Is(err, ErrOpenShiftUnavailable) {
			s.logger.Error("认领开放班次失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("开放班次已认领", zap.String("open_shift_id", id), zap.String("employee_id", employeeID))
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) CancelOpenShift(ctx context.Context, id string) error {
	if _, err := s.repo.OpenShift.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOpenShiftNotFound
		}
		return err
	}
	if err := s.repo.OpenShift.Cancel(ctx, id); err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidState) {
			return ErrOpenShiftUnavailable
		}
		return err
	}
	return nil
}
