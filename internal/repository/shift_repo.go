package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/internal/model"
	pkgerrors "staffhub/pkg/errors"
)

// ShiftListFilters 班次查询条件（日期闭区间）
type ShiftListFilters struct {
	From       time.Time
	To         time.Time
	EmployeeID string
	Status     string
}

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	List(ctx context.Context, filters *ShiftListFilters) ([]model.Shift, error)
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, completedAt *time.Time) error

	// ListActive 列出全部 active 班次（冲突检测任务全表扫描）
	ListActive(ctx context.Context) ([]model.Shift, error)
	// CountActiveByEmployeeOnDate 统计员工某自然日的 active 班次数
	CountActiveByEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) (int64, error)
	// UpdateConflict 仅写入 is_conflict 字段
	UpdateConflict(ctx context.Context, id string, isConflict bool) error
	// CountCompletedByEmployee 统计员工已完成班次数
	CountCompletedByEmployee(ctx context.Context, employeeID string) (int64, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Preload("Employee").Preload("Employee.PersonalInfo").
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) List(ctx context.Context, filters *ShiftListFilters) ([]model.Shift, error) {
	var shifts []model.Shift
	db := r.db.WithContext(ctx).
		Preload("Employee").Preload("Employee.PersonalInfo").
		Where("shift_date BETWEEN ? AND ?", filters.From.Format(model.DateLayout), filters.To.Format(model.DateLayout))
	if filters.EmployeeID != "" {
		db = db.Where("employee_id = ?", filters.EmployeeID)
	}
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}
	err := db.Order("shift_date ASC, start_time ASC").Find(&shifts).Error
	return shifts, err
}

// UpdateStatus 以 fromStatus 作为条件更新，避免并发重复流转
func (r *shiftRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, completedAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":       toStatus,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrInvalidState
	}
	return nil
}

func (r *shiftRepo) ListActive(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ShiftStatusActive).
		Order("shift_date ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) CountActiveByEmployeeOnDate(ctx context.Context, employeeID string, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("employee_id = ? AND shift_date = ? AND status = ?", employeeID, date.Format(model.DateLayout), model.ShiftStatusActive).
		Count(&count).Error
	return count, err
}

func (r *shiftRepo) UpdateConflict(ctx context.Context, id string, isConflict bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ?", id).
		Update("is_conflict", isConflict).Error
}

func (r *shiftRepo) CountCompletedByEmployee(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("employee_id = ? AND status = ?", employeeID, model.ShiftStatusCompleted).
		Count(&count).Error
	return count, err
}

// ── OpenShift Repository ──

// OpenShiftRepository 开放班次数据访问接口
type OpenShiftRepository interface {
	Create(ctx context.Context, openShift *model.OpenShift) error
	GetByID(ctx context.Context, id string) (*model.OpenShift, error)
	ListOpen(ctx context.Context, from time.Time) ([]model.OpenShift, error)
	// MarkClaimed 仅当状态仍为 open 时成功，否则返回 ErrInvalidState
	MarkClaimed(ctx context.Context, id, employeeID string, at time.Time) error
	Cancel(ctx context.Context, id string) error
}

type openShiftRepo struct {
	db *gorm.DB
}

// NewOpenShiftRepo 创建 OpenShiftRepository 实例
func NewOpenShiftRepo(db *gorm.DB) OpenShiftRepository {
	return &openShiftRepo{db: db}
}

func (r *openShiftRepo) Create(ctx context.Context, openShift *model.OpenShift) error {
	return r.db.WithContext(ctx).Create(openShift).Error
}

func (r *openShiftRepo) GetByID(ctx context.Context, id string) (*model.OpenShift, error) {
	var openShift model.OpenShift
	err := r.db.WithContext(ctx).
		Where("open_shift_id = ?", id).
		First(&openShift).Error
	if err != nil {
		return nil, err
	}
	return &openShift, nil
}

func (r *openShiftRepo) ListOpen(ctx context.Context, from time.Time) ([]model.OpenShift, error) {
	var openShifts []model.OpenShift
	err := r.db.WithContext(ctx).
		Where("status = ? AND shift_date >= ?", model.OpenShiftStatusOpen, from.Format(model.DateLayout)).
		Order("shift_date ASC, start_time ASC").
		Find(&openShifts).Error
	return openShifts, err
}

func (r *openShiftRepo) MarkClaimed(ctx context.Context, id, employeeID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.OpenShift{}).
		Where("open_shift_id = ? AND status = ?", id, model.OpenShiftStatusOpen).
		Updates(map[string]interface{}{
			"status":     model.OpenShiftStatusClaimed,
			"claimed_by": employeeID,
			"claimed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrInvalidState
	}
	return nil
}

func (r *openShiftRepo) Cancel(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.OpenShift{}).
		Where("open_shift_id = ? AND status = ?", id, model.OpenShiftStatusOpen).
		Update("status", model.OpenShiftStatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrInvalidState
	}
	return nil
}
