package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/internal/model"
	pkgerrors "staffhub/pkg/errors"
)

// ReviewScheduleRepository 绩效评估计划数据访问接口
type ReviewScheduleRepository interface {
	BatchCreate(ctx context.Context, schedules []model.ReviewSchedule) error
	GetByID(ctx context.Context, id string) (*model.ReviewSchedule, error)
	CountByEmployee(ctx context.Context, employeeID string) (int64, error)
	// ListIncomplete 列出未完成的评估计划；employeeID 为空时不过滤
	ListIncomplete(ctx context.Context, employeeID string) ([]model.ReviewSchedule, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.ReviewSchedule, error)
	MarkCompleted(ctx context.Context, id, completedBy, notes string, at time.Time) error
}

type reviewScheduleRepo struct {
	db *gorm.DB
}

// NewReviewScheduleRepo 创建 ReviewScheduleRepository 实例
func NewReviewScheduleRepo(db *gorm.DB) ReviewScheduleRepository {
	return &reviewScheduleRepo{db: db}
}

func (r *reviewScheduleRepo) BatchCreate(ctx context.Context, schedules []model.ReviewSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&schedules).Error
}

func (r *reviewScheduleRepo) GetByID(ctx context.Context, id string) (*model.ReviewSchedule, error) {
	var schedule model.ReviewSchedule
	err := r.db.WithContext(ctx).
		Preload("Employee").Preload("Employee.PersonalInfo").
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *reviewScheduleRepo) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReviewSchedule{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count, err
}

func (r *reviewScheduleRepo) ListIncomplete(ctx context.Context, employeeID string) ([]model.ReviewSchedule, error) {
	var schedules []model.ReviewSchedule
	db := r.db.WithContext(ctx).Where("completed = ?", false)
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	err := db.Order("scheduled_date ASC").Find(&schedules).Error
	return schedules, err
}

func (r *reviewScheduleRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.ReviewSchedule, error) {
	var schedules []model.ReviewSchedule
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("scheduled_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *reviewScheduleRepo) MarkCompleted(ctx context.Context, id, completedBy, notes string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.ReviewSchedule{}).
		Where("schedule_id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
			"completed_by": completedBy,
			"notes":        notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrInvalidState
	}
	return nil
}
