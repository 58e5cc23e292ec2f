package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"staffhub/internal/model"
	pkgerrors "staffhub/pkg/errors"
)

// AvailabilityRepository 可用时间申请数据访问接口
type AvailabilityRepository interface {
	Create(ctx context.Context, req *model.AvailabilityRequest) error
	GetByID(ctx context.Context, id string) (*model.AvailabilityRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.AvailabilityRequest, error)
	ListPending(ctx context.Context) ([]model.AvailabilityRequest, error)
	Review(ctx context.Context, id, status, reviewerID string, at time.Time) error

	// ListExpiredTemporary 已审批的临时申请中 effective_end_date 严格早于 today 的记录
	ListExpiredTemporary(ctx context.Context, today time.Time) ([]model.AvailabilityRequest, error)
	// DeleteByIDs 物理删除，返回实际删除条数
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) Create(ctx context.Context, req *model.AvailabilityRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *availabilityRepo) GetByID(ctx context.Context, id string) (*model.AvailabilityRequest, error) {
	var req model.AvailabilityRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *availabilityRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.AvailabilityRequest, error) {
	var reqs []model.AvailabilityRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("day_of_week ASC, start_time ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *availabilityRepo) ListPending(ctx context.Context) ([]model.AvailabilityRequest, error) {
	var reqs []model.AvailabilityRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").Preload("Employee.PersonalInfo").
		Where("status = ?", model.RequestStatusPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *availabilityRepo) Review(ctx context.Context, id, status, reviewerID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.AvailabilityRequest{}).
		Where("request_id = ? AND status = ?", id, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrInvalidState
	}
	return nil
}

func (r *availabilityRepo) ListExpiredTemporary(ctx context.Context, today time.Time) ([]model.AvailabilityRequest, error) {
	var reqs []model.AvailabilityRequest
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ?", model.AvailabilityTemporary, model.RequestStatusApproved).
		Where("effective_end_date IS NOT NULL AND effective_end_date < ?", today.Format(model.DateLayout)).
		Find(&reqs).Error
	return reqs, err
}

func (r *availabilityRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("request_id IN ?", ids).
		Delete(&model.AvailabilityRequest{})
	return result.RowsAffected, result.Error
}
