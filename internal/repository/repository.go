package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Employee     EmployeeRepository
	Shift        ShiftRepository
	OpenShift    OpenShiftRepository
	Review       ReviewScheduleRepository
	Notification NotificationRepository
	Availability AvailabilityRepository
	Customer     CustomerRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Employee:     NewEmployeeRepo(db),
		Shift:        NewShiftRepo(db),
		OpenShift:    NewOpenShiftRepo(db),
		Review:       NewReviewScheduleRepo(db),
		Notification: NewNotificationRepo(db),
		Availability: NewAvailabilityRepo(db),
		Customer:     NewCustomerRepo(db),
	}
}

// WithTx 基于事务连接构造新的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在事务中执行 fn，fn 返回错误时整体回滚
// 未绑定数据库连接时（单元测试注入 mock）直接以当前聚合执行
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
