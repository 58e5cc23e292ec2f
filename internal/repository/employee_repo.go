package repository

import (
	"context"

	"gorm.io/gorm"

	"staffhub/internal/model"
)

// EmployeeListFilters 员工列表筛选条件
type EmployeeListFilters struct {
	Status  string
	Role    string
	Keyword string
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

// Create 同时写入关联的个人资料（若有）
func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("PersonalInfo").
		Where("employee_id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("PersonalInfo").
		Where("lower(email) = lower(?)", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Employee{})
	if filters != nil {
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Role != "" {
			db = db.Where("role = ?", filters.Role)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", kw, kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("PersonalInfo").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepo) ListByRole(ctx context.Context, role model.Role) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Preload("PersonalInfo").
		Where("role = ? AND status = ?", role, model.EmployeeStatusActive).
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", employee.EmployeeID).
		Updates(map[string]interface{}{
			"role":          employee.Role,
			"status":        employee.Status,
			"approved_at":   employee.ApprovedAt,
			"approved_by":   employee.ApprovedBy,
			"reject_reason": employee.RejectReason,
			"first_name":    employee.FirstName,
			"last_name":     employee.LastName,
		}).Error
}
