package repository

import (
	"context"

	"gorm.io/gorm"

	"staffhub/internal/model"
	pkgerrors "staffhub/pkg/errors"
)

// CustomerListFilters 顾客列表筛选条件
type CustomerListFilters struct {
	Keyword string
	Tier    string
}

// CustomerRepository 顾客与积分数据访问接口
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*model.Customer, error)
	List(ctx context.Context, filters *CustomerListFilters, offset, limit int) ([]model.Customer, int64, error)
	// UpdatePoints 乐观锁更新积分与等级，版本不匹配时返回 ErrOptimisticLock
	UpdatePoints(ctx context.Context, customer *model.Customer) error
	CreateTransaction(ctx context.Context, txn *model.LoyaltyTransaction) error
	ListTransactions(ctx context.Context, customerID string, offset, limit int) ([]model.LoyaltyTransaction, int64, error)
}

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepo 创建 CustomerRepository 实例
func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) List(ctx context.Context, filters *CustomerListFilters, offset, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Customer{})
	if filters != nil {
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", kw, kw, kw)
		}
		if filters.Tier != "" {
			db = db.Where("tier = ?", filters.Tier)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) UpdatePoints(ctx context.Context, customer *model.Customer) error {
	oldVersion := customer.Version
	result := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("customer_id = ? AND version = ?", customer.CustomerID, oldVersion).
		Updates(map[string]interface{}{
			"points_balance":  customer.PointsBalance,
			"lifetime_points": customer.LifetimePoints,
			"tier":            customer.Tier,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	customer.Version = oldVersion + 1
	return nil
}

func (r *customerRepo) CreateTransaction(ctx context.Context, txn *model.LoyaltyTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *customerRepo) ListTransactions(ctx context.Context, customerID string, offset, limit int) ([]model.LoyaltyTransaction, int64, error) {
	var txns []model.LoyaltyTransaction
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.LoyaltyTransaction{}).
		Where("customer_id = ?", customerID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, total, err
}
