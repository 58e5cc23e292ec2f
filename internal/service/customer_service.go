package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	pkgerrors "staffhub/pkg/errors"
)

// ── 顾客积分模块业务错误 ──

var (
	ErrCustomerNotFound    = errors.New("顾客不存在")
	ErrCustomerPhoneExists = errors.New("该手机号已登记")
	ErrInsufficientPoints  = errors.New("积分余额不足")
	ErrConcurrentUpdate    = errors.New("数据已被其他操作修改，请重试")
)

// pointsUpdateRetries 乐观锁冲突时的重试次数
const pointsUpdateRetries = 3

// CustomerService 顾客与积分业务接口
type CustomerService interface {
	Create(ctx context.Context, req *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error)
	EarnPoints(ctx context.Context, id string, req *dto.PointsRequest, employeeID string) (*dto.CustomerResponse, error)
	RedeemPoints(ctx context.Context, id string, req *dto.PointsRequest, employeeID string) (*dto.CustomerResponse, error)
	ListTransactions(ctx context.Context, id string, req *dto.PaginationRequest) ([]dto.LoyaltyTransactionResponse, int64, error)
}

type customerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCustomerService 创建 CustomerService 实例
func NewCustomerService(repo *repository.Repository, logger *zap.Logger) CustomerService {
	return &customerService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *customerService) Create(ctx context.Context, req *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error) {
	if req.Phone != nil && *req.Phone != "" {
		if _, err := s.repo.Customer.GetByPhone(ctx, *req.Phone); err == nil {
			return nil, ErrCustomerPhoneExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	customer := &model.Customer{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Phone:     req.Phone,
		Tier:      model.TierBronze,
		CreatedBy: &callerID,
	}
	if err := s.repo.Customer.Create(ctx, customer); err != nil {
		s.logger.Error("创建顾客失败", zap.Error(err))
		return nil, err
	}

	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *customerService) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error) {
	filters := &repository.CustomerListFilters{Keyword: req.Keyword, Tier: req.Tier}
	customers, total, err := s.repo.Customer.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出顾客失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		result = append(result, toCustomerResponse(&customers[i]))
	}
	return result, total, nil
}

func (s *customerService) load(ctx context.Context, repo *repository.Repository, id string) (*model.Customer, error) {
	customer, err := repo.Customer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// ────────────────────── Points ──────────────────────

func (s *customerService) EarnPoints(ctx context.Context, id string, req *dto.PointsRequest, employeeID string) (*dto.CustomerResponse, error) {
	return s.applyPoints(ctx, id, req.Points, model.LoyaltyEarn, req.Reason, employeeID)
}

func (s *customerService) RedeemPoints(ctx context.Context, id string, req *dto.PointsRequest, employeeID string) (*dto.CustomerResponse, error) {
	return s.applyPoints(ctx, id, -req.Points, model.LoyaltyRedeem, req.Reason, employeeID)
}

// applyPoints 在事务内更新余额并写流水；入账同时累计 lifetime_points 并重算等级
func (s *customerService) applyPoints(ctx context.Context, id string, delta int, kind, reason, employeeID string) (*dto.CustomerResponse, error) {
	var customer *model.Customer
	var err error
	for attempt := 0; attempt < pointsUpdateRetries; attempt++ {
		err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			c, err := s.load(ctx, txRepo, id)
			if err != nil {
				return err
			}
			if c.PointsBalance+delta < 0 {
				return ErrInsufficientPoints
			}

			c.PointsBalance += delta
			if delta > 0 {
				c.LifetimePoints += delta
			}
			c.Tier = model.TierFor(c.LifetimePoints)
			if err := txRepo.Customer.UpdatePoints(ctx, c); err != nil {
				return err
			}

			txn := &model.LoyaltyTransaction{
				CustomerID: c.CustomerID,
				Points:     delta,
				Kind:       kind,
				Reason:     reason,
				EmployeeID: &employeeID,
			}
			if err := txRepo.Customer.CreateTransaction(ctx, txn); err != nil {
				return err
			}
			customer = c
			return nil
		})
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			break
		}
		s.logger.Warn("积分更新乐观锁冲突，重试", zap.String("customer_id", id), zap.Int("attempt", attempt+1))
	}

	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrConcurrentUpdate
		}
		if !errors.Is(err, ErrCustomerNotFound) && !errors.Is(err, ErrInsufficientPoints) {
			s.logger.Error("更新积分失败", zap.String("customer_id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ────────────────────── ListTransactions ──────────────────────

func (s *customerService) ListTransactions(ctx context.Context, id string, req *dto.PaginationRequest) ([]dto.LoyaltyTransactionResponse, int64, error) {
	if _, err := s.load(ctx, s.repo, id); err != nil {
		return nil, 0, err
	}
	txns, total, err := s.repo.Customer.ListTransactions(ctx, id, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.LoyaltyTransactionResponse, 0, len(txns))
	for i := range txns {
		result = append(result, toLoyaltyTransactionResponse(&txns[i]))
	}
	return result, total, nil
}
