package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound    = errors.New("员工不存在")
	ErrEmployeeNotPending  = errors.New("员工不处于待审批状态")
	ErrEmployeeNotActive   = errors.New("员工未激活")
	ErrEmployeeSelfOperate = errors.New("不能对自己执行该操作")
	ErrEmployeeInvalidRole = errors.New("无效的角色")
)

// EmployeeService 员工管理业务接口
type EmployeeService interface {
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	Approve(ctx context.Context, id, approverID string) (*dto.EmployeeResponse, error)
	Reject(ctx context.Context, id, reason, approverID string) (*dto.EmployeeResponse, error)
	Deactivate(ctx context.Context, id, callerID string) error
	AssignRole(ctx context.Context, id string, role model.Role, callerID string) error
	// IsActive 供访问控制中间件判断员工是否在职
	IsActive(ctx context.Context, id string) (bool, error)
}

type employeeService struct {
	repo     *repository.Repository
	notifier *notifier
	logger   *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, notifier *notifier, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, notifier: notifier, logger: logger}
}

func (s *employeeService) load(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	filters := &repository.EmployeeListFilters{
		Status:  req.Status,
		Role:    req.Role,
		Keyword: req.Keyword,
	}
	employees, total, err := s.repo.Employee.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, toEmployeeResponse(&employees[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	employee, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── Approve ──────────────────────

func (s *employeeService) Approve(ctx context.Context, id, approverID string) (*dto.EmployeeResponse, error) {
	employee, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee.Status != model.EmployeeStatusPending {
		return nil, ErrEmployeeNotPending
	}

	now := nowFunc()
	employee.Status = model.EmployeeStatusActive
	employee.ApprovedAt = &now
	employee.ApprovedBy = &approverID
	employee.RejectReason = ""
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("审批员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notifier.notifyEmployee(ctx, employee.EmployeeID, employee.Email,
		model.NotificationEmployeeApproved,
		"Account Approved",
		"Your account has been approved. You can now sign in.",
		nil,
	)

	s.logger.Info("员工审批通过", zap.String("id", id), zap.String("approved_by", approverID))
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── Reject ──────────────────────

func (s *employeeService) Reject(ctx context.Context, id, reason, approverID string) (*dto.EmployeeResponse, error) {
	employee, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee.Status != model.EmployeeStatusPending {
		return nil, ErrEmployeeNotPending
	}

	employee.Status = model.EmployeeStatusRejected
	employee.RejectReason = reason
	employee.ApprovedBy = &approverID
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("驳回员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工注册被驳回", zap.String("id", id), zap.String("rejected_by", approverID))
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *employeeService) Deactivate(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrEmployeeSelfOperate
	}
	employee, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !employee.IsActive() {
		return ErrEmployeeNotActive
	}

	employee.Status = model.EmployeeStatusInactive
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("停用员工失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("员工已停用", zap.String("id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *employeeService) AssignRole(ctx context.Context, id string, role model.Role, callerID string) error {
	if !role.Valid() {
		return ErrEmployeeInvalidRole
	}
	if id == callerID {
		return ErrEmployeeSelfOperate
	}
	employee, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	employee.Role = role
	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("分配角色失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── IsActive ──────────────────────

func (s *employeeService) IsActive(ctx context.Context, id string) (bool, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return employee.IsActive(), nil
}
