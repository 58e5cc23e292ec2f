package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"staffhub/config"
	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrAccountPending      = errors.New("账号待审批")
	ErrAccountDisabled     = errors.New("账号已停用或被驳回")
	ErrEmailExists         = errors.New("邮箱已被注册")
	ErrRegistrationClosed  = errors.New("暂未开放注册")
	ErrInvalidRefreshToken = errors.New("刷新凭证无效或已过期")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.EmployeeResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentEmployee(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	notifier  *notifier
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	notifier *notifier,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		notifier:  notifier,
		logger:    logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.EmployeeResponse, error) {
	if !s.cfg.Auth.RegistrationOpened {
		return nil, ErrRegistrationClosed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.Employee.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	employee := &model.Employee{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleEmployee,
		Status:       model.EmployeeStatusPending,
		PersonalInfo: &model.EmployeePersonalInfo{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     req.Phone,
		},
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	name := employee.DisplayName()
	s.notifier.notifyAdmins(ctx,
		model.NotificationEmployeeRegistered,
		"New Employee Registration",
		name+" has registered and is awaiting approval.",
		model.PriorityMedium,
		map[string]interface{}{"employee_id": employee.EmployeeID, "email": employee.Email},
	)

	s.logger.Info("员工注册成功，等待审批", zap.String("employee_id", employee.EmployeeID))
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	employee, err := s.repo.Employee.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := checkLoginStatus(employee); err != nil {
		return nil, err
	}

	return s.issueTokens(employee)
}

func checkLoginStatus(employee *model.Employee) error {
	switch employee.Status {
	case model.EmployeeStatusActive:
		return nil
	case model.EmployeeStatusPending:
		return ErrAccountPending
	default:
		return ErrAccountDisabled
	}
}

func (s *authService) issueTokens(employee *model.Employee) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(employee.EmployeeID, string(employee.Role))
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(employee.EmployeeID, string(employee.Role))
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Employee:     toEmployeeResponse(employee),
	}, nil
}

// ────────────────────── RefreshToken ──────────────────────

// RefreshToken 轮换 Token 对：旧 Refresh Token 加入黑名单
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if s.blacklist != nil {
		blocked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if blocked {
			return nil, ErrInvalidRefreshToken
		}
	}

	employee, err := s.repo.Employee.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if err := checkLoginStatus(employee); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(employee)
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil {
		_ = s.Logout(ctx, claims.ID, claims.ExpiresAt.Time)
	}
	return resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentEmployee ──────────────────────

func (s *authService) GetCurrentEmployee(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}
