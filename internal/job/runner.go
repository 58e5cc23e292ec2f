package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/pkg/redis"
)

// Locker 跨实例互斥锁（由 Redis 实现）
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (func(), error)
}

// Runner 统一的任务执行入口：解析名称、加锁、注入当前时间、记录耗时
type Runner struct {
	registry *Registry
	locker   Locker
	lockTTL  time.Duration
	loc      *time.Location
	clock    func() time.Time
	logger   *zap.Logger
}

// NewRunner 创建 Runner；locker 为 nil 时不加锁直接执行
func NewRunner(registry *Registry, locker Locker, cfg *config.JobsConfig, logger *zap.Logger) *Runner {
	return &Runner{
		registry: registry,
		locker:   locker,
		lockTTL:  cfg.LockTTL,
		loc:      cfg.Location(),
		clock:    time.Now,
		logger:   logger,
	}
}

// Registry 返回任务注册表
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Run 以当前时间执行指定任务
func (r *Runner) Run(ctx context.Context, name string, out io.Writer) (Result, error) {
	return r.RunAt(ctx, name, r.clock().In(r.loc), out)
}

// RunAt 以指定时间执行任务
func (r *Runner) RunAt(ctx context.Context, name string, now time.Time, out io.Writer) (Result, error) {
	j, ok := r.registry.Get(name)
	if !ok {
		return Result{Status: StatusFailure}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	if r.locker != nil {
		release, err := r.locker.AcquireLock(ctx, name, r.lockTTL)
		switch {
		case errors.Is(err, redis.ErrLockHeld):
			return Result{Status: StatusFailure}, ErrJobRunning
		case err != nil:
			// Redis 不可用时降级为无锁执行
			r.logger.Warn("获取任务锁失败，无锁执行", zap.String("job", name), zap.Error(err))
		default:
			defer release()
		}
	}

	start := time.Now()
	result, err := j.Run(ctx, now, out)
	if err != nil {
		r.logger.Error("任务执行失败",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		result.Status = StatusFailure
		return result, err
	}

	r.logger.Info("任务执行完成",
		zap.String("job", name),
		zap.Int("affected", result.Affected),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
