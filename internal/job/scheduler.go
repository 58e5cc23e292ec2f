package job

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"staffhub/config"
)

// Schedule 单个任务的触发间隔
type Schedule struct {
	Name     string
	Interval time.Duration
}

// Scheduler 进程内周期调度器；每个任务一个 goroutine，同一任务串行执行
type Scheduler struct {
	runner    *Runner
	schedules []Schedule
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler 按配置的间隔创建调度器
func NewScheduler(runner *Runner, cfg *config.JobsConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		schedules: []Schedule{
			{Name: NameRecomputeConflicts, Interval: cfg.ConflictInterval},
			{Name: NameReviewNotifications, Interval: cfg.ReviewNotificationInterval},
			{Name: NameAvailabilityCleanup, Interval: cfg.AvailabilityCleanupInterval},
		},
		logger: logger,
	}
}

// Start 启动全部周期任务，立即返回
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, sch := range s.schedules {
		if sch.Interval <= 0 {
			s.logger.Warn("任务间隔无效，跳过调度", zap.String("job", sch.Name))
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, sch)
	}
	s.logger.Info("任务调度器已启动", zap.Int("jobs", len(s.schedules)))
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("任务调度器已停止")
}

func (s *Scheduler) loop(ctx context.Context, sch Schedule) {
	defer s.wg.Done()

	ticker := time.NewTicker(sch.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, sch.Name)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, name string) {
	var out bytes.Buffer
	_, err := s.runner.Run(ctx, name, &out)
	if errors.Is(err, ErrJobRunning) {
		s.logger.Info("任务已在其他实例运行，本轮跳过", zap.String("job", name))
		return
	}
	// Runner 已记录失败日志
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line != "" {
			s.logger.Debug("任务输出", zap.String("job", name), zap.String("line", line))
		}
	}
}
