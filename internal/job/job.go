// Package job 周期性批处理任务：班次冲突重算、绩效评估提醒、过期可用时间清理。
// 每个任务显式接收当前时间 now，并向 out 写入逐行进度文本。
package job

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/internal/repository"
)

// 任务名称
const (
	NameRecomputeConflicts  = "shifts:recompute-conflicts"
	NameReviewNotifications = "reviews:check-notifications"
	NameAvailabilityCleanup = "availability:cleanup-expired"
)

// 运行状态码
const (
	StatusSuccess = 0
	StatusFailure = 1
)

var (
	ErrJobNotFound = errors.New("任务不存在")
	ErrJobRunning  = errors.New("任务正在其他实例上运行")
)

// Result 单次运行结果
type Result struct {
	Affected int
	Status   int
}

// Job 可按名称触发的批处理任务
type Job interface {
	Name() string
	Description() string
	Run(ctx context.Context, now time.Time, out io.Writer) (Result, error)
}

// Registry 任务注册表
type Registry struct {
	jobs map[string]Job
}

// NewRegistry 创建注册表
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{jobs: make(map[string]Job, len(jobs))}
	for _, j := range jobs {
		r.Register(j)
	}
	return r
}

// NewDefaultRegistry 注册全部内置任务
func NewDefaultRegistry(repo *repository.Repository, cfg *config.JobsConfig, logger *zap.Logger) *Registry {
	return NewRegistry(
		NewConflictEvaluator(repo.Shift, logger),
		NewReviewDispatcher(repo.Review, repo.Employee, repo.Notification, cfg.ReviewDueSoonDays, cfg.ReviewDedupWindow, logger),
		NewAvailabilitySweeper(repo.Availability, logger),
	)
}

// Register 注册任务，同名任务会被覆盖
func (r *Registry) Register(j Job) {
	r.jobs[j.Name()] = j
}

// Get 按名称查找任务
func (r *Registry) Get(name string) (Job, bool) {
	j, ok := r.jobs[name]
	return j, ok
}

// List 按名称排序返回全部任务
func (r *Registry) List() []Job {
	result := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		result = append(result, j)
	}
	sort.Slice(result, func(i, k int) bool { return result[i].Name() < result[k].Name() })
	return result
}
