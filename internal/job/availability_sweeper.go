package job

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// AvailabilitySweeper 物理删除已过期的临时可用时间申请
// 条件：temporary + approved + effective_end_date 非空且严格早于今天（按日期比较）
type AvailabilitySweeper struct {
	availability repository.AvailabilityRepository
	logger       *zap.Logger
}

// NewAvailabilitySweeper 创建过期清理任务
func NewAvailabilitySweeper(availability repository.AvailabilityRepository, logger *zap.Logger) *AvailabilitySweeper {
	return &AvailabilitySweeper{availability: availability, logger: logger}
}

func (j *AvailabilitySweeper) Name() string { return NameAvailabilityCleanup }

func (j *AvailabilitySweeper) Description() string {
	return "Delete approved temporary availability requests past their end date"
}

func (j *AvailabilitySweeper) Run(ctx context.Context, now time.Time, out io.Writer) (Result, error) {
	today := model.DateOnly(now)
	expired, err := j.availability.ListExpiredTemporary(ctx, today)
	if err != nil {
		return Result{Status: StatusFailure}, fmt.Errorf("查询过期临时申请失败: %w", err)
	}
	if len(expired) == 0 {
		fmt.Fprintln(out, "No expired temporary availability requests found.")
		return Result{Status: StatusSuccess}, nil
	}

	ids := make([]string, 0, len(expired))
	for i := range expired {
		ids = append(ids, expired[i].RequestID)
	}
	deleted, err := j.availability.DeleteByIDs(ctx, ids)
	if err != nil {
		return Result{Status: StatusFailure}, fmt.Errorf("删除过期临时申请失败: %w", err)
	}

	j.logger.Info("已清理过期临时申请", zap.Int64("deleted", deleted), zap.String("before", today.Format(model.DateLayout)))
	fmt.Fprintf(out, "Deleted %d expired temporary availability requests.\n", deleted)
	return Result{Affected: int(deleted), Status: StatusSuccess}, nil
}
