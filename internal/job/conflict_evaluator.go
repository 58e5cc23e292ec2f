package job

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"staffhub/internal/repository"
)

// ConflictEvaluator 重算 active 班次的 is_conflict 标记
//
// 规则：
//   - 仅已分配员工且来源为 open_shift 的班次参与判定
//   - 同一员工同一自然日的 active 班次数（含自身）大于 1 即为冲突
//   - 其他班次一律为 false
//   - 计算值与存储值一致时不写库，重复运行不产生额外写入
type ConflictEvaluator struct {
	shifts repository.ShiftRepository
	logger *zap.Logger
}

// NewConflictEvaluator 创建冲突重算任务
func NewConflictEvaluator(shifts repository.ShiftRepository, logger *zap.Logger) *ConflictEvaluator {
	return &ConflictEvaluator{shifts: shifts, logger: logger}
}

func (j *ConflictEvaluator) Name() string { return NameRecomputeConflicts }

func (j *ConflictEvaluator) Description() string {
	return "Recompute the conflict flag on every active shift"
}

func (j *ConflictEvaluator) Run(ctx context.Context, _ time.Time, out io.Writer) (Result, error) {
	shifts, err := j.shifts.ListActive(ctx)
	if err != nil {
		return Result{Status: StatusFailure}, fmt.Errorf("查询 active 班次失败: %w", err)
	}
	fmt.Fprintf(out, "Checking %d active shifts for conflicts...\n", len(shifts))

	updated := 0
	for i := range shifts {
		sh := &shifts[i]

		conflict := false
		if sh.ConflictEligible() {
			count, err := j.shifts.CountActiveByEmployeeOnDate(ctx, *sh.EmployeeID, sh.ShiftDate)
			if err != nil {
				return Result{Affected: updated, Status: StatusFailure}, fmt.Errorf("统计员工当日班次失败: %w", err)
			}
			conflict = count > 1
		}

		if conflict == sh.IsConflict {
			continue
		}
		if err := j.shifts.UpdateConflict(ctx, sh.ShiftID, conflict); err != nil {
			return Result{Affected: updated, Status: StatusFailure}, fmt.Errorf("更新冲突标记失败: %w", err)
		}
		updated++
		j.logger.Debug("班次冲突标记已更新", zap.String("shift_id", sh.ShiftID), zap.Bool("is_conflict", conflict))
	}

	fmt.Fprintf(out, "Updated conflict status for %d shifts.\n", updated)
	return Result{Affected: updated, Status: StatusSuccess}, nil
}
