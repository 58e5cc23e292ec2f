package job

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffhub/internal/model"
	"staffhub/internal/repository/mockrepo"
)

func datePtr(v string) *time.Time {
	d := mockrepo.Date(v)
	return &d
}

func TestAvailabilitySweeper(t *testing.T) {
	store := mockrepo.New()
	now := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)

	add := func(typ, status string, end *time.Time) string {
		return store.AddAvailability(&model.AvailabilityRequest{
			EmployeeID:       "emp-1",
			Type:             typ,
			Status:           status,
			DayOfWeek:        1,
			StartTime:        "09:00",
			EndTime:          "12:00",
			EffectiveEndDate: end,
		}).RequestID
	}

	expired := add(model.AvailabilityTemporary, model.RequestStatusApproved, datePtr("2024-06-14"))
	endsToday := add(model.AvailabilityTemporary, model.RequestStatusApproved, datePtr("2024-06-15"))
	future := add(model.AvailabilityTemporary, model.RequestStatusApproved, datePtr("2024-07-01"))
	noEnd := add(model.AvailabilityTemporary, model.RequestStatusApproved, nil)
	pending := add(model.AvailabilityTemporary, model.RequestStatusPending, datePtr("2024-06-01"))
	permanent := add(model.AvailabilityPermanent, model.RequestStatusApproved, datePtr("2024-06-01"))

	job := NewAvailabilitySweeper(store.Repository().Availability, zap.NewNop())
	var out bytes.Buffer
	result, err := job.Run(context.Background(), now, &out)
	if err != nil {
		t.Fatalf("运行失败: %v", err)
	}
	if result.Affected != 1 {
		t.Errorf("期望删除 1 条，实际=%d", result.Affected)
	}
	if _, ok := store.Availability[expired]; ok {
		t.Error("过期申请应被删除")
	}
	for name, id := range map[string]string{
		"当天结束": endsToday, "未来结束": future, "无结束日期": noEnd, "待审批": pending, "永久申请": permanent,
	} {
		if _, ok := store.Availability[id]; !ok {
			t.Errorf("%s 的申请不应被删除", name)
		}
	}
	if !strings.Contains(out.String(), "Deleted 1 expired") {
		t.Errorf("输出错误: %q", out.String())
	}

	// 再次运行为空操作
	out.Reset()
	result, err = job.Run(context.Background(), now, &out)
	if err != nil || result.Affected != 0 {
		t.Fatalf("二次运行应为空操作，result=%+v err=%v", result, err)
	}
	if !strings.Contains(out.String(), "No expired temporary availability requests found.") {
		t.Errorf("空操作输出错误: %q", out.String())
	}
}
