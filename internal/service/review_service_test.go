package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository/mockrepo"

	"go.uber.org/zap"
)

func TestReviewService_ListWithUrgency(t *testing.T) {
	env := newTestEnv(t)
	fixClock(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first := "Ada"
	emp := env.store.AddEmployee(&model.Employee{Email: "ada@example.com", FirstName: &first})
	env.store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-03-07")})
	env.store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeOneMonth, ScheduledDate: mockrepo.Date("2024-03-15")})
	env.store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: "six_month", ScheduledDate: mockrepo.Date("2024-06-01")})
	env.store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeAnnual, ScheduledDate: mockrepo.Date("2024-01-01"), Completed: true})

	all, err := env.svc.Review.List(ctx, &dto.ReviewListRequest{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("未完成评估应为 3 条，实际=%d", len(all))
	}

	want := []struct {
		status string
		days   int
		label  string
	}{
		{model.UrgencyOverdue, 3, "1 Week Review"},
		{model.UrgencyDueSoon, -5, "1 Month Review"},
		{model.UrgencyOnTrack, -83, "Six Month"},
	}
	for i, w := range want {
		if all[i].UrgencyStatus != w.status || all[i].DaysOverdue != w.days || all[i].ReviewTypeLabel != w.label {
			t.Errorf("第 %d 条期望 %+v，实际=%+v", i, w, all[i])
		}
		if all[i].EmployeeName != "Ada" {
			t.Errorf("员工名称错误: %s", all[i].EmployeeName)
		}
	}

	overdue, _ := env.svc.Review.List(ctx, &dto.ReviewListRequest{Urgency: model.UrgencyOverdue})
	if len(overdue) != 1 {
		t.Errorf("overdue 过滤后应为 1 条，实际=%d", len(overdue))
	}

	withCompleted, _ := env.svc.Review.List(ctx, &dto.ReviewListRequest{EmployeeID: emp.EmployeeID, IncludeCompleted: true})
	if len(withCompleted) != 4 {
		t.Errorf("包含已完成应为 4 条，实际=%d", len(withCompleted))
	}
}

func TestReviewService_ListUsesJobsTimezone(t *testing.T) {
	// UTC 已是 16 日，洛杉矶仍是 15 日
	fixClock(t, time.Date(2024, 6, 16, 3, 0, 0, 0, time.UTC))
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("缺少时区数据: %v", err)
	}

	store := mockrepo.New()
	store.AddReview(&model.ReviewSchedule{EmployeeID: "emp-tz", ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-06-23")})

	tests := []struct {
		name       string
		loc        *time.Location
		wantStatus string
		wantDays   int
	}{
		{"按任务时区计算", loc, model.UrgencyOnTrack, -8},
		{"未配置时区按 UTC", nil, model.UrgencyDueSoon, -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReviewService(store.Repository(), 7, tt.loc, zap.NewNop())
			got, err := svc.List(context.Background(), &dto.ReviewListRequest{})
			if err != nil {
				t.Fatalf("查询失败: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("期望 1 条，实际=%d", len(got))
			}
			if got[0].UrgencyStatus != tt.wantStatus || got[0].DaysOverdue != tt.wantDays {
				t.Errorf("期望 %s/%d，实际=%s/%d", tt.wantStatus, tt.wantDays, got[0].UrgencyStatus, got[0].DaysOverdue)
			}
		})
	}
}

func TestReviewService_Complete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	r := env.store.AddReview(&model.ReviewSchedule{EmployeeID: "emp-x", ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-03-07")})

	if err := env.svc.Review.Complete(ctx, r.ScheduleID, "manager-1", "good"); err != nil {
		t.Fatalf("完成评估失败: %v", err)
	}
	if !env.store.Reviews[r.ScheduleID].Completed {
		t.Error("评估应标记为完成")
	}
	if err := env.svc.Review.Complete(ctx, r.ScheduleID, "manager-1", ""); !errors.Is(err, ErrReviewAlreadyCompleted) {
		t.Errorf("重复完成应失败，实际=%v", err)
	}
	if err := env.svc.Review.Complete(ctx, "missing", "manager-1", ""); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("期望 ErrReviewNotFound，实际=%v", err)
	}
}

func TestReviewService_EnsureDefaultSchedules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n, err := env.svc.Review.EnsureDefaultSchedules(ctx, "emp-1", "2024-01-01")
	if err != nil || n != 3 {
		t.Fatalf("应生成 3 条，n=%d err=%v", n, err)
	}
	n, err = env.svc.Review.EnsureDefaultSchedules(ctx, "emp-1", "2024-01-01")
	if err != nil || n != 0 {
		t.Errorf("已有计划时不应重复生成，n=%d err=%v", n, err)
	}
	if _, err := env.svc.Review.EnsureDefaultSchedules(ctx, "emp-2", "bad"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际=%v", err)
	}
}
