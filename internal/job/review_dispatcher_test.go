package job

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffhub/internal/model"
	"staffhub/internal/repository/mockrepo"
)

func newDispatcher(store *mockrepo.Store) *ReviewDispatcher {
	repo := store.Repository()
	return NewReviewDispatcher(repo.Review, repo.Employee, repo.Notification, 7, 24*time.Hour, zap.NewNop())
}

func TestReviewDispatcher_OverdueScenario(t *testing.T) {
	store := mockrepo.New()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	emp := store.AddEmployee(&model.Employee{
		Email:        "sam@example.com",
		PersonalInfo: &model.EmployeePersonalInfo{FirstName: "Sam", LastName: "Lee"},
	})
	sch := store.AddReview(&model.ReviewSchedule{
		EmployeeID:    emp.EmployeeID,
		ReviewType:    model.ReviewTypeOneMonth,
		ScheduledDate: mockrepo.Date("2024-03-07"),
	})

	job := newDispatcher(store)
	var out bytes.Buffer
	result, err := job.Run(context.Background(), now, &out)
	if err != nil {
		t.Fatalf("运行失败: %v", err)
	}
	if result.Status != StatusSuccess || result.Affected != 1 {
		t.Fatalf("期望成功并创建 1 条，实际=%+v", result)
	}

	notifs := store.NotificationsOfType(model.NotificationReviewOverdue)
	if len(notifs) != 1 {
		t.Fatalf("期望 1 条逾期提醒，实际=%d", len(notifs))
	}
	n := notifs[0]
	if !strings.Contains(n.Message, "overdue by 3 days") {
		t.Errorf("提醒内容错误: %s", n.Message)
	}
	if n.Priority != model.PriorityHigh || n.RecipientType != model.RecipientAdmin || n.RecipientID != nil {
		t.Errorf("提醒属性错误: %+v", n)
	}

	var data model.ReviewNotificationData
	if err := json.Unmarshal(n.Data, &data); err != nil {
		t.Fatalf("载荷解析失败: %v", err)
	}
	want := model.ReviewNotificationData{
		ScheduleID:      sch.ScheduleID,
		EmployeeID:      emp.EmployeeID,
		EmployeeName:    "Sam Lee",
		ReviewType:      model.ReviewTypeOneMonth,
		ReviewTypeLabel: "1 Month Review",
		ScheduledDate:   "2024-03-07",
		DaysOverdue:     3,
		UrgencyStatus:   model.UrgencyOverdue,
	}
	if data != want {
		t.Errorf("载荷期望 %+v，实际=%+v", want, data)
	}

	// 立即重跑不应重复提醒
	result, err = job.Run(context.Background(), now.Add(time.Minute), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("重跑失败: %v", err)
	}
	if result.Affected != 0 || len(store.Notifications) != 1 {
		t.Errorf("重跑不应新增提醒，affected=%d total=%d", result.Affected, len(store.Notifications))
	}
}

func TestReviewDispatcher_DueSoonAndOnTrack(t *testing.T) {
	store := mockrepo.New()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	first, last := "Flat", "Name"
	emp := store.AddEmployee(&model.Employee{Email: "flat@example.com", FirstName: &first, LastName: &last})

	store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: "six_month", ScheduledDate: mockrepo.Date("2024-03-15")})
	store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeQuarterly, ScheduledDate: mockrepo.Date("2024-04-30")})
	store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-03-01"), Completed: true})

	if _, err := newDispatcher(store).Run(context.Background(), now, &bytes.Buffer{}); err != nil {
		t.Fatalf("运行失败: %v", err)
	}

	if len(store.Notifications) != 1 {
		t.Fatalf("仅 due_soon 计划应生成提醒，实际=%d", len(store.Notifications))
	}
	n := store.Notifications[0]
	if n.Type != model.NotificationReviewDueSoon || n.Priority != model.PriorityMedium {
		t.Errorf("提醒类型或优先级错误: %+v", n)
	}
	if n.Message != "Six Month for Flat Name is due in 5 days" {
		t.Errorf("提醒内容错误: %s", n.Message)
	}
}

func TestReviewDispatcher_DedupWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		prior   *model.Notification
		wantNew bool
	}{
		{"窗口内未读提醒", &model.Notification{Type: model.NotificationReviewOverdue, BaseModel: model.BaseModel{CreatedAt: now.Add(-23 * time.Hour)}}, false},
		{"窗口外未读提醒", &model.Notification{Type: model.NotificationReviewOverdue, BaseModel: model.BaseModel{CreatedAt: now.Add(-25 * time.Hour)}}, true},
		{"窗口内已读提醒", &model.Notification{Type: model.NotificationReviewOverdue, BaseModel: model.BaseModel{CreatedAt: now.Add(-time.Hour)}, IsRead: true}, true},
		{"窗口内不同类型", &model.Notification{Type: model.NotificationReviewDueSoon, BaseModel: model.BaseModel{CreatedAt: now.Add(-time.Hour)}}, true},
		{"无历史提醒", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mockrepo.New()
			emp := store.AddEmployee(&model.Employee{Email: "e@example.com"})
			sch := store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-03-01")})

			if tt.prior != nil {
				tt.prior.RecipientType = model.RecipientAdmin
				_ = tt.prior.SetData(map[string]string{"schedule_id": sch.ScheduleID})
				store.AddNotification(tt.prior)
			}

			result, err := newDispatcher(store).Run(context.Background(), now, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("运行失败: %v", err)
			}
			if got := result.Affected == 1; got != tt.wantNew {
				t.Errorf("是否新建提醒期望 %v，实际 affected=%d", tt.wantNew, result.Affected)
			}
		})
	}
}

func TestReviewDispatcher_MissingEmployeeSkipped(t *testing.T) {
	store := mockrepo.New()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	emp := store.AddEmployee(&model.Employee{Email: "ok@example.com"})
	store.AddReview(&model.ReviewSchedule{EmployeeID: "ghost", ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-03-01")})
	store.AddReview(&model.ReviewSchedule{EmployeeID: emp.EmployeeID, ReviewType: model.ReviewTypeOneWeek, ScheduledDate: mockrepo.Date("2024-03-02")})

	result, err := newDispatcher(store).Run(context.Background(), now, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("缺失员工不应导致失败: %v", err)
	}
	if result.Affected != 1 || result.Status != StatusSuccess {
		t.Errorf("应跳过缺失员工并继续处理，实际=%+v", result)
	}
	if !strings.Contains(store.Notifications[0].Message, "ok@example.com") {
		t.Errorf("无姓名时应使用邮箱: %s", store.Notifications[0].Message)
	}
}

func TestReviewDispatcher_PropagatesError(t *testing.T) {
	store := mockrepo.New()
	store.Err = errors.New("db down")

	result, err := newDispatcher(store).Run(context.Background(), testNow, &bytes.Buffer{})
	if err == nil || result.Status != StatusFailure {
		t.Errorf("持久化错误应向上返回，result=%+v err=%v", result, err)
	}
}
