package model

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEmployee_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		emp  Employee
		want string
	}{
		{
			name: "优先使用个人资料姓名",
			emp: Employee{
				Email:        "jane@example.com",
				FirstName:    strPtr("Flat"),
				LastName:     strPtr("Name"),
				PersonalInfo: &EmployeePersonalInfo{FirstName: "Jane", LastName: "Doe"},
			},
			want: "Jane Doe",
		},
		{
			name: "个人资料为空时回退到员工表姓名",
			emp: Employee{
				Email:        "jane@example.com",
				FirstName:    strPtr("Flat"),
				LastName:     strPtr("Name"),
				PersonalInfo: &EmployeePersonalInfo{},
			},
			want: "Flat Name",
		},
		{
			name: "仅有名",
			emp:  Employee{Email: "jane@example.com", FirstName: strPtr("Jane")},
			want: "Jane",
		},
		{
			name: "无姓名时使用邮箱",
			emp:  Employee{Email: "jane@example.com"},
			want: "jane@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.emp.DisplayName(); got != tt.want {
				t.Errorf("DisplayName()=%q，期望 %q", got, tt.want)
			}
		})
	}
}

func TestShift_ConflictEligible(t *testing.T) {
	if (&Shift{CreatedFrom: ShiftOriginOpenShift}).ConflictEligible() {
		t.Error("未分配员工的班次不应参与冲突判定")
	}
	if (&Shift{EmployeeID: strPtr("emp-7"), CreatedFrom: ShiftOriginManual}).ConflictEligible() {
		t.Error("手动创建的班次不应参与冲突判定")
	}
	if !(&Shift{EmployeeID: strPtr("emp-7"), CreatedFrom: ShiftOriginOpenShift}).ConflictEligible() {
		t.Error("认领的开放班次应参与冲突判定")
	}
}

func TestReviewSchedule_UrgencyAt(t *testing.T) {
	today := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		scheduled  time.Time
		wantStatus string
		wantDays   int
	}{
		{date(2024, 1, 7), UrgencyOverdue, 3},
		{date(2024, 1, 10), UrgencyDueSoon, 0},
		{date(2024, 1, 17), UrgencyDueSoon, -7},
		{date(2024, 1, 18), UrgencyOnTrack, -8},
	}

	for _, tt := range tests {
		r := &ReviewSchedule{ScheduledDate: tt.scheduled}
		u := r.UrgencyAt(today, 7)
		if u.Status != tt.wantStatus || u.DaysOverdue != tt.wantDays {
			t.Errorf("scheduled=%s: 得到 (%s, %d)，期望 (%s, %d)",
				tt.scheduled.Format(DateLayout), u.Status, u.DaysOverdue, tt.wantStatus, tt.wantDays)
		}
	}
}

func TestReviewTypeLabel(t *testing.T) {
	cases := map[string]string{
		ReviewTypeOneWeek:   "1 Week Review",
		ReviewTypeQuarterly: "Quarterly Review",
		"six_month_checkin": "Six Month Checkin",
		"probation":         "Probation",
		"PIP_review":        "PIP Review",
	}
	for in, want := range cases {
		if got := ReviewTypeLabel(in); got != want {
			t.Errorf("ReviewTypeLabel(%q)=%q，期望 %q", in, got, want)
		}
	}
}

func TestAvailabilityRequest_ExpiredBefore(t *testing.T) {
	today := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	past := date(2024, 3, 9)
	same := date(2024, 3, 10)

	tests := []struct {
		name string
		req  AvailabilityRequest
		want bool
	}{
		{"已过期的临时申请", AvailabilityRequest{Type: AvailabilityTemporary, Status: RequestStatusApproved, EffectiveEndDate: &past}, true},
		{"当天结束不算过期", AvailabilityRequest{Type: AvailabilityTemporary, Status: RequestStatusApproved, EffectiveEndDate: &same}, false},
		{"无结束日期", AvailabilityRequest{Type: AvailabilityTemporary, Status: RequestStatusApproved}, false},
		{"未审批", AvailabilityRequest{Type: AvailabilityTemporary, Status: RequestStatusPending, EffectiveEndDate: &past}, false},
		{"常规申请", AvailabilityRequest{Type: AvailabilityPermanent, Status: RequestStatusApproved, EffectiveEndDate: &past}, false},
	}
	for _, tt := range tests {
		if got := tt.req.ExpiredBefore(today); got != tt.want {
			t.Errorf("%s: 得到 %v，期望 %v", tt.name, got, tt.want)
		}
	}
}

func TestRole_Can(t *testing.T) {
	if !RoleAdmin.Can(PermJobsRun) {
		t.Error("admin 应具备全部能力")
	}
	if RoleEmployee.Can(PermShiftsManage) {
		t.Error("employee 不应具备排班管理能力")
	}
	if !RoleManager.Can(PermReviewsManage) {
		t.Error("manager 应具备评估管理能力")
	}
	for _, p := range []Permission{PermNotificationsAdmin, PermJobsRun} {
		if RoleManager.Can(p) || RoleEmployee.Can(p) {
			t.Errorf("%s 仅管理员具备", p)
		}
	}
	if Role("guest").Valid() {
		t.Error("未知角色不应合法")
	}
}

func TestTierFor(t *testing.T) {
	cases := map[int]string{0: TierBronze, 499: TierBronze, 500: TierSilver, 2000: TierGold, 5000: TierPlatinum}
	for points, want := range cases {
		if got := TierFor(points); got != want {
			t.Errorf("TierFor(%d)=%s，期望 %s", points, got, want)
		}
	}
}
