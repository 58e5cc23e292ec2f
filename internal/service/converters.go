package service

import (
	"strings"
	"time"

	"staffhub/internal/dto"
	"staffhub/internal/model"
)

// ── 模型 → DTO 转换 ──

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:          e.EmployeeID,
		Email:       e.Email,
		DisplayName: e.DisplayName(),
		Role:        string(e.Role),
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.PersonalInfo != nil {
		resp.Phone = e.PersonalInfo.Phone
	}
	if e.ApprovedAt != nil {
		resp.ApprovedAt = e.ApprovedAt.Format(time.RFC3339)
	}
	return resp
}

func toShiftResponse(s *model.Shift) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:          s.ShiftID,
		EmployeeID:  s.EmployeeID,
		ShiftDate:   s.ShiftDate.Format(model.DateLayout),
		StartTime:   clockString(s.StartTime),
		EndTime:     clockString(s.EndTime),
		Position:    s.Position,
		Status:      s.Status,
		CreatedFrom: s.CreatedFrom,
		IsConflict:  s.IsConflict,
	}
	if s.Employee != nil {
		resp.EmployeeName = s.Employee.DisplayName()
	}
	return resp
}

func toOpenShiftResponse(o *model.OpenShift) dto.OpenShiftResponse {
	return dto.OpenShiftResponse{
		ID:        o.OpenShiftID,
		ShiftDate: o.ShiftDate.Format(model.DateLayout),
		StartTime: clockString(o.StartTime),
		EndTime:   clockString(o.EndTime),
		Position:  o.Position,
		Status:    o.Status,
		ClaimedBy: o.ClaimedBy,
	}
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.NotificationID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if len(n.Data) > 0 {
		resp.Data = []byte(n.Data)
	}
	return resp
}

func toAvailabilityResponse(a *model.AvailabilityRequest) dto.AvailabilityResponse {
	resp := dto.AvailabilityResponse{
		ID:         a.RequestID,
		EmployeeID: a.EmployeeID,
		Type:       a.Type,
		DayOfWeek:  a.DayOfWeek,
		StartTime:  clockString(a.StartTime),
		EndTime:    clockString(a.EndTime),
		Status:     a.Status,
		Reason:     a.Reason,
	}
	if a.EffectiveStartDate != nil {
		resp.EffectiveStartDate = a.EffectiveStartDate.Format(model.DateLayout)
	}
	if a.EffectiveEndDate != nil {
		resp.EffectiveEndDate = a.EffectiveEndDate.Format(model.DateLayout)
	}
	return resp
}

func toCustomerResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:             c.CustomerID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		PointsBalance:  c.PointsBalance,
		LifetimePoints: c.LifetimePoints,
		Tier:           c.Tier,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toLoyaltyTransactionResponse(t *model.LoyaltyTransaction) dto.LoyaltyTransactionResponse {
	return dto.LoyaltyTransactionResponse{
		ID:        t.TransactionID,
		Points:    t.Points,
		Kind:      t.Kind,
		Reason:    t.Reason,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// ── 时间辅助 ──

// clockString 统一输出 HH:MM（数据库 time 列读回为 HH:MM:SS）
func clockString(v string) string {
	if len(v) >= 5 && strings.Count(v, ":") >= 1 {
		return v[:5]
	}
	return v
}

// parseClock 解析 HH:MM 或 HH:MM:SS，返回自零点起的偏移
func parseClock(v string) (time.Duration, error) {
	layout := "15:04"
	if strings.Count(v, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
}

// parseDate 解析 YYYY-MM-DD
func parseDate(v string) (time.Time, error) {
	return time.Parse(model.DateLayout, v)
}

// validTimeRange 结束时间必须晚于开始时间
func validTimeRange(start, end string) bool {
	s, err := parseClock(start)
	if err != nil {
		return false
	}
	e, err := parseClock(end)
	if err != nil {
		return false
	}
	return e > s
}
