package dto

// ── 可用时间模块 DTO ──

// CreateAvailabilityRequest 提交可用时间申请
type CreateAvailabilityRequest struct {
	Type               string  `json:"type"                 binding:"required,oneof=permanent temporary"`
	DayOfWeek          int     `json:"day_of_week"          binding:"required,min=1,max=7"`
	StartTime          string  `json:"start_time"           binding:"required,datetime=15:04"`
	EndTime            string  `json:"end_time"             binding:"required,datetime=15:04"`
	EffectiveStartDate *string `json:"effective_start_date" binding:"omitempty,datetime=2006-01-02"`
	EffectiveEndDate   *string `json:"effective_end_date"   binding:"omitempty,datetime=2006-01-02"`
	Reason             string  `json:"reason"               binding:"omitempty,max=500"`
}

// ReviewAvailabilityRequest 审批可用时间申请
type ReviewAvailabilityRequest struct {
	Approve bool `json:"approve"`
}

// AvailabilityResponse 可用时间申请信息
type AvailabilityResponse struct {
	ID                 string `json:"id"`
	EmployeeID         string `json:"employee_id"`
	Type               string `json:"type"`
	DayOfWeek          int    `json:"day_of_week"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	EffectiveStartDate string `json:"effective_start_date,omitempty"`
	EffectiveEndDate   string `json:"effective_end_date,omitempty"`
	Status             string `json:"status"`
	Reason             string `json:"reason,omitempty"`
}
