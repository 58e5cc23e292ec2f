package dto

// ── 绩效评估模块 DTO ──

// ReviewListRequest 评估计划查询参数
type ReviewListRequest struct {
	EmployeeID       string `form:"employee_id"`
	IncludeCompleted bool   `form:"include_completed"`
	Urgency          string `form:"urgency" binding:"omitempty,oneof=overdue due_soon on_track"`
}

// CompleteReviewRequest 完成评估
type CompleteReviewRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=5000"`
}

// ReviewScheduleResponse 评估计划（含派生紧急程度）
type ReviewScheduleResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name,omitempty"`
	ReviewType      string `json:"review_type"`
	ReviewTypeLabel string `json:"review_type_label"`
	ScheduledDate   string `json:"scheduled_date"`
	Completed       bool   `json:"completed"`
	UrgencyStatus   string `json:"urgency_status"`
	DaysOverdue     int    `json:"days_overdue"`
}
