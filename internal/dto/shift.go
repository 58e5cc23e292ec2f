package dto

// ── 排班模块 DTO ──

// CreateShiftRequest 手动排班
type CreateShiftRequest struct {
	EmployeeID *string `json:"employee_id" binding:"omitempty"`
	ShiftDate  string  `json:"shift_date"  binding:"required,datetime=2006-01-02"`
	StartTime  string  `json:"start_time"  binding:"required,datetime=15:04"`
	EndTime    string  `json:"end_time"    binding:"required,datetime=15:04"`
	Position   string  `json:"position"    binding:"omitempty,max=100"`
}

// CreateOpenShiftRequest 发布开放班次
type CreateOpenShiftRequest struct {
	ShiftDate string `json:"shift_date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"`
	Position  string `json:"position"   binding:"omitempty,max=100"`
}

// ShiftListRequest 班次查询参数（日期闭区间）
type ShiftListRequest struct {
	From       string `form:"from"        binding:"required,datetime=2006-01-02"`
	To         string `form:"to"          binding:"required,datetime=2006-01-02"`
	EmployeeID string `form:"employee_id" binding:"omitempty"`
	Status     string `form:"status"      binding:"omitempty,oneof=active completed cancelled"`
}

// ShiftResponse 班次信息
type ShiftResponse struct {
	ID           string  `json:"id"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName string  `json:"employee_name,omitempty"`
	ShiftDate    string  `json:"shift_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Position     string  `json:"position,omitempty"`
	Status       string  `json:"status"`
	CreatedFrom  string  `json:"created_from"`
	IsConflict   bool    `json:"is_conflict"`
}

// OpenShiftResponse 开放班次信息
type OpenShiftResponse struct {
	ID        string  `json:"id"`
	ShiftDate string  `json:"shift_date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Position  string  `json:"position,omitempty"`
	Status    string  `json:"status"`
	ClaimedBy *string `json:"claimed_by,omitempty"`
}
