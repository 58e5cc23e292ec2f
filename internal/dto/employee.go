package dto

// ── 员工模块 DTO ──

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=pending active rejected inactive"`
	Role    string `form:"role"    binding:"omitempty,oneof=admin manager employee"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// RejectEmployeeRequest 驳回注册
type RejectEmployeeRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// AssignRoleRequest 分配角色
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin manager employee"`
}

// EmployeeResponse 员工信息（脱敏）
type EmployeeResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Phone       string `json:"phone,omitempty"`
	ApprovedAt  string `json:"approved_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}
