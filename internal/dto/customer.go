package dto

// ── 顾客积分模块 DTO ──

// CreateCustomerRequest 新建顾客
type CreateCustomerRequest struct {
	Name  string  `json:"name"  binding:"required,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=30"`
}

// CustomerListRequest 顾客列表查询参数
type CustomerListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
	Tier    string `form:"tier"    binding:"omitempty,oneof=bronze silver gold platinum"`
}

// PointsRequest 积分入账/兑换
type PointsRequest struct {
	Points int    `json:"points" binding:"required,min=1,max=100000"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// CustomerResponse 顾客信息
type CustomerResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	PointsBalance  int     `json:"points_balance"`
	LifetimePoints int     `json:"lifetime_points"`
	Tier           string  `json:"tier"`
	CreatedAt      string  `json:"created_at"`
}

// LoyaltyTransactionResponse 积分流水
type LoyaltyTransactionResponse struct {
	ID        string `json:"id"`
	Points    int    `json:"points"`
	Kind      string `json:"kind"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}
