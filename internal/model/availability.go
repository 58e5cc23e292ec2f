package model

import "time"

// 可用时间申请类型
const (
	AvailabilityPermanent = "permanent"
	AvailabilityTemporary = "temporary"
)

// 审批状态
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// AvailabilityRequest 可用时间申请表 — 对应 availability_requests
// temporary 类型在 [EffectiveStartDate, EffectiveEndDate] 内覆盖常规可用时间
type AvailabilityRequest struct {
	RequestID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	EmployeeID         string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	Type               string     `gorm:"type:varchar(20);not null;default:'permanent'"  json:"type"`        // permanent | temporary
	DayOfWeek          int        `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime          string     `gorm:"type:time;not null"                             json:"start_time"`
	EndTime            string     `gorm:"type:time;not null"                             json:"end_time"`
	EffectiveStartDate *time.Time `gorm:"type:date"                                      json:"effective_start_date,omitempty"`
	EffectiveEndDate   *time.Time `gorm:"type:date"                                      json:"effective_end_date,omitempty"`
	Status             string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	Reason             string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	ReviewedBy         *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (AvailabilityRequest) TableName() string { return "availability_requests" }

// ExpiredBefore 是否为已过期的临时申请：temporary + approved + 结束日严格早于 today
func (a *AvailabilityRequest) ExpiredBefore(today time.Time) bool {
	if a.Type != AvailabilityTemporary || a.Status != RequestStatusApproved || a.EffectiveEndDate == nil {
		return false
	}
	return DaysBetween(*a.EffectiveEndDate, today) > 0
}
