package model

import (
	"strings"
	"time"
)

// 员工状态
const (
	EmployeeStatusPending  = "pending"
	EmployeeStatusActive   = "active"
	EmployeeStatusRejected = "rejected"
	EmployeeStatusInactive = "inactive"
)

// Employee 员工表 — 对应 employees
type Employee struct {
	EmployeeID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Email        string     `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	FirstName    *string    `gorm:"type:varchar(100)"                              json:"first_name,omitempty"`
	LastName     *string    `gorm:"type:varchar(100)"                              json:"last_name,omitempty"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | active | rejected | inactive
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApprovedBy   *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	RejectReason string     `gorm:"type:varchar(500)"                              json:"reject_reason,omitempty"`
	SoftDeleteModel

	// 关联
	PersonalInfo *EmployeePersonalInfo `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"personal_info,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// IsActive 员工是否处于在职可用状态
func (e *Employee) IsActive() bool { return e.Status == EmployeeStatusActive }

// DisplayName 展示名称
// 优先级：个人资料中的姓名 → 员工表上的姓名字段 → 邮箱
func (e *Employee) DisplayName() string {
	if e.PersonalInfo != nil {
		if name := joinName(e.PersonalInfo.FirstName, e.PersonalInfo.LastName); name != "" {
			return name
		}
	}
	var first, last string
	if e.FirstName != nil {
		first = *e.FirstName
	}
	if e.LastName != nil {
		last = *e.LastName
	}
	if name := joinName(first, last); name != "" {
		return name
	}
	return e.Email
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// EmployeePersonalInfo 员工个人资料 — 对应 employee_personal_infos（与 employees 1:1）
type EmployeePersonalInfo struct {
	EmployeeID string `gorm:"type:uuid;primaryKey"       json:"employee_id"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone      string `gorm:"type:varchar(30)"           json:"phone,omitempty"`
	Address    string `gorm:"type:varchar(255)"          json:"address,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EmployeePersonalInfo) TableName() string { return "employee_personal_infos" }
