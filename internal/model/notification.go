package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 通知类型
const (
	NotificationReviewOverdue         = "performance_review_overdue"
	NotificationReviewDueSoon         = "performance_review_due_soon"
	NotificationEmployeeRegistered    = "employee_registered"
	NotificationEmployeeApproved      = "employee_approved"
	NotificationAvailabilitySubmitted = "availability_submitted"
	NotificationAvailabilityReviewed  = "availability_reviewed"
)

// 接收方类型
const (
	RecipientAdmin    = "admin"
	RecipientEmployee = "employee"
)

// 优先级
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Notification 通知表 — 对应 notifications
type Notification struct {
	NotificationID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	Type           string         `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string         `gorm:"type:varchar(200);not null"                     json:"title"`
	Message        string         `gorm:"type:text;not null"                             json:"message"`
	RecipientType  string         `gorm:"type:varchar(20);not null;default:'admin'"      json:"recipient_type"` // admin | employee
	RecipientID    *string        `gorm:"type:uuid"                                      json:"recipient_id,omitempty"`
	Priority       string         `gorm:"type:varchar(10);not null;default:'medium'"     json:"priority"` // high | medium | low
	Data           datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"               json:"data"`
	IsRead         bool           `gorm:"not null;default:false"                         json:"is_read"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// SetData 序列化结构化载荷
func (n *Notification) SetData(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	n.Data = datatypes.JSON(b)
	return nil
}

// ReviewNotificationData 绩效评估提醒的结构化载荷
type ReviewNotificationData struct {
	ScheduleID      string `json:"schedule_id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	ReviewType      string `json:"review_type"`
	ReviewTypeLabel string `json:"review_type_label"`
	ScheduledDate   string `json:"scheduled_date"`
	DaysOverdue     int    `json:"days_overdue"`
	UrgencyStatus   string `json:"urgency_status"`
}
