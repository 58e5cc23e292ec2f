package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 绩效评估类型
const (
	ReviewTypeOneWeek    = "one_week"
	ReviewTypeOneMonth   = "one_month"
	ReviewTypeThreeMonth = "three_month"
	ReviewTypeQuarterly  = "quarterly"
	ReviewTypeAnnual     = "annual"
)

// 紧急程度
const (
	UrgencyOverdue = "overdue"
	UrgencyDueSoon = "due_soon"
	UrgencyOnTrack = "on_track"
)

// ReviewSchedule 绩效评估计划表 — 对应 review_schedules
type ReviewSchedule struct {
	ScheduleID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	EmployeeID    string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	ReviewType    string     `gorm:"type:varchar(30);not null"                      json:"review_type"`
	ScheduledDate time.Time  `gorm:"type:date;not null"                             json:"scheduled_date"`
	Completed     bool       `gorm:"not null;default:false"                         json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   *string    `gorm:"type:uuid"                                      json:"completed_by,omitempty"`
	Notes         string     `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (ReviewSchedule) TableName() string { return "review_schedules" }

// Urgency 派生的紧急程度
// DaysOverdue 为正表示已逾期天数，为负表示剩余天数
type Urgency struct {
	Status      string
	DaysOverdue int
}

// IsUrgent 是否需要提醒（逾期或即将到期）
func (u Urgency) IsUrgent() bool {
	return u.Status == UrgencyOverdue || u.Status == UrgencyDueSoon
}

// UrgencyAt 以 today 所在自然日计算紧急程度
// 计划日早于今天为 overdue；距今 dueSoonDays 天内（含当天）为 due_soon
func (r *ReviewSchedule) UrgencyAt(today time.Time, dueSoonDays int) Urgency {
	days := DaysBetween(r.ScheduledDate, today)
	switch {
	case days > 0:
		return Urgency{Status: UrgencyOverdue, DaysOverdue: days}
	case -days <= dueSoonDays:
		return Urgency{Status: UrgencyDueSoon, DaysOverdue: days}
	default:
		return Urgency{Status: UrgencyOnTrack, DaysOverdue: days}
	}
}

var reviewTypeLabels = map[string]string{
	ReviewTypeOneWeek:    "1 Week Review",
	ReviewTypeOneMonth:   "1 Month Review",
	ReviewTypeThreeMonth: "3 Month Review",
	ReviewTypeQuarterly:  "Quarterly Review",
	ReviewTypeAnnual:     "Annual Review",
}

var labelCaser = cases.Title(language.English, cases.NoLower)

// ReviewTypeLabel 评估类型展示名，未登记的类型按下划线转空格并首字母大写
func ReviewTypeLabel(reviewType string) string {
	if label, ok := reviewTypeLabels[reviewType]; ok {
		return label
	}
	return labelCaser.String(strings.ReplaceAll(reviewType, "_", " "))
}

// DefaultReviewOffsets 首次上岗后自动生成的评估计划及其相对天数
var DefaultReviewOffsets = []struct {
	ReviewType string
	Days       int
}{
	{ReviewTypeOneWeek, 7},
	{ReviewTypeOneMonth, 30},
	{ReviewTypeQuarterly, 90},
}
