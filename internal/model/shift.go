package model

import "time"

// 班次状态
const (
	ShiftStatusActive    = "active"
	ShiftStatusCompleted = "completed"
	ShiftStatusCancelled = "cancelled"
)

// 班次来源
const (
	ShiftOriginManual    = "manual"
	ShiftOriginOpenShift = "open_shift"
)

// Shift 班次表 — 对应 shifts
type Shift struct {
	ShiftID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	EmployeeID  *string    `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	ShiftDate   time.Time  `gorm:"type:date;not null"                             json:"shift_date"`
	StartTime   string     `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string     `gorm:"type:time;not null"                             json:"end_time"`
	Position    string     `gorm:"type:varchar(100)"                              json:"position,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`       // active | completed | cancelled
	CreatedFrom string     `gorm:"type:varchar(20);not null;default:'manual'"     json:"created_from"` // manual | open_shift
	OpenShiftID *string    `gorm:"type:uuid"                                      json:"open_shift_id,omitempty"`
	IsConflict  bool       `gorm:"not null;default:false"                         json:"is_conflict"` // 仅由冲突检测任务写入
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   *string    `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// ConflictEligible 是否参与冲突判定：必须已分配员工且来源于开放班次认领
func (s *Shift) ConflictEligible() bool {
	return s.EmployeeID != nil && *s.EmployeeID != "" && s.CreatedFrom == ShiftOriginOpenShift
}

// 开放班次状态
const (
	OpenShiftStatusOpen      = "open"
	OpenShiftStatusClaimed   = "claimed"
	OpenShiftStatusCancelled = "cancelled"
)

// OpenShift 开放班次表 — 对应 open_shifts（任何符合条件的员工可认领）
type OpenShift struct {
	OpenShiftID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"open_shift_id"`
	ShiftDate   time.Time  `gorm:"type:date;not null"                             json:"shift_date"`
	StartTime   string     `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string     `gorm:"type:time;not null"                             json:"end_time"`
	Position    string     `gorm:"type:varchar(100)"                              json:"position,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'open'"       json:"status"` // open | claimed | cancelled
	ClaimedBy   *string    `gorm:"type:uuid"                                      json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CreatedBy   *string    `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (OpenShift) TableName() string { return "open_shifts" }
