// Package mockrepo 提供内存版 Repository 实现，供 service 与 job 单元测试注入
package mockrepo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// Store 内存数据集合；Err 非 nil 时所有读写方法直接返回该错误
type Store struct {
	Clock func() time.Time
	Err   error

	Employees     map[string]*model.Employee
	Shifts        map[string]*model.Shift
	OpenShifts    map[string]*model.OpenShift
	Reviews       map[string]*model.ReviewSchedule
	Notifications []*model.Notification
	Availability  map[string]*model.AvailabilityRequest
	Customers     map[string]*model.Customer
	Transactions  []*model.LoyaltyTransaction

	// 写操作计数，用于断言幂等
	ConflictWrites     int
	NotificationWrites int
	AvailabilityDelete int

	seq int
}

// New 创建空的内存数据集合
func New() *Store {
	return &Store{
		Clock:        time.Now,
		Employees:    make(map[string]*model.Employee),
		Shifts:       make(map[string]*model.Shift),
		OpenShifts:   make(map[string]*model.OpenShift),
		Reviews:      make(map[string]*model.ReviewSchedule),
		Availability: make(map[string]*model.AvailabilityRequest),
		Customers:    make(map[string]*model.Customer),
	}
}

// Repository 组装 Repository 聚合（未绑定数据库，Transaction 直接执行回调）
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Employee:     &employeeRepo{s},
		Shift:        &shiftRepo{s},
		OpenShift:    &openShiftRepo{s},
		Review:       &reviewRepo{s},
		Notification: &notificationRepo{s},
		Availability: &availabilityRepo{s},
		Customer:     &customerRepo{s},
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// ── 测试数据构造 ──

// AddEmployee 写入员工，未指定 ID 时自动生成
func (s *Store) AddEmployee(e *model.Employee) *model.Employee {
	if e.EmployeeID == "" {
		e.EmployeeID = s.nextID("emp")
	}
	if e.Role == "" {
		e.Role = model.RoleEmployee
	}
	if e.Status == "" {
		e.Status = model.EmployeeStatusActive
	}
	if e.PersonalInfo != nil {
		e.PersonalInfo.EmployeeID = e.EmployeeID
	}
	s.Employees[e.EmployeeID] = e
	return e
}

// AddShift 写入班次
func (s *Store) AddShift(sh *model.Shift) *model.Shift {
	if sh.ShiftID == "" {
		sh.ShiftID = s.nextID("shift")
	}
	if sh.Status == "" {
		sh.Status = model.ShiftStatusActive
	}
	if sh.CreatedFrom == "" {
		sh.CreatedFrom = model.ShiftOriginManual
	}
	s.Shifts[sh.ShiftID] = sh
	return sh
}

// AddReview 写入评估计划
func (s *Store) AddReview(r *model.ReviewSchedule) *model.ReviewSchedule {
	if r.ScheduleID == "" {
		r.ScheduleID = s.nextID("review")
	}
	s.Reviews[r.ScheduleID] = r
	return r
}

// AddAvailability 写入可用时间申请
func (s *Store) AddAvailability(a *model.AvailabilityRequest) *model.AvailabilityRequest {
	if a.RequestID == "" {
		a.RequestID = s.nextID("avail")
	}
	s.Availability[a.RequestID] = a
	return a
}

// AddNotification 直接写入通知（不计入写操作计数）
func (s *Store) AddNotification(n *model.Notification) *model.Notification {
	if n.NotificationID == "" {
		n.NotificationID = s.nextID("notif")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.Clock()
	}
	s.Notifications = append(s.Notifications, n)
	return n
}

// NotificationsOfType 按类型筛选通知
func (s *Store) NotificationsOfType(notifType string) []*model.Notification {
	var result []*model.Notification
	for _, n := range s.Notifications {
		if n.Type == notifType {
			result = append(result, n)
		}
	}
	return result
}

// Date 构造 UTC 零点日期，格式 YYYY-MM-DD
func Date(v string) time.Time {
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		panic(err)
	}
	return t
}

func notFound() error { return gorm.ErrRecordNotFound }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortByDate[T any](items []T, key func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool { return key(items[i]).Before(key(items[j])) })
}
