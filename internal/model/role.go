package model

// Role 员工角色。单一主体类型 + 角色枚举 + 能力集合，替代按用户子类型判断权限
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Permission 能力字符串
type Permission string

const (
	PermEmployeesManage    Permission = "employees.manage"
	PermShiftsManage       Permission = "shifts.manage"
	PermShiftsClaim        Permission = "shifts.claim"
	PermReviewsManage      Permission = "reviews.manage"
	PermAvailabilityReview Permission = "availability.review"
	PermAvailabilitySubmit Permission = "availability.submit"
	PermCustomersManage    Permission = "customers.manage"
	PermNotificationsAdmin Permission = "notifications.admin"
	PermJobsRun            Permission = "jobs.run"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleManager: {
		PermShiftsManage:       true,
		PermShiftsClaim:        true,
		PermReviewsManage:      true,
		PermAvailabilityReview: true,
		PermAvailabilitySubmit: true,
		PermCustomersManage:    true,
	},
	RoleEmployee: {
		PermShiftsClaim:        true,
		PermAvailabilitySubmit: true,
		PermCustomersManage:    true,
	},
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Can 角色是否具备指定能力；admin 具备全部能力
func (r Role) Can(p Permission) bool {
	if r == RoleAdmin {
		return true
	}
	return rolePermissions[r][p]
}
