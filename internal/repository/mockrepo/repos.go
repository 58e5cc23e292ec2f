package mockrepo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"staffhub/internal/model"
	"staffhub/internal/repository"
	pkgerrors "staffhub/pkg/errors"
)

// ── Mock EmployeeRepository ──

type employeeRepo struct{ s *Store }

func (r *employeeRepo) Create(_ context.Context, e *model.Employee) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	e.CreatedAt = r.s.Clock()
	r.s.AddEmployee(e)
	return nil
}

func (r *employeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if e, ok := r.s.Employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, notFound()
}

func (r *employeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, e := range r.s.Employees {
		if strings.EqualFold(e.Email, email) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, notFound()
}

func (r *employeeRepo) List(_ context.Context, filters *repository.EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	var all []model.Employee
	for _, e := range r.s.Employees {
		if filters != nil {
			if filters.Status != "" && e.Status != filters.Status {
				continue
			}
			if filters.Role != "" && string(e.Role) != filters.Role {
				continue
			}
			if filters.Keyword != "" && !containsFold(e.Email, filters.Keyword) && !containsFold(e.DisplayName(), filters.Keyword) {
				continue
			}
		}
		all = append(all, *e)
	}
	sortByDate(all, func(e model.Employee) time.Time { return e.CreatedAt })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *employeeRepo) ListByRole(_ context.Context, role model.Role) ([]model.Employee, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.Employee
	for _, e := range r.s.Employees {
		if e.Role == role && e.IsActive() {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *employeeRepo) Update(_ context.Context, e *model.Employee) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	stored, ok := r.s.Employees[e.EmployeeID]
	if !ok {
		return nil
	}
	stored.Role = e.Role
	stored.Status = e.Status
	stored.ApprovedAt = e.ApprovedAt
	stored.ApprovedBy = e.ApprovedBy
	stored.RejectReason = e.RejectReason
	stored.FirstName = e.FirstName
	stored.LastName = e.LastName
	return nil
}

// ── Mock ShiftRepository ──

type shiftRepo struct{ s *Store }

func (r *shiftRepo) withEmployee(sh model.Shift) model.Shift {
	if sh.EmployeeID != nil {
		if e, ok := r.s.Employees[*sh.EmployeeID]; ok {
			sh.Employee = e
		}
	}
	return sh
}

func (r *shiftRepo) Create(_ context.Context, sh *model.Shift) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.AddShift(sh)
	return nil
}

func (r *shiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if sh, ok := r.s.Shifts[id]; ok {
		cp := r.withEmployee(*sh)
		return &cp, nil
	}
	return nil, notFound()
}

func (r *shiftRepo) List(_ context.Context, filters *repository.ShiftListFilters) ([]model.Shift, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.Shift
	for _, sh := range r.s.Shifts {
		if model.DaysBetween(filters.From, sh.ShiftDate) < 0 || model.DaysBetween(sh.ShiftDate, filters.To) < 0 {
			continue
		}
		if filters.EmployeeID != "" && (sh.EmployeeID == nil || *sh.EmployeeID != filters.EmployeeID) {
			continue
		}
		if filters.Status != "" && sh.Status != filters.Status {
			continue
		}
		result = append(result, r.withEmployee(*sh))
	}
	sortByDate(result, func(sh model.Shift) time.Time { return sh.ShiftDate })
	return result, nil
}

func (r *shiftRepo) UpdateStatus(_ context.Context, id, fromStatus, toStatus string, completedAt *time.Time) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	sh, ok := r.s.Shifts[id]
	if !ok || sh.Status != fromStatus {
		return pkgerrors.ErrInvalidState
	}
	sh.Status = toStatus
	sh.CompletedAt = completedAt
	return nil
}

func (r *shiftRepo) ListActive(_ context.Context) ([]model.Shift, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.Shift
	for _, sh := range r.s.Shifts {
		if sh.Status == model.ShiftStatusActive {
			result = append(result, *sh)
		}
	}
	sortByDate(result, func(sh model.Shift) time.Time { return sh.ShiftDate })
	return result, nil
}

func (r *shiftRepo) CountActiveByEmployeeOnDate(_ context.Context, employeeID string, date time.Time) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var count int64
	for _, sh := range r.s.Shifts {
		if sh.Status == model.ShiftStatusActive && sh.EmployeeID != nil && *sh.EmployeeID == employeeID && model.SameDate(sh.ShiftDate, date) {
			count++
		}
	}
	return count, nil
}

func (r *shiftRepo) UpdateConflict(_ context.Context, id string, isConflict bool) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.ConflictWrites++
	if sh, ok := r.s.Shifts[id]; ok {
		sh.IsConflict = isConflict
	}
	return nil
}

func (r *shiftRepo) CountCompletedByEmployee(_ context.Context, employeeID string) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var count int64
	for _, sh := range r.s.Shifts {
		if sh.Status == model.ShiftStatusCompleted && sh.EmployeeID != nil && *sh.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

// ── Mock OpenShiftRepository ──

type openShiftRepo struct{ s *Store }

func (r *openShiftRepo) Create(_ context.Context, o *model.OpenShift) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	if o.OpenShiftID == "" {
		o.OpenShiftID = r.s.nextID("open")
	}
	if o.Status == "" {
		o.Status = model.OpenShiftStatusOpen
	}
	r.s.OpenShifts[o.OpenShiftID] = o
	return nil
}

func (r *openShiftRepo) GetByID(_ context.Context, id string) (*model.OpenShift, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if o, ok := r.s.OpenShifts[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, notFound()
}

func (r *openShiftRepo) ListOpen(_ context.Context, from time.Time) ([]model.OpenShift, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.OpenShift
	for _, o := range r.s.OpenShifts {
		if o.Status == model.OpenShiftStatusOpen && model.DaysBetween(from, o.ShiftDate) >= 0 {
			result = append(result, *o)
		}
	}
	sortByDate(result, func(o model.OpenShift) time.Time { return o.ShiftDate })
	return result, nil
}

func (r *openShiftRepo) MarkClaimed(_ context.Context, id, employeeID string, at time.Time) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	o, ok := r.s.OpenShifts[id]
	if !ok || o.Status != model.OpenShiftStatusOpen {
		return pkgerrors.ErrInvalidState
	}
	o.Status = model.OpenShiftStatusClaimed
	o.ClaimedBy = &employeeID
	o.ClaimedAt = &at
	return nil
}

func (r *openShiftRepo) Cancel(_ context.Context, id string) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	o, ok := r.s.OpenShifts[id]
	if !ok || o.Status != model.OpenShiftStatusOpen {
		return pkgerrors.ErrInvalidState
	}
	o.Status = model.OpenShiftStatusCancelled
	return nil
}

// ── Mock ReviewScheduleRepository ──

type reviewRepo struct{ s *Store }

func (r *reviewRepo) BatchCreate(_ context.Context, schedules []model.ReviewSchedule) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	for i := range schedules {
		sch := schedules[i]
		r.s.AddReview(&sch)
	}
	return nil
}

func (r *reviewRepo) GetByID(_ context.Context, id string) (*model.ReviewSchedule, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if sch, ok := r.s.Reviews[id]; ok {
		cp := *sch
		cp.Employee = r.s.Employees[sch.EmployeeID]
		return &cp, nil
	}
	return nil, notFound()
}

func (r *reviewRepo) CountByEmployee(_ context.Context, employeeID string) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var count int64
	for _, sch := range r.s.Reviews {
		if sch.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (r *reviewRepo) ListIncomplete(_ context.Context, employeeID string) ([]model.ReviewSchedule, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.ReviewSchedule
	for _, sch := range r.s.Reviews {
		if sch.Completed || (employeeID != "" && sch.EmployeeID != employeeID) {
			continue
		}
		result = append(result, *sch)
	}
	sortByDate(result, func(sch model.ReviewSchedule) time.Time { return sch.ScheduledDate })
	return result, nil
}

func (r *reviewRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.ReviewSchedule, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.ReviewSchedule
	for _, sch := range r.s.Reviews {
		if sch.EmployeeID == employeeID {
			result = append(result, *sch)
		}
	}
	sortByDate(result, func(sch model.ReviewSchedule) time.Time { return sch.ScheduledDate })
	return result, nil
}

func (r *reviewRepo) MarkCompleted(_ context.Context, id, completedBy, notes string, at time.Time) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	sch, ok := r.s.Reviews[id]
	if !ok || sch.Completed {
		return pkgerrors.ErrInvalidState
	}
	sch.Completed = true
	sch.CompletedAt = &at
	sch.CompletedBy = &completedBy
	sch.Notes = notes
	return nil
}

// ── Mock NotificationRepository ──

type notificationRepo struct{ s *Store }

func matchRecipient(n *model.Notification, recipient repository.NotificationRecipient) bool {
	if n.RecipientType != recipient.Type {
		return false
	}
	if recipient.ID == nil {
		return n.RecipientID == nil
	}
	return n.RecipientID != nil && *n.RecipientID == *recipient.ID
}

func (r *notificationRepo) Create(_ context.Context, n *model.Notification) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.NotificationWrites++
	r.s.AddNotification(n)
	return nil
}

func (r *notificationRepo) ExistsUnreadForSchedule(_ context.Context, notificationType, scheduleID string, since time.Time) (bool, error) {
	if r.s.Err != nil {
		return false, r.s.Err
	}
	for _, n := range r.s.Notifications {
		if n.Type != notificationType || n.RecipientType != model.RecipientAdmin || n.IsRead {
			continue
		}
		if n.CreatedAt.Before(since) {
			continue
		}
		var payload struct {
			ScheduleID string `json:"schedule_id"`
		}
		if err := json.Unmarshal(n.Data, &payload); err != nil {
			continue
		}
		if payload.ScheduleID == scheduleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepo) List(_ context.Context, recipient repository.NotificationRecipient, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	var all []model.Notification
	for i := len(r.s.Notifications) - 1; i >= 0; i-- {
		n := r.s.Notifications[i]
		if !matchRecipient(n, recipient) || (unreadOnly && n.IsRead) {
			continue
		}
		all = append(all, *n)
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *notificationRepo) CountUnread(_ context.Context, recipient repository.NotificationRecipient) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var count int64
	for _, n := range r.s.Notifications {
		if matchRecipient(n, recipient) && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, recipient repository.NotificationRecipient, id string, at time.Time) (bool, error) {
	if r.s.Err != nil {
		return false, r.s.Err
	}
	for _, n := range r.s.Notifications {
		if n.NotificationID == id && matchRecipient(n, recipient) {
			n.IsRead = true
			n.ReadAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, recipient repository.NotificationRecipient, at time.Time) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var count int64
	for _, n := range r.s.Notifications {
		if matchRecipient(n, recipient) && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

// ── Mock AvailabilityRepository ──

type availabilityRepo struct{ s *Store }

func (r *availabilityRepo) Create(_ context.Context, a *model.AvailabilityRequest) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.AddAvailability(a)
	return nil
}

func (r *availabilityRepo) GetByID(_ context.Context, id string) (*model.AvailabilityRequest, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if a, ok := r.s.Availability[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, notFound()
}

func (r *availabilityRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.AvailabilityRequest, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.AvailabilityRequest
	for _, a := range r.s.Availability {
		if a.EmployeeID == employeeID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *availabilityRepo) ListPending(_ context.Context) ([]model.AvailabilityRequest, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.AvailabilityRequest
	for _, a := range r.s.Availability {
		if a.Status == model.RequestStatusPending {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *availabilityRepo) Review(_ context.Context, id, status, reviewerID string, at time.Time) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	a, ok := r.s.Availability[id]
	if !ok || a.Status != model.RequestStatusPending {
		return pkgerrors.ErrInvalidState
	}
	a.Status = status
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &at
	return nil
}

func (r *availabilityRepo) ListExpiredTemporary(_ context.Context, today time.Time) ([]model.AvailabilityRequest, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var result []model.AvailabilityRequest
	for _, a := range r.s.Availability {
		if a.ExpiredBefore(today) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *availabilityRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var count int64
	for _, id := range ids {
		if _, ok := r.s.Availability[id]; ok {
			delete(r.s.Availability, id)
			count++
		}
	}
	r.s.AvailabilityDelete += int(count)
	return count, nil
}

// ── Mock CustomerRepository ──

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(_ context.Context, c *model.Customer) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	if c.CustomerID == "" {
		c.CustomerID = r.s.nextID("cust")
	}
	if c.Version == 0 {
		c.Version = 1
	}
	c.CreatedAt = r.s.Clock()
	r.s.Customers[c.CustomerID] = c
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if c, ok := r.s.Customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, notFound()
}

func (r *customerRepo) GetByPhone(_ context.Context, phone string) (*model.Customer, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, c := range r.s.Customers {
		if c.Phone != nil && *c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound()
}

func (r *customerRepo) List(_ context.Context, filters *repository.CustomerListFilters, offset, limit int) ([]model.Customer, int64, error) {
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	var all []model.Customer
	for _, c := range r.s.Customers {
		if filters != nil {
			if filters.Tier != "" && c.Tier != filters.Tier {
				continue
			}
			if filters.Keyword != "" && !containsFold(c.Name, filters.Keyword) {
				continue
			}
		}
		all = append(all, *c)
	}
	sortByDate(all, func(c model.Customer) time.Time { return c.CreatedAt })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *customerRepo) UpdatePoints(_ context.Context, c *model.Customer) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	stored, ok := r.s.Customers[c.CustomerID]
	if !ok || stored.Version != c.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.PointsBalance = c.PointsBalance
	stored.LifetimePoints = c.LifetimePoints
	stored.Tier = c.Tier
	stored.Version++
	c.Version = stored.Version
	return nil
}

func (r *customerRepo) CreateTransaction(_ context.Context, txn *model.LoyaltyTransaction) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	if txn.TransactionID == "" {
		txn.TransactionID = r.s.nextID("txn")
	}
	txn.CreatedAt = r.s.Clock()
	r.s.Transactions = append(r.s.Transactions, txn)
	return nil
}

func (r *customerRepo) ListTransactions(_ context.Context, customerID string, offset, limit int) ([]model.LoyaltyTransaction, int64, error) {
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	var all []model.LoyaltyTransaction
	for i := len(r.s.Transactions) - 1; i >= 0; i-- {
		if t := r.s.Transactions[i]; t.CustomerID == customerID {
			all = append(all, *t)
		}
	}
	return page(all, offset, limit), int64(len(all)), nil
}
