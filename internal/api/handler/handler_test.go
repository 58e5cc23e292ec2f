package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub/internal/api/middleware"
	"staffhub/internal/dto"
	"staffhub/internal/job"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.EmployeeResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	logoutJTI        string
	getCurrentResult *dto.EmployeeResponse
	getCurrentErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.EmployeeResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentEmployee(_ context.Context, _ string) (*dto.EmployeeResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	listResult    []dto.EmployeeResponse
	listTotal     int64
	approveResult *dto.EmployeeResponse
	approveErr    error
	approverID    string
	roleErr       error
	assignedRole  model.Role
}

func (m *mockEmployeeService) List(_ context.Context, _ *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	return m.listResult, m.listTotal, nil
}
func (m *mockEmployeeService) GetByID(_ context.Context, _ string) (*dto.EmployeeResponse, error) {
	return nil, service.ErrEmployeeNotFound
}
func (m *mockEmployeeService) Approve(_ context.Context, _, approverID string) (*dto.EmployeeResponse, error) {
	m.approverID = approverID
	return m.approveResult, m.approveErr
}
func (m *mockEmployeeService) Reject(_ context.Context, _, _, _ string) (*dto.EmployeeResponse, error) {
	return nil, nil
}
func (m *mockEmployeeService) Deactivate(_ context.Context, _, _ string) error {
	return nil
}
func (m *mockEmployeeService) AssignRole(_ context.Context, _ string, role model.Role, _ string) error {
	m.assignedRole = role
	return m.roleErr
}
func (m *mockEmployeeService) IsActive(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// ── Mock ShiftService ──

type mockShiftService struct {
	createResult *dto.ShiftResponse
	createErr    error
	listResult   []dto.ShiftResponse
	listErr      error
	completeErr  error
	claimResult  *dto.ShiftResponse
	claimErr     error
	claimedBy    string
}

func (m *mockShiftService) Create(_ context.Context, _ *dto.CreateShiftRequest, _ string) (*dto.ShiftResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockShiftService) List(_ context.Context, _ *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockShiftService) ListMine(_ context.Context, _ string, _ *dto.ShiftListRequest) ([]dto.ShiftResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockShiftService) Cancel(_ context.Context, _ string) error {
	return nil
}
func (m *mockShiftService) Complete(_ context.Context, _ string) error {
	return m.completeErr
}
func (m *mockShiftService) CreateOpenShift(_ context.Context, _ *dto.CreateOpenShiftRequest, _ string) (*dto.OpenShiftResponse, error) {
	return nil, nil
}
func (m *mockShiftService) ListOpenShifts(_ context.Context) ([]dto.OpenShiftResponse, error) {
	return nil, nil
}
func (m *mockShiftService) ClaimOpenShift(_ context.Context, _, employeeID string) (*dto.ShiftResponse, error) {
	m.claimedBy = employeeID
	return m.claimResult, m.claimErr
}
func (m *mockShiftService) CancelOpenShift(_ context.Context, _ string) error {
	return nil
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	inbox       repository.NotificationRecipient
	listResult  []dto.NotificationResponse
	listTotal   int64
	markReadErr error
}

func (m *mockNotificationService) List(_ context.Context, inbox repository.NotificationRecipient, _ *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	m.inbox = inbox
	return m.listResult, m.listTotal, nil
}
func (m *mockNotificationService) UnreadCount(_ context.Context, inbox repository.NotificationRecipient) (*dto.UnreadCountResponse, error) {
	m.inbox = inbox
	return &dto.UnreadCountResponse{Count: 3}, nil
}
func (m *mockNotificationService) MarkRead(_ context.Context, inbox repository.NotificationRecipient, _ string) error {
	m.inbox = inbox
	return m.markReadErr
}
func (m *mockNotificationService) MarkAllRead(_ context.Context, inbox repository.NotificationRecipient) (int64, error) {
	m.inbox = inbox
	return 2, nil
}

// ── Mock CustomerService ──

type mockCustomerService struct {
	pointsResult *dto.CustomerResponse
	pointsErr    error
	lastPoints   int
}

func (m *mockCustomerService) Create(_ context.Context, _ *dto.CreateCustomerRequest, _ string) (*dto.CustomerResponse, error) {
	return nil, nil
}
func (m *mockCustomerService) GetByID(_ context.Context, _ string) (*dto.CustomerResponse, error) {
	return nil, service.ErrCustomerNotFound
}
func (m *mockCustomerService) List(_ context.Context, _ *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockCustomerService) EarnPoints(_ context.Context, _ string, req *dto.PointsRequest, _ string) (*dto.CustomerResponse, error) {
	m.lastPoints = req.Points
	return m.pointsResult, m.pointsErr
}
func (m *mockCustomerService) RedeemPoints(_ context.Context, _ string, req *dto.PointsRequest, _ string) (*dto.CustomerResponse, error) {
	m.lastPoints = -req.Points
	return m.pointsResult, m.pointsErr
}
func (m *mockCustomerService) ListTransactions(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.LoyaltyTransactionResponse, int64, error) {
	return nil, 0, nil
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	ics      string
	err      error
}

func (m *mockExportService) ExportShifts(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) EmployeeCalendar(_ context.Context, _, _, _ string) (string, error) {
	return m.ics, m.err
}

// ── Mock ReviewService ──

type mockReviewService struct {
	completeErr error
	completedBy string
}

func (m *mockReviewService) List(_ context.Context, _ *dto.ReviewListRequest) ([]dto.ReviewScheduleResponse, error) {
	return nil, nil
}
func (m *mockReviewService) Complete(_ context.Context, _, completedBy, _ string) error {
	m.completedBy = completedBy
	return m.completeErr
}
func (m *mockReviewService) EnsureDefaultSchedules(_ context.Context, _ string, _ string) (int, error) {
	return 0, nil
}

// ── Mock AvailabilityService ──

type mockAvailabilityService struct {
	submitErr error
	reviewErr error
	approved  bool
}

func (m *mockAvailabilityService) Submit(_ context.Context, _ string, _ *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	return &dto.AvailabilityResponse{ID: "a1", Status: "pending"}, m.submitErr
}
func (m *mockAvailabilityService) ListMine(_ context.Context, _ string) ([]dto.AvailabilityResponse, error) {
	return nil, nil
}
func (m *mockAvailabilityService) ListPending(_ context.Context) ([]dto.AvailabilityResponse, error) {
	return nil, nil
}
func (m *mockAvailabilityService) Review(_ context.Context, _ string, approve bool, _ string) error {
	m.approved = approve
	return m.reviewErr
}

// ── Mock JobRunner ──

type stubJob struct {
	name string
}

func (j stubJob) Name() string        { return j.name }
func (j stubJob) Description() string { return "stub " + j.name }
func (j stubJob) Run(_ context.Context, _ time.Time, _ io.Writer) (job.Result, error) {
	return job.Result{}, nil
}

type mockJobRunner struct {
	registry *job.Registry
	output   string
	result   job.Result
	err      error
}

func (m *mockJobRunner) Run(_ context.Context, _ string, out io.Writer) (job.Result, error) {
	fmt.Fprint(out, m.output)
	return m.result, m.err
}
func (m *mockJobRunner) Registry() *job.Registry {
	return m.registry
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	setAuthAs(c, "test-employee-id", model.RoleAdmin)
}

func setAuthAs(c *gin.Context, employeeID string, role model.Role) {
	c.Set(middleware.ContextKeyPrincipal, middleware.Principal{EmployeeID: employeeID, Role: role})
	c.Set(middleware.ContextKeyTokenID, "test-jti")
	c.Set(middleware.ContextKeyTokenExp, time.Now().Add(15*time.Minute))
}

func withAuth(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@example.com", Password: "Secret123"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"凭证错误", service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{"待审批", service.ErrAccountPending, http.StatusForbidden, 11002},
		{"已停用", service.ErrAccountDisabled, http.StatusForbidden, 11003},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, response.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{loginErr: tt.err})
			r := gin.New()
			r.POST("/auth/login", h.Login)
			w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@example.com", Password: "x"}))

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailExists})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	w := serve(r, "POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Email: "dup@example.com", Password: "Secret123", FirstName: "Dup", LastName: "User",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAuthHandler_Register_Created(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerResult: &dto.EmployeeResponse{ID: "e1", Status: "pending"}})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	w := serve(r, "POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Email: "new@example.com", Password: "Secret123", FirstName: "New", LastName: "User",
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefreshToken})

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshRequest{RefreshToken: "stale"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_UsesTokenID(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", withAuth(h.Logout))
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" {
		t.Errorf("expected jti test-jti, got %q", mock.logoutJTI)
	}
}

func TestAuthHandler_GetCurrentEmployee_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentEmployee)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EmployeeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEmployeeHandler_List_Paged(t *testing.T) {
	mock := &mockEmployeeService{listResult: []dto.EmployeeResponse{{ID: "e1"}}, listTotal: 41}
	h := NewEmployeeHandler(mock)

	r := gin.New()
	r.GET("/employees", withAuth(h.List))
	w := serve(r, "GET", "/employees?status=pending&page=2&page_size=20", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.Total != 41 || body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Page != 2 {
		t.Errorf("unexpected pagination: %+v", body.Data.Pagination)
	}
}

func TestEmployeeHandler_List_InvalidStatus(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{})

	r := gin.New()
	r.GET("/employees", withAuth(h.List))
	w := serve(r, "GET", "/employees?status=retired", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEmployeeHandler_Approve(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
	}{
		{"成功", nil, http.StatusOK},
		{"不存在", service.ErrEmployeeNotFound, http.StatusNotFound},
		{"非待审批", service.ErrEmployeeNotPending, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEmployeeService{approveResult: &dto.EmployeeResponse{ID: "e1"}, approveErr: tt.err}
			h := NewEmployeeHandler(mock)

			r := gin.New()
			r.PUT("/employees/:id/approve", withAuth(h.Approve))
			w := serve(r, "PUT", "/employees/e1/approve", nil)

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if mock.approverID != "test-employee-id" {
				t.Errorf("approver should be caller, got %q", mock.approverID)
			}
		})
	}
}

func TestEmployeeHandler_AssignRole(t *testing.T) {
	mock := &mockEmployeeService{}
	h := NewEmployeeHandler(mock)

	r := gin.New()
	r.PUT("/employees/:id/role", withAuth(h.AssignRole))

	w := serve(r, "PUT", "/employees/e1/role", jsonBody(dto.AssignRoleRequest{Role: "manager"}))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.assignedRole != model.RoleManager {
		t.Errorf("expected manager, got %q", mock.assignedRole)
	}

	w = serve(r, "PUT", "/employees/e1/role", jsonBody(dto.AssignRoleRequest{Role: "owner"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown role, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ShiftHandler Tests
// ═══════════════════════════════════════════════════════════

func TestShiftHandler_Create_Validation(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{})

	r := gin.New()
	r.POST("/shifts", withAuth(h.Create))
	w := serve(r, "POST", "/shifts", jsonBody(map[string]string{
		"shift_date": "2024-13-40", "start_time": "09:00", "end_time": "17:00",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestShiftHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"时间区间无效", service.ErrInvalidTimeRange, http.StatusBadRequest, 13005},
		{"员工未激活", service.ErrShiftAssigneeInactive, http.StatusBadRequest, 13008},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewShiftHandler(&mockShiftService{createErr: tt.err})
			r := gin.New()
			r.POST("/shifts", withAuth(h.Create))
			w := serve(r, "POST", "/shifts", jsonBody(dto.CreateShiftRequest{
				ShiftDate: "2024-06-01", StartTime: "17:00", EndTime: "09:00",
			}))

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestShiftHandler_List_RequiresRange(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{})

	r := gin.New()
	r.GET("/shifts", withAuth(h.List))

	if w := serve(r, "GET", "/shifts?from=2024-06-01", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if w := serve(r, "GET", "/shifts?from=2024-06-01&to=2024-06-30", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestShiftHandler_ClaimOpenShift(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
	}{
		{"成功", nil, http.StatusCreated},
		{"已被认领", service.ErrOpenShiftUnavailable, http.StatusConflict},
		{"不存在", service.ErrOpenShiftNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockShiftService{claimResult: &dto.ShiftResponse{ID: "s1", CreatedFrom: "open_shift"}, claimErr: tt.err}
			h := NewShiftHandler(mock)

			r := gin.New()
			r.POST("/open-shifts/:id/claim", func(c *gin.Context) {
				setAuthAs(c, "emp-7", model.RoleEmployee)
				h.ClaimOpenShift(c)
			})
			w := serve(r, "POST", "/open-shifts/o1/claim", nil)

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if mock.claimedBy != "emp-7" {
				t.Errorf("claim should use caller id, got %q", mock.claimedBy)
			}
		})
	}
}

func TestShiftHandler_Complete_NotActive(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{completeErr: service.ErrShiftNotActive})

	r := gin.New()
	r.PUT("/shifts/:id/complete", withAuth(h.Complete))
	w := serve(r, "PUT", "/shifts/s1/complete", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_InboxRouting(t *testing.T) {
	mock := &mockNotificationService{}
	h := NewNotificationHandler(mock)

	r := gin.New()
	r.GET("/admin/notifications", withAuth(h.List(AdminInbox)))
	r.GET("/notifications", func(c *gin.Context) {
		setAuthAs(c, "emp-3", model.RoleEmployee)
		h.List(MyInbox)(c)
	})

	serve(r, "GET", "/admin/notifications", nil)
	if mock.inbox.Type != model.RecipientAdmin || mock.inbox.ID != nil {
		t.Errorf("admin inbox expected, got %+v", mock.inbox)
	}

	serve(r, "GET", "/notifications?unread_only=true", nil)
	if mock.inbox.Type != model.RecipientEmployee || mock.inbox.ID == nil || *mock.inbox.ID != "emp-3" {
		t.Errorf("employee inbox expected, got %+v", mock.inbox)
	}
}

func TestNotificationHandler_MarkRead_NotFound(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{markReadErr: service.ErrNotificationNotFound})

	r := gin.New()
	r.PUT("/notifications/:id/read", withAuth(h.MarkRead(MyInbox)))
	w := serve(r, "PUT", "/notifications/n1/read", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestNotificationHandler_MyInbox_Unauthenticated(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{})

	r := gin.New()
	r.GET("/notifications/unread-count", h.UnreadCount(MyInbox))
	w := serve(r, "GET", "/notifications/unread-count", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReviewHandler / AvailabilityHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReviewHandler_Complete(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
	}{
		{"成功", nil, http.StatusOK},
		{"已完成", service.ErrReviewAlreadyCompleted, http.StatusConflict},
		{"不存在", service.ErrReviewNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockReviewService{completeErr: tt.err}
			h := NewReviewHandler(mock)

			r := gin.New()
			r.PUT("/reviews/:id/complete", withAuth(h.Complete))
			w := serve(r, "PUT", "/reviews/r1/complete", jsonBody(dto.CompleteReviewRequest{Notes: "good"}))

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if mock.completedBy != "test-employee-id" {
				t.Errorf("completed_by should be caller, got %q", mock.completedBy)
			}
		})
	}
}

func TestAvailabilityHandler_Submit_Validation(t *testing.T) {
	h := NewAvailabilityHandler(&mockAvailabilityService{})

	r := gin.New()
	r.POST("/availability", withAuth(h.Submit))

	w := serve(r, "POST", "/availability", jsonBody(map[string]interface{}{
		"type": "sometimes", "day_of_week": 3, "start_time": "09:00", "end_time": "17:00",
	}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", w.Code)
	}

	w = serve(r, "POST", "/availability", jsonBody(dto.CreateAvailabilityRequest{
		Type: "permanent", DayOfWeek: 3, StartTime: "09:00", EndTime: "17:00",
	}))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAvailabilityHandler_Review(t *testing.T) {
	mock := &mockAvailabilityService{reviewErr: service.ErrAvailabilityNotPending}
	h := NewAvailabilityHandler(mock)

	r := gin.New()
	r.PUT("/availability/:id/review", withAuth(h.Review))
	w := serve(r, "PUT", "/availability/a1/review", jsonBody(dto.ReviewAvailabilityRequest{Approve: true}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if !mock.approved {
		t.Error("approve flag should be passed through")
	}
}

// ═══════════════════════════════════════════════════════════
// CustomerHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCustomerHandler_RedeemPoints(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
	}{
		{"成功", nil, http.StatusOK},
		{"余额不足", service.ErrInsufficientPoints, http.StatusBadRequest},
		{"并发冲突", service.ErrConcurrentUpdate, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCustomerService{pointsResult: &dto.CustomerResponse{ID: "c1"}, pointsErr: tt.err}
			h := NewCustomerHandler(mock)

			r := gin.New()
			r.POST("/customers/:id/points/redeem", withAuth(h.RedeemPoints))
			w := serve(r, "POST", "/customers/c1/points/redeem", jsonBody(dto.PointsRequest{Points: 50}))

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if mock.lastPoints != -50 {
				t.Errorf("redeem should be routed to RedeemPoints, got %d", mock.lastPoints)
			}
		})
	}
}

func TestCustomerHandler_EarnPoints_ZeroRejected(t *testing.T) {
	h := NewCustomerHandler(&mockCustomerService{})

	r := gin.New()
	r.POST("/customers/:id/points/earn", withAuth(h.EarnPoints))
	w := serve(r, "POST", "/customers/c1/points/earn", jsonBody(map[string]int{"points": 0}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	h := NewCustomerHandler(&mockCustomerService{})

	r := gin.New()
	r.GET("/customers/:id", withAuth(h.Get))
	w := serve(r, "GET", "/customers/missing", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportShifts_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "shifts_2024-06-01_2024-06-30.xlsx"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/shifts", withAuth(h.ExportShifts))
	w := serve(r, "GET", "/export/shifts?from=2024-06-01&to=2024-06-30", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "shifts_2024-06-01_2024-06-30.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_ExportShifts_Errors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		err      error
		wantHTTP int
	}{
		{"缺少参数", "?from=2024-06-01", nil, http.StatusBadRequest},
		{"无班次", "?from=2024-06-01&to=2024-06-30", service.ErrExportNoShifts, http.StatusNotFound},
		{"范围无效", "?from=2024-06-30&to=2024-06-01", service.ErrInvalidDateRange, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExportHandler(&mockExportService{err: tt.err})
			r := gin.New()
			r.GET("/export/shifts", withAuth(h.ExportShifts))
			w := serve(r, "GET", "/export/shifts"+tt.query, nil)

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
		})
	}
}

func TestExportHandler_MyCalendar(t *testing.T) {
	h := NewExportHandler(&mockExportService{ics: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"})

	r := gin.New()
	r.GET("/shifts/my/calendar.ics", withAuth(h.MyCalendar))
	w := serve(r, "GET", "/shifts/my/calendar.ics?from=2024-06-01&to=2024-06-30", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// JobHandler Tests
// ═══════════════════════════════════════════════════════════

func TestJobHandler_Run_Success(t *testing.T) {
	mock := &mockJobRunner{
		output: "Checking 3 active shifts for conflicts...\nUpdated conflict status for 2 shifts.\n",
		result: job.Result{Affected: 2, Status: job.StatusSuccess},
	}
	h := NewJobHandler(mock)

	r := gin.New()
	r.POST("/admin/jobs/:name/run", withAuth(h.Run))
	w := serve(r, "POST", "/admin/jobs/"+job.NameRecomputeConflicts+"/run", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.JobRunResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Affected != 2 || body.Data.Status != job.StatusSuccess {
		t.Errorf("unexpected result %+v", body.Data)
	}
	if len(body.Data.Output) != 2 || body.Data.Output[1] != "Updated conflict status for 2 shifts." {
		t.Errorf("unexpected output %v", body.Data.Output)
	}
}

func TestJobHandler_Run_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"不存在", job.ErrJobNotFound, http.StatusNotFound, 19001},
		{"运行中", job.ErrJobRunning, http.StatusConflict, 19002},
		{"执行失败", errors.New("db down"), http.StatusInternalServerError, 19003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJobHandler(&mockJobRunner{err: tt.err})
			r := gin.New()
			r.POST("/admin/jobs/:name/run", withAuth(h.Run))
			w := serve(r, "POST", "/admin/jobs/x/run", nil)

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestJobHandler_List(t *testing.T) {
	mock := &mockJobRunner{registry: job.NewRegistry(stubJob{name: "b:job"}, stubJob{name: "a:job"})}
	h := NewJobHandler(mock)

	r := gin.New()
	r.GET("/admin/jobs", withAuth(h.List))
	w := serve(r, "GET", "/admin/jobs", nil)

	var body struct {
		Data struct {
			List []dto.JobInfoResponse `json:"list"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Data.List) != 2 || body.Data.List[0].Name != "a:job" {
		t.Errorf("expected sorted job list, got %+v", body.Data.List)
	}
}
