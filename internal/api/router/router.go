package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/internal/api/handler"
	"staffhub/internal/api/middleware"
	"staffhub/internal/model"
	"staffhub/pkg/jwt"
)

// Deps 路由所需的外部依赖；Blacklist 与 Limiter 为 nil 时对应能力降级关闭
type Deps struct {
	JWT          *jwt.Manager
	Blacklist    middleware.Blacklist
	Limiter      middleware.Limiter
	ActiveLookup middleware.ActiveLookup
	Logger       *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	perm := middleware.RequirePermission
	active := middleware.RequireActiveEmployee(deps.ActiveLookup)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(deps.Limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(deps.Limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(deps.JWT, deps.Blacklist, deps.Logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentEmployee)

			// 员工管理
			employees := authorized.Group("/employees", perm(model.PermEmployeesManage))
			{
				employees.GET("", h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
				employees.PUT("/:id/approve", h.Employee.Approve)
				employees.PUT("/:id/reject", h.Employee.Reject)
				employees.PUT("/:id/deactivate", h.Employee.Deactivate)
				employees.PUT("/:id/role", middleware.RequireAdmin(), h.Employee.AssignRole)
			}

			// 班次
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("/my", active, h.Shift.ListMine)
				shifts.GET("/my/calendar.ics", active, h.Export.MyCalendar)
				shifts.GET("", perm(model.PermShiftsManage), h.Shift.List)
				shifts.POST("", perm(model.PermShiftsManage), h.Shift.Create)
				shifts.PUT("/:id/cancel", perm(model.PermShiftsManage), h.Shift.Cancel)
				shifts.PUT("/:id/complete", perm(model.PermShiftsManage), h.Shift.Complete)
			}

			// 开放班次
			openShifts := authorized.Group("/open-shifts", active)
			{
				openShifts.GET("", h.Shift.ListOpenShifts)
				openShifts.POST("", perm(model.PermShiftsManage), h.Shift.CreateOpenShift)
				openShifts.PUT("/:id/cancel", perm(model.PermShiftsManage), h.Shift.CancelOpenShift)
				openShifts.POST("/:id/claim", perm(model.PermShiftsClaim), h.Shift.ClaimOpenShift)
			}

			// 绩效评估
			reviews := authorized.Group("/reviews", perm(model.PermReviewsManage))
			{
				reviews.GET("", h.Review.List)
				reviews.PUT("/:id/complete", h.Review.Complete)
			}

			// 个人通知
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List(handler.MyInbox))
				notifications.GET("/unread-count", h.Notification.UnreadCount(handler.MyInbox))
				notifications.PUT("/read-all", h.Notification.MarkAllRead(handler.MyInbox))
				notifications.PUT("/:id/read", h.Notification.MarkRead(handler.MyInbox))
			}

			// 可用时间
			availability := authorized.Group("/availability")
			{
				availability.POST("", active, perm(model.PermAvailabilitySubmit), h.Availability.Submit)
				availability.GET("/my", h.Availability.ListMine)
				availability.GET("/pending", perm(model.PermAvailabilityReview), h.Availability.ListPending)
				availability.PUT("/:id/review", perm(model.PermAvailabilityReview), h.Availability.Review)
			}

			// 顾客与积分
			customers := authorized.Group("/customers", active, perm(model.PermCustomersManage))
			{
				customers.GET("", h.Customer.List)
				customers.POST("", h.Customer.Create)
				customers.GET("/:id", h.Customer.Get)
				customers.GET("/:id/transactions", h.Customer.ListTransactions)
				customers.POST("/:id/points/earn", h.Customer.EarnPoints)
				customers.POST("/:id/points/redeem", h.Customer.RedeemPoints)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/shifts", perm(model.PermShiftsManage), h.Export.ExportShifts)
			}

			// 管理员：按权限分组授权
			admin := authorized.Group("/admin")
			{
				inbox := admin.Group("/notifications", perm(model.PermNotificationsAdmin))
				inbox.GET("", h.Notification.List(handler.AdminInbox))
				inbox.GET("/unread-count", h.Notification.UnreadCount(handler.AdminInbox))
				inbox.PUT("/read-all", h.Notification.MarkAllRead(handler.AdminInbox))
				inbox.PUT("/:id/read", h.Notification.MarkRead(handler.AdminInbox))

				jobs := admin.Group("/jobs", perm(model.PermJobsRun))
				jobs.GET("", h.Job.List)
				jobs.POST("/:name/run", h.Job.Run)
			}
		}
	}

	return r
}
