package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/internal/api/handler"
	"staffhub/internal/api/middleware"
	"staffhub/internal/api/router"
	"staffhub/internal/job"
	"staffhub/internal/repository"
	"staffhub/internal/service"
	"staffhub/pkg/database"
	"staffhub/pkg/jwt"
	applogger "staffhub/pkg/logger"
	"staffhub/pkg/mail"
	"staffhub/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("STAFF_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("jobs_enabled", cfg.Jobs.Enabled),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时黑名单、限流、任务锁降级关闭）
	var (
		blacklist service.TokenBlacklist
		mwBlack   middleware.Blacklist
		limiter   middleware.Limiter
		locker    job.Locker
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单、登录限流与任务锁将不可用", zap.Error(err))
		rdb = nil
	} else {
		blacklist, mwBlack, limiter, locker = rdb, rdb, rdb, rdb
	}

	// 5. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	mailer := mail.NewSender(&cfg.Mail, logger)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, mailer, logger)

	runner := job.NewRunner(job.NewDefaultRegistry(repo, &cfg.Jobs, logger), locker, &cfg.Jobs, logger)
	h := handler.NewHandler(svc, runner)

	// 6. 初始化路由
	engine := router.Setup(cfg, h, router.Deps{
		JWT:          jwtMgr,
		Blacklist:    mwBlack,
		Limiter:      limiter,
		ActiveLookup: svc.Employee.IsActive,
		Logger:       logger,
	})

	// 7. 内置周期任务调度
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var scheduler *job.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = job.NewScheduler(runner, &cfg.Jobs, logger)
		scheduler.Start(ctx)
	}

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	stop()
	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
