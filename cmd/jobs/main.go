// Command jobs 执行一次指定的周期任务，供 cron 等外部调度器调用。
//
//	jobs shifts:recompute-conflicts
//	jobs -list
//
// 进度输出写到标准输出，进程退出码即任务状态码。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/internal/job"
	"staffhub/internal/repository"
	"staffhub/pkg/database"
	applogger "staffhub/pkg/logger"
	"staffhub/pkg/redis"
)

func main() {
	configPath := flag.String("config", os.Getenv("STAFF_CONFIG"), "配置文件路径")
	list := flag.Bool("list", false, "列出全部任务")
	noLock := flag.Bool("no-lock", false, "不获取 Redis 任务锁")
	flag.Parse()

	os.Exit(run(*configPath, *list, *noLock, flag.Args()))
}

func run(configPath string, list, noLock bool, args []string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		return job.StatusFailure
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		return job.StatusFailure
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Error("数据库连接失败", zap.Error(err))
		return job.StatusFailure
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("获取底层 sql.DB 失败", zap.Error(err))
		return job.StatusFailure
	}
	defer sqlDB.Close()
	if err := database.CheckSchema(sqlDB, logger); err != nil {
		logger.Error("数据库 schema 不可用，任务中止", zap.Error(err))
		return job.StatusFailure
	}

	repo := repository.NewRepository(db)
	registry := job.NewDefaultRegistry(repo, &cfg.Jobs, logger)

	if list {
		for _, j := range registry.List() {
			fmt.Printf("%-32s %s\n", j.Name(), j.Description())
		}
		return job.StatusSuccess
	}

	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "用法: jobs [-config path] [-no-lock] <job-name>")
		return job.StatusFailure
	}

	var locker job.Locker
	if !noLock {
		if rdb, err := redis.NewClient(&cfg.Redis, logger); err != nil {
			logger.Warn("Redis 不可用，无锁执行", zap.Error(err))
		} else {
			defer rdb.Close()
			locker = rdb
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := job.NewRunner(registry, locker, &cfg.Jobs, logger)
	result, err := runner.Run(ctx, args[0], os.Stdout)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			fmt.Fprintf(os.Stderr, "未知任务: %s\n", args[0])
		} else {
			fmt.Fprintf(os.Stderr, "任务失败: %v\n", err)
		}
		return job.StatusFailure
	}
	return result.Status
}
