package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrSchemaDirty       = errors.New("数据库 schema 处于 dirty 状态，需人工修复后重试")
	ErrSchemaNotMigrated = errors.New("数据库尚未执行迁移")
)

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("创建迁移驱动失败: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("初始化迁移实例失败: %w", err)
	}
	return m, nil
}

// RunMigrations 应用所有未执行的迁移（服务启动时调用）
// dirty 状态直接返回 ErrSchemaDirty，不再带病启动
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, err := schemaVersion(m.Version())
	if err != nil {
		return err
	}
	logger.Info("数据库迁移完成", zap.Uint("schema_version", version))
	return nil
}

// CheckSchema 只读校验 schema 状态，批处理任务在执行前调用
func CheckSchema(db *sql.DB, logger *zap.Logger) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	version, err := schemaVersion(m.Version())
	if err != nil {
		return err
	}
	logger.Debug("schema 校验通过", zap.Uint("schema_version", version))
	return nil
}

func schemaVersion(version uint, dirty bool, err error) (uint, error) {
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, ErrSchemaNotMigrated
	case err != nil:
		return 0, fmt.Errorf("读取 schema 版本失败: %w", err)
	case dirty:
		return version, fmt.Errorf("%w (version=%d)", ErrSchemaDirty, version)
	}
	return version, nil
}
