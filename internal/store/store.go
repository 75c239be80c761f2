package store

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema_sqlite.sql schema_postgres.sql
var schemaFS embed.FS

// 支持的数据库驱动
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store SQL 快照存储层（SQLite / PostgreSQL）
type Store struct {
	db     *sqlx.DB
	driver string
}

// New 创建新的 Store 实例
// SQLite 的 dsn 为数据库文件路径，PostgreSQL 为连接串
func New(ctx context.Context, driver, dsn string) (*Store, error) {
	var schemaFile string
	switch driver {
	case DriverSQLite:
		schemaFile = "schema_sqlite.sql"
		// 确保 data 目录存在
		if dir := filepath.Dir(dsn); dir != "" && !strings.HasPrefix(dsn, ":memory:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case DriverPostgres:
		schemaFile = "schema_postgres.sql"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite 建议单连接
		db.SetMaxIdleConns(1)
	}

	s := &Store{db: db, driver: driver}
	if err := s.initSchema(ctx, schemaFile); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema 初始化数据库结构
func (s *Store) initSchema(ctx context.Context, file string) error {
	schemaSQL, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	for _, stmt := range strings.Split(string(schemaSQL), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}
	return nil
}

// Driver 数据库驱动名
func (s *Store) Driver() string {
	return s.driver
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
