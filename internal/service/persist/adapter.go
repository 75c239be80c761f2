// Package persist 仪表盘快照持久化：存储后端、自动保存、单步撤销与导入历史
package persist

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/store"
)

// Adapter 快照存储后端（键值语义：同一固定键的 save / load / clear）
type Adapter interface {
	Name() string
	Save(ctx context.Context, snap *model.Snapshot) error
	// Load 读取快照，不存在时返回 nil, nil
	Load(ctx context.Context) (*model.Snapshot, error)
	Clear(ctx context.Context) error
	AppendImport(ctx context.Context, item model.ImportLog) error
	ImportHistory(ctx context.Context, limit int) ([]model.ImportLog, error)
	Close() error
}

// 后端类型
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open 按配置创建存储后端
// file 与 sqlite 在 dataDir 下落盘；postgres 使用 dsn
func Open(ctx context.Context, backend, dataDir, dsn string) (Adapter, error) {
	switch backend {
	case BackendFile, "":
		return NewFileAdapter(dataDir), nil
	case BackendSQLite:
		if dsn == "" {
			dsn = filepath.Join(dataDir, "oceanland.db")
		}
		return openSQL(ctx, store.DriverSQLite, dsn)
	case BackendPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend requires a dsn")
		}
		return openSQL(ctx, store.DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("unsupported persistence backend: %s", backend)
	}
}

func openSQL(ctx context.Context, driver, dsn string) (Adapter, error) {
	st, err := store.New(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return st, nil
}
