package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

const maxFileHistory = 20

// FileAdapter JSON 文件后端：<dataDir>/<StorageKey>.json 与 import_history.json
type FileAdapter struct {
	dataDir string
	mu      sync.Mutex
}

// NewFileAdapter 创建文件后端
func NewFileAdapter(dataDir string) *FileAdapter {
	return &FileAdapter{dataDir: dataDir}
}

func (a *FileAdapter) statePath() string {
	return filepath.Join(a.dataDir, model.StorageKey+".json")
}

func (a *FileAdapter) historyPath() string {
	return filepath.Join(a.dataDir, "import_history.json")
}

// Name 后端名称
func (a *FileAdapter) Name() string { return BackendFile }

// Save 原子写入快照
func (a *FileAdapter) Save(_ context.Context, snap *model.Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := writeJSONAtomic(a.statePath(), snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load 读取快照，文件不存在时返回 nil, nil
func (a *FileAdapter) Load(_ context.Context) (*model.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.statePath()
	if !fileExists(path) {
		return nil, nil
	}
	var snap model.Snapshot
	if err := readJSON(path, &snap); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

// Clear 删除快照文件
func (a *FileAdapter) Clear(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := os.Remove(a.statePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

// AppendImport 追加导入历史（最多保留 20 条，新的在前）
func (a *FileAdapter) AppendImport(_ context.Context, item model.ImportLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	history := []model.ImportLog{}
	if fileExists(a.historyPath()) {
		_ = readJSON(a.historyPath(), &history)
	}
	history = append([]model.ImportLog{item}, history...)
	if len(history) > maxFileHistory {
		history = history[:maxFileHistory]
	}
	return writeJSONAtomic(a.historyPath(), history)
}

// ImportHistory 读取导入历史
func (a *FileAdapter) ImportHistory(_ context.Context, limit int) ([]model.ImportLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	history := []model.ImportLog{}
	if fileExists(a.historyPath()) {
		if err := readJSON(a.historyPath(), &history); err != nil {
			return nil, fmt.Errorf("read import history: %w", err)
		}
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// Close 文件后端无需释放资源
func (a *FileAdapter) Close() error { return nil }
