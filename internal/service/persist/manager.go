package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

const defaultSaveDelay = time.Second

// ErrNoUndo 没有可撤销的快照
var ErrNoUndo = errors.New("no undo snapshot")

// State 被持久化的数据集存储
type State interface {
	ActiveYear() string
	InitYear(year string) ([]model.Kind, error)
	Snapshot() *model.Snapshot
	Restore(snap *model.Snapshot)
	Clear()
}

// Manager 持久化管理器：启动加载、自动保存（防抖）、单步撤销与导入历史
type Manager struct {
	adapter Adapter
	state   State
	metrics *metrics.Collector
	logger  *slog.Logger

	saveDelay    time.Duration
	seedDefaults bool

	mu        sync.Mutex
	saveTimer *time.Timer
	undo      *model.Snapshot
}

// Option 管理器可选项
type Option func(*Manager)

// WithSaveDelay 设置自动保存的防抖间隔
func WithSaveDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.saveDelay = d
		}
	}
}

// WithSeedDefaults 无持久化数据时是否写入示例数据
func WithSeedDefaults(seed bool) Option {
	return func(m *Manager) { m.seedDefaults = seed }
}

// WithMetrics 设置指标收集器
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager 创建持久化管理器
func NewManager(adapter Adapter, state State, opts ...Option) *Manager {
	m := &Manager{
		adapter:      adapter,
		state:        state,
		logger:       slog.Default(),
		saveDelay:    defaultSaveDelay,
		seedDefaults: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backend 存储后端名称
func (m *Manager) Backend() string {
	return m.adapter.Name()
}

// Bootstrap 启动加载：有持久化快照则恢复，否则（或快照损坏时）写入初始数据
// 返回是否从持久化快照恢复
func (m *Manager) Bootstrap(ctx context.Context) (bool, error) {
	snap, err := m.adapter.Load(ctx)
	if err != nil {
		m.logger.Warn("failed to load dashboard data, falling back to seed", "backend", m.adapter.Name(), "error", err)
	}

	restored := snap != nil
	switch {
	case restored:
		m.state.Restore(snap)
	case m.seedDefaults:
		m.state.Restore(model.SeedSnapshot())
	default:
		m.state.Clear()
	}

	if _, err := m.state.InitYear(m.state.ActiveYear()); err != nil {
		return restored, err
	}
	m.logger.Info("dashboard data loaded", "backend", m.adapter.Name(), "restored", restored, "year", m.state.ActiveYear())
	return restored, nil
}

// SaveNow 立即保存（取消尚未触发的自动保存）
func (m *Manager) SaveNow(ctx context.Context) error {
	m.mu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	m.mu.Unlock()
	return m.save(ctx)
}

func (m *Manager) save(ctx context.Context) error {
	err := m.adapter.Save(ctx, m.state.Snapshot())
	m.metrics.ObserveSave(m.adapter.Name(), err)
	if err != nil {
		m.logger.Error("save dashboard data failed", "backend", m.adapter.Name(), "error", err)
	}
	return err
}

// ScheduleSave 安排一次自动保存，间隔内的多次调用合并为一次
func (m *Manager) ScheduleSave() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.saveDelay, func() {
		m.mu.Lock()
		m.saveTimer = nil
		m.mu.Unlock()
		_ = m.save(context.Background())
	})
}

// SaveUndoSnapshot 保存"撤销"快照（单步）：在每次数据写入前调用，记录写入前的状态
func (m *Manager) SaveUndoSnapshot() error {
	m.SetUndoSnapshot(m.state.Snapshot())
	return nil
}

// SetUndoSnapshot 用调用方在写入前取得的快照替换撤销快照，nil 时忽略
func (m *Manager) SetUndoSnapshot(snap *model.Snapshot) {
	if snap == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = snap
}

// CanUndo 是否存在撤销快照
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.undo != nil
}

// UndoLast 撤销上一次修改：恢复为上一次快照，并清空快照（单步撤销）
func (m *Manager) UndoLast() error {
	m.mu.Lock()
	snap := m.undo
	m.undo = nil
	m.mu.Unlock()

	if snap == nil {
		return ErrNoUndo
	}
	m.state.Restore(snap)
	m.ScheduleSave()
	return nil
}

// Reset 清空持久化数据并恢复初始数据
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	m.undo = nil
	m.mu.Unlock()

	if err := m.adapter.Clear(ctx); err != nil {
		return err
	}
	m.state.Clear()
	if m.seedDefaults {
		m.state.Restore(model.SeedSnapshot())
	}
	_, err := m.state.InitYear(m.state.ActiveYear())
	return err
}

// RecordImport 记录导入历史，失败仅记录日志
func (m *Manager) RecordImport(fileName string, importedCount int, kinds []model.Kind) {
	item := model.ImportLog{
		ImportedAt:    time.Now().UTC(),
		FileName:      fileName,
		ImportedCount: importedCount,
		Kinds:         append([]model.Kind(nil), kinds...),
	}
	if err := m.adapter.AppendImport(context.Background(), item); err != nil {
		m.logger.Warn("record import history failed", "file", fileName, "error", err)
	}
}

// ImportHistory 最近的导入历史
func (m *Manager) ImportHistory(ctx context.Context, limit int) ([]model.ImportLog, error) {
	return m.adapter.ImportHistory(ctx, limit)
}

// Close 保存待写入的数据并关闭后端
func (m *Manager) Close(ctx context.Context) error {
	saveErr := m.SaveNow(ctx)
	closeErr := m.adapter.Close()
	return errors.Join(saveErr, closeErr)
}
