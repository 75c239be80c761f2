package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

// MemoryStore 内存数据存储：按数据集类型保存记录，每条记录携带年份标签
// 单写多读：所有写操作持有写锁，读操作返回副本
type MemoryStore struct {
	datasets   map[model.Kind][]model.Record
	stats      map[string]model.SummaryStats
	inquiries  []model.Inquiry
	activeYear string
	remoteAt   time.Time
	mu         sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets:   make(map[model.Kind][]model.Record),
		stats:      make(map[string]model.SummaryStats),
		activeYear: model.DefaultYear,
	}
}

// ActiveYear 当前选中年份
func (s *MemoryStore) ActiveYear() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeYear
}

// SelectYear 切换当前年份，并为该年份补齐缺失的数据集
func (s *MemoryStore) SelectYear(year string) ([]model.Kind, error) {
	if !model.ValidYear(year) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidYear, year)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeYear = year
	return s.initYearLocked(year), nil
}

// GetView 获取某数据集某年份的记录（按插入顺序，返回副本）
func (s *MemoryStore) GetView(kind model.Kind, year string) ([]model.Record, error) {
	if !kind.Valid() {
		return nil, model.ErrUnknownKind
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make([]model.Record, 0)
	for _, r := range s.datasets[kind] {
		if r.RecordYear() == year {
			view = append(view, r.Clone())
		}
	}
	return view, nil
}

// ReplaceYearSlice 用新记录整体替换某数据集某年份的记录，其他年份不受影响
// 新记录的年份标签统一改写为 year
func (s *MemoryStore) ReplaceYearSlice(kind model.Kind, year string, records []model.Record) error {
	if !kind.Valid() {
		return model.ErrUnknownKind
	}
	if !model.ValidYear(year) {
		return fmt.Errorf("%w: %q", model.ErrInvalidYear, year)
	}

	incoming := make([]model.Record, 0, len(records))
	for _, r := range records {
		c := r.Clone()
		c.SetYear(year)
		incoming = append(incoming, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.datasets[kind]
	next := make([]model.Record, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if r.RecordYear() != year {
			next = append(next, r)
		}
	}
	s.datasets[kind] = append(next, incoming...)
	return nil
}

// MutateField 修改某年份视图中第 index 条记录的单个字段
// index 超出范围时不做任何修改并返回 false；字段名未知时返回错误
func (s *MemoryStore) MutateField(kind model.Kind, year string, index int, field string, value any) (bool, error) {
	probe, err := model.NewRecord(kind)
	if err != nil {
		return false, err
	}
	if err := probe.Set(field, value); err != nil {
		return false, fmt.Errorf("%w: %s.%s", err, kind, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := -1
	n := 0
	for i, r := range s.datasets[kind] {
		if r.RecordYear() != year {
			continue
		}
		if n == index {
			pos = i
			break
		}
		n++
	}
	if index < 0 || pos < 0 {
		return false, nil
	}

	updated := s.datasets[kind][pos].Clone()
	if err := updated.Set(field, value); err != nil {
		return false, err
	}
	s.datasets[kind][pos] = updated
	return true, nil
}

// InitYear 为年份补齐缺失的数据集（零值默认结构），返回被补齐的数据集
func (s *MemoryStore) InitYear(year string) ([]model.Kind, error) {
	if !model.ValidYear(year) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidYear, year)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initYearLocked(year), nil
}

func (s *MemoryStore) initYearLocked(year string) []model.Kind {
	var seeded []model.Kind
	for _, kind := range model.Kinds {
		if s.hasYearLocked(kind, year) {
			continue
		}
		s.datasets[kind] = append(s.datasets[kind], model.ZeroYear(kind, year)...)
		seeded = append(seeded, kind)
	}
	if _, ok := s.stats[year]; !ok {
		s.stats[year] = model.ZeroStats()
	}
	return seeded
}

func (s *MemoryStore) hasYearLocked(kind model.Kind, year string) bool {
	for _, r := range s.datasets[kind] {
		if r.RecordYear() == year {
			return true
		}
	}
	return false
}

// GetStats 获取年度汇总指标，未设置时返回默认值
func (s *MemoryStore) GetStats(year string) model.SummaryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.stats[year]; ok {
		return st
	}
	return model.DefaultStats
}

// SetStats 整体替换年度汇总指标
func (s *MemoryStore) SetStats(year string, stats model.SummaryStats) error {
	if !model.ValidYear(year) {
		return fmt.Errorf("%w: %q", model.ErrInvalidYear, year)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[year] = stats
	return nil
}

// UpdateStat 修改年度汇总指标的单个键，未设置的年份以默认值为基础
func (s *MemoryStore) UpdateStat(year, key string, value any) (model.SummaryStats, error) {
	if !model.ValidYear(year) {
		return model.SummaryStats{}, fmt.Errorf("%w: %q", model.ErrInvalidYear, year)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[year]
	if !ok {
		st = model.DefaultStats
	}
	if err := st.Set(key, value); err != nil {
		return model.SummaryStats{}, fmt.Errorf("%w: stats.%s", err, key)
	}
	s.stats[year] = st
	return st, nil
}

// SetInquiries 保存最新询盘列表
func (s *MemoryStore) SetInquiries(items []model.Inquiry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inquiries = append([]model.Inquiry(nil), items...)
}

// Inquiries 获取最新询盘列表
func (s *MemoryStore) Inquiries() []model.Inquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Inquiry{}, s.inquiries...)
}

// MarkRemoteUpdate 记录远程数据最近一次成功同步时间
func (s *MemoryStore) MarkRemoteUpdate(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteAt = at
}

// LastRemoteUpdate 远程数据最近一次成功同步时间，从未同步时为零值
func (s *MemoryStore) LastRemoteUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteAt
}

// Years 所有出现过的年份（升序）
func (s *MemoryStore) Years() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, records := range s.datasets {
		for _, r := range records {
			set[r.RecordYear()] = struct{}{}
		}
	}
	for y := range s.stats {
		set[y] = struct{}{}
	}
	years := make([]string, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// Counts 某年份各数据集记录数
func (s *MemoryStore) Counts(year string) map[model.Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Kind]int, len(model.Kinds))
	for _, kind := range model.Kinds {
		n := 0
		for _, r := range s.datasets[kind] {
			if r.RecordYear() == year {
				n++
			}
		}
		counts[kind] = n
	}
	return counts
}

// Snapshot 导出全部数据
func (s *MemoryStore) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := model.NewSnapshot()
	for _, kind := range model.Kinds {
		snap.SetRecords(kind, s.datasets[kind])
	}
	for y, st := range s.stats {
		snap.Stats[y] = st
	}
	snap.Inquiries = append(snap.Inquiries, s.inquiries...)
	snap.SelectedYear = s.activeYear
	return snap
}

// Restore 用快照整体替换全部数据
func (s *MemoryStore) Restore(snap *model.Snapshot) {
	if snap == nil {
		return
	}
	snap.Normalize()

	datasets := make(map[model.Kind][]model.Record, len(model.Kinds))
	for _, kind := range model.Kinds {
		datasets[kind] = snap.Records(kind)
	}
	stats := make(map[string]model.SummaryStats, len(snap.Stats))
	for y, st := range snap.Stats {
		stats[y] = st
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets = datasets
	s.stats = stats
	s.inquiries = append([]model.Inquiry(nil), snap.Inquiries...)
	if model.ValidYear(snap.SelectedYear) {
		s.activeYear = snap.SelectedYear
	}
}

// Clear 清空全部数据，当前年份恢复默认
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets = make(map[model.Kind][]model.Record)
	s.stats = make(map[string]model.SummaryStats)
	s.inquiries = nil
	s.activeYear = model.DefaultYear
	s.remoteAt = time.Time{}
}
