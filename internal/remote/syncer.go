package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"github.com/belajarexportimport-sudo/Oceanland/internal/parser"
)

// ErrThrottled 手动刷新过于频繁
var ErrThrottled = errors.New("remote refresh throttled")

// syncedKinds 远程数据源提供的数据集
var syncedKinds = []model.Kind{model.KindKPI, model.KindRevenue, model.KindBudget, model.KindPipeline}

// Target 远程数据写入的目标存储
type Target interface {
	ActiveYear() string
	ReplaceYearSlice(kind model.Kind, year string, records []model.Record) error
	SetStats(year string, stats model.SummaryStats) error
	SetInquiries(items []model.Inquiry)
	MarkRemoteUpdate(at time.Time)
}

// Saver 同步成功后安排保存
type Saver interface {
	ScheduleSave()
}

// SyncResult 一次同步的结果
type SyncResult struct {
	Year         string       `json:"year"`
	UpdatedKinds []model.Kind `json:"updatedKinds"`
	StatsUpdated bool         `json:"statsUpdated"`
	Inquiries    int          `json:"inquiries"`
	SyncedAt     time.Time    `json:"syncedAt"`
}

// Syncer 远程同步器
type Syncer struct {
	fetcher Fetcher
	target  Target
	year    string
	timeout time.Duration
	limiter *rate.Limiter
	saver   Saver
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option 同步器可选项
type Option func(*Syncer)

// WithYear 固定写入年份，为空时使用当前年份
func WithYear(year string) Option {
	return func(s *Syncer) { s.year = year }
}

// WithTimeout 设置单次拉取超时
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMinInterval 设置手动刷新的最小间隔，0 表示不限制
func WithMinInterval(d time.Duration) Option {
	return func(s *Syncer) {
		if d <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithSaver 设置保存回调
func WithSaver(sv Saver) Option {
	return func(s *Syncer) { s.saver = sv }
}

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Syncer) { s.metrics = m }
}

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSyncer 创建同步器
func NewSyncer(fetcher Fetcher, target Target, opts ...Option) *Syncer {
	s := &Syncer{
		fetcher: fetcher,
		target:  target,
		timeout: defaultTimeout,
		limiter: rate.NewLimiter(rate.Every(5*time.Second), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync 拉取远程数据并写入存储
// 非空的 kpi、revenue、budget、pipeline 经映射后替换目标年份切片，非空 stats 替换该年汇总指标
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()

	year := s.year
	if year == "" {
		year = s.target.ActiveYear()
	}
	if !model.ValidYear(year) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidYear, year)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	payload, err := s.fetcher.Fetch(fetchCtx)
	cancel()
	if err != nil {
		s.metrics.ObserveRemote("error", time.Since(start))
		s.logger.Warn("remote fetch failed", "error", err)
		return nil, err
	}

	result := &SyncResult{Year: year, UpdatedKinds: []model.Kind{}}
	for _, kind := range syncedKinds {
		rows := payload.Rows(kind)
		if len(rows) == 0 {
			continue
		}
		mapper, _ := parser.MapperFor(kind)
		if err := s.target.ReplaceYearSlice(kind, year, mapper(rows)); err != nil {
			s.metrics.ObserveRemote("error", time.Since(start))
			return nil, fmt.Errorf("apply remote %s: %w", kind, err)
		}
		result.UpdatedKinds = append(result.UpdatedKinds, kind)
	}

	if len(payload.Stats) > 0 {
		if err := s.target.SetStats(year, model.StatsFromMap(payload.Stats)); err != nil {
			s.metrics.ObserveRemote("error", time.Since(start))
			return nil, fmt.Errorf("apply remote stats: %w", err)
		}
		result.StatsUpdated = true
	}

	s.target.SetInquiries(payload.Inquiries)
	result.Inquiries = len(payload.Inquiries)

	result.SyncedAt = time.Now().UTC()
	s.target.MarkRemoteUpdate(result.SyncedAt)

	if s.saver != nil && (len(result.UpdatedKinds) > 0 || result.StatsUpdated) {
		s.saver.ScheduleSave()
	}
	s.metrics.ObserveRemote("ok", time.Since(start))
	s.logger.Info("remote sync finished",
		"year", year, "kinds", result.UpdatedKinds, "stats", result.StatsUpdated, "inquiries", result.Inquiries)
	return result, nil
}

// Refresh 手动刷新，受最小间隔限制
func (s *Syncer) Refresh(ctx context.Context) (*SyncResult, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		return nil, ErrThrottled
	}
	return s.Sync(ctx)
}

// Run 启动后立即同步一次，之后按间隔周期同步，直到 ctx 结束；单次失败只记录日志
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("sync interval must be positive")
	}

	_, _ = s.Sync(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.Sync(ctx)
		}
	}
}
