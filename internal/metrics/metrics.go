// Package metrics 导入、远程同步与持久化指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oceanland"

// Collector 业务指标集合，nil 接收者上的方法均为空操作
type Collector struct {
	registry *prometheus.Registry

	imports        *prometheus.CounterVec
	importDuration prometheus.Histogram
	sheets         *prometheus.CounterVec
	importedRows   *prometheus.CounterVec
	mutations      *prometheus.CounterVec
	remoteSyncs    *prometheus.CounterVec
	remoteDuration prometheus.Histogram
	saves          *prometheus.CounterVec
}

// New 创建指标集合并注册到独立的 Registry（含 Go 运行时与进程指标）
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "File imports by mode and result.",
		}, []string{"mode", "result"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent parsing and merging an import.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		sheets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_sheets_total",
			Help:      "Sheets seen during imports by dataset kind and status.",
		}, []string{"kind", "status"}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_rows_total",
			Help:      "Rows merged into the dataset store by dataset kind.",
		}, []string{"kind"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_mutations_total",
			Help:      "Single-field edits by dataset kind and result.",
		}, []string{"kind", "result"}),
		remoteSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_syncs_total",
			Help:      "Remote dashboard fetches by result.",
		}, []string{"result"}),
		remoteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_fetch_duration_seconds",
			Help:      "Remote dashboard fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_saves_total",
			Help:      "Snapshot writes by backend and result.",
		}, []string{"backend", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.imports, c.importDuration, c.sheets, c.importedRows,
		c.mutations, c.remoteSyncs, c.remoteDuration, c.saves,
	)
	return c
}

// Handler /metrics 处理器
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveImport 记录一次导入
func (c *Collector) ObserveImport(mode, result string, d time.Duration) {
	if c == nil {
		return
	}
	c.imports.WithLabelValues(mode, result).Inc()
	c.importDuration.Observe(d.Seconds())
}

// ObserveSheet 记录一个工作表的处理结果
func (c *Collector) ObserveSheet(kind, status string, rows int) {
	if c == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	c.sheets.WithLabelValues(kind, status).Inc()
	if rows > 0 {
		c.importedRows.WithLabelValues(kind).Add(float64(rows))
	}
}

// ObserveMutation 记录一次单字段修改
func (c *Collector) ObserveMutation(kind, result string) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(kind, result).Inc()
}

// ObserveRemote 记录一次远程拉取
func (c *Collector) ObserveRemote(result string, d time.Duration) {
	if c == nil {
		return
	}
	c.remoteSyncs.WithLabelValues(result).Inc()
	c.remoteDuration.Observe(d.Seconds())
}

// ObserveSave 记录一次快照写入
func (c *Collector) ObserveSave(backend string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.saves.WithLabelValues(backend, result).Inc()
}
