package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/belajarexportimport-sudo/Oceanland/internal/api/v1"
	"github.com/belajarexportimport-sudo/Oceanland/internal/config"
	"github.com/belajarexportimport-sudo/Oceanland/internal/exporter"
	"github.com/belajarexportimport-sudo/Oceanland/internal/importer"
	"github.com/belajarexportimport-sudo/Oceanland/internal/metrics"
	"github.com/belajarexportimport-sudo/Oceanland/internal/remote"
	"github.com/belajarexportimport-sudo/Oceanland/internal/server"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/calculator"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/persist"
	"github.com/belajarexportimport-sudo/Oceanland/internal/service/store"
)

var (
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	configPath = flag.String("config", "", "配置文件路径 (默认为可执行文件同目录下的 config.toml)")
	initConfig = flag.Bool("init", false, "写出默认配置文件后退出")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Oceanland - Executive Dashboard Service")
	fmt.Println("==========================================")

	if *initConfig {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "写出配置失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("默认配置已写出")
		return
	}

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	logger.Info("data directory ready", "dir", dir, "backend", cfg.Data.Backend)

	collector := metrics.New()
	st := store.NewMemoryStore()

	adapter, err := persist.Open(ctx, cfg.Data.Backend, dir, cfg.Data.DSN)
	if err != nil {
		return fmt.Errorf("open persistence backend: %w", err)
	}
	pm := persist.NewManager(adapter, st,
		persist.WithSaveDelay(cfg.Data.AutosaveDelay.Std()),
		persist.WithSeedDefaults(cfg.Dashboard.SeedDefaults),
		persist.WithMetrics(collector),
		persist.WithLogger(logger),
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pm.Close(closeCtx); err != nil {
			logger.Error("退出前保存失败", "error", err)
		}
	}()

	restored, err := pm.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap dashboard data: %w", err)
	}
	if !restored && cfg.Dashboard.DefaultYear != st.ActiveYear() {
		if _, err := st.SelectYear(cfg.Dashboard.DefaultYear); err != nil {
			return err
		}
	}
	logger.Info("dashboard data loaded", "restored", restored, "activeYear", st.ActiveYear())

	coordinator := importer.NewCoordinator(st,
		importer.WithPersister(pm),
		importer.WithMetrics(collector),
		importer.WithLogger(logger),
	)

	var syncer *remote.Syncer
	if cfg.Remote.Enabled {
		fetcher, err := remote.NewHTTPFetcher(cfg.Remote.URL, cfg.Remote.Timeout.Std())
		if err != nil {
			return err
		}
		syncer = remote.NewSyncer(fetcher, st,
			remote.WithYear(cfg.Remote.Year),
			remote.WithTimeout(cfg.Remote.Timeout.Std()),
			remote.WithMinInterval(cfg.Remote.MinRefreshGap.Std()),
			remote.WithSaver(pm),
			remote.WithMetrics(collector),
			remote.WithLogger(logger),
		)
	}

	handler := v1.NewHandler(v1.Dependencies{
		Store:       st,
		Coordinator: coordinator,
		Persist:     pm,
		Engine:      calculator.NewEngine(st),
		Exporter:    exporter.NewExporter(st, cfg.Data.ExportTemplate),
		Syncer:      syncer,
		Metrics:     collector,
		Logger:      logger,
	})
	srv := server.NewServer(cfg, handler, collector, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if syncer != nil {
		g.Go(func() error {
			if interval := cfg.Remote.RefreshInterval.Std(); interval > 0 {
				return syncer.Run(gctx, interval)
			}
			// 未配置周期刷新时仅在启动时同步一次
			_, _ = syncer.Sync(gctx)
			return nil
		})
	}

	fmt.Printf("服务已启动: http://localhost:%d\n", cfg.Server.Port)
	fmt.Println("\n按 Ctrl+C 停止服务...")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("service stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h).With("service", "oceanland")
}
