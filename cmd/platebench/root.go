package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"platebench/pkg/common"
	"platebench/pkg/config"
	"platebench/pkg/dataset"
	"platebench/pkg/logging"
	"platebench/pkg/monitor"
	"platebench/pkg/storage"
)

// app 命令共享的运行时状态, 在 PersistentPreRunE 中初始化
type app struct {
	configPath string
	logLevel   string
	metricsOut string
	dbPath     string
	keyField   string
	size       int
	seed       int64

	cfg    *config.Config
	logger *slog.Logger
	reg    *prometheus.Registry
	stats  *monitor.Stats
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "platebench",
		Short:         "Compare merge sort and radix sort on vehicle plate search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.dumpMetrics()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (default: configs/platebench.yaml or platebench.yaml)")
	f.StringVar(&a.logLevel, "log-level", "", "override logging.level")
	f.StringVar(&a.metricsOut, "metrics-out", "", "write Prometheus text metrics to this file on exit")
	f.StringVar(&a.dbPath, "db", "", "SQLite dataset file (overrides dataset.db_path)")
	f.StringVar(&a.keyField, "key-field", "", "record field holding the plate (overrides engine.key_field)")
	f.IntVar(&a.size, "size", 0, "synthetic dataset size (overrides dataset.size)")
	f.Int64Var(&a.seed, "seed", 0, "synthetic dataset seed (overrides dataset.seed)")

	root.AddCommand(
		newGenerateCmd(a),
		newSortCmd(a),
		newSearchCmd(a),
		newBenchmarkCmd(a),
		newVerifyCmd(a),
		newStatsCmd(a),
		newShellCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if f.Changed("db") {
		cfg.Dataset.DBPath = a.dbPath
	}
	if f.Changed("key-field") && a.keyField != "" {
		cfg.Engine.KeyField = a.keyField
	}
	if f.Changed("size") {
		cfg.Dataset.Size = a.size
	}
	if f.Changed("seed") {
		cfg.Dataset.Seed = a.seed
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		JSON:    cfg.Logging.JSON,
		Output:  cmd.ErrOrStderr(),
		Service: "platebench",
	})

	if cfg.Metrics.Enabled || a.metricsOut != "" {
		a.reg = prometheus.NewRegistry()
		a.stats = monitor.NewStats(a.reg, cfg.Metrics.Namespace)
	}
	return nil
}

func (a *app) dumpMetrics() error {
	if a.metricsOut == "" || a.reg == nil {
		return nil
	}
	families, err := a.reg.Gather()
	if err != nil {
		return err
	}
	out, err := os.Create(a.metricsOut)
	if err != nil {
		return err
	}
	defer out.Close()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	a.logger.Debug("metrics written", "path", a.metricsOut, "families", len(families))
	return nil
}

// loadStore reads the dataset from SQLite when a populated database is
// configured, otherwise generates it from size and seed.
func (a *app) loadStore() (*dataset.Store, error) {
	store := dataset.New(a.cfg.Engine.KeyField)

	if path := a.cfg.Dataset.DBPath; path != "" {
		if _, err := os.Stat(path); err == nil {
			records, err := a.readDB(path)
			if err != nil {
				return nil, err
			}
			if len(records) > 0 {
				if err := store.Load(records); err != nil {
					return nil, fmt.Errorf("load %s: %w", path, err)
				}
				a.logger.Info("dataset loaded", "source", path, "records", store.Len())
				return store, nil
			}
			a.logger.Warn("database is empty, generating dataset", "path", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := store.Load(dataset.Generate(a.cfg.Dataset.Size, a.cfg.Dataset.Seed, a.cfg.Engine.KeyField)); err != nil {
		return nil, err
	}
	a.logger.Info("dataset generated", "records", store.Len(), "seed", a.cfg.Dataset.Seed)
	return store, nil
}

func (a *app) readDB(path string) ([]common.Record, error) {
	backend, err := storage.NewSQLiteBackend(path, a.cfg.Engine.KeyField)
	if err != nil {
		return nil, err
	}
	defer backend.Close()
	return backend.LoadAll()
}
