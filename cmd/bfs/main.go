// Command bfs loads a graph and runs a parallel breadth-first search over it.
//
//	bfs -graph edges.txt -source 0 -workers 8
//	bfs -sqlite graph.db -table edges -source 0
//	bfs -graph edges.txt -export graph.db
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"parfront/forkjoin"
	"parfront/graph"
	"parfront/internal/config"
	"parfront/internal/telemetry"
	"parfront/traverse"
)

type options struct {
	configPath string
	graphPath  string
	sqlitePath string
	table      string
	source     int64
	workers    int
	export     string
	maxNodes   int
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("bfs", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.graphPath, "graph", "", "edge list file (src dst per line)")
	fs.StringVar(&o.sqlitePath, "sqlite", "", "SQLite database holding the edge table")
	fs.StringVar(&o.table, "table", "", "edge table name")
	fs.Int64Var(&o.source, "source", -1, "source node")
	fs.IntVar(&o.workers, "workers", -1, "worker count (0 = GOMAXPROCS)")
	fs.StringVar(&o.export, "export", "", "write the loaded graph to this SQLite database and exit")
	fs.IntVar(&o.maxNodes, "max-nodes", 0, "reject node ids at or above this bound (0 = config or loader default)")
	return o, fs.Parse(args)
}

// flagExitCode maps a flag parsing error to the process exit status; -h is not a failure.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

// apply overlays the flags that were set on cfg.
func (o options) apply(cfg *config.Config) error {
	if o.graphPath != "" {
		cfg.Graph.Path = o.graphPath
	}
	if o.sqlitePath != "" {
		cfg.Graph.SQLite = o.sqlitePath
	}
	if o.table != "" {
		cfg.Graph.Table = o.table
	}
	if o.source >= 0 {
		if o.source > 1<<32-1 {
			return fmt.Errorf("bfs: source %d out of node range", o.source)
		}
		cfg.BFS.Source = uint32(o.source)
	}
	if o.workers >= 0 {
		cfg.Pool.Workers = o.workers
	}
	if o.maxNodes > 0 {
		cfg.Graph.MaxNodes = o.maxNodes
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func loadGraph(ctx context.Context, cfg *config.Config) (*graph.CSR, error) {
	var opts []graph.BuilderOption
	if cfg.Graph.MaxNodes > 0 {
		opts = append(opts, graph.WithMaxNodes(cfg.Graph.MaxNodes))
	}
	switch {
	case cfg.Graph.Path != "":
		f, err := os.Open(cfg.Graph.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return graph.ReadEdgeList(f, cfg.BFS.Undirected, opts...)
	case cfg.Graph.SQLite != "":
		return graph.LoadSQLite(ctx, cfg.Graph.SQLite, cfg.Graph.Table, cfg.BFS.Undirected, opts...)
	default:
		return nil, errors.New("bfs: no graph given, set -graph or -sqlite")
	}
}

func run(ctx context.Context, cfg *config.Config, export string, log *zap.Logger) error {
	start := time.Now()
	g, err := loadGraph(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("graph loaded",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()),
		zap.Duration("took", time.Since(start)))

	if export != "" {
		if err := graph.SaveSQLite(ctx, export, cfg.Graph.Table, g); err != nil {
			return err
		}
		log.Info("graph exported", zap.String("path", export), zap.String("table", cfg.Graph.Table))
		return nil
	}

	width := cfg.Pool.Workers
	if width == 0 {
		width = forkjoin.CurrentWorkerCount()
	}
	var counters telemetry.PoolCounters
	pool := forkjoin.NewPool(width, forkjoin.WithMonitor(telemetry.Monitors{
		&counters,
		telemetry.NewZapMonitor(log),
	}))

	start = time.Now()
	res, err := traverse.BFS(pool, g, cfg.BFS.Source, traverse.OnLevel(func(depth int, l traverse.Level) {
		log.Debug("level", zap.Int("depth", depth), zap.Int("size", l.Size), zap.Ints("shards", l.ShardSizes))
	}))
	if err != nil {
		return err
	}

	stats := counters.Snapshot()
	log.Info("bfs done",
		zap.Uint32("source", res.Source),
		zap.Int("workers", pool.Width()),
		zap.Int("reached", res.Reached()),
		zap.Int("depth", res.Depth()),
		zap.Duration("took", time.Since(start)),
		zap.Uint64("spawns", stats.Spawns),
		zap.Uint64("inlines", stats.Inlines))
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(flagExitCode(err))
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bfs: load config: %v\n", err)
		os.Exit(1)
	}
	if err := o.apply(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bfs: logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, o.export, log); err != nil {
		log.Error("bfs failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
