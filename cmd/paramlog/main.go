package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Vivek2302/msbuild/internal/config"
	"github.com/Vivek2302/msbuild/internal/eventlog"
	"github.com/Vivek2302/msbuild/internal/replay"
	pebblestore "github.com/Vivek2302/msbuild/internal/storage/pebble"
	"github.com/Vivek2302/msbuild/pkg/id"
	logpkg "github.com/Vivek2302/msbuild/pkg/log"
	"github.com/Vivek2302/msbuild/pkg/taskevent"
)

func main() {
	var (
		cfgPath  string
		dataDir  string
		logLevel string
	)

	cfg := cfgpkg.Default()
	logger := newLogger(cfg)

	rootCmd := &cobra.Command{
		Use:   "paramlog",
		Short: "Task parameter event log CLI",
		Long:  "paramlog records MSBuild-style task parameter events into a replayable local log.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := cfgpkg.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			cfgpkg.FromEnv(&cfg)
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger = newLogger(cfg)
			logpkg.RedirectStdLog(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: OS data dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error")

	rootCmd.AddCommand(newRecordCmd(&cfg, &logger))
	rootCmd.AddCommand(newDumpCmd(&cfg, &logger))
	rootCmd.AddCommand(newTrimCmd(&cfg, &logger))
	rootCmd.AddCommand(newRunsCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg cfgpkg.Config) logpkg.Logger {
	parsed, err := logpkg.ParseLevel(cfg.LogLevel)
	if err != nil {
		parsed = logpkg.InfoLevel
	}
	var formatter logpkg.Formatter = &logpkg.TextFormatter{}
	if cfg.LogFormat == "json" {
		formatter = &logpkg.JSONFormatter{}
	}
	return logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(formatter),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
}

func openDB(cfg cfgpkg.Config) (*pebblestore.DB, error) {
	mode, err := pebblestore.ParseFsyncMode(cfg.Fsync)
	if err != nil {
		return nil, err
	}
	dir := cfg.DataDir
	if dir == "" {
		dir = cfgpkg.DefaultDataDir()
	}
	return pebblestore.Open(pebblestore.Options{
		DataDir:       dir,
		Fsync:         mode,
		FsyncInterval: time.Duration(cfg.FsyncIntervalMs) * time.Millisecond,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// eventLine is the JSON lines shape accepted by `paramlog record`.
type eventLine struct {
	Kind     string     `json:"kind"`
	ItemName *string    `json:"itemName"`
	Items    []itemLine `json:"items"`
}

type itemLine struct {
	Spec     string            `json:"spec"`
	Metadata map[string]string `json:"metadata"`
}

func parseKind(s string) (taskevent.Kind, error) {
	switch s {
	case "TaskInput":
		return taskevent.TaskInput, nil
	case "TaskOutput":
		return taskevent.TaskOutput, nil
	case "AddItem":
		return taskevent.AddItem, nil
	case "RemoveItem":
		return taskevent.RemoveItem, nil
	default:
		return 0, fmt.Errorf("unknown kind %q; use TaskInput|TaskOutput|AddItem|RemoveItem", s)
	}
}

func eventFromLine(line eventLine, logItemMetadata bool) (*taskevent.Event, error) {
	kind, err := parseKind(line.Kind)
	if err != nil {
		return nil, err
	}
	items := make([]taskevent.Item, 0, len(line.Items))
	for _, it := range line.Items {
		var md taskevent.Metadata
		if len(it.Metadata) > 0 {
			md = taskevent.NewMetadata(len(it.Metadata))
			for k, v := range it.Metadata {
				if err := md.Add(k, v); err != nil {
					return nil, fmt.Errorf("item %q: %w", it.Spec, err)
				}
			}
		}
		items = append(items, taskevent.NamedItem{Spec: it.Spec, Metadata: md})
	}
	opts := []taskevent.Option{taskevent.WithItemMetadata(logItemMetadata)}
	if line.ItemName != nil {
		opts = append(opts, taskevent.WithItemName(*line.ItemName))
	}
	return taskevent.New(kind, items, opts...), nil
}

func newRecordCmd(cfg *cfgpkg.Config, logger *logpkg.Logger) *cobra.Command {
	var (
		run  string
		file string
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append events from a JSON lines file to a run's log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			in := os.Stdin
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			if run == "" {
				run = id.NewGenerator().Next().String()
			}

			db, err := openDB(*cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			l, err := eventlog.OpenLog(db, run)
			if err != nil {
				return err
			}
			rec := replay.NewRecorder(l, taskevent.NewCodec(), *logger)

			var events []*taskevent.Event
			sc := bufio.NewScanner(in)
			sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
			lineNo := 0
			for sc.Scan() {
				lineNo++
				raw := sc.Bytes()
				if len(raw) == 0 {
					continue
				}
				var line eventLine
				if err := json.Unmarshal(raw, &line); err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
				e, err := eventFromLine(line, cfg.LogItemMetadata)
				if err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
				events = append(events, e)
			}
			if err := sc.Err(); err != nil {
				return err
			}

			seqs, err := rec.Record(ctx, events...)
			if err != nil {
				return err
			}
			fmt.Printf("run %s: recorded %d events\n", run, len(seqs))
			return nil
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "run ID (generated when empty)")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON lines file; - reads stdin")
	return cmd
}

func newDumpCmd(cfg *cfgpkg.Config, logger *logpkg.Logger) *cobra.Command {
	var (
		run      string
		filter   string
		limit    int
		reverse  bool
		consumer string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Replay a run's events as formatted messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if run == "" {
				return fmt.Errorf("--run is required")
			}
			ctx, cancel := signalContext()
			defer cancel()

			db, err := openDB(*cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			l, err := eventlog.OpenLog(db, run)
			if err != nil {
				return err
			}
			rep := replay.NewReplayer(l, taskevent.NewCodec(), *logger)
			n, err := rep.Replay(ctx, replay.Options{
				Filter:   filter,
				Limit:    limit,
				Reverse:  reverse,
				Consumer: consumer,
			}, func(seq uint64, e *taskevent.Event) error {
				fmt.Printf("#%d %s %s\n", seq, e.Timestamp().Format(time.RFC3339), e.Message())
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Printf("%d events\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "run ID")
	cmd.Flags().StringVar(&filter, "filter", "", "CEL expression over kind, item_name, item_count, seq, ts_ms, specs, now_ms")
	cmd.Flags().IntVar(&limit, "limit", 0, "max events to print (0 = all)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "newest first")
	cmd.Flags().StringVar(&consumer, "cursor", "", "consumer name; resume after and commit its cursor")
	return cmd
}

func newTrimCmd(cfg *cfgpkg.Config, logger *logpkg.Logger) *cobra.Command {
	var (
		run       string
		olderThan time.Duration
		maxBytes  int64
	)
	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Delete old entries from a run's log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if run == "" {
				return fmt.Errorf("--run is required")
			}
			// fall back to configured retention when flags are absent
			if olderThan <= 0 && cfg.RetainMaxAgeMs > 0 {
				olderThan = time.Duration(cfg.RetainMaxAgeMs) * time.Millisecond
			}
			if maxBytes <= 0 && cfg.RetainMaxBytes > 0 {
				maxBytes = cfg.RetainMaxBytes
			}
			if olderThan <= 0 && maxBytes <= 0 {
				return fmt.Errorf("nothing to do; pass --older-than and/or --max-bytes")
			}
			ctx, cancel := signalContext()
			defer cancel()

			db, err := openDB(*cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			l, err := eventlog.OpenLog(db, run)
			if err != nil {
				return err
			}
			total := 0
			if olderThan > 0 {
				cutoff := time.Now().Add(-olderThan).UnixMilli()
				n, _, err := l.TrimOlderThan(ctx, cutoff, 1024, 0)
				if err != nil {
					return err
				}
				total += n
			}
			if maxBytes > 0 {
				n, err := l.TrimToMaxBytes(ctx, maxBytes, 1024, 0)
				if err != nil {
					return err
				}
				total += n
			}
			(*logger).Info("trim complete", logpkg.Str("run", run), logpkg.Int("deleted", total))
			fmt.Printf("run %s: deleted %d entries\n", run, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&run, "run", "", "run ID")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "delete entries older than this duration")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "keep at most this many payload bytes")
	return cmd
}

func newRunsCmd(cfg *cfgpkg.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List known run IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := eventlog.ListRuns(db)
			if err != nil {
				return err
			}
			for _, run := range runs {
				if parsed, err := id.Parse(run); err == nil {
					fmt.Printf("%s  %s\n", run, parsed.Time().Format(time.RFC3339))
					continue
				}
				fmt.Println(run)
			}
			return nil
		},
	}
}
