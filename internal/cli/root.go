// Package cli implements the keyreducer CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/command"
	"github.com/rcliao/keyreducer/internal/config"
	"github.com/rcliao/keyreducer/internal/snapshot"
	"github.com/rcliao/keyreducer/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	cfg config.Config

	meterProvider *sdkmetric.MeterProvider
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "keyreducer",
	Short: "Reduce keyframes on animation curves",
	Long: "Removes redundant keyframes from animation curves while keeping each curve within a\n" +
		"value tolerance of the original. Curves live in a SQLite-backed scene; reduce,\n" +
		"capture, restore, undo and redo all work against it.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		if cfg, err = config.Load(configPath); err != nil {
			exitErr("load config", err)
		}
		if verbose {
			if meterProvider, err = initMeter(); err != nil {
				exitErr("init metrics", err)
			}
			otel.SetMeterProvider(meterProvider)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if meterProvider != nil {
			if err := meterProvider.Shutdown(cmd.Context()); err != nil {
				slog.Warn("shutdown metrics", "error", err)
			}
		}
	},
}

// initMeter exports metrics to stderr. Shutdown flushes the final reading.
func initMeter() (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(os.Stderr),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("create stdout metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $KEYREDUCER_DB or ~/.keyreducer/curves.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $KEYREDUCER_CONFIG or ~/.keyreducer/config.yaml)")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output and reduction metrics to stderr")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// session is one invocation's view of the database: the loaded scene, the
// persisted capture and the undo history behind a command.Service.
type session struct {
	store *store.SQLiteStore
	scene *anim.Scene
	svc   *command.Service
}

func openSession(ctx context.Context) (*session, error) {
	s, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	sc, err := s.LoadScene(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load scene: %w", err)
	}
	cached, err := s.LoadSnapshots(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	snaps := snapshot.New()
	snaps.Load(cached)

	return &session{
		store: s,
		scene: sc,
		svc:   command.NewService(sc, snaps, s.History()),
	}, nil
}

// save writes back changed curves and the current capture.
func (ss *session) save(ctx context.Context) error {
	if err := ss.store.SaveScene(ctx, ss.scene); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := ss.store.SaveSnapshots(ctx, ss.svc.Snapshots().Snapshots()); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}
	return nil
}

func (ss *session) Close() error {
	return ss.store.Close()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
