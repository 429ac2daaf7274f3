package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/sharevote/audit"
	"github.com/danielhkuo/sharevote/auth"
	"github.com/danielhkuo/sharevote/chain"
	"github.com/danielhkuo/sharevote/cliparse"
	"github.com/danielhkuo/sharevote/db"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/membership"
	"github.com/danielhkuo/sharevote/metrics"
	"github.com/danielhkuo/sharevote/middleware"
	"github.com/danielhkuo/sharevote/router"
	"github.com/danielhkuo/sharevote/store"
)

const (
	Version = "0.1.0"
	appName = "sharevote"

	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Weighted share voting for organizations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Flags: -p port, -d database URL, -t postgres|sqlite|memory, --nats URL,
--policy file, --log-level. Each falls back to PORT, DATABASE_URL,
DATABASE_TYPE, NATS_URL, POLICY_FILE and LOG_LEVEL, and a .env file in the
working directory is loaded first.

With -t memory, members come from the seed section of the policy file.
Without one nobody is a member and every request is forbidden.`,
		// cliparse owns the serve flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliparse.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := cliparse.ParseFlags(args)
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("parse flags: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// backend is the storage a server runs on.
type backend struct {
	store   governance.Store
	members interface {
		governance.BalanceReader
		auth.RoleLookup
	}
	close func() error
}

func openBackend(ctx context.Context, cfg cliparse.Config, seed cliparse.Seed) (*backend, error) {
	if cfg.DatabaseType == "memory" {
		slog.Warn("using in-memory storage, nothing will be persisted")
		members := membership.NewStatic()
		if err := seed.Apply(ctx, members); err != nil {
			return nil, err
		}
		if seed.Empty() {
			slog.Warn("no seed members in policy file, every request will be forbidden")
		} else {
			slog.Info("seeded members", "share_types", len(seed.ShareTypes), "members", len(seed.Members))
		}
		return &backend{
			store:   store.NewMemoryStore(),
			members: members,
			close:   func() error { return nil },
		}, nil
	}
	if !seed.Empty() {
		slog.Warn("ignoring seed section, it only applies to in-memory storage")
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("database schema ready", "type", cfg.DatabaseType)

	return &backend{
		store:   store.NewSQLStore(conn, dialect),
		members: membership.NewSQLReader(conn),
		close:   conn.Close,
	}, nil
}

func serve(ctx context.Context, cfg cliparse.Config) error {
	level, err := cliparse.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings, err := cliparse.LoadSettings(cfg.PolicyFile)
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg, settings.Seed)
	if err != nil {
		return err
	}
	defer be.close()

	var (
		recorder chain.Recorder = chain.Noop{}
		sink     audit.Sink     = audit.NewSlogSink(logger)
	)
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL,
			nats.Name(appName),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					slog.Warn("nats disconnected", "error", err)
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				slog.Info("nats reconnected", "url", c.ConnectedUrl())
			}),
		)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer nc.Drain()

		recorder = chain.NewNATSRecorder(nc, settings.ChainSubjectPrefix)
		sink = audit.Multi{sink, audit.NewNATSSink(nc, settings.AuditSubjectPrefix)}
		slog.Info("connected to nats", "url", nc.ConnectedUrl())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	auditSink := audit.NewAsyncSink(sink, settings.AuditQueueSize, logger)

	engine := governance.NewEngine(be.store, be.members,
		governance.WithRecorder(recorder),
		governance.WithAuditSink(auditSink),
		governance.WithMetrics(m),
		governance.WithLogger(logger),
		governance.WithPolicy(settings.Policy),
	)

	mux := router.NewRouter(engine, be.members, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Stops on Close so events from in-flight requests still get written.
		return auditSink.Run(context.Background())
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		auditSink.Close()
		return err
	})

	err = g.Wait()
	slog.Info("server closed", "error", err)
	return err
}
