package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"orderhub/cmd"
	"orderhub/internal/adapters/out/postgres"
	"orderhub/internal/adapters/out/postgres/seed"
	"orderhub/internal/core/domain/model/activity"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/metrics"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var rootCmd = &cobra.Command{
	Use:           "orderhub",
	Short:         "Food order lifecycle service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("orderhub: %v", err)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(auditCmd())
}

type env struct {
	cfg    cmd.Config
	db     *gorm.DB
	logger *slog.Logger
}

func setup(c *cobra.Command) (env, error) {
	envFile, _ := c.Flags().GetString("env-file")
	cfg, err := cmd.LoadConfig(viper.GetViper(), envFile)
	if err != nil {
		return env{}, err
	}

	lg := newLogger(cfg.LogLevel)
	db, err := gorm.Open(gorm_postgres.Open(cfg.DSN()), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return env{}, fmt.Errorf("connect to database: %w", err)
	}
	return env{cfg: cfg, db: db, logger: lg}, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

func serveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the dispatch job",
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			root, err := cmd.NewCompositionRoot(e.cfg, e.db, e.logger)
			if err != nil {
				return err
			}
			defer root.Close()

			metrics.Register(prometheus.DefaultRegisterer)

			jobManager := root.CreateJobManager()
			if err = jobManager.StartAll(); err != nil {
				return err
			}
			defer jobManager.StopAll()

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return startWebServer(ctx, root, e.cfg.HTTPPort, e.logger)
		},
	}
	c.Flags().String("port", "", "HTTP port")
	_ = viper.BindPFlag("http_port", c.Flags().Lookup("port"))
	return c
}

func startWebServer(ctx context.Context, root *cmd.CompositionRoot, port string, lg *slog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			lg.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	if err := root.CreateHTTPServer().Register(e); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			if err = postgres.Migrate(e.db); err != nil {
				return err
			}
			e.logger.Info("schema migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var email, phone, name string
	c := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the role catalog and menu, optionally creating the first super admin",
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			roles, items, err := seed.Run(c.Context(), e.db)
			if err != nil {
				return err
			}
			e.logger.Info("catalog seeded", "roles", roles, "menuItems", items)

			if email == "" && phone == "" {
				return nil
			}
			secret := os.Getenv("ADMIN_SECRET")
			if secret == "" {
				return errors.New("ADMIN_SECRET must be set to bootstrap a super admin")
			}
			root, err := cmd.NewCompositionRoot(e.cfg, e.db, e.logger)
			if err != nil {
				return err
			}
			defer root.Close()

			created, err := cmd.BootstrapSuperAdmin(c.Context(), root.UnitOfWorkFactory(), root.PasswordHasher(),
				email, phone, name, secret, time.Now())
			if err != nil {
				return err
			}
			e.logger.Info("super admin bootstrap", "created", created)
			return nil
		},
	}
	c.Flags().StringVar(&email, "admin-email", "", "email of the first super admin")
	c.Flags().StringVar(&phone, "admin-phone", "", "phone of the first super admin")
	c.Flags().StringVar(&name, "admin-name", "Administrator", "name of the first super admin")
	return c
}

func auditCmd() *cobra.Command {
	var (
		f        activity.Filter
		actorID  string
		action   string
		since    time.Duration
		jsonMode bool
	)
	c := &cobra.Command{
		Use:   "audit",
		Short: "Print activity ledger entries, newest first",
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			f.Action = activity.Action(action)
			if actorID != "" {
				id, parseErr := kernel.UUIDFromString(actorID)
				if parseErr != nil {
					return parseErr
				}
				f.ActorID = &id
			}
			if since > 0 {
				from := time.Now().Add(-since)
				f.From = &from
			}
			filter, err := f.Normalize()
			if err != nil {
				return err
			}

			entries, err := postgres.NewGormUnitOfWorkFactory(e.db).Create().ActivityRepository().Query(c.Context(), filter)
			if err != nil {
				return err
			}
			if jsonMode {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Time", "Actor", "Action", "Entity", "Details"})
			for _, entry := range entries {
				actor := "system"
				if entry.ActorID != nil {
					actor = entry.ActorID.String()
				}
				tw.AppendRow(table.Row{
					entry.CreatedAt.Format(time.RFC3339),
					actor,
					entry.Action,
					entry.EntityType + ":" + entry.EntityID,
					formatDetails(entry.Details),
				})
			}
			tw.Render()
			return nil
		},
	}
	c.Flags().StringVar(&actorID, "actor-id", "", "only entries by this actor")
	c.Flags().StringVar(&action, "action", "", "only this action, e.g. order.cancelled")
	c.Flags().StringVar(&f.EntityType, "entity-type", "", "only this entity type")
	c.Flags().StringVar(&f.EntityID, "entity-id", "", "only this entity")
	c.Flags().DurationVar(&since, "since", 0, "only entries newer than this")
	c.Flags().IntVar(&f.Limit, "limit", 0, "maximum entries")
	c.Flags().BoolVar(&jsonMode, "json", false, "output JSON")
	return c
}

func formatDetails(d activity.Details) string {
	if len(d) == 0 {
		return ""
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprint(d)
	}
	return strings.TrimSpace(string(raw))
}
