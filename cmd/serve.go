package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fmerge/core/config"
	"fmerge/core/database"
	"fmerge/core/loader"
	"fmerge/core/logger"
	"fmerge/core/middleware/auth"
	"fmerge/core/middleware/rayid"
	"fmerge/core/server"
	"fmerge/feature/history"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the run journal API",
	Long:  `Starts the HTTP server exposing the run journal (GET /runs, GET /runs/:id).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			return err
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (the journal feature stays disabled without one)
		var db *gorm.DB
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Journal database connection failed", zap.Error(err))
			} else {
				db = conn
				logg.Info("Connected to journal database", zap.String("driver", cfg.Database.Driver))
			}
		} else {
			logg.Warn("Journal database disabled; set DATABASE_ENABLED=true to serve runs")
		}

		app := newApp(cfg.Server, logg, db)

		// 4. Start Server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		// 5. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-c:
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

// newApp builds the fiber application with middleware and the enabled features.
func newApp(cfg server.Config, logg *zap.Logger, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line can carry it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))

	mgr := loader.NewManager(logg)
	mgr.Register(history.NewFeature(db, logg))
	if err := mgr.LoadAll(app); err != nil {
		logg.Error("Failed to load features", zap.Error(err))
	}

	return app
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
