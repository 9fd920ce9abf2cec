package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/client"
	"github.com/sophistic/Quack/internal/config"
	"github.com/sophistic/Quack/internal/handlers"
	"github.com/sophistic/Quack/internal/logger"
	"github.com/sophistic/Quack/internal/middleware"
	"github.com/sophistic/Quack/internal/services"
)

var serveDev bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the companion API for the desktop shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "pretty console logging and request logs")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	logger.Configure(logger.LevelFromEnv(serveDev), serveDev)
	cfg := config.Runtime

	bus := bridge.NewBus()
	commander := bridge.NewBusCommander(bus)

	magic := client.NewMagicService(cfg.MagicBaseURL, cfg.MagicAPIKey)
	chat := services.NewChatService(magic, bus)
	chat.SetAccount(cfg.AccountEmail)

	overlay := services.NewOverlayService(commander, bus)
	watcher := services.NewWindowWatcher(services.SystemForegroundProvider{}, overlay, cfg.WatchPoll, cfg.AppName)
	onboarding := services.NewOnboardingService(commander, bus)

	settings := services.NewSettingsService(cfg.SettingsPath())
	if err := settings.Watch(); err != nil {
		logger.Warnf("Settings watcher unavailable: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "quack-companion",
		DisableStartupMessage: true,
	})

	if serveDev {
		app.Use(fiberlogger.New())
	}

	auth := middleware.NewAuthMiddleware()
	app.Use(auth.RequireAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	chatHandler := handlers.NewChatHandler(chat)
	overlayHandler := handlers.NewOverlayHandler(overlay)
	onboardingHandler := handlers.NewOnboardingHandler(onboarding)
	eventsHandler := handlers.NewEventsHandler(bus, overlay)
	settingsHandler := handlers.NewSettingsHandler(settings)

	v1 := app.Group("/v1")
	v1.Post("/chat/submit", chatHandler.Submit)
	v1.Post("/chat/new", chatHandler.New)
	v1.Get("/chat/active", chatHandler.Active)
	v1.Get("/chat/conversations", chatHandler.Conversations)
	v1.Post("/chat/conversations/:id/select", chatHandler.Select)
	v1.Get("/chat/models", chatHandler.Models)
	v1.Post("/chat/models/select", chatHandler.SelectModel)

	v1.Post("/overlay/init", overlayHandler.Init)
	v1.Get("/overlay", overlayHandler.Status)
	v1.Post("/overlay/exit-follow", overlayHandler.ExitFollow)
	v1.Post("/overlay/pin", overlayHandler.TogglePin)
	v1.Post("/overlay/refollow", overlayHandler.Refollow)
	v1.Post("/overlay/active-window", overlayHandler.ActiveWindow)

	v1.Post("/onboarding/finish", onboardingHandler.Finish)

	v1.Get("/events", eventsHandler.HandleSSE)
	v1.Get("/events/ws", eventsHandler.HandleWebSocket)

	v1.Get("/settings", settingsHandler.Get)
	v1.Put("/settings", settingsHandler.Update)

	watcher.Start()

	// Graceful shutdown on interrupt
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		logger.Info("Shutting down...")
		watcher.Stop()
		settings.Close()
		bus.Close()
		_ = app.Shutdown()
	}()

	logger.Infof("🦆 Quack companion listening on %s", cfg.ListenAddr)
	return app.Listen(cfg.ListenAddr)
}
