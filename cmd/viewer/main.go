package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pebbe/zmq4"

	"github.com/hdmap/viewer/domain/cursor"
	"github.com/hdmap/viewer/domain/display"
	"github.com/hdmap/viewer/domain/tool"
	"github.com/hdmap/viewer/pkg/api"
	"github.com/hdmap/viewer/pkg/config"
	"github.com/hdmap/viewer/pkg/eventbus"
	"github.com/hdmap/viewer/pkg/geometry"
	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/metrics"
	"github.com/hdmap/viewer/pkg/overlay"
	"github.com/hdmap/viewer/pkg/picking"
	"github.com/hdmap/viewer/pkg/processing"
	"github.com/hdmap/viewer/pkg/region"
	"github.com/hdmap/viewer/pkg/zeromq"
	"github.com/hdmap/viewer/services"
)

func main() {
	configDir := os.Getenv("VIEWER_CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}

	bootstrap, err := config.LoadBootstrapConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load bootstrap config: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := customlog.NewLogrusLogger(bootstrap.Logging.Level, bootstrap.Logging.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Display configuration
	configService, err := services.NewDisplayConfigService(bootstrap.DisplayConfigPath(), appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create config service: %v", err)
	}
	cfg := configService.GetCurrentConfig()

	// Message processing
	topicRegistry := processing.NewTopicRegistry(appLogger)
	topicRegistry.LoadFromConfig(cfg)

	director := processing.NewMessageDirector(appLogger, topicRegistry, &processing.DirectorOptions{
		DefaultQueueSize: bootstrap.Processing.QueueSize,
	})
	director.Initialize(
		bootstrap.Processing.HighPriorityWorkers,
		bootstrap.Processing.StandardPriorityWorkers,
		bootstrap.Processing.LowPriorityWorkers,
	)
	processor := processing.NewTopicProcessor(appLogger, topicRegistry)
	resultHandler := processing.NewLoggingResultHandler(appLogger)
	director.SetProcessor(processor.CreateProcessorFunc())
	director.SetResultHandler(resultHandler.CreateHandlerFunc())

	// ZeroMQ links to the map server
	zmqCtx, err := zmq4.NewContext()
	if err != nil {
		appLogger.Fatalf("Failed to create ZMQ context: %v", err)
	}

	mapClient, err := zeromq.NewMapClient(zmqCtx, bootstrap.ZeroMQ.MapServiceAddress, bootstrap.ZeroMQ.RequestTimeout(), appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create map client: %v", err)
	}

	subscriber, err := zeromq.NewSubscriber(zmqCtx, bootstrap.ZeroMQ.RegionSubscribeAddress,
		[]string{cfg.RosTopic(config.TopicCurrentRegion)}, director, topicRegistry, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create region subscriber: %v", err)
	}

	sender, err := zeromq.NewMessageSender(zmqCtx, bootstrap.ZeroMQ.PublishBindAddress, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create publisher: %v", err)
	}

	// Events
	bus := eventbus.New()
	eventPublisher := zeromq.NewEventPublisher(sender, appLogger)
	eventPublisher.Attach(bus, eventbus.MouseCursor, cfg.RosTopic(config.TopicMousePosition))
	eventPublisher.Attach(bus, eventbus.FileSelected, cfg.RosTopic(config.TopicMapFileInfo))
	configService.SetPublisher(zeromq.NewConfigPublisher(sender, appLogger))

	// Overlays
	regionOverlay := overlay.NewComponent("current_region")
	regionOverlay.SetPosition(overlay.PlacementFromConfig(cfg.Overlays.CurrentRegion))
	mouseOverlay := overlay.NewComponent("mouse_position")
	mouseOverlay.SetPosition(overlay.PlacementFromConfig(cfg.Overlays.MousePosition))

	// Pick tool
	session := picking.NewPickSession(bus, eventbus.MouseCursor, mouseOverlay, appLogger,
		picking.WithViewController(picking.NewNavigationTracker()))
	pickTool := picking.NewTool(bus, session, nil, appLogger,
		picking.WithFilters(picking.FiltersFromConfig(cfg.Tool.FileFilters)),
		picking.WithMapType(picking.MapType(cfg.Tool.MapType)),
	)
	pointerHandler := api.NewPointerHandler(pickTool, cameraFromConfig(cfg.Camera), appLogger)

	// Domain services
	regionCache := region.NewCache()
	mapDisplay := display.NewMapDisplay(mapClient, director, regionCache, regionOverlay, display.Options{
		RefreshHz:           cfg.Display.RefreshHz,
		ServiceWaitInterval: bootstrap.ZeroMQ.ServiceWaitInterval(),
		LineWidth:           cfg.Display.LineWidth,
	}, appLogger)
	mapDisplay.RegisterProcessors(processor)

	cursorService := cursor.NewCursorService(bus)
	toolService := tool.NewToolService(pickTool)

	configService.OnChange(func(newCfg *config.Config) {
		topicRegistry.LoadFromConfig(newCfg)
		pointerHandler.SetCamera(cameraFromConfig(newCfg.Camera))
		regionOverlay.SetPosition(overlay.PlacementFromConfig(newCfg.Overlays.CurrentRegion))
		mouseOverlay.SetPosition(overlay.PlacementFromConfig(newCfg.Overlays.MousePosition))
	})

	collector, err := metrics.NewCollector(nil, metrics.Sources{
		Pools:  director.GetPoolMetrics,
		Topics: topicRegistry.GetTopicStats,
		SceneSize: func() (int, int) {
			scene := mapDisplay.Scene().State()
			return len(scene.Lines), scene.Points
		},
		RegionUpdates: regionCache.Updates,
	})
	if err != nil {
		appLogger.Fatalf("Failed to register metrics: %v", err)
	}
	collector.Attach(bus, eventbus.MouseCursor, eventbus.FileSelected)

	// Start components
	director.Start()
	subscriber.Start()
	cursorService.Start()
	ctx, cancel := context.WithCancel(context.Background())
	mapDisplay.Start(ctx)

	// HTTP
	app := fiber.New(fiber.Config{
		AppName:      "HD Map Viewer",
		ErrorHandler: customErrorHandler,
	})
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "hdmap viewer",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	apiGroup := app.Group("/api")

	mapRoutes := apiGroup.Group("/map")
	mapRoutes.Get("/lines", mapDisplay.GetLinesHandler)
	mapRoutes.Get("/status", mapDisplay.GetStatusHandler)
	mapRoutes.Get("/region", mapDisplay.GetRegionHandler)

	apiGroup.Get("/overlays", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "success",
			"overlays": []overlay.State{regionOverlay.State(), mouseOverlay.State()},
		})
	})
	apiGroup.Get("/overlays/region", mapDisplay.GetOverlayHandler)
	apiGroup.Get("/cursor", cursorService.GetCursorHandler)

	toolRoutes := apiGroup.Group("/tool")
	toolRoutes.Get("/", toolService.StateHandler)
	toolRoutes.Post("/activate", toolService.ActivateHandler)
	toolRoutes.Post("/deactivate", toolService.DeactivateHandler)

	api.RegisterSystemRoutes(apiGroup, director, topicRegistry)
	apiGroup.Get("/results", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"results": resultHandler.LastResults(),
		})
	})
	api.RegisterConfigRoutes(apiGroup, configService, appLogger)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/pointer", websocket.New(pointerHandler.Serve))

	port := bootstrap.Server.HTTPPort
	if port == 0 {
		port = 8080
	}
	go func() {
		appLogger.Infof("Server starting on port %d", port)
		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Infof("Shutting down viewer...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}

	cancel()
	mapDisplay.Stop()
	cursorService.Stop()
	eventPublisher.Detach()
	subscriber.Stop()
	director.Stop()
	mapClient.Close()
	sender.Close()
	if err := zmqCtx.Term(); err != nil {
		appLogger.Warnf("ZMQ context termination: %v", err)
	}

	appLogger.Infof("Viewer exited properly")
}

func cameraFromConfig(c config.CameraConfig) geometry.Camera {
	return geometry.NewCamera(
		geometry.Point3{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]},
		geometry.Point3{X: c.Target[0], Y: c.Target[1], Z: c.Target[2]},
		geometry.Point3{X: c.Up[0], Y: c.Up[1], Z: c.Up[2]},
		c.FovDeg,
	)
}

// Custom error handler
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
