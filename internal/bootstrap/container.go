package bootstrap

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"yoga-intelligence-be/internal/config"
	"yoga-intelligence-be/internal/controller"
	"yoga-intelligence-be/internal/handler"
	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/repository/contract"
	"yoga-intelligence-be/internal/repository/memory"
	redisRepo "yoga-intelligence-be/internal/repository/redis"
	"yoga-intelligence-be/internal/service"
	"yoga-intelligence-be/internal/websocket"
	"yoga-intelligence-be/pkg/detector"
	"yoga-intelligence-be/pkg/framecodec"
	"yoga-intelligence-be/pkg/llm"
	"yoga-intelligence-be/pkg/llm/factory"
	pktNats "yoga-intelligence-be/pkg/nats"
	"yoga-intelligence-be/pkg/pose"
)

type Container struct {
	// Controllers
	PoseController     controller.IPoseController
	PracticeController controller.IPracticeController
	SessionController  controller.ISessionController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SessionHandler *handler.SessionHandler
	WebSocketHub   *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	wsLogger := logger.NewIsolatedLogger(cfg.WebSocket.LogFilePath)
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	publisher := service.NewPublisherService(cfg.App.EventsTopic, pubSub)

	var sink service.EventSink
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger.Zap())
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS, events stay in process", map[string]interface{}{"error": err})
		} else {
			sink = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventsTopic, sink, sysLogger)

	// 3. Session Registry
	var registry contract.ISessionRegistry
	if cfg.App.RedisURL != "" {
		rdb := redisRepo.NewClient(cfg.App.RedisURL)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err})
		}
		registry = redisRepo.NewSessionRepository(rdb, cfg.App.SessionStateTTL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	} else {
		registry = memory.NewSessionRepository(cfg.App.SessionStateTTL)
	}

	// 4. Pose Pipeline
	library, err := loadLibrary(cfg.Pose.ReferencesPath)
	if err != nil {
		return nil, err
	}
	classifier := pose.Classifier{
		Library:  library,
		Scorer:   pose.NewScorer(cfg.Pose.CorrectionThreshold, cfg.Pose.GoodFormThreshold),
		MinScore: cfg.Pose.ClassifyMinScore,
	}

	var det detector.Detector
	var detectorProbe controller.Probe
	if cfg.Pose.DetectorURL != "" {
		httpDet := detector.NewHTTPDetector(cfg.Pose.DetectorURL, cfg.Pose.DetectorTimeout)
		det, detectorProbe = httpDet, httpDet.Health
	} else {
		sysLogger.Warn("Bootstrap", "No pose detector configured, every frame reports no pose", nil)
		det = detector.Func(func(context.Context, image.Image) (pose.LandmarkSet, bool, error) {
			return nil, false, detector.ErrDetectorUnavailable
		})
		detectorProbe = func(context.Context) error { return detector.ErrDetectorUnavailable }
	}
	poseService := service.NewPoseService(det, classifier, framecodec.Limits{
		MaxPixels: cfg.Pose.MaxDecodePixels,
		MaxWidth:  cfg.Pose.FrameMaxWidth,
		MaxHeight: cfg.Pose.FrameMaxHeight,
	}, cfg.Pose.SmoothingFactor, cfg.App.SessionStateTTL, publisher, wsLogger)

	// 5. Consciousness
	consciousnessService := service.NewConsciousnessService(cfg.Consciousness.SmoothingFactor, cfg.App.SessionStateTTL, publisher, wsLogger)

	// 6. Chat
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Ai.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info("Bootstrap", "Using LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})
	chatService := service.NewChatService(
		llmProvider,
		cfg.Ai.ChatTimeout,
		cfg.Ai.HistoryTurns,
		cfg.App.SessionStateTTL,
		poseService.Describe,
		publisher,
		wsLogger,
	)

	// 7. WebSocket Hub
	c.WebSocketHub = websocket.NewHub(websocket.Services{
		Pose:          poseService,
		Consciousness: consciousnessService,
		Chat:          chatService,
	}, registry, publisher, websocket.HubConfig{ReadLimit: int64(cfg.WebSocket.ReadLimit)}, wsLogger)
	c.SessionHandler = handler.NewSessionHandler(c.WebSocketHub, cfg.WebSocket.JWTSecret, wsLogger)

	// 8. Controllers
	var llmProbe controller.Probe
	if hc, ok := llmProvider.(llm.HealthChecker); ok {
		llmProbe = hc.Health
	}
	c.PoseController = controller.NewPoseController(library)
	c.PracticeController = controller.NewPracticeController()
	c.SessionController = controller.NewSessionController(registry, c.WebSocketHub)
	c.HealthController = controller.NewHealthController(map[string]controller.Probe{
		"llm":           llmProbe,
		"pose_detector": detectorProbe,
		"registry":      registry.Ping,
		"consciousness": nil,
	}, c.WebSocketHub, c.ConsumerService.Counts, sysLogger)

	return c, nil
}

// Close releases bus and store connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func loadLibrary(path string) (*pose.Library, error) {
	if path == "" {
		return pose.DefaultLibrary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference poses: %w", err)
	}
	defer f.Close()
	return pose.NewLibraryFromYAML(f)
}
