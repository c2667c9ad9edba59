package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	WebSocket     WebSocketConfig
	Pose          PoseConfig
	Consciousness ConsciousnessConfig
	Ai            AIConfig
	Tracing       TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventsTopic        string
	SessionStateTTL    time.Duration
}

type WebSocketConfig struct {
	LogFilePath string
	JWTSecret   string
	ReadLimit   int
}

type PoseConfig struct {
	DetectorURL         string
	DetectorTimeout     time.Duration
	ReferencesPath      string
	CorrectionThreshold float64
	GoodFormThreshold   float64
	ClassifyMinScore    float64
	SmoothingFactor     float64
	MaxDecodePixels     int
	FrameMaxWidth       int
	FrameMaxHeight      int
}

type ConsciousnessConfig struct {
	SmoothingFactor float64
}

type AIConfig struct {
	LLMProvider   string // "ollama", "openai", "huggingface"
	OllamaBaseURL string
	LLMModel      string
	LLMAPIKey     string
	ChatTimeout   time.Duration
	HistoryTurns  int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			EventsTopic:        getEnv("EVENTS_TOPIC", "session_events"),
			SessionStateTTL:    getEnvAsDuration("SESSION_STATE_TTL", time.Hour),
		},
		WebSocket: WebSocketConfig{
			LogFilePath: getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			JWTSecret:   getEnv("JWT_SECRET", ""),
			ReadLimit:   getEnvAsInt("WS_READ_LIMIT", 2*1024*1024),
		},
		Pose: PoseConfig{
			DetectorURL:         getEnv("POSE_DETECTOR_URL", "http://localhost:8090"),
			DetectorTimeout:     getEnvAsDuration("POSE_DETECTOR_TIMEOUT", 2*time.Second),
			ReferencesPath:      getEnv("POSE_REFERENCES_PATH", ""),
			CorrectionThreshold: getEnvAsFloat("POSE_CORRECTION_THRESHOLD", 15),
			GoodFormThreshold:   getEnvAsFloat("POSE_GOOD_FORM_THRESHOLD", 90),
			ClassifyMinScore:    getEnvAsFloat("POSE_CLASSIFY_MIN_SCORE", 50),
			SmoothingFactor:     getEnvAsFloat("POSE_SMOOTHING_FACTOR", 0.8),
			MaxDecodePixels:     getEnvAsInt("FRAME_MAX_DECODE_PIXELS", 3840*2160),
			FrameMaxWidth:       getEnvAsInt("POSE_FRAME_MAX_WIDTH", 640),
			FrameMaxHeight:      getEnvAsInt("POSE_FRAME_MAX_HEIGHT", 480),
		},
		Consciousness: ConsciousnessConfig{
			SmoothingFactor: getEnvAsFloat("CONSCIOUSNESS_SMOOTHING_FACTOR", 0.8),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:      getEnv("LLM_MODEL", "llama3.1"),
			LLMAPIKey:     getEnv("LLM_API_KEY", ""),
			ChatTimeout:   getEnvAsDuration("CHAT_TIMEOUT", 30*time.Second),
			HistoryTurns:  getEnvAsInt("CHAT_HISTORY_TURNS", 10),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "yoga-intelligence-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
