package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
)

// ClientConfig drives the session client. Cobra flags override these values.
type ClientConfig struct {
	ServerURL         string
	SessionToken      string
	ReconnectDelay    time.Duration
	FrameRate         int
	FrameMaxWidth     int
	FrameMaxHeight    int
	FrameQuality      int
	FrameTimeout      time.Duration
	BiosignalInterval time.Duration
	NatsURL           string
	LogFilePath       string
}

func LoadClient() *ClientConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &ClientConfig{
		ServerURL:         getEnv("SERVER_URL", "ws://localhost:8000"),
		SessionToken:      getEnv("SESSION_TOKEN", ""),
		ReconnectDelay:    getEnvAsDuration("RECONNECT_DELAY", 3*time.Second),
		FrameRate:         getEnvAsInt("FRAME_RATE", 30),
		FrameMaxWidth:     getEnvAsInt("FRAME_MAX_WIDTH", 640),
		FrameMaxHeight:    getEnvAsInt("FRAME_MAX_HEIGHT", 480),
		FrameQuality:      getEnvAsInt("FRAME_QUALITY", 70),
		FrameTimeout:      getEnvAsDuration("FRAME_TIMEOUT", 5*time.Second),
		BiosignalInterval: getEnvAsDuration("BIOSIGNAL_INTERVAL", 5*time.Second),
		NatsURL:           getEnv("NATS_URL", ""),
		LogFilePath:       getEnv("CLIENT_LOG_FILE_PATH", "logs/client.log"),
	}
}
