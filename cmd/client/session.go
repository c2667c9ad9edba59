package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"yoga-intelligence-be/internal/client"
	"yoga-intelligence-be/internal/config"
	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/pkg/consciousness"
)

func newSessionCmd(cfg *config.ClientConfig) *cobra.Command {
	var (
		sessionID string
		framesDir string
		seed      int64
		noFrames  bool
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "run a practice session: camera frames, biosignals and chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			if cfg.FrameRate <= 0 {
				return fmt.Errorf("--fps must be positive")
			}

			var source client.FrameSource
			switch {
			case noFrames:
			case framesDir != "":
				dirSource, err := client.NewDirectorySource(framesDir, cfg.FrameMaxWidth, cfg.FrameMaxHeight, cfg.FrameQuality)
				if err != nil {
					return err
				}
				source = dirSource
			default:
				source = client.BlankSource{Width: cfg.FrameMaxWidth, Height: cfg.FrameMaxHeight, Quality: cfg.FrameQuality}
			}

			log := logger.NewIsolatedLogger(cfg.LogFilePath)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := newPresenter(cmd.OutOrStdout())
			out.banner(sessionID, cfg.ServerURL)

			mux := client.NewMultiplexer(client.Options{
				Endpoint:       client.Endpoint(cfg.ServerURL, sessionID, cfg.SessionToken),
				ReconnectDelay: cfg.ReconnectDelay,
				FrameTimeout:   cfg.FrameTimeout,
			}, client.WebsocketDialer{HandshakeTimeout: 5 * time.Second}, client.Handlers{
				OnPose:          out.pose,
				OnChat:          out.chat,
				OnConsciousness: out.consciousness,
				OnState:         out.state,
			}, log)

			if source != nil {
				go captureLoop(ctx, mux, source, time.Second/time.Duration(cfg.FrameRate), log)
			}
			go biosignalLoop(ctx, mux, consciousness.NewGenerator(seed), cfg.BiosignalInterval, log)
			go chatLoop(ctx, mux, cmd.InOrStdin(), out)

			err := mux.Run(ctx)
			out.summary(mux.Stats())
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&sessionID, "session", "", "session id (default: random uuid, kept across reconnects)")
	f.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "server base url")
	f.StringVar(&cfg.SessionToken, "token", cfg.SessionToken, "handshake token")
	f.StringVar(&framesDir, "frames", "", "directory of jpeg/png frames to replay as the camera")
	f.BoolVar(&noFrames, "no-frames", false, "disable the pose stream")
	f.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "capture rate")
	f.DurationVar(&cfg.ReconnectDelay, "reconnect-delay", cfg.ReconnectDelay, "delay between reconnect attempts")
	f.DurationVar(&cfg.BiosignalInterval, "biosignal-interval", cfg.BiosignalInterval, "biosignal sample period")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "biosignal generator seed")
	return cmd
}

// captureLoop offers a frame per tick. The multiplexer drops frames while one
// is in flight, so the loop never waits on the server.
func captureLoop(ctx context.Context, mux *client.Multiplexer, source client.FrameSource, period time.Duration, log logger.ILogger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	dropped := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if mux.State() != client.StateConnected {
			continue
		}
		payload, err := source.Next()
		if err != nil {
			log.Warn("Capture", "Skipping frame", map[string]interface{}{"error": err.Error()})
			continue
		}
		switch err := mux.SendFrame(payload); {
		case errors.Is(err, client.ErrFrameBusy):
			dropped++
		case err != nil:
			log.Debug("Capture", "Frame not sent", map[string]interface{}{"error": err.Error()})
		default:
			if dropped > 0 {
				log.Debug("Capture", "Frames dropped while busy", map[string]interface{}{"count": dropped})
				dropped = 0
			}
		}
	}
}

type biosignalSender interface {
	SendBiosignal(consciousness.Sample) error
}

func biosignalLoop(ctx context.Context, mux biosignalSender, gen *consciousness.Generator, period time.Duration, log logger.ILogger) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := mux.SendBiosignal(gen.Next()); err != nil && !errors.Is(err, client.ErrNotConnected) {
				log.Debug("Biosignal", "Sample not sent", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

func chatLoop(ctx context.Context, mux *client.Multiplexer, in io.Reader, out *presenter) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := mux.SendChat(text); err != nil {
			out.warn(fmt.Sprintf("message not sent: %v", err))
		}
	}
}
