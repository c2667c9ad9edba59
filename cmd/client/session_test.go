package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"yoga-intelligence-be/internal/client"
	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/pkg/consciousness"
)

type scriptedSender struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scriptedSender) SendBiosignal(consciousness.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func (s *scriptedSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestBiosignalLoopLogsSendFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sender := &scriptedSender{errs: []error{client.ErrNotConnected, client.ErrQueueFull, nil}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		biosignalLoop(ctx, sender, consciousness.NewGenerator(1), time.Millisecond, logger.NewWithCore(core))
	}()

	require.Eventually(t, func() bool { return sender.count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	entries := logs.FilterMessage("Sample not sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["details"], "error")
}
