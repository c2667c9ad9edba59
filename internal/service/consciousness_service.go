package service

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/protocol"
	"yoga-intelligence-be/pkg/consciousness"
	"yoga-intelligence-be/pkg/events"
	"yoga-intelligence-be/pkg/smoothing"
)

type IConsciousnessService interface {
	Analyze(ctx context.Context, sessionID string, sample consciousness.Sample) protocol.ConsciousnessAnalysis
}

// consciousnessState holds one Series per smoothed index.
type consciousnessState struct {
	mu           sync.Mutex
	pci          *smoothing.Series
	depth        *smoothing.Series
	coherence    *smoothing.Series
	quantum      *smoothing.Series
	entanglement *smoothing.Series
	chakras      map[string]*smoothing.Series
}

func newConsciousnessState(factor float64) *consciousnessState {
	st := &consciousnessState{
		pci:          smoothing.NewSeries(factor, 0, 1),
		depth:        smoothing.NewSeries(factor, 0, 1),
		coherence:    smoothing.NewSeries(factor, 0, 1),
		quantum:      smoothing.NewSeries(factor, 0, 1),
		entanglement: smoothing.NewSeries(factor, 0, 1),
		chakras:      make(map[string]*smoothing.Series, len(consciousness.ChakraNames)),
	}
	for _, name := range consciousness.ChakraNames {
		st.chakras[name] = smoothing.NewSeries(factor, 0, 1)
	}
	return st
}

type consciousnessService struct {
	factor    float64
	states    *cache.Cache
	publisher IPublisherService
	logger    logger.ILogger
	now       func() time.Time
}

func NewConsciousnessService(smoothingFactor float64, stateTTL time.Duration, publisher IPublisherService, log logger.ILogger) IConsciousnessService {
	return &consciousnessService{
		factor:    smoothingFactor,
		states:    cache.New(stateTTL, 10*time.Minute),
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Analyze synthesizes the sample, smooths each index against the session's
// previous snapshot and re-derives the values computed from them.
func (s *consciousnessService) Analyze(ctx context.Context, sessionID string, sample consciousness.Sample) protocol.ConsciousnessAnalysis {
	snap := consciousness.Synthesize(sample)

	st := s.state(sessionID)
	st.mu.Lock()
	snap.PCIScore = st.pci.Next(snap.PCIScore)
	snap.MeditationDepth.Score = st.depth.Next(snap.MeditationDepth.Score)
	snap.Quantum.Coherence = st.quantum.Next(snap.Quantum.Coherence)
	snap.Quantum.EntanglementStrength = st.entanglement.Next(snap.Quantum.EntanglementStrength)
	snap.OverallCoherence = st.coherence.Next(snap.OverallCoherence)

	activations := make(map[string]float64, len(consciousness.ChakraNames))
	for _, name := range consciousness.ChakraNames {
		activations[name] = st.chakras[name].Next(snap.Chakras.Chakras[name].Activation)
	}
	st.mu.Unlock()

	snap.MeditationDepth.Level = consciousness.TierFor(snap.OverallCoherence)
	snap.Chakras = consciousness.SummarizeChakras(activations)
	snap.Recommendations = consciousness.Recommend(snap.PCIScore, snap.MeditationDepth.Score, snap.Biofield.Coherence)

	if err := s.publisher.Publish(ctx, events.NewSessionEvent(events.ConsciousnessAnalyzed, sessionID, map[string]interface{}{
		"pci_score":         snap.PCIScore,
		"overall_coherence": snap.OverallCoherence,
		"level":             string(snap.MeditationDepth.Level),
	})); err != nil {
		s.logger.Debug("ConsciousnessService", "Event publish failed", map[string]interface{}{"error": err.Error()})
	}

	return protocol.ConsciousnessAnalysis{Snapshot: snap, Timestamp: s.now()}
}

func (s *consciousnessService) state(sessionID string) *consciousnessState {
	if x, ok := s.states.Get(sessionID); ok {
		s.states.SetDefault(sessionID, x)
		return x.(*consciousnessState)
	}
	st := newConsciousnessState(s.factor)
	if err := s.states.Add(sessionID, st, cache.DefaultExpiration); err != nil {
		if x, ok := s.states.Get(sessionID); ok {
			return x.(*consciousnessState)
		}
	}
	return st
}
