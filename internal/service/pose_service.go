package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/protocol"
	"yoga-intelligence-be/pkg/detector"
	"yoga-intelligence-be/pkg/events"
	"yoga-intelligence-be/pkg/framecodec"
	"yoga-intelligence-be/pkg/pose"
	"yoga-intelligence-be/pkg/smoothing"
)

type IPoseService interface {
	AnalyzeFrame(ctx context.Context, sessionID, payload string) protocol.PoseCorrection
	// Describe summarizes the last analyzed pose of a session for chat context.
	Describe(sessionID string) string
}

type poseState struct {
	mu      sync.Mutex
	pose    string
	quality *smoothing.Series
	last    protocol.PoseCorrection
}

type poseService struct {
	detector   detector.Detector
	classifier pose.Classifier
	limits     framecodec.Limits
	factor     float64
	states     *cache.Cache
	publisher  IPublisherService
	logger     logger.ILogger
	now        func() time.Time
}

func NewPoseService(
	det detector.Detector,
	classifier pose.Classifier,
	limits framecodec.Limits,
	smoothingFactor float64,
	stateTTL time.Duration,
	publisher IPublisherService,
	log logger.ILogger,
) IPoseService {
	return &poseService{
		detector:   det,
		classifier: classifier,
		limits:     limits,
		factor:     smoothingFactor,
		states:     cache.New(stateTTL, 10*time.Minute),
		publisher:  publisher,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *poseService) AnalyzeFrame(ctx context.Context, sessionID, payload string) protocol.PoseCorrection {
	now := s.now()

	img, err := framecodec.DecodeLimited(payload, s.limits)
	if err != nil {
		s.logger.Warn("PoseService", "Invalid frame payload", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return protocol.NoPose(protocol.InvalidImageMessage, now)
	}

	landmarks, found, err := s.detector.Detect(ctx, img)
	if err != nil {
		s.logger.Warn("PoseService", "Pose detector failed", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return protocol.NoPose(protocol.NoPoseMessage, now)
	}
	if !found {
		return protocol.NoPose(protocol.NoPoseMessage, now)
	}

	angles := pose.JointAngles(landmarks)
	match := s.classifier.Classify(angles)

	corrections := match.Corrections
	if len(corrections) == 0 && match.Pose != pose.PoseUnknown {
		corrections = []string{pose.GoodFormMessage}
	}

	state := s.state(sessionID)
	state.mu.Lock()
	if state.pose != match.Pose {
		state.quality.Reset()
		state.pose = match.Pose
	}
	quality := state.quality.Next(match.Score)

	result := protocol.PoseCorrection{
		PoseDetected: true,
		DetectedPose: match.Pose,
		QualityScore: quality,
		Landmarks:    landmarks,
		Corrections:  corrections,
		JointAngles:  angles,
		Timestamp:    now,
	}
	state.last = result
	state.mu.Unlock()

	if err := s.publisher.Publish(ctx, events.NewSessionEvent(events.PoseAnalyzed, sessionID, map[string]interface{}{
		"detected_pose": match.Pose,
		"quality_score": quality,
		"corrections":   len(corrections),
	})); err != nil {
		s.logger.Debug("PoseService", "Event publish failed", map[string]interface{}{"error": err.Error()})
	}

	return result
}

func (s *poseService) Describe(sessionID string) string {
	x, ok := s.states.Get(sessionID)
	if !ok {
		return ""
	}
	st := x.(*poseState)
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.last.PoseDetected {
		return ""
	}
	desc := fmt.Sprintf("The student is currently in %s with a form quality of %.0f/100.", st.last.DetectedPose, st.last.QualityScore)
	if len(st.last.Corrections) > 0 && st.last.Corrections[0] != pose.GoodFormMessage {
		desc += " Latest correction: " + st.last.Corrections[0] + "."
	}
	return desc
}

func (s *poseService) state(sessionID string) *poseState {
	if x, ok := s.states.Get(sessionID); ok {
		s.states.SetDefault(sessionID, x)
		return x.(*poseState)
	}
	st := &poseState{quality: smoothing.NewSeries(s.factor, 0, 100)}
	if err := s.states.Add(sessionID, st, cache.DefaultExpiration); err != nil {
		// Lost a race with another frame of the same session.
		if x, ok := s.states.Get(sessionID); ok {
			return x.(*poseState)
		}
	}
	return st
}
