package protocol

import (
	"time"

	"yoga-intelligence-be/pkg/consciousness"
	"yoga-intelligence-be/pkg/pose"
)

const (
	NoPoseMessage       = "No pose detected. Please ensure you're visible in the camera."
	InvalidImageMessage = "Invalid image data"
)

// PoseCorrection is the result of analyzing one pose_frame.
type PoseCorrection struct {
	PoseDetected bool             `json:"pose_detected"`
	DetectedPose string           `json:"detected_pose"`
	QualityScore float64          `json:"quality_score"`
	Landmarks    pose.LandmarkSet `json:"landmarks"`
	Corrections  []string         `json:"corrections"`
	JointAngles  pose.AngleTable  `json:"joint_angles,omitempty"`
	Message      string           `json:"message,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
}

// NoPose builds the result for a frame without a visible person, or for an
// undecodable frame when message is InvalidImageMessage.
func NoPose(message string, at time.Time) PoseCorrection {
	return PoseCorrection{
		PoseDetected: false,
		DetectedPose: pose.PoseUnknown,
		Landmarks:    pose.LandmarkSet{},
		Corrections:  []string{},
		Message:      message,
		Timestamp:    at,
	}
}

// ConsciousnessAnalysis is a snapshot stamped with its production time.
type ConsciousnessAnalysis struct {
	consciousness.Snapshot
	Timestamp time.Time `json:"timestamp"`
}

func NewPoseFrame(payload string) (Envelope, error) {
	return newEnvelope(MsgPoseFrame, payload)
}

func NewChatMessage(text string) Envelope {
	return Envelope{Type: MsgChatMessage, Content: text}
}

func NewConsciousnessData(s consciousness.Sample) (Envelope, error) {
	return newEnvelope(MsgConsciousnessData, s)
}

func NewPoseCorrection(pc PoseCorrection) (Envelope, error) {
	if pc.Landmarks == nil {
		pc.Landmarks = pose.LandmarkSet{}
	}
	if pc.Corrections == nil {
		pc.Corrections = []string{}
	}
	return newEnvelope(MsgPoseCorrection, pc)
}

func NewChatResponse(text string) (Envelope, error) {
	return newEnvelope(MsgChatResponse, text)
}

func NewConsciousnessAnalysis(a ConsciousnessAnalysis) (Envelope, error) {
	return newEnvelope(MsgConsciousnessAnalysis, a)
}
