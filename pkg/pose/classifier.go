package pose

const (
	PoseUnknown = "unknown"
	PoseGeneral = "general_pose"

	GoodFormMessage = "Great form! Keep holding the pose."
)

// GeneralGuidance is returned when no reference pose matches well enough.
var GeneralGuidance = []string{
	"Focus on your breath",
	"Maintain steady alignment",
	"Listen to your body",
}

// Match is the outcome of classifying one frame's joint angles.
type Match struct {
	Pose        string
	Score       float64
	Corrections []string
}

// Classifier picks the reference pose that scores best for a set of angles.
type Classifier struct {
	Library  *Library
	Scorer   Scorer
	MinScore float64
}

// Classify scores the angles against every reference pose in name order.
// Ties keep the first pose. A best score below MinScore is reported as
// general_pose with generic guidance.
func (c Classifier) Classify(angles AngleTable) Match {
	if len(angles) == 0 || c.Library == nil || c.Library.Len() == 0 {
		return Match{Pose: PoseUnknown, Score: 0, Corrections: []string{}}
	}

	best := Match{Pose: PoseUnknown, Score: -1}
	for _, ref := range c.Library.Poses() {
		if _, matched := MeanError(angles, ref.Angles); matched == 0 {
			continue
		}
		score, corrections := c.Scorer.Score(angles, ref)
		if score > best.Score {
			best = Match{Pose: ref.Name, Score: score, Corrections: corrections}
		}
	}
	if best.Score < 0 {
		return Match{Pose: PoseUnknown, Score: 0, Corrections: []string{}}
	}
	if best.Score < c.MinScore {
		guidance := make([]string, len(GeneralGuidance))
		copy(guidance, GeneralGuidance)
		return Match{Pose: PoseGeneral, Score: best.Score, Corrections: guidance}
	}
	return best
}

// Evaluate scores the angles against one named pose.
func (c Classifier) Evaluate(angles AngleTable, poseName string) (Match, error) {
	ref, err := c.Library.Get(poseName)
	if err != nil {
		return Match{}, err
	}
	score, corrections := c.Scorer.Score(angles, ref)
	return Match{Pose: ref.Name, Score: score, Corrections: corrections}, nil
}
