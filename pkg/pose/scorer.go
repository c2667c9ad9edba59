package pose

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultCorrectionThreshold = 15.0
	DefaultGoodFormThreshold   = 90.0

	defaultAboveTemplate = "Decrease {joint} angle by {delta} degrees"
	defaultBelowTemplate = "Increase {joint} angle by {delta} degrees"
)

// Scorer compares detected joint angles against a reference pose.
type Scorer struct {
	// CorrectionThreshold is the per-joint error in degrees above which a
	// correction is produced.
	CorrectionThreshold float64
	// GoodFormThreshold is the score above which no corrections are produced.
	GoodFormThreshold float64
}

func NewScorer(correctionThreshold, goodFormThreshold float64) Scorer {
	if correctionThreshold < 0 {
		correctionThreshold = DefaultCorrectionThreshold
	}
	if goodFormThreshold < 0 || goodFormThreshold > 100 {
		goodFormThreshold = DefaultGoodFormThreshold
	}
	return Scorer{CorrectionThreshold: correctionThreshold, GoodFormThreshold: goodFormThreshold}
}

type jointError struct {
	joint    string
	detected float64
	target   float64
	err      float64
}

// MeanError averages the absolute error over the joints present in both
// tables. matched is 0 when the tables share no joint.
func MeanError(detected, reference AngleTable) (mean float64, matched int) {
	var total float64
	for joint, target := range reference {
		got, ok := detected[joint]
		if !ok {
			continue
		}
		total += math.Abs(got - target)
		matched++
	}
	if matched == 0 {
		return 0, 0
	}
	return total / float64(matched), matched
}

// QualityFromError maps a mean error in degrees linearly onto [0,100].
func QualityFromError(meanError float64) float64 {
	score := 100 - meanError/180*100
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Score returns the quality score and the corrections ordered by descending
// error. Zero joint overlap scores 0.
func (s Scorer) Score(detected AngleTable, ref ReferencePose) (float64, []string) {
	mean, matched := MeanError(detected, ref.Angles)
	if matched == 0 {
		return 0, []string{}
	}
	score := QualityFromError(mean)
	if score > s.GoodFormThreshold {
		return score, []string{}
	}

	errs := make([]jointError, 0, matched)
	for joint, target := range ref.Angles {
		got, ok := detected[joint]
		if !ok {
			continue
		}
		e := math.Abs(got - target)
		if e <= s.CorrectionThreshold {
			continue
		}
		errs = append(errs, jointError{joint: joint, detected: got, target: target, err: e})
	}
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].err != errs[j].err {
			return errs[i].err > errs[j].err
		}
		return errs[i].joint < errs[j].joint
	})

	corrections := make([]string, 0, len(errs))
	for _, je := range errs {
		corrections = append(corrections, renderCorrection(ref.Corrections[je.joint], je))
	}
	return score, corrections
}

func renderCorrection(tmpl CorrectionTemplate, je jointError) string {
	text := tmpl.Below
	fallback := defaultBelowTemplate
	if je.detected > je.target {
		text = tmpl.Above
		fallback = defaultAboveTemplate
	}
	if text == "" {
		text = fallback
	}
	r := strings.NewReplacer(
		"{joint}", strings.ReplaceAll(je.joint, "_", " "),
		"{delta}", strconv.FormatFloat(je.err, 'f', 1, 64),
		"{target}", strconv.FormatFloat(je.target, 'f', 0, 64),
	)
	return r.Replace(text)
}
