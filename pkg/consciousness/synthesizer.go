// Package consciousness turns simulated biosignal samples into the synthetic
// consciousness and biofield indices shown next to the pose feedback. The values
// are illustrative only. Synthesize is pure: the same sample always yields the
// same snapshot.
package consciousness

import "math"

const (
	qubitCount             = 256
	baseEntanglement       = 0.85
	superpositionStability = 0.92

	minChakraActivation = 0.1
)

// Synthesize derives a Snapshot from one sample.
func Synthesize(s Sample) Snapshot {
	alpha := finite(s.EEG.Alpha)
	theta := finite(s.EEG.Theta)
	beta := finite(s.EEG.Beta)
	gamma := finite(s.EEG.Gamma)
	duration := math.Max(0, finite(s.Duration))
	rate := finite(s.Breathing.Rate)
	breathDepth := clamp01(s.Breathing.Depth)

	pci := clamp01((alpha*0.4 + theta*0.3 + gamma*0.2 - beta*0.1) / 100)

	depth := meditationDepth(alpha, theta, duration)
	quantum := quantumMetrics(alpha, theta, gamma)
	biofield := biofieldAnalysis(alpha, rate, breathDepth)
	chakras := chakraAnalysis(alpha, theta, breathDepth)

	overall := OverallCoherence(pci, depth.Score, quantum.Coherence)
	depth.Level = TierFor(overall)

	return Snapshot{
		PCIScore:         pci,
		MeditationDepth:  depth,
		OverallCoherence: overall,
		Quantum:          quantum,
		Biofield:         biofield,
		Chakras:          chakras,
		Recommendations:  Recommend(pci, depth.Score, biofield.Coherence),
	}
}

// OverallCoherence combines the headline indices into one value in [0,1].
func OverallCoherence(pci, depthScore, quantumCoherence float64) float64 {
	return clamp01(pci*0.4 + depthScore*0.3 + quantumCoherence*0.3)
}

// TierFor buckets an overall coherence value.
func TierFor(coherence float64) DepthTier {
	switch {
	case coherence < 0.3:
		return TierLight
	case coherence < 0.6:
		return TierModerate
	case coherence < 0.8:
		return TierDeep
	default:
		return TierProfound
	}
}

// BalanceFor describes a chakra activation.
func BalanceFor(activation float64) string {
	if activation >= 0.4 && activation <= 0.8 {
		return BalanceBalanced
	}
	return BalanceImbalanced
}

func meditationDepth(alpha, theta, duration float64) MeditationDepth {
	base := (alpha + theta*1.5) / 20
	durationFactor := math.Min(1.2, 1+duration/1800)
	depth := MeditationDepth{
		Score:           clamp01(base * durationFactor),
		DurationMinutes: int(duration) / 60,
	}
	if total := alpha + theta + 1; total > 0 {
		depth.AlphaDominance = alpha / total
		depth.ThetaDominance = theta / total
	}
	return depth
}

func quantumMetrics(alpha, theta, gamma float64) QuantumMetrics {
	coherence := (theta*0.4 + alpha*0.3 + gamma*0.3) * baseEntanglement / 100
	return QuantumMetrics{
		Coherence:              clamp01(coherence),
		EntanglementStrength:   clamp01(baseEntanglement * (1 + gamma/1000)),
		ProcessingPower:        qubitCount * (theta + alpha) / 1000,
		QubitCount:             qubitCount,
		SuperpositionStability: superpositionStability,
	}
}

func biofieldAnalysis(alpha, rate, breathDepth float64) Biofield {
	coherence := clamp01(breathDepth*0.6 + (alpha/12)*0.4)
	field := clamp01(coherence * (1 + (15-rate)/15))
	flow := "imbalanced"
	if coherence > 0.6 {
		flow = "balanced"
	}
	return Biofield{
		Coherence:       coherence,
		FieldStrength:   field,
		AuraIntensity:   (coherence + field) / 2,
		BreathCoherence: breathDepth,
		EnergyFlow:      flow,
	}
}

func chakraAnalysis(alpha, theta, breathDepth float64) ChakraAnalysis {
	base := 0.3 + 0.6*breathDepth
	activations := make(map[string]float64, len(ChakraNames))
	for _, name := range ChakraNames {
		var scale float64
		switch name {
		case "crown", "third_eye":
			scale = alpha / 12
		case "heart", "throat":
			scale = (alpha + theta) / 20
		default:
			scale = theta / 8
		}
		activations[name] = clampRange(base*scale, minChakraActivation, 1)
	}
	return SummarizeChakras(activations)
}

// SummarizeChakras builds the chakra map from activations. Every canonical
// chakra is present in the output, missing activations count as the minimum.
func SummarizeChakras(activations map[string]float64) ChakraAnalysis {
	states := make(map[string]ChakraState, len(ChakraNames))
	values := make([]float64, 0, len(ChakraNames))
	most, least := ChakraNames[0], ChakraNames[0]

	for _, name := range ChakraNames {
		a, ok := activations[name]
		if !ok {
			a = minChakraActivation
		}
		a = clampRange(a, 0, 1)
		states[name] = ChakraState{
			Activation: a,
			Frequency:  ChakraFrequencies[name],
			Balance:    BalanceFor(a),
		}
		values = append(values, a)
		if a > states[most].Activation {
			most = name
		}
		if a < states[least].Activation {
			least = name
		}
	}

	return ChakraAnalysis{
		Chakras:        states,
		OverallBalance: overallBalance(values),
		MostActive:     most,
		LeastActive:    least,
	}
}

func overallBalance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)))
	return clamp01(1 - std/mean)
}

// Recommend produces practice suggestions for the headline indices.
func Recommend(pci, depthScore, biofieldCoherence float64) []string {
	var out []string
	if pci < 0.4 {
		out = append(out, "Focus on breath awareness to increase consciousness complexity")
	}
	if depthScore < 0.4 {
		out = append(out, "Try longer meditation sessions to deepen your practice")
	}
	if biofieldCoherence < 0.5 {
		out = append(out, "Practice coherent breathing (4-7-8 pattern) to improve biofield coherence")
	}
	if pci > 0.7 && depthScore > 0.7 {
		out = append(out, "Excellent consciousness state! Consider advanced meditation techniques")
	}
	if len(out) == 0 {
		out = append(out, "Your consciousness metrics look balanced. Continue your current practice")
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
