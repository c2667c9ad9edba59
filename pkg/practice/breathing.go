// Package practice holds the guided practice content served next to a live
// session: breathing patterns, meditation scripts and routines.
package practice

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	PhaseInhale = "inhale"
	PhaseHold   = "hold"
	PhaseExhale = "exhale"

	DefaultPattern         = "4-7-8"
	DefaultBreathingLength = 300
)

var ErrUnknownPattern = errors.New("unknown breathing pattern")

type Phase struct {
	Kind    string `json:"kind"`
	Seconds int    `json:"seconds"`
}

type BreathingPattern struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Phases      []Phase  `json:"phases"`
	Benefits    []string `json:"benefits"`
}

// CycleSeconds is the length of one full round of the pattern.
func (p BreathingPattern) CycleSeconds() int {
	total := 0
	for _, ph := range p.Phases {
		total += ph.Seconds
	}
	return total
}

type BreathingGuide struct {
	Pattern         string   `json:"pattern"`
	Description     string   `json:"description"`
	DurationSeconds int      `json:"duration_seconds"`
	EstimatedCycles int      `json:"estimated_cycles"`
	Instructions    []string `json:"instructions"`
	Benefits        []string `json:"benefits"`
}

var breathingPatterns = map[string]BreathingPattern{
	"4-7-8": {
		Name:        "4-7-8",
		Description: "Calming breath for relaxation",
		Phases:      []Phase{{PhaseInhale, 4}, {PhaseHold, 7}, {PhaseExhale, 8}},
		Benefits:    []string{"Reduces anxiety and stress", "Promotes better sleep", "Calms the nervous system"},
	},
	"box": {
		Name:        "box",
		Description: "Balanced breath for focus",
		Phases:      []Phase{{PhaseInhale, 4}, {PhaseHold, 4}, {PhaseExhale, 4}, {PhaseHold, 4}},
		Benefits:    []string{"Improves focus and concentration", "Balances the nervous system", "Enhances mental clarity"},
	},
	"ujjayi": {
		Name:        "ujjayi",
		Description: "Ocean breath for yoga practice",
		Phases:      []Phase{{PhaseInhale, 6}, {PhaseExhale, 6}},
		Benefits:    []string{"Builds internal heat", "Maintains focus during yoga", "Calms the mind"},
	},
}

// BreathingPatterns returns every pattern ordered by name.
func BreathingPatterns() []BreathingPattern {
	out := make([]BreathingPattern, 0, len(breathingPatterns))
	for _, p := range breathingPatterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func LookupPattern(name string) (BreathingPattern, error) {
	p, ok := breathingPatterns[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return BreathingPattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

// NewBreathingGuide builds step by step instructions for the named pattern.
// An empty name selects 4-7-8 and a non-positive duration selects five minutes.
func NewBreathingGuide(name string, durationSeconds int) (BreathingGuide, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultPattern
	}
	p, err := LookupPattern(name)
	if err != nil {
		return BreathingGuide{}, err
	}
	if durationSeconds <= 0 {
		durationSeconds = DefaultBreathingLength
	}
	cycles := durationSeconds / p.CycleSeconds()

	instructions := []string{
		"Find a comfortable seated position",
		"Close your eyes or soften your gaze",
		"Begin with natural breathing to center yourself",
	}
	for _, ph := range p.Phases {
		instructions = append(instructions, fmt.Sprintf("%s for %d counts", phaseVerb(ph.Kind), ph.Seconds))
	}
	instructions = append(instructions,
		fmt.Sprintf("Repeat for %d cycles", cycles),
		"Return to natural breathing when complete",
	)

	return BreathingGuide{
		Pattern:         p.Name,
		Description:     p.Description,
		DurationSeconds: durationSeconds,
		EstimatedCycles: cycles,
		Instructions:    instructions,
		Benefits:        append([]string(nil), p.Benefits...),
	}, nil
}

func phaseVerb(kind string) string {
	switch kind {
	case PhaseInhale:
		return "Inhale"
	case PhaseHold:
		return "Hold"
	default:
		return "Exhale"
	}
}
