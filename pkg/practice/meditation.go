package practice

import "strings"

const DefaultTheme = "mindfulness"

type MeditationGuide struct {
	Theme           string   `json:"theme"`
	Level           string   `json:"level"`
	DurationMinutes int      `json:"duration_minutes"`
	Introduction    string   `json:"introduction"`
	Technique       string   `json:"technique"`
	Anchor          string   `json:"anchor"`
	Steps           []string `json:"steps"`
	Closing         string   `json:"closing"`
}

type meditationTheme struct {
	introduction string
	technique    string
	anchor       string
	steps        []string
}

var meditationThemes = map[string]meditationTheme{
	"mindfulness": {
		introduction: "Focus on present moment awareness",
		technique:    "Observe thoughts without judgment",
		anchor:       "Breath or body sensations",
		steps: []string{
			"When thoughts arise, simply notice them",
			"Gently return attention to your breath",
			"Continue observing with kind awareness",
		},
	},
	"loving_kindness": {
		introduction: "Cultivate compassion and love",
		technique:    "Send loving wishes to yourself and others",
		anchor:       "Heart center and loving phrases",
		steps: []string{
			"Place hand on heart and feel its rhythm",
			"Silently repeat: 'May I be happy and peaceful'",
			"Extend these wishes to loved ones, then all beings",
		},
	},
	"body_scan": {
		introduction: "Systematic awareness of the body",
		technique:    "Move attention through each body part",
		anchor:       "Physical sensations",
		steps: []string{
			"Start by noticing the top of your head",
			"Slowly move attention down through your body",
			"Notice sensations without trying to change them",
		},
	},
}

// NewMeditationGuide falls back to mindfulness for unknown themes.
func NewMeditationGuide(theme string, durationSeconds int, level string) MeditationGuide {
	theme = strings.ToLower(strings.TrimSpace(theme))
	t, ok := meditationThemes[theme]
	if !ok {
		theme = DefaultTheme
		t = meditationThemes[DefaultTheme]
	}
	if level == "" {
		level = "beginner"
	}

	steps := []string{
		"Settle into a comfortable position",
		"Close your eyes and take three deep breaths",
		"Begin to notice your natural breathing rhythm",
	}
	steps = append(steps, t.steps...)

	return MeditationGuide{
		Theme:           theme,
		Level:           strings.ToLower(level),
		DurationMinutes: max(durationSeconds, 0) / 60,
		Introduction:    t.introduction,
		Technique:       t.technique,
		Anchor:          t.anchor,
		Steps:           steps,
		Closing:         "Gently return awareness to your surroundings",
	}
}
