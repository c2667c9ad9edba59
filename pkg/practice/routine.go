package practice

import "strings"

type RoutineTiming struct {
	WarmUp       float64 `json:"warm_up"`
	MainSequence float64 `json:"main_sequence"`
	CoolDown     float64 `json:"cool_down"`
}

type Routine struct {
	Level           string            `json:"level"`
	DurationMinutes int               `json:"duration_minutes"`
	Focus           string            `json:"focus"`
	Limitations     []string          `json:"limitations_considered"`
	WarmUp          []string          `json:"warm_up"`
	MainSequence    []string          `json:"main_sequence"`
	CoolDown        []string          `json:"cool_down"`
	Timing          RoutineTiming     `json:"estimated_timing"`
	Modifications   map[string]string `json:"modifications"`
}

type routineTemplate struct {
	warmUp, main, coolDown []string
}

var routines = map[string]routineTemplate{
	"beginner": {
		warmUp:   []string{"Mountain Pose", "Arm Circles", "Neck Rolls"},
		main:     []string{"Cat-Cow", "Downward Dog", "Child's Pose", "Warrior I"},
		coolDown: []string{"Seated Forward Fold", "Supine Twist", "Savasana"},
	},
	"intermediate": {
		warmUp:   []string{"Sun Salutation A", "Standing Forward Fold"},
		main:     []string{"Warrior II", "Triangle Pose", "Tree Pose", "Bridge Pose"},
		coolDown: []string{"Pigeon Pose", "Happy Baby", "Savasana"},
	},
	"advanced": {
		warmUp:   []string{"Sun Salutation B", "Standing Poses Flow"},
		main:     []string{"Crow Pose", "Headstand Prep", "Wheel Pose", "Eagle Pose"},
		coolDown: []string{"King Pigeon", "Lotus Prep", "Meditation"},
	},
}

var limitationModifications = []struct {
	keyword, key, advice string
}{
	{"knee", "knee_issues", "Use props, avoid deep lunges"},
	{"back", "back_issues", "Avoid deep backbends, use support"},
	{"wrist", "wrist_issues", "Use fists or forearms instead of palms"},
	{"neck", "neck_issues", "Avoid inversions, keep head neutral"},
}

// NewRoutine splits the session 20/60/20 across warm up, main sequence and
// cool down. Unknown levels get the beginner sequence.
func NewRoutine(level string, durationMinutes int, focus string, limitations []string) Routine {
	level = strings.ToLower(strings.TrimSpace(level))
	tmpl, ok := routines[level]
	if !ok {
		level = "beginner"
		tmpl = routines[level]
	}
	if focus == "" {
		focus = "general"
	}
	d := float64(max(durationMinutes, 0))

	mods := map[string]string{}
	for _, l := range limitations {
		l = strings.ToLower(l)
		for _, m := range limitationModifications {
			if strings.Contains(l, m.keyword) {
				mods[m.key] = m.advice
				break
			}
		}
	}

	return Routine{
		Level:           level,
		DurationMinutes: durationMinutes,
		Focus:           focus,
		Limitations:     append([]string{}, limitations...),
		WarmUp:          append([]string(nil), tmpl.warmUp...),
		MainSequence:    append([]string(nil), tmpl.main...),
		CoolDown:        append([]string(nil), tmpl.coolDown...),
		Timing:          RoutineTiming{WarmUp: d * 0.2, MainSequence: d * 0.6, CoolDown: d * 0.2},
		Modifications:   mods,
	}
}
