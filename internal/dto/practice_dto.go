package dto

type BreathingGuideRequest struct {
	Pattern  string `json:"pattern" validate:"omitempty,max=32"`
	Duration int    `json:"duration" validate:"omitempty,gte=10,lte=3600"`
}

type MeditationGuideRequest struct {
	Theme    string `json:"theme"`
	Duration int    `json:"duration" validate:"omitempty,gte=60,lte=7200"`
	Level    string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type RoutineRequest struct {
	Level       string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration    int      `json:"duration" validate:"omitempty,gte=5,lte=180"`
	Focus       string   `json:"focus"`
	Limitations []string `json:"limitations" validate:"omitempty,dive,required"`
}

type PoseSummaryResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}
