package consciousness

// EEG holds the simulated band power values.
type EEG struct {
	Alpha float64 `json:"alpha"`
	Theta float64 `json:"theta"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// Breathing is the simulated breath rate (breaths per minute) and depth (0-1).
type Breathing struct {
	Rate  float64 `json:"rate"`
	Depth float64 `json:"depth"`
}

// Sample is one biosignal tick. Duration is the elapsed practice time in seconds.
type Sample struct {
	EEG       EEG       `json:"eeg"`
	Duration  float64   `json:"duration"`
	Breathing Breathing `json:"breathing"`
}
