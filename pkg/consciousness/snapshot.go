package consciousness

// DepthTier is the discrete meditation depth bucket.
type DepthTier string

const (
	TierLight    DepthTier = "Light"
	TierModerate DepthTier = "Moderate"
	TierDeep     DepthTier = "Deep"
	TierProfound DepthTier = "Profound"
)

const (
	BalanceBalanced   = "balanced"
	BalanceImbalanced = "imbalanced"
)

// Chakra names in canonical order, root first.
var ChakraNames = []string{"root", "sacral", "solar_plexus", "heart", "throat", "third_eye", "crown"}

// ChakraFrequencies are the traditional resonance values reported alongside
// each chakra.
var ChakraFrequencies = map[string]float64{
	"root":         194.18,
	"sacral":       210.42,
	"solar_plexus": 126.22,
	"heart":        341.3,
	"throat":       141.27,
	"third_eye":    221.23,
	"crown":        172.06,
}

type MeditationDepth struct {
	Score           float64   `json:"score"`
	Level           DepthTier `json:"level"`
	DurationMinutes int       `json:"duration_minutes"`
	AlphaDominance  float64   `json:"alpha_dominance"`
	ThetaDominance  float64   `json:"theta_dominance"`
}

type QuantumMetrics struct {
	Coherence              float64 `json:"coherence"`
	EntanglementStrength   float64 `json:"entanglement_strength"`
	ProcessingPower        float64 `json:"processing_power"`
	QubitCount             int     `json:"qubit_count"`
	SuperpositionStability float64 `json:"superposition_stability"`
}

type Biofield struct {
	Coherence       float64 `json:"coherence"`
	FieldStrength   float64 `json:"field_strength"`
	AuraIntensity   float64 `json:"aura_intensity"`
	BreathCoherence float64 `json:"breath_coherence"`
	EnergyFlow      string  `json:"energy_flow"`
}

type ChakraState struct {
	Activation float64 `json:"activation"`
	Frequency  float64 `json:"frequency"`
	Balance    string  `json:"balance"`
}

type ChakraAnalysis struct {
	Chakras        map[string]ChakraState `json:"chakras"`
	OverallBalance float64                `json:"overall_balance"`
	MostActive     string                 `json:"most_active"`
	LeastActive    string                 `json:"least_active"`
}

// Snapshot is the full set of derived indices for one sample.
type Snapshot struct {
	PCIScore         float64         `json:"pci_score"`
	MeditationDepth  MeditationDepth `json:"meditation_depth"`
	OverallCoherence float64         `json:"overall_coherence"`
	Quantum          QuantumMetrics  `json:"quantum_metrics"`
	Biofield         Biofield        `json:"biofield_analysis"`
	Chakras          ChakraAnalysis  `json:"chakra_analysis"`
	Recommendations  []string        `json:"recommendations"`
}
