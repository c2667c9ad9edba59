package consciousness

import (
	"math/rand"
	"sync"
	"time"
)

// Generator produces simulated biosignal samples. It is the only source of
// randomness on the biosignal path.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	start time.Time
	now   func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		start: time.Now(),
		now:   time.Now,
	}
}

// Next draws one sample. Band ranges follow the conventional EEG bands.
func (g *Generator) Next() Sample {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Sample{
		EEG: EEG{
			Alpha: g.uniform(8, 12),
			Theta: g.uniform(4, 8),
			Beta:  g.uniform(13, 30),
			Gamma: g.uniform(30, 100),
		},
		Duration: g.now().Sub(g.start).Seconds(),
		Breathing: Breathing{
			Rate:  g.uniform(6, 16),
			Depth: g.uniform(0.4, 0.9),
		},
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
