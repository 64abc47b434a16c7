package pipeline

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultSamples       = 400
	DefaultSyntheticSeed = 1
)

// GenerateSynthetic fabricates readings from two independent sensors. The
// label follows a noisy linear threshold:
//
//	label = 0.006*f1 + 0.004*f2 + N(0, 0.2) > 4.0
func GenerateSynthetic(samples int, seed uint64) *Dataset {
	if samples <= 0 {
		samples = DefaultSamples
	}
	src := rand.NewPCG(seed, seed)
	raw := distuv.Normal{Mu: 500, Sigma: 80, Src: src}     // raw analog reading
	average := distuv.Normal{Mu: 300, Sigma: 60, Src: src} // moving average or second sensor
	noise := distuv.Normal{Mu: 0, Sigma: 0.2, Src: src}

	f1 := make([]float64, samples)
	for i := range f1 {
		f1[i] = raw.Rand()
	}
	f2 := make([]float64, samples)
	for i := range f2 {
		f2[i] = average.Rand()
	}

	dataset := &Dataset{
		Features: make([][]float64, samples),
		Labels:   make([]int, samples),
		Source:   SourceSynthetic,
	}
	for i := 0; i < samples; i++ {
		dataset.Features[i] = []float64{f1[i], f2[i]}
		if 0.006*f1[i]+0.004*f2[i]+noise.Rand() > 4.0 {
			dataset.Labels[i] = 1
		}
	}
	return dataset
}
