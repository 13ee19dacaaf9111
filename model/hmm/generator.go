package hmm

import (
	"math/rand"

	"github.com/linxinzhe/AIND-Recognizer/model"
)

// Generator generates random observation sequences using an hmm model.
type Generator struct {
	hmm *Model
	r   *rand.Rand
}

// NewGenerator returns an hmm data generator.
func NewGenerator(m *Model, seed int64) *Generator {
	return &Generator{
		hmm: m,
		r:   rand.New(rand.NewSource(seed)),
	}
}

// Next returns a random sequence of n observation vectors and the hidden
// state sequence that produced it.
func (gen *Generator) Next(n int) ([][]float64, []int, error) {

	m := gen.hmm
	obs := make([][]float64, n)
	states := make([]int, n)

	s, e := model.RandIntFromDist(m.InitProbs, gen.r)
	if e != nil {
		return nil, nil, e
	}
	for t := 0; t < n; t++ {
		states[t] = s
		g := m.States[s]
		v, e := model.RandNormalVector(g.Mean, g.StdDev, gen.r)
		if e != nil {
			return nil, nil, e
		}
		obs[t] = v

		s, e = model.RandIntFromDist(m.TransProbs[s], gen.r)
		if e != nil {
			return nil, nil, e
		}
	}
	return obs, states, nil
}
