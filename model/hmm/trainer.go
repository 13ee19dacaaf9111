package hmm

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/linxinzhe/AIND-Recognizer/floatx"
	"github.com/linxinzhe/AIND-Recognizer/model"
	"github.com/linxinzhe/AIND-Recognizer/model/gaussian"
)

const (
	// DefaultMaxIter is the Baum-Welch iteration budget.
	DefaultMaxIter = 1000

	// DefaultTol is the log-likelihood improvement below which the
	// estimation loop stops.
	DefaultTol = 1e-2

	// A state whose accumulated occupancy falls below this weight cannot
	// support a parameter estimate.
	minOccupancy = 1e-3
)

// Trainer estimates HMM parameters from data using the Baum-Welch
// algorithm. Trainer implements the model.Fitter interface. The zero
// configuration uses DefaultMaxIter, DefaultTol, and model.DefaultSeed.
type Trainer struct {
	maxIter int
	tol     float64
	seed    int64
}

// TrainerOption type is used to pass options to NewTrainer().
type TrainerOption func(*Trainer)

// NewTrainer creates a new HMM trainer.
func NewTrainer(options ...TrainerOption) *Trainer {

	tr := &Trainer{
		maxIter: DefaultMaxIter,
		tol:     DefaultTol,
		seed:    model.DefaultSeed,
	}
	for _, option := range options {
		option(tr)
	}
	return tr
}

// MaxIter option sets the iteration budget.
func MaxIter(n int) TrainerOption {
	return func(tr *Trainer) { tr.maxIter = n }
}

// Tol option sets the convergence tolerance.
func Tol(tol float64) TrainerOption {
	return func(tr *Trainer) { tr.tol = tol }
}

// Seed option sets the seed for the random initialization.
func Seed(seed int64) TrainerOption {
	return func(tr *Trainer) { tr.seed = seed }
}

// Fit estimates an HMM with numStates hidden states from a set of
// concatenated sequences. Any numerical problem is reported as an error,
// never a panic; the caller decides whether a failed candidate matters.
func (tr *Trainer) Fit(numStates int, x [][]float64, lengths []int) (model.SequenceModeler, error) {

	if numStates < 1 {
		return nil, fmt.Errorf("num states must be positive, got [%d]", numStates)
	}
	m, e := tr.flatStart(numStates, x, lengths)
	if e != nil {
		return nil, e
	}

	var prevLL float64
	for iter := 0; iter < tr.maxIter; iter++ {

		ll, e := tr.step(m, x, lengths)
		if e != nil {
			return nil, e
		}
		if math.IsNaN(ll) || math.IsInf(ll, 1) {
			return nil, fmt.Errorf("log-likelihood is not finite at iteration [%d]", iter)
		}
		if glog.V(3) {
			glog.Infof("iter: %4d, log-likelihood: %e", iter, ll)
		}

		if iter > 0 {
			if ll < prevLL-1e-10 {
				glog.V(2).Infof("log-likelihood decreased by %e at iteration %d", prevLL-ll, iter)
			} else if ll-prevLL < tr.tol {
				glog.V(2).Infof("converged at iteration %d, log-likelihood %e", iter, ll)
				break
			}
		}
		prevLL = ll
	}
	return m, nil
}

// flatStart initializes the model before estimation. Initial state probs
// are uniform, transitions are uniform, and the output distributions are
// bootstrapped by ranking the frames along a 1-D projection and assigning
// each state one quantile of the ranked frames.
func (tr *Trainer) flatStart(numStates int, x [][]float64, lengths []int) (*Model, error) {

	if len(x) == 0 || len(x[0]) == 0 {
		return nil, fmt.Errorf("empty observation matrix")
	}

	init := make([]float64, numStates)
	floatx.Apply(floatx.SetValueFunc(1.0/float64(numStates)), init, nil)
	trans := floatx.MakeFloat2D(numStates, numStates)
	for i := range trans {
		floatx.Apply(floatx.SetValueFunc(1.0/float64(numStates)), trans[i], nil)
	}

	states := make([]*gaussian.Gaussian, numStates)
	for i := range states {
		states[i] = gaussian.NewGaussian(len(x[0]), nil, nil, fmt.Sprintf("state-%d", i))
	}

	m, e := NewModel(trans, init, states, "hmm")
	if e != nil {
		return nil, e
	}
	if e := m.checkInput(x, lengths); e != nil {
		return nil, e
	}
	if len(x) < numStates {
		return nil, fmt.Errorf("insufficient data, [%d] frames for [%d] states", len(x), numStates)
	}

	// Rank frames by the sum of their features, then give each state one
	// contiguous quantile of the ranking.
	order := make([]int, len(x))
	proj := make([]float64, len(x))
	for k, row := range x {
		order[k] = k
		proj[k] = floats.Sum(row)
	}
	sort.SliceStable(order, func(a, b int) bool { return proj[order[a]] < proj[order[b]] })
	for rank, k := range order {
		st := rank * numStates / len(x)
		states[st].Update(x[k], 1.0)
	}
	for _, g := range states {
		if e := g.Estimate(); e != nil {
			return nil, e
		}
		g.Clear()
	}

	// Seeded jitter on the means breaks ties between states that received
	// identical segments.
	r := rand.New(rand.NewSource(tr.seed))
	for _, g := range states {
		for k := range g.Mean {
			g.Mean[k] += r.NormFloat64() * g.StdDev[k] * 0.01
		}
	}

	m.Initialize()
	return m, nil
}

// step runs one expectation-maximization pass over all sequences and
// returns the total log-likelihood under the parameters before the update.
func (tr *Trainer) step(m *Model, x [][]float64, lengths []int) (float64, error) {

	N := m.NStates
	sumInit := make([]float64, N)
	sumGamma := make([]float64, N)
	sumXi := floatx.MakeFloat2D(N, N)

	var totalLL float64
	start := 0
	for _, l := range lengths {
		seq := x[start : start+l]
		start += l

		b := m.logObsProbs(seq)
		α, logProb := m.alpha(seq, b)
		β := m.beta(seq, b)
		γ := m.gamma(α, β)
		totalLL += logProb

		for i := 0; i < N; i++ {
			sumInit[i] += math.Exp(γ[0][i])
		}
		for t := 0; t < l; t++ {
			for i := 0; i < N; i++ {
				g := math.Exp(γ[t][i])
				m.States[i].Update(seq[t], g)
				if t < l-1 {
					sumGamma[i] += g
				}
			}
		}
		if l > 1 {
			ζ := m.xi(b, α, β)
			for t := 0; t < l-1; t++ {
				for i := 0; i < N; i++ {
					for j := 0; j < N; j++ {
						sumXi[i][j] += math.Exp(ζ[t][i][j])
					}
				}
			}
		}
	}

	// Initial state probabilities.
	s := floats.Sum(sumInit)
	floatx.Apply(floatx.ScaleFunc(1.0/s), sumInit, m.InitProbs)

	// Transition probabilities.
	for i := 0; i < N; i++ {
		if sumGamma[i] < minOccupancy {
			tr.clearStats(m)
			return 0, fmt.Errorf("state [%d] is starved, occupancy [%e]", i, sumGamma[i])
		}
		floatx.Apply(floatx.ScaleFunc(1.0/sumGamma[i]), sumXi[i], m.TransProbs[i])
		// Guard against drift from the scaled recursions.
		rowSum := floats.Sum(m.TransProbs[i])
		floatx.Apply(floatx.ScaleFunc(1.0/rowSum), m.TransProbs[i], nil)
	}

	// Output distributions.
	for _, g := range m.States {
		if g.NumSamples() < minOccupancy {
			tr.clearStats(m)
			return 0, fmt.Errorf("output model [%s] is starved", g.Name())
		}
		if e := g.Estimate(); e != nil {
			tr.clearStats(m)
			return 0, e
		}
		g.Clear()
	}

	m.Initialize()
	return totalLL, nil
}

func (tr *Trainer) clearStats(m *Model) {
	for _, g := range m.States {
		g.Clear()
	}
}
