/*
Package hmm implements a hidden Markov model with diagonal-covariance
Gaussian output distributions. Parameters are estimated with the
Baum-Welch algorithm (see trainer.go).

Probabilities are kept in the log domain internally. The alpha/beta
recursions normalize at every time step so long sequences don't underflow;
the accumulated normalization terms recover the sequence log-probability.
*/
package hmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/linxinzhe/AIND-Recognizer/floatx"
	"github.com/linxinzhe/AIND-Recognizer/model/gaussian"
)

// Model is a hidden Markov model with Gaussian output distributions.
// States are fully connected. The exported fields are the model parameters
// in the linear domain, suitable for JSON encoding.
type Model struct {
	ModelName  string               `json:"name"`
	NStates    int                  `json:"num_states"`
	NE         int                  `json:"num_elements"`
	InitProbs  []float64            `json:"init_probs"`
	TransProbs [][]float64          `json:"trans_probs"`
	States     []*gaussian.Gaussian `json:"states"`

	// Log-domain copies used by the recursions.
	logInitProbs  []float64
	logTransProbs [][]float64
}

// NewModel creates an HMM from explicit parameters.
func NewModel(transProbs [][]float64, initProbs []float64, states []*gaussian.Gaussian, name string) (*Model, error) {

	r, c := floatx.Check2D(transProbs)
	if r != c {
		return nil, fmt.Errorf("trans probs matrix is not square [%d x %d]", r, c)
	}
	if len(initProbs) != r {
		return nil, fmt.Errorf("num states mismatch, trans probs has [%d] and init probs has [%d]", r, len(initProbs))
	}
	if len(states) != r {
		return nil, fmt.Errorf("num states mismatch, trans probs has [%d] and output models has [%d]", r, len(states))
	}

	m := &Model{
		ModelName:  name,
		NStates:    r,
		NE:         states[0].Dim(),
		InitProbs:  initProbs,
		TransProbs: transProbs,
		States:     states,
	}
	m.Initialize()
	return m, nil
}

// Initialize computes the log-domain parameters. Must be called after
// unmarshaling a model from JSON.
func (m *Model) Initialize() {

	n := m.NStates
	m.logInitProbs = make([]float64, n)
	m.logTransProbs = floatx.MakeFloat2D(n, n)
	floatx.Apply(floatx.Log, m.InitProbs, m.logInitProbs)
	for i := 0; i < n; i++ {
		floatx.Apply(floatx.Log, m.TransProbs[i], m.logTransProbs[i])
	}
	for _, g := range m.States {
		g.Initialize()
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.ModelName }

// SetName sets the model name.
func (m *Model) SetName(name string) { m.ModelName = name }

// NumStates returns the number of hidden states.
func (m *Model) NumStates() int { return m.NStates }

// Dim is the dimensionality of the observation vector.
func (m *Model) Dim() int { return m.NE }

// LogProb returns the total log-likelihood of a set of sequences. The
// sequences are concatenated in x (frames x features) and lengths records
// the frame count of each sequence.
func (m *Model) LogProb(x [][]float64, lengths []int) (float64, error) {

	if e := m.checkInput(x, lengths); e != nil {
		return 0, e
	}

	var total float64
	start := 0
	for _, l := range lengths {
		seq := x[start : start+l]
		start += l

		_, logProb := m.alpha(seq, m.logObsProbs(seq))
		if math.IsNaN(logProb) {
			return 0, fmt.Errorf("log prob for model [%s] is NaN", m.ModelName)
		}
		total += logProb
	}
	return total, nil
}

// Decode returns the most likely state sequence for each input sequence
// (Viterbi) concatenated in input order, and the total Viterbi log prob.
func (m *Model) Decode(x [][]float64, lengths []int) ([]int, float64, error) {

	if e := m.checkInput(x, lengths); e != nil {
		return nil, 0, e
	}

	states := make([]int, 0, len(x))
	var total float64
	start := 0
	for _, l := range lengths {
		seq := x[start : start+l]
		start += l
		bt, logProb := m.viterbi(seq)
		states = append(states, bt...)
		total += logProb
	}
	return states, total, nil
}

func (m *Model) checkInput(x [][]float64, lengths []int) error {

	if len(x) == 0 {
		return fmt.Errorf("empty observation matrix")
	}
	if len(lengths) == 0 {
		return fmt.Errorf("empty lengths vector")
	}
	var sum int
	for _, l := range lengths {
		if l < 1 {
			return fmt.Errorf("sequence length must be positive, got [%d]", l)
		}
		sum += l
	}
	if sum != len(x) {
		return fmt.Errorf("lengths sum [%d] doesn't match num frames [%d]", sum, len(x))
	}
	for _, row := range x {
		if len(row) != m.NE {
			return fmt.Errorf("mismatch in num elements in observations [%d] expected [%d]", len(row), m.NE)
		}
	}
	return nil
}

// logObsProbs precomputes b(j,t) = log P[o(t) | q(t) = j] for one sequence.
// Indices are b[t][j].
func (m *Model) logObsProbs(seq [][]float64) [][]float64 {

	T := len(seq)
	b := floatx.MakeFloat2D(T, m.NStates)
	for t, obs := range seq {
		for j, g := range m.States {
			b[t][j] = g.LogProb(obs)
		}
	}
	return b
}

// Compute alphas for one sequence. Indices are α(time, state).
//
// 1. Initialization: α(0,i) = π(i) b(i,o(0)); 0<=i<N
// 2. Induction:      α(t+1,j) = sum_i[α(t,i)a(i,j)] b(j,o(t+1))
// 3. Termination:    P(O|Φ) = sum_i α(T-1,i)
//
// Each time step is normalized; the log of the normalizer accumulates into
// the sequence log prob. For scaling details see Rabiner/Juang.
func (m *Model) alpha(seq, b [][]float64) (α [][]float64, logProb float64) {

	N := m.NStates
	T := len(seq)
	α = floatx.MakeFloat2D(T, N)
	work := make([]float64, N)

	for i := 0; i < N; i++ {
		α[0][i] = m.logInitProbs[i] + b[0][i]
	}
	ls := floats.LogSumExp(α[0])
	for i := 0; i < N; i++ {
		α[0][i] -= ls
	}
	logProb = ls

	for t := 0; t < T-1; t++ {
		for j := 0; j < N; j++ {
			for i := 0; i < N; i++ {
				work[i] = α[t][i] + m.logTransProbs[i][j]
			}
			α[t+1][j] = floats.LogSumExp(work) + b[t+1][j]
		}
		ls = floats.LogSumExp(α[t+1])
		for j := 0; j < N; j++ {
			α[t+1][j] -= ls
		}
		logProb += ls
	}
	return
}

// Compute betas for one sequence. Indices are β(time, state). Each time
// step is normalized; any per-step scale cancels in gamma and xi.
//
// 1. Initialization: β(T-1,i) = 1
// 2. Induction:      β(t,i) = sum_j a(i,j) b(j,o(t+1)) β(t+1,j)
func (m *Model) beta(seq, b [][]float64) (β [][]float64) {

	N := m.NStates
	T := len(seq)
	β = floatx.MakeFloat2D(T, N)
	work := make([]float64, N)

	for i := 0; i < N; i++ {
		β[T-1][i] = 0.0
	}

	for t := T - 2; t >= 0; t-- {
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				work[j] = m.logTransProbs[i][j] + b[t+1][j] + β[t+1][j]
			}
			β[t][i] = floats.LogSumExp(work)
		}
		ls := floats.LogSumExp(β[t])
		for i := 0; i < N; i++ {
			β[t][i] -= ls
		}
	}
	return
}

// Compute gammas. γ(t,i) is the posterior log prob of being in state i at
// time t given the whole sequence.
func (m *Model) gamma(α, β [][]float64) (γ [][]float64) {

	T := len(α)
	N := m.NStates
	γ = floatx.MakeFloat2D(T, N)

	for t := 0; t < T; t++ {
		for i := 0; i < N; i++ {
			γ[t][i] = α[t][i] + β[t][i]
		}
		ls := floats.LogSumExp(γ[t])
		for i := 0; i < N; i++ {
			γ[t][i] -= ls
		}
	}
	return
}

// Compute xis. ζ(t,i,j) is the posterior log prob of the transition from
// state i at time t to state j at time t+1. Defined for t in [0,T-2].
func (m *Model) xi(b, α, β [][]float64) (ζ [][][]float64) {

	T := len(α)
	N := m.NStates
	ζ = floatx.MakeFloat3D(T-1, N, N)
	work := make([]float64, N*N)

	for t := 0; t < T-1; t++ {
		k := 0
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				v := α[t][i] + m.logTransProbs[i][j] + b[t+1][j] + β[t+1][j]
				ζ[t][i][j] = v
				work[k] = v
				k++
			}
		}
		ls := floats.LogSumExp(work)
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				ζ[t][i][j] -= ls
			}
		}
	}
	return
}

// The viterbi algorithm computes the most probable sequence of states.
// Recursion in log scale:
//
//	delta(0,j) = π(j) + b(j,0)
//	delta(t,j) = max_k [ delta(t-1,k) + a(k,j) ] + b(j,t)
//	index(t,j) = argmax_k [ delta(t-1,k) + a(k,j) ]
func (m *Model) viterbi(seq [][]float64) (bt []int, logViterbiProb float64) {

	N := m.NStates
	T := len(seq)
	b := m.logObsProbs(seq)

	delta := floatx.MakeFloat2D(T, N)
	index := make([][]int, T)
	for t := range index {
		index[t] = make([]int, N)
	}
	bt = make([]int, T)

	for i := 0; i < N; i++ {
		delta[0][i] = m.logInitProbs[i] + b[0][i]
	}

	for t := 1; t < T; t++ {
		for j := 0; j < N; j++ {
			max := delta[t-1][0] + m.logTransProbs[0][j]
			argmax := 0
			for k := 1; k < N; k++ {
				v := delta[t-1][k] + m.logTransProbs[k][j]
				if v > max {
					max = v
					argmax = k
				}
			}
			delta[t][j] = max + b[t][j]
			index[t][j] = argmax
		}
	}

	max := delta[T-1][0]
	argmax := 0
	for i := 1; i < N; i++ {
		if delta[T-1][i] > max {
			max = delta[T-1][i]
			argmax = i
		}
	}
	bt[T-1] = argmax
	logViterbiProb = max

	for t := T - 2; t >= 0; t-- {
		bt[t] = index[t+1][bt[t+1]]
	}
	return
}
