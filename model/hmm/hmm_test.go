package hmm

import (
	"bytes"
	"math"
	"testing"

	"github.com/linxinzhe/AIND-Recognizer/model"
	"github.com/linxinzhe/AIND-Recognizer/model/gaussian"
)

const epsilon = 0.004

func makeTwoStateModel(t *testing.T) *Model {

	g1 := gaussian.NewGaussian(1, []float64{1}, []float64{1}, "g1")
	g2 := gaussian.NewGaussian(1, []float64{4}, []float64{2}, "g2")

	trans := [][]float64{
		{0.9, 0.1},
		{0.3, 0.7},
	}
	init := []float64{0.8, 0.2}
	m, e := NewModel(trans, init, []*gaussian.Gaussian{g1, g2}, "two-state")
	if e != nil {
		t.Fatal(e)
	}
	return m
}

// Reference log prob computed by summing over every state path.
func bruteForceLogProb(m *Model, seq [][]float64) float64 {

	N := m.NStates
	T := len(seq)

	var sum float64
	paths := 1
	for t := 0; t < T; t++ {
		paths *= N
	}
	for p := 0; p < paths; p++ {
		states := make([]int, T)
		v := p
		for t := 0; t < T; t++ {
			states[t] = v % N
			v /= N
		}
		logp := math.Log(m.InitProbs[states[0]]) + m.States[states[0]].LogProb(seq[0])
		for t := 1; t < T; t++ {
			logp += math.Log(m.TransProbs[states[t-1]][states[t]]) + m.States[states[t]].LogProb(seq[t])
		}
		sum += math.Exp(logp)
	}
	return math.Log(sum)
}

func TestLogProbSingleState(t *testing.T) {

	g := gaussian.NewGaussian(1, []float64{2}, []float64{1}, "g")
	m, e := NewModel([][]float64{{1}}, []float64{1}, []*gaussian.Gaussian{g}, "one-state")
	if e != nil {
		t.Fatal(e)
	}

	x := [][]float64{{1.5}, {2.5}, {2.0}}
	p, e := m.LogProb(x, []int{3})
	if e != nil {
		t.Fatal(e)
	}

	var expected float64
	for _, row := range x {
		expected += g.LogProb(row)
	}
	if math.Abs(p-expected) > epsilon {
		t.Errorf("Wrong LogProb. Expected: [%f], Got: [%f]", expected, p)
	}
}

func TestLogProbAgainstBruteForce(t *testing.T) {

	m := makeTwoStateModel(t)
	seq := [][]float64{{0.5}, {3.9}, {4.5}, {1.1}}

	p, e := m.LogProb(seq, []int{4})
	if e != nil {
		t.Fatal(e)
	}
	expected := bruteForceLogProb(m, seq)
	if math.Abs(p-expected) > epsilon {
		t.Errorf("Wrong LogProb. Expected: [%f], Got: [%f]", expected, p)
	}

	// Multiple sequences must sum.
	p2, e := m.LogProb(append(seq, seq...), []int{4, 4})
	if e != nil {
		t.Fatal(e)
	}
	if math.Abs(p2-2*expected) > epsilon {
		t.Errorf("Wrong combined LogProb. Expected: [%f], Got: [%f]", 2*expected, p2)
	}
}

func TestLogProbSingleFrame(t *testing.T) {

	m := makeTwoStateModel(t)
	seq := [][]float64{{0.5}}
	p, e := m.LogProb(seq, []int{1})
	if e != nil {
		t.Fatal(e)
	}
	expected := bruteForceLogProb(m, seq)
	if math.Abs(p-expected) > epsilon {
		t.Errorf("Wrong LogProb. Expected: [%f], Got: [%f]", expected, p)
	}
}

func TestLogProbInputChecks(t *testing.T) {

	m := makeTwoStateModel(t)

	if _, e := m.LogProb([][]float64{{1, 2}}, []int{1}); e == nil {
		t.Errorf("expected error on dim mismatch")
	}
	if _, e := m.LogProb([][]float64{{1}, {2}}, []int{3}); e == nil {
		t.Errorf("expected error on bad lengths")
	}
	if _, e := m.LogProb(nil, nil); e == nil {
		t.Errorf("expected error on empty input")
	}
}

func TestViterbi(t *testing.T) {

	// Data manufactured as if emitted by the state sequence below:
	//
	// q: s0  s0  s0  s0  s1  s1  s1  s0
	// o: 0.1 0.3 1.1 1.2 5.5 7.8 5.2 1.1
	m := makeTwoStateModel(t)
	seq := [][]float64{{0.1}, {0.3}, {1.1}, {1.2}, {5.5}, {7.8}, {5.2}, {1.1}}

	states, logProb, e := m.Decode(seq, []int{8})
	if e != nil {
		t.Fatal(e)
	}
	t.Logf("viterbi states: %v, log prob: %f", states, logProb)

	expected := []int{0, 0, 0, 0, 1, 1, 1, 0}
	for i := range expected {
		if states[i] != expected[i] {
			t.Errorf("state[%d]: expected [%d], got [%d]", i, expected[i], states[i])
		}
	}
}

func TestTrainTwoStates(t *testing.T) {

	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	truth := makeTwoStateModel(t)
	gen := NewGenerator(truth, 42)

	var x [][]float64
	var lengths []int
	for i := 0; i < 20; i++ {
		seq, _, e := gen.Next(50)
		if e != nil {
			t.Fatal(e)
		}
		x = append(x, seq...)
		lengths = append(lengths, 50)
	}

	tr := NewTrainer(MaxIter(50))
	fitted, e := tr.Fit(2, x, lengths)
	if e != nil {
		t.Fatal(e)
	}
	m := fitted.(*Model)

	// State order is arbitrary; sort by mean.
	lo, hi := 0, 1
	if m.States[0].Mean[0] > m.States[1].Mean[0] {
		lo, hi = 1, 0
	}
	t.Logf("means: %f %f", m.States[lo].Mean[0], m.States[hi].Mean[0])
	if math.Abs(m.States[lo].Mean[0]-1) > 0.3 {
		t.Errorf("low mean [%f] too far from 1", m.States[lo].Mean[0])
	}
	if math.Abs(m.States[hi].Mean[0]-4) > 0.5 {
		t.Errorf("high mean [%f] too far from 4", m.States[hi].Mean[0])
	}

	// The fitted model should explain the data at least as well as a
	// one-state model.
	one, e := NewTrainer(MaxIter(50)).Fit(1, x, lengths)
	if e != nil {
		t.Fatal(e)
	}
	p2, _ := m.LogProb(x, lengths)
	p1, _ := one.LogProb(x, lengths)
	if p2 <= p1 {
		t.Errorf("two-state log prob [%f] not better than one-state [%f]", p2, p1)
	}
}

func TestTrainDeterminism(t *testing.T) {

	truth := makeTwoStateModel(t)
	gen := NewGenerator(truth, 7)
	x, _, e := gen.Next(60)
	if e != nil {
		t.Fatal(e)
	}
	lengths := []int{60}

	fit := func() float64 {
		m, e := NewTrainer(MaxIter(10), Seed(21)).Fit(2, x, lengths)
		if e != nil {
			t.Fatal(e)
		}
		p, e := m.LogProb(x, lengths)
		if e != nil {
			t.Fatal(e)
		}
		return p
	}
	if p1, p2 := fit(), fit(); p1 != p2 {
		t.Errorf("fit is not deterministic: [%f] vs [%f]", p1, p2)
	}
}

func TestFitFailures(t *testing.T) {

	tr := NewTrainer()

	// More states than frames.
	x := [][]float64{{1}, {2}}
	if _, e := tr.Fit(5, x, []int{2}); e == nil {
		t.Errorf("expected failure fitting 5 states on 2 frames")
	}
	// Bad state count.
	if _, e := tr.Fit(0, x, []int{2}); e == nil {
		t.Errorf("expected failure on zero states")
	}
	// Empty data.
	if _, e := tr.Fit(2, nil, nil); e == nil {
		t.Errorf("expected failure on empty data")
	}
	// Lengths don't cover the matrix.
	if _, e := tr.Fit(1, x, []int{1}); e == nil {
		t.Errorf("expected failure on inconsistent lengths")
	}
}

func TestCollectionRoundTrip(t *testing.T) {

	m := makeTwoStateModel(t)
	models := map[string]*Model{"two-state": m}

	var buf bytes.Buffer
	if e := WriteCollection(models, &buf); e != nil {
		t.Fatal(e)
	}
	got, e := ReadCollection(&buf)
	if e != nil {
		t.Fatal(e)
	}
	m2, ok := got["two-state"]
	if !ok {
		t.Fatalf("model missing after round trip, got %d models", len(got))
	}

	seq := [][]float64{{0.5}, {3.9}, {4.5}}
	p1, e1 := m.LogProb(seq, []int{3})
	p2, e2 := m2.LogProb(seq, []int{3})
	if e1 != nil || e2 != nil {
		t.Fatal(e1, e2)
	}
	if math.Abs(p1-p2) > 1e-10 {
		t.Errorf("scores differ after round trip: [%f] vs [%f]", p1, p2)
	}
}

func TestGeneratorDeterminism(t *testing.T) {

	m := makeTwoStateModel(t)
	a, _, e := NewGenerator(m, model.DefaultSeed).Next(10)
	if e != nil {
		t.Fatal(e)
	}
	b, _, e := NewGenerator(m, model.DefaultSeed).Next(10)
	if e != nil {
		t.Fatal(e)
	}
	for i := range a {
		if a[i][0] != b[i][0] {
			t.Fatalf("generator is not deterministic at frame %d", i)
		}
	}
}
