package gaussian

import (
	"math/rand"
	"testing"

	"github.com/linxinzhe/AIND-Recognizer/model"
)

const epsilon = 0.004

func TestGaussianLogProb(t *testing.T) {

	mean := []float64{0.5, 1, 2}
	sd := []float64{1, 1, 1}
	g := NewGaussian(3, mean, sd, "testing")

	obs := []float64{1, 1, 1}
	p := g.LogProb(obs)
	t.Logf("LogProb: %f", p)

	expected := -3.3818
	if p < expected-epsilon || p > expected+epsilon {
		t.Errorf("Wrong LogProb. Expected: [%f], Got: [%f]", expected, p)
	}
}

func TestTrainGaussian(t *testing.T) {

	dim := 4
	mean := []float64{0.1, 0.2, 1, 2}
	std := []float64{0.5, 0.5, 0.1, 0.3}
	g := NewGaussian(dim, nil, nil, "test training")

	r := rand.New(rand.NewSource(model.DefaultSeed))
	for i := 0; i < 100000; i++ {
		rv, err := model.RandNormalVector(mean, std, r)
		if err != nil {
			t.Fatal(err)
		}
		g.Update(rv, 1.0)
	}
	if e := g.Estimate(); e != nil {
		t.Fatal(e)
	}
	t.Logf("Mean: %+v", g.Mean)
	t.Logf("STD:  %+v", g.StdDev)

	for i := range mean {
		if g.Mean[i] < mean[i]-0.02 || g.Mean[i] > mean[i]+0.02 {
			t.Errorf("estimated mean[%d]=%f too far from %f", i, g.Mean[i], mean[i])
		}
		if g.StdDev[i] < std[i]-0.02 || g.StdDev[i] > std[i]+0.02 {
			t.Errorf("estimated sd[%d]=%f too far from %f", i, g.StdDev[i], std[i])
		}
	}
}

func TestEstimateWithoutSamples(t *testing.T) {

	g := NewGaussian(2, nil, nil, "empty")
	if e := g.Estimate(); e != nil {
		t.Fatal(e)
	}
	for i := 0; i < 2; i++ {
		if g.Mean[i] != 0 {
			t.Errorf("expected zero mean, got %f", g.Mean[i])
		}
	}
}

func TestClear(t *testing.T) {

	g := NewGaussian(2, nil, nil, "clear")
	g.Update([]float64{1, 2}, 1.0)
	g.Clear()
	if g.NumSamples() != 0 {
		t.Errorf("expected zero samples after Clear, got %f", g.NumSamples())
	}
}
