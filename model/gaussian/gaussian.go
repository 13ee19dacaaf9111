// Package gaussian implements a multivariate Gaussian distribution with
// diagonal covariance. It is used as the state output distribution of the
// hmm package.
package gaussian

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/linxinzhe/AIND-Recognizer/floatx"
)

const (
	smallSD       = 0.01
	SmallVariance = smallSD * smallSD
	minNumSamples = 0.01
)

// Gaussian is a multivariate Gaussian with diagonal covariance.
type Gaussian struct {
	ModelName   string    `json:"name,omitempty"`
	NE          int       `json:"num_elements"`
	NSamples    float64   `json:"nsamples"`
	Mean        []float64 `json:"mean"`
	StdDev      []float64 `json:"sd"`
	sumx        []float64
	sumxsq      []float64
	variance    []float64
	varianceInv []float64
	tmpArray    []float64
	const1      float64 // -(NE/2)log(2PI) Depends only on NE.
	const2      float64 // const1 - sum(log sigma_i) Also depends on variance.
}

var floorv = func(r int, v float64) float64 {
	if v < SmallVariance {
		return SmallVariance
	}
	return v
}

// NewGaussian creates a new Gaussian. A nil mean or sd initializes the
// corresponding parameter to zero mean or smallSD.
func NewGaussian(numElements int, mean, sd []float64, name string) *Gaussian {

	g := &Gaussian{
		Mean:      mean,
		StdDev:    sd,
		NE:        numElements,
		ModelName: name,
	}
	g.Initialize()
	return g
}

// Initialize allocates the internal arrays and derived constants. Must be
// called after unmarshaling a Gaussian from JSON.
func (g *Gaussian) Initialize() {

	if g.Mean == nil {
		g.Mean = make([]float64, g.NE)
	}
	g.variance = make([]float64, g.NE)
	g.varianceInv = make([]float64, g.NE)
	if g.StdDev == nil {
		g.StdDev = make([]float64, g.NE)
		floatx.Apply(floatx.SetValueFunc(smallSD), g.StdDev, nil)
	}
	floatx.Apply(floatx.Sq, g.StdDev, g.variance)
	g.setVariance(g.variance)

	g.sumx = make([]float64, g.NE)
	g.sumxsq = make([]float64, g.NE)

	g.tmpArray = make([]float64, g.NE)
	floatx.Apply(floatx.Log, g.variance, g.tmpArray)
	g.const1 = -float64(g.NE) * math.Log(2.0*math.Pi) / 2.0
	g.const2 = g.const1 - floats.Sum(g.tmpArray)/2.0
}

// LogProb returns the log probability density for an observation vector.
func (g *Gaussian) LogProb(obs []float64) float64 {

	var v float64
	for i, x := range obs {
		s := g.Mean[i] - x
		v += s * s * g.varianceInv[i] / 2.0
	}
	return g.const2 - v
}

// Update accumulates weighted sufficient statistics: x * w.
func (g *Gaussian) Update(obs []float64, w float64) {

	floatx.Apply(floatx.ScaleFunc(w), obs, g.tmpArray)
	floats.Add(g.sumx, g.tmpArray)
	floatx.Apply(floatx.Sq, obs, g.tmpArray)
	floats.Scale(w, g.tmpArray)
	floats.Add(g.sumxsq, g.tmpArray)
	g.NSamples += w
}

// Estimate computes the mean and variance from the accumulated statistics.
func (g *Gaussian) Estimate() error {

	if g.NSamples > minNumSamples {

		floatx.Apply(floatx.ScaleFunc(1.0/g.NSamples), g.sumx, g.Mean)

		// sigma_sq = 1/n sumxsq - mean^2, floored.
		floatx.Apply(floatx.Sq, g.Mean, g.tmpArray)
		floatx.Apply(floatx.ScaleFunc(1.0/g.NSamples), g.sumxsq, g.variance)
		floats.SubTo(g.variance, g.variance, g.tmpArray)
		floatx.Apply(floorv, g.variance, nil)
	} else {
		// Not enough training samples to estimate this distribution.
		floatx.Apply(floatx.SetValueFunc(SmallVariance), g.variance, nil)
		floatx.Apply(floatx.SetValueFunc(0), g.Mean, nil)
	}
	g.setVariance(g.variance)

	floatx.Apply(floatx.Log, g.variance, g.tmpArray)
	g.const2 = g.const1 - floats.Sum(g.tmpArray)/2.0

	for _, v := range g.Mean {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("estimated mean for model [%s] is not finite", g.ModelName)
		}
	}
	return nil
}

// Clear resets the accumulated statistics.
func (g *Gaussian) Clear() {

	floatx.Clear(g.sumx)
	floatx.Clear(g.sumxsq)
	g.NSamples = 0
}

func (g *Gaussian) setVariance(variance []float64) {
	copy(g.variance, variance)
	floatx.Apply(floatx.Inv, g.variance, g.varianceInv)
	floatx.Apply(floatx.Sqrt, g.variance, g.StdDev)
}

// Name returns the model name.
func (g *Gaussian) Name() string { return g.ModelName }

// Dim is the dimensionality of the observation vector.
func (g *Gaussian) Dim() int { return g.NE }

// NumSamples returns the accumulated sample weight.
func (g *Gaussian) NumSamples() float64 { return g.NSamples }
