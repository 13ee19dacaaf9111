package model

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// RandNormalVector returns a random vector drawn from a diagonal Gaussian.
func RandNormalVector(mean, std []float64, r *rand.Rand) ([]float64, error) {

	if !floats.EqualLengths(mean, std) {
		return nil, fmt.Errorf("cannot generate random vector, length of mean [%d] and std [%d] don't match",
			len(mean), len(std))
	}
	vector := make([]float64, len(mean))
	for i := range mean {
		vector[i] = r.NormFloat64()*std[i] + mean[i]
	}

	return vector, nil
}

// RandIntFromDist generates a random number given a discrete prob
// distribution. This is not optimal but should work for testing.
func RandIntFromDist(dist []float64, r *rand.Rand) (int, error) {

	n := len(dist)
	if n == 0 {
		return -1, fmt.Errorf("prob distribution has len 0")
	}
	ran := r.Float64()
	cum := 0.0
	for i := 0; i < n; i++ {
		cum += dist[i]
		if ran < cum {
			return i, nil
		}
	}
	if cum < 0.999 || cum > 1.001 {
		return -1, fmt.Errorf("distribution doesn't sum to 1, got %f", cum)
	}
	return n - 1, nil
}
