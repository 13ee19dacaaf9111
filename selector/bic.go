package selector

import (
	"math"

	"github.com/golang/glog"

	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model"
)

// BICSelector selects the model with the lowest Bayesian Information
// Criterion:
//
//	BIC = -2 * logL + p * log(N)
//
// where N is the number of training frames and p is the free-parameter
// count of an n-state diagonal-covariance model with d features:
//
//	p = (n-1) + n*(n-1) + 2*n*d
//
// (initial probs + transition probs + per-state mean and variance).
// Lower is better.
type BICSelector struct {
	base
}

// NewBIC creates a BIC selector for one category.
func NewBIC(corpus *dataset.Corpus, category string, options ...Option) (*BICSelector, error) {

	b, e := newBase(corpus, category, options...)
	if e != nil {
		return nil, e
	}
	return &BICSelector{base: b}, nil
}

// Select searches the state-count range and returns the BIC minimizer.
func (s *BICSelector) Select() (model.SequenceModeler, error) {

	minScore := math.Inf(1)
	var best model.SequenceModeler

	d := s.data.Dim()
	logN := math.Log(float64(s.data.NumFrames()))

	for n := s.minN; n <= s.maxN; n++ {

		m, e := s.baseModel(n)
		if e != nil {
			continue
		}
		logL, e := m.LogProb(s.data.X, s.data.Lengths)
		if e != nil {
			continue
		}

		p := float64((n - 1) + n*(n-1) + 2*n*d)
		bic := -2*logL + p*logN
		glog.V(2).Infof("category %s, n=%d, logL=%f, BIC=%f", s.category, n, logL, bic)

		if bic < minScore {
			minScore = bic
			best = m
		}
	}
	if best == nil {
		return nil, ErrNoModel
	}
	return best, nil
}
