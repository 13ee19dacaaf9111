package selector

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"

	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model"
)

// DICSelector selects the model with the highest Discriminative Information
// Criterion:
//
//	DIC = logL(category) - mean(logL over all other categories)
//
// rewarding models that explain their own category well and the competing
// categories poorly. Higher is better.
//
// A candidate state count is dropped whole if the model fails to score any
// single other category; partial anti-likelihood sums would not be
// comparable across candidates. A corpus with no other categories leaves
// the criterion undefined and every candidate is dropped.
type DICSelector struct {
	base
}

// NewDIC creates a DIC selector for one category.
func NewDIC(corpus *dataset.Corpus, category string, options ...Option) (*DICSelector, error) {

	b, e := newBase(corpus, category, options...)
	if e != nil {
		return nil, e
	}
	return &DICSelector{base: b}, nil
}

// Select searches the state-count range and returns the DIC maximizer.
func (s *DICSelector) Select() (model.SequenceModeler, error) {

	maxScore := math.Inf(-1)
	var best model.SequenceModeler

	for n := s.minN; n <= s.maxN; n++ {

		m, e := s.baseModel(n)
		if e != nil {
			continue
		}
		logL, e := m.LogProb(s.data.X, s.data.Lengths)
		if e != nil {
			continue
		}

		anti, ok := s.antiLikelihoods(m)
		if !ok {
			continue
		}

		dic := logL - stat.Mean(anti, nil)
		glog.V(2).Infof("category %s, n=%d, logL=%f, DIC=%f", s.category, n, logL, dic)

		if dic > maxScore {
			maxScore = dic
			best = m
		}
	}
	if best == nil {
		return nil, ErrNoModel
	}
	return best, nil
}

// antiLikelihoods scores the model against every other category's combined
// data. Reports ok=false when any single scoring fails or when there are no
// other categories to compare against.
func (s *DICSelector) antiLikelihoods(m model.SequenceModeler) ([]float64, bool) {

	var anti []float64
	for _, other := range s.corpus.Categories() {
		if other == s.category {
			continue
		}
		cb, ok := s.corpus.Combined(other)
		if !ok {
			return nil, false
		}
		score, e := m.LogProb(cb.X, cb.Lengths)
		if e != nil {
			glog.V(2).Infof("category %s, dropping candidate, cannot score against [%s]: %v",
				s.category, other, e)
			return nil, false
		}
		anti = append(anti, score)
	}
	if len(anti) == 0 {
		glog.Warningf("category %s has no other categories to compare against", s.category)
		return nil, false
	}
	return anti, true
}
