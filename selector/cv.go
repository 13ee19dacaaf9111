package selector

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat"

	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model"
)

// CVSelector selects the state count with the highest mean log-likelihood
// over k-fold cross-validation of the category's own sequences, with
// k = min(3, number of sequences). The winning state count is refit on the
// full category data.
//
// Fold failures are skipped; a state count with zero successful folds is
// excluded from the search. A category with fewer than two sequences cannot
// be cross-validated and yields ErrNoModel.
type CVSelector struct {
	base
}

// NewCV creates a cross-validation selector for one category.
func NewCV(corpus *dataset.Corpus, category string, options ...Option) (*CVSelector, error) {

	b, e := newBase(corpus, category, options...)
	if e != nil {
		return nil, e
	}
	return &CVSelector{base: b}, nil
}

// Select searches the state-count range and returns the model refit with
// the best cross-validated state count.
func (s *CVSelector) Select() (model.SequenceModeler, error) {

	if len(s.seqs) < 2 {
		glog.V(1).Infof("category %s has %d sequence(s), cannot cross-validate", s.category, len(s.seqs))
		return nil, ErrNoModel
	}
	k := len(s.seqs)
	if k > 3 {
		k = 3
	}
	folds := Kfold(len(s.seqs), k)

	maxScore := math.Inf(-1)
	bestN := 0

	for n := s.minN; n <= s.maxN; n++ {

		scores := s.foldScores(n, folds)
		if len(scores) == 0 {
			glog.V(2).Infof("category %s, n=%d: no successful folds", s.category, n)
			continue
		}
		mean := stat.Mean(scores, nil)
		glog.V(2).Infof("category %s, n=%d, mean fold logL=%f over %d fold(s)",
			s.category, n, mean, len(scores))

		if mean > maxScore {
			maxScore = mean
			bestN = n
		}
	}
	if bestN == 0 {
		return nil, ErrNoModel
	}

	m, e := s.baseModel(bestN)
	if e != nil {
		return nil, ErrNoModel
	}
	return m, nil
}

// foldScores fits a fresh model on each training fold and scores the
// held-out fold. Failed folds are dropped.
func (s *CVSelector) foldScores(numStates int, folds [][]int) []float64 {

	var scores []float64
	for _, testIdx := range folds {

		inTest := make(map[int]bool, len(testIdx))
		for _, i := range testIdx {
			inTest[i] = true
		}
		var train, test []dataset.Sequence
		for i, seq := range s.seqs {
			if inTest[i] {
				test = append(test, seq)
			} else {
				train = append(train, seq)
			}
		}

		trainData := dataset.Combine(train)
		testData := dataset.Combine(test)

		m, e := s.fitter.Fit(numStates, trainData.X, trainData.Lengths)
		if e != nil {
			continue
		}
		logL, e := m.LogProb(testData.X, testData.Lengths)
		if e != nil {
			continue
		}
		scores = append(scores, logL)
	}
	return scores
}

// Kfold partitions the index range [0, n) into k contiguous folds. The
// first n%k folds receive one extra element. Requires 2 <= k <= n.
func Kfold(n, k int) [][]int {

	folds := make([][]int, k)
	size := n / k
	extra := n % k
	start := 0
	for f := 0; f < k; f++ {
		l := size
		if f < extra {
			l++
		}
		idx := make([]int, l)
		for i := 0; i < l; i++ {
			idx[i] = start + i
		}
		folds[f] = idx
		start += l
	}
	return folds
}
