// Package selector chooses the best HMM topology for a category of
// observation sequences. Four strategies are provided, differing only in
// how candidate state counts are scored: Constant (no search), BIC, DIC,
// and CV (cross-validated likelihood).
//
// Every strategy searches the closed range [MinStates, MaxStates], treats
// individual fit or scoring failures as a skipped candidate, and returns
// ErrNoModel when no candidate in the range survives. A failed fit is never
// fatal.
package selector

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model"
	"github.com/linxinzhe/AIND-Recognizer/model/hmm"
)

// ErrNoModel is returned by Select when every candidate state count in the
// search range failed.
var ErrNoModel = errors.New("selector: no viable model for category")

// Default search parameters.
const (
	DefaultMinStates = 2
	DefaultMaxStates = 10
	DefaultConstant  = 3
)

// A Selector picks a fitted model for its category, or reports ErrNoModel.
type Selector interface {
	Select() (model.SequenceModeler, error)
}

// Option type is used to pass options to the selector constructors.
type Option func(*base)

// MinStates option sets the lower bound of the search range. Default is 2.
func MinStates(n int) Option {
	return func(b *base) { b.minN = n }
}

// MaxStates option sets the upper bound of the search range. Default is 10.
func MaxStates(n int) Option {
	return func(b *base) { b.maxN = n }
}

// Constant option sets the state count used by the constant strategy.
// Default is 3.
func Constant(n int) Option {
	return func(b *base) { b.nConstant = n }
}

// Seed option sets the fit determinism seed. Default is model.DefaultSeed.
func Seed(seed int64) Option {
	return func(b *base) { b.seed = seed }
}

// Verbose option logs every fit success and failure. Default is off.
func Verbose(v bool) Option {
	return func(b *base) { b.verbose = v }
}

// Fit option replaces the model fitting capability. The default is an HMM
// trainer with diagonal-covariance output distributions and a
// 1000-iteration budget.
func Fit(f model.Fitter) Option {
	return func(b *base) { b.fitter = f }
}

// base carries the training data and search parameters shared by all
// selection strategies.
type base struct {
	corpus   *dataset.Corpus
	category string
	seqs     []dataset.Sequence
	data     dataset.Combined

	minN      int
	maxN      int
	nConstant int
	seed      int64
	verbose   bool
	fitter    model.Fitter
}

func newBase(corpus *dataset.Corpus, category string, options ...Option) (base, error) {

	b := base{
		corpus:    corpus,
		category:  category,
		minN:      DefaultMinStates,
		maxN:      DefaultMaxStates,
		nConstant: DefaultConstant,
		seed:      model.DefaultSeed,
	}
	if corpus == nil || corpus.Len() == 0 {
		return b, fmt.Errorf("selector: empty corpus")
	}
	seqs, ok := corpus.Sequences(category)
	if !ok {
		return b, fmt.Errorf("selector: unknown category [%s]", category)
	}
	b.seqs = seqs
	b.data, _ = corpus.Combined(category)

	for _, option := range options {
		option(&b)
	}
	if b.minN < 1 || b.maxN < b.minN {
		return b, fmt.Errorf("selector: bad search range [%d, %d]", b.minN, b.maxN)
	}
	if b.fitter == nil {
		b.fitter = hmm.NewTrainer(hmm.MaxIter(hmm.DefaultMaxIter), hmm.Seed(b.seed))
	}
	return b, nil
}

// baseModel fits a model with the given number of hidden states on the
// category's combined data. Fit failures are reported as an error, never
// propagated as a panic.
func (b *base) baseModel(numStates int) (model.SequenceModeler, error) {

	m, e := b.fitter.Fit(numStates, b.data.X, b.data.Lengths)
	if e != nil {
		if b.verbose {
			glog.Infof("failure on %s with %d states: %v", b.category, numStates, e)
		}
		return nil, e
	}
	if named, ok := m.(interface{ SetName(string) }); ok {
		named.SetName(b.category)
	}
	if b.verbose {
		glog.Infof("model created for %s with %d states", b.category, numStates)
	}
	return m, nil
}

// New creates a selector by strategy name. Known strategies are
// "constant", "bic", "dic", and "cv".
func New(strategy string, corpus *dataset.Corpus, category string, options ...Option) (Selector, error) {

	switch strategy {
	case "constant":
		return NewConstant(corpus, category, options...)
	case "bic":
		return NewBIC(corpus, category, options...)
	case "dic":
		return NewDIC(corpus, category, options...)
	case "cv":
		return NewCV(corpus, category, options...)
	default:
		return nil, fmt.Errorf("selector: unknown strategy [%s]", strategy)
	}
}
