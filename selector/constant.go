package selector

import (
	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model"
)

// ConstantSelector returns the model with a fixed number of states. It is
// the trivial baseline strategy, no search and no scoring.
type ConstantSelector struct {
	base
}

// NewConstant creates a constant selector for one category.
func NewConstant(corpus *dataset.Corpus, category string, options ...Option) (*ConstantSelector, error) {

	b, e := newBase(corpus, category, options...)
	if e != nil {
		return nil, e
	}
	return &ConstantSelector{base: b}, nil
}

// Select fits a model with the configured constant state count.
func (s *ConstantSelector) Select() (model.SequenceModeler, error) {

	m, e := s.baseModel(s.nConstant)
	if e != nil {
		return nil, ErrNoModel
	}
	return m, nil
}
