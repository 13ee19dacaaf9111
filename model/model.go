// Package model defines the interfaces implemented by trainable sequence
// models. The selection and recognition layers depend only on these
// interfaces, never on a concrete model type.
package model

const (
	// DefaultSeed provided for model implementations.
	DefaultSeed = 14
)

// A Scorer computes the log-likelihood of a set of observation sequences.
// The sequences are concatenated into a single matrix x (frames x features)
// and lengths records the number of frames in each sequence. The sum of
// lengths must equal the number of rows in x.
type Scorer interface {
	LogProb(x [][]float64, lengths []int) (float64, error)
}

// A SequenceModeler is a fitted sequence model.
type SequenceModeler interface {

	// The model name.
	Name() string

	// Number of hidden states.
	NumStates() int

	// Dimensionality of the observation vector.
	Dim() int

	Scorer
}

// A Fitter estimates the parameters of a sequence model with a given number
// of hidden states. Fitting may fail for numerical reasons; the error is the
// failure signal, a Fitter must never panic on bad data.
type Fitter interface {
	Fit(numStates int, x [][]float64, lengths []int) (SequenceModeler, error)
}
