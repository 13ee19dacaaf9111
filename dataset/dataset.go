// Package dataset holds the corpus types consumed by the selection and
// recognition layers: per-category training sequences and their combined
// matrix/lengths representation, and ordered test sets.
//
// Iteration order matters to the callers (ties in recognition are broken by
// the order categories were added), so the corpus types remember insertion
// order instead of relying on map iteration.
package dataset

import (
	"fmt"
)

// Sequence is one observation sequence, frames x features.
type Sequence [][]float64

// Combined is the concatenation of one or more sequences into a single
// matrix plus the per-sequence frame counts. It is the form consumed by
// model fitting and scoring. Invariant: sum(Lengths) == len(X).
type Combined struct {
	X       [][]float64
	Lengths []int
}

// NumFrames returns the total number of frames.
func (c Combined) NumFrames() int { return len(c.X) }

// Dim returns the number of features per frame, 0 if empty.
func (c Combined) Dim() int {
	if len(c.X) == 0 {
		return 0
	}
	return len(c.X[0])
}

// Combine concatenates sequences into a Combined representation. The
// sequences are referenced, not copied.
func Combine(seqs []Sequence) Combined {

	var c Combined
	for _, s := range seqs {
		c.X = append(c.X, s...)
		c.Lengths = append(c.Lengths, len(s))
	}
	return c
}

// Corpus stores training sequences by category, preserving the order in
// which categories were first added.
type Corpus struct {
	categories []string
	sequences  map[string][]Sequence
	combined   map[string]Combined
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		sequences: make(map[string][]Sequence),
		combined:  make(map[string]Combined),
	}
}

// Add appends sequences to a category, creating it if needed.
func (c *Corpus) Add(category string, seqs ...Sequence) error {

	for _, s := range seqs {
		if len(s) == 0 {
			return fmt.Errorf("empty sequence for category [%s]", category)
		}
	}
	if _, ok := c.sequences[category]; !ok {
		c.categories = append(c.categories, category)
	}
	c.sequences[category] = append(c.sequences[category], seqs...)
	c.combined[category] = Combine(c.sequences[category])
	return nil
}

// Categories returns the category names in insertion order.
func (c *Corpus) Categories() []string { return c.categories }

// Len returns the number of categories.
func (c *Corpus) Len() int { return len(c.categories) }

// Sequences returns the training sequences for a category.
func (c *Corpus) Sequences(category string) ([]Sequence, bool) {
	s, ok := c.sequences[category]
	return s, ok
}

// Combined returns the combined representation for a category.
func (c *Corpus) Combined(category string) (Combined, bool) {
	cb, ok := c.combined[category]
	return cb, ok
}

// TestItem is one unknown sequence to be recognized.
type TestItem struct {
	ID string

	// Label is the reference category when known. It is not used by
	// recognition, only by accuracy reporting.
	Label string

	Data Combined
}

// TestSet is an ordered collection of test items. Enumeration order defines
// the order of recognition results.
type TestSet struct {
	items []TestItem
}

// NewTestSet creates an empty test set.
func NewTestSet() *TestSet { return &TestSet{} }

// Add appends a test item.
func (ts *TestSet) Add(id, label string, seq Sequence) error {

	if len(seq) == 0 {
		return fmt.Errorf("empty sequence for test item [%s]", id)
	}
	ts.items = append(ts.items, TestItem{
		ID:    id,
		Label: label,
		Data:  Combine([]Sequence{seq}),
	})
	return nil
}

// Items returns the test items in insertion order.
func (ts *TestSet) Items() []TestItem { return ts.items }

// Len returns the number of test items.
func (ts *TestSet) Len() int { return len(ts.items) }
