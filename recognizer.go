// Package recognizer classifies unknown observation sequences by maximum
// likelihood over a set of per-category sequence models.
package recognizer

import (
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model"
)

// Scores maps category names to log-likelihoods for one test item. A
// scoring failure is recorded as negative infinity; the table always holds
// exactly one entry per category in the model set.
type Scores map[string]float64

// ModelSet is an ordered mapping from category name to a trained model.
// The order categories were added breaks ties during recognition,
// first-max-wins.
type ModelSet struct {
	categories []string
	models     map[string]model.SequenceModeler
}

// NewModelSet creates an empty model set.
func NewModelSet() *ModelSet {
	return &ModelSet{models: make(map[string]model.SequenceModeler)}
}

// Add registers a model for a category. Categories must be unique.
func (ms *ModelSet) Add(category string, m model.SequenceModeler) error {

	if m == nil {
		return fmt.Errorf("nil model for category [%s]", category)
	}
	if _, ok := ms.models[category]; ok {
		return fmt.Errorf("duplicate category [%s]", category)
	}
	ms.categories = append(ms.categories, category)
	ms.models[category] = m
	return nil
}

// Categories returns the category names in insertion order.
func (ms *ModelSet) Categories() []string { return ms.categories }

// Get returns the model for a category.
func (ms *ModelSet) Get(category string) (model.SequenceModeler, bool) {
	m, ok := ms.models[category]
	return m, ok
}

// Len returns the number of categories.
func (ms *ModelSet) Len() int { return len(ms.categories) }

// Recognize scores every test item against every category model. It
// returns one score table per item and the parallel list of best-guess
// categories, both ordered by the test set's own enumeration order.
//
// Individual scoring failures degrade to a negative-infinity score for
// that category; an item always produces a result. The inputs are not
// mutated.
func Recognize(models *ModelSet, ts *dataset.TestSet) ([]Scores, []string, error) {

	if models == nil || models.Len() == 0 {
		return nil, nil, fmt.Errorf("recognizer: empty model set")
	}
	if ts == nil {
		return nil, nil, fmt.Errorf("recognizer: nil test set")
	}

	probabilities := make([]Scores, 0, ts.Len())
	guesses := make([]string, 0, ts.Len())

	for _, item := range ts.Items() {

		scores := make(Scores, models.Len())
		bestScore := math.Inf(-1)
		bestGuess := ""

		for _, category := range models.Categories() {
			m, _ := models.Get(category)
			score, e := m.LogProb(item.Data.X, item.Data.Lengths)
			if e != nil {
				glog.V(2).Infof("item %s: model [%s] failed to score: %v", item.ID, category, e)
				score = math.Inf(-1)
			}
			scores[category] = score

			if bestGuess == "" || score > bestScore {
				bestGuess = category
				bestScore = score
			}
		}

		probabilities = append(probabilities, scores)
		guesses = append(guesses, bestGuess)
	}
	return probabilities, guesses, nil
}

// Accuracy returns the fraction of guesses matching the test items'
// reference labels. Items without a reference label are ignored; returns 0
// when no item carries one.
func Accuracy(guesses []string, ts *dataset.TestSet) float64 {

	var total, correct int
	for i, item := range ts.Items() {
		if item.Label == "" || i >= len(guesses) {
			continue
		}
		total++
		if guesses[i] == item.Label {
			correct++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
