package hmm

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/golang/glog"
)

// WriteCollection writes a collection of models to w, one JSON object per
// line. Models with non-finite parameters are skipped.
func WriteCollection(models map[string]*Model, w io.Writer) error {

	enc := json.NewEncoder(w)
	for name, m := range models {
		if hasNaN(m) {
			glog.Warningf("model %s has NaN, removing", name)
			continue
		}
		if e := enc.Encode(m); e != nil {
			return e
		}
	}
	return nil
}

// ReadCollection reads a collection of models written by WriteCollection,
// keyed by model name.
func ReadCollection(r io.Reader) (map[string]*Model, error) {

	models := make(map[string]*Model)
	dec := json.NewDecoder(bufio.NewReader(r))
	for {
		m := new(Model)
		e := dec.Decode(m)
		if e == io.EOF {
			return models, nil
		}
		if e != nil {
			return nil, e
		}
		m.Initialize()
		models[m.ModelName] = m
	}
}

// WriteCollectionFile writes a model collection to a file.
func WriteCollectionFile(models map[string]*Model, fn string) error {

	f, e := os.Create(fn)
	if e != nil {
		return e
	}
	defer f.Close()
	return WriteCollection(models, f)
}

// ReadCollectionFile reads a model collection from a file.
func ReadCollectionFile(fn string) (map[string]*Model, error) {

	f, e := os.Open(fn)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	return ReadCollection(f)
}

func hasNaN(m *Model) bool {

	for i, v := range m.InitProbs {
		if math.IsNaN(v) {
			return true
		}
		for _, w := range m.TransProbs[i] {
			if math.IsNaN(w) {
				return true
			}
		}
	}
	for _, g := range m.States {
		for k := range g.Mean {
			if math.IsNaN(g.Mean[k]) || math.IsNaN(g.StdDev[k]) {
				return true
			}
		}
	}
	return false
}
