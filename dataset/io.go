package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
)

// Record is the data format used to read sequence data. Files are a stream
// of JSON objects, one per line.
type Record struct {
	Vectors [][]float64 `json:"vectors"`
	Label   string      `json:"label"`
	ID      string      `json:"id"`
}

// ReadCorpus reads training records from a stream of JSON objects and
// groups them into a corpus by label.
func ReadCorpus(r io.Reader) (*Corpus, error) {

	c := NewCorpus()
	dec := json.NewDecoder(r)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode corpus record: %w", err)
		}
		if rec.Label == "" {
			return nil, fmt.Errorf("corpus record [%s] has no label", rec.ID)
		}
		if len(rec.Vectors) == 0 {
			glog.Warningf("skipping empty corpus record [%s]", rec.ID)
			continue
		}
		if err := c.Add(rec.Label, Sequence(rec.Vectors)); err != nil {
			return nil, err
		}
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("corpus has no records")
	}
	return c, nil
}

// ReadTestSet reads test records from a stream of JSON objects. Each record
// is one test item; order is preserved.
func ReadTestSet(r io.Reader) (*TestSet, error) {

	ts := NewTestSet()
	dec := json.NewDecoder(r)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode test record: %w", err)
		}
		if len(rec.Vectors) == 0 {
			glog.Warningf("skipping empty test record [%s]", rec.ID)
			continue
		}
		if err := ts.Add(rec.ID, rec.Label, Sequence(rec.Vectors)); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// ReadCorpusFile reads a corpus from a file.
func ReadCorpusFile(fn string) (*Corpus, error) {

	f, e := os.Open(fn)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	return ReadCorpus(f)
}

// ReadTestSetFile reads a test set from a file.
func ReadTestSetFile(fn string) (*TestSet, error) {

	f, e := os.Open(fn)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	return ReadTestSet(f)
}
