package dataset

import (
	"strings"
	"testing"
)

func TestCombine(t *testing.T) {

	s1 := Sequence{{1, 2}, {3, 4}}
	s2 := Sequence{{5, 6}}
	c := Combine([]Sequence{s1, s2})

	if c.NumFrames() != 3 {
		t.Errorf("expected 3 frames, got %d", c.NumFrames())
	}
	if c.Dim() != 2 {
		t.Errorf("expected dim 2, got %d", c.Dim())
	}
	if len(c.Lengths) != 2 || c.Lengths[0] != 2 || c.Lengths[1] != 1 {
		t.Errorf("wrong lengths: %v", c.Lengths)
	}
	if c.X[2][0] != 5 {
		t.Errorf("wrong concatenation: %v", c.X)
	}
}

func TestCorpusOrderAndLookup(t *testing.T) {

	c := NewCorpus()
	if e := c.Add("B", Sequence{{1}}); e != nil {
		t.Fatal(e)
	}
	if e := c.Add("A", Sequence{{2}}, Sequence{{3}}); e != nil {
		t.Fatal(e)
	}
	if e := c.Add("B", Sequence{{4}}); e != nil {
		t.Fatal(e)
	}

	cats := c.Categories()
	if len(cats) != 2 || cats[0] != "B" || cats[1] != "A" {
		t.Errorf("wrong category order: %v", cats)
	}

	seqs, ok := c.Sequences("B")
	if !ok || len(seqs) != 2 {
		t.Errorf("expected 2 sequences for B, got %d", len(seqs))
	}
	cb, ok := c.Combined("A")
	if !ok || cb.NumFrames() != 2 || len(cb.Lengths) != 2 {
		t.Errorf("wrong combined for A: %+v", cb)
	}
	if _, ok := c.Combined("missing"); ok {
		t.Errorf("lookup of missing category should fail")
	}
}

func TestCorpusRejectsEmptySequence(t *testing.T) {

	c := NewCorpus()
	if e := c.Add("A", Sequence{}); e == nil {
		t.Errorf("expected error on empty sequence")
	}
}

func TestReadCorpus(t *testing.T) {

	data := `{"id":"a0","label":"A","vectors":[[1],[2]]}
{"id":"b0","label":"B","vectors":[[10]]}
{"id":"a1","label":"A","vectors":[[3]]}
`
	c, e := ReadCorpus(strings.NewReader(data))
	if e != nil {
		t.Fatal(e)
	}
	cats := c.Categories()
	if len(cats) != 2 || cats[0] != "A" || cats[1] != "B" {
		t.Errorf("wrong categories: %v", cats)
	}
	seqs, _ := c.Sequences("A")
	if len(seqs) != 2 {
		t.Errorf("expected 2 sequences for A, got %d", len(seqs))
	}
	cb, _ := c.Combined("A")
	if cb.NumFrames() != 3 {
		t.Errorf("expected 3 frames for A, got %d", cb.NumFrames())
	}
}

func TestReadCorpusErrors(t *testing.T) {

	if _, e := ReadCorpus(strings.NewReader(`{"id":"x","vectors":[[1]]}`)); e == nil {
		t.Errorf("expected error on missing label")
	}
	if _, e := ReadCorpus(strings.NewReader("")); e == nil {
		t.Errorf("expected error on empty corpus")
	}
	if _, e := ReadCorpus(strings.NewReader("not json")); e == nil {
		t.Errorf("expected error on malformed input")
	}
}

func TestReadTestSet(t *testing.T) {

	data := `{"id":"t0","label":"A","vectors":[[1],[2]]}
{"id":"t1","label":"B","vectors":[[10]]}
`
	ts, e := ReadTestSet(strings.NewReader(data))
	if e != nil {
		t.Fatal(e)
	}
	if ts.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", ts.Len())
	}
	items := ts.Items()
	if items[0].ID != "t0" || items[1].ID != "t1" {
		t.Errorf("order not preserved: %+v", items)
	}
	if items[0].Data.NumFrames() != 2 || len(items[0].Data.Lengths) != 1 {
		t.Errorf("wrong combined data: %+v", items[0].Data)
	}
}
