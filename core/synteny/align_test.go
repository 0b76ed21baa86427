package synteny

import (
	"errors"
	"testing"

	"genoscope-core/genes"
)

func geneList(names ...string) []genes.Gene {
	out := make([]genes.Gene, len(names))
	for i, n := range names {
		out[i] = genes.Gene{
			ID:     n,
			Name:   n,
			Start:  i * 1500,
			End:    i*1500 + 1000,
			Strand: "+",
		}
	}
	return out
}

func reversed(gs []genes.Gene) []genes.Gene {
	out := make([]genes.Gene, len(gs))
	for i := range gs {
		out[i] = gs[len(gs)-1-i]
		out[i].Start = i * 1500
		out[i].End = i*1500 + 1000
	}
	return out
}

func TestIdenticalGenomes(t *testing.T) {
	q := geneList("dnaA", "gyrB", "recA", "rpoB", "ftsZ")
	r, err := Align(q, geneList("dnaA", "gyrB", "recA", "rpoB", "ftsZ"))
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(r.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(r.Blocks))
	}
	b := r.Blocks[0]
	if b.QueryStartIdx != 0 || b.QueryEndIdx != 4 || b.RefStartIdx != 0 || b.RefEndIdx != 4 {
		t.Errorf("block should span all indices: %+v", b)
	}
	if b.Orientation != "same" {
		t.Errorf("orientation = %q, want same", b.Orientation)
	}
	if r.DTWDistance != 0 {
		t.Errorf("DTW distance = %f, want 0", r.DTWDistance)
	}
	if r.GlobalScore != 1.0 {
		t.Errorf("global score = %f, want 1.0", r.GlobalScore)
	}
}

func TestInvertedSegment(t *testing.T) {
	q := geneList("dnaA", "gyrB", "recA", "rpoB", "ftsZ")
	ref := reversed(q)
	r, err := Align(q, ref)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(r.Blocks) != 1 {
		t.Fatalf("expected one inverted block, got %d", len(r.Blocks))
	}
	if r.Blocks[0].Orientation != "inverted" {
		t.Errorf("orientation = %q, want inverted", r.Blocks[0].Orientation)
	}
}

func TestEmptyGeneListFails(t *testing.T) {
	if _, err := Align(nil, geneList("dnaA")); !errors.Is(err, ErrNoGenes) {
		t.Errorf("expected ErrNoGenes, got %v", err)
	}
	if _, err := Align(geneList("dnaA"), nil); !errors.Is(err, ErrNoGenes) {
		t.Errorf("expected ErrNoGenes, got %v", err)
	}
}

func TestBlockInvariants(t *testing.T) {
	q := geneList("dnaA", "gyrB", "recA", "uvrA", "rpoB", "ftsZ", "secA", "dnaK")
	// Reference shares two separated runs, with noise between them.
	ref := geneList("dnaA", "gyrB", "recA", "xyzQ", "abcD", "secA", "dnaK")
	r, err := Align(q, ref)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(r.Blocks) == 0 {
		t.Fatal("expected blocks")
	}
	prevQEnd := -1
	for _, b := range r.Blocks {
		if b.QueryStartBp > b.QueryEndBp || b.RefStartBp > b.RefEndBp {
			t.Errorf("bp range inverted: %+v", b)
		}
		if b.QueryStartIdx <= prevQEnd {
			t.Errorf("blocks overlap in query index order: %+v", b)
		}
		prevQEnd = b.QueryEndIdx
	}
}

func TestSimilarityTiers(t *testing.T) {
	mk := func(name, product string) genes.Gene {
		return genes.Gene{Name: name, Product: product}
	}
	if s := GeneSimilarity(mk("DnaA", ""), mk("dnaA", "")); s != 1.0 {
		t.Errorf("identical labels: %f, want 1.0", s)
	}
	if s := GeneSimilarity(mk("polymerase", ""), mk("DNA polymerase", "")); s != 0.8 {
		t.Errorf("containment: %f, want 0.8", s)
	}
	if s := GeneSimilarity(mk("sigma factor rpoD", ""), mk("anti sigma factor", "")); s != 0.5 {
		t.Errorf("shared long token: %f, want 0.5", s)
	}
	if s := GeneSimilarity(mk("dnaA", ""), mk("ftsZ", "")); s != 0 {
		t.Errorf("unrelated: %f, want 0", s)
	}
}

func TestCoverageMerging(t *testing.T) {
	ivs := []interval{{0, 100}, {50, 150}, {200, 250}}
	if got := mergeIntervals(ivs); got != 200 {
		t.Errorf("merged coverage = %d, want 200", got)
	}
}
