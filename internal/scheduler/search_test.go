package scheduler

import (
	"context"
	"testing"

	"genoscope-core/genes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures() []genes.Gene {
	return []genes.Gene{
		{ID: "b0001", Name: "thrL", Product: "thr operon leader peptide", Type: "CDS", Start: 189, End: 255, Strand: "+"},
		{ID: "b0002", Name: "thrA", Product: "aspartate kinase", Type: "CDS", Start: 336, End: 2799, Strand: "+"},
		{ID: "t0001", Name: "ileV", Product: "tRNA-Ile", Type: "tRNA", Start: 3000, End: 3076, Strand: "-"},
	}
}

func runSearch(t *testing.T, task *SearchTask) *SearchResult {
	t.Helper()
	out, err := task.run(context.Background())
	require.NoError(t, err)
	return out.(*SearchResult)
}

func TestSequenceSearchHitShape(t *testing.T) {
	res := runSearch(t, &SearchTask{
		Mode:    "sequence",
		Query:   "gaattc",
		Seq:     []byte("AAGAATTCAA"),
		Options: SearchOptions{Strand: "+"},
	})
	require.Len(t, res.Hits, 1)
	h := res.Hits[0]
	assert.Equal(t, 2, h.Position)
	assert.Equal(t, 8, h.End)
	assert.Equal(t, "+", h.Strand)
	assert.Equal(t, "exact", h.MatchType)
	assert.Equal(t, "AAGAATTCAA", h.Context, "context covers the whole short sequence")
	assert.InDelta(t, 1.0, h.Score, 1e-9)
}

func TestMotifRejectsNonIUPAC(t *testing.T) {
	task := &SearchTask{Mode: "motif", Query: "GA?TTC", Seq: []byte("ACGT")}
	_, err := task.run(context.Background())
	require.ErrorIs(t, err, ErrInput)
}

func TestMotifAmbiguityCodes(t *testing.T) {
	res := runSearch(t, &SearchTask{
		Mode:    "motif",
		Query:   "GGWCC",
		Seq:     []byte("TTGGACCTT"),
		Options: SearchOptions{Strand: "+"},
	})
	require.Len(t, res.Hits, 1)
	assert.Equal(t, 2, res.Hits[0].Position)
}

func TestGeneSearch(t *testing.T) {
	res := runSearch(t, &SearchTask{Mode: "gene", Query: "thr", Features: testFeatures()})
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "thrL", res.Hits[0].Label)
	assert.NotNil(t, res.Hits[0].Feature)
}

func TestFeatureSearch(t *testing.T) {
	res := runSearch(t, &SearchTask{Mode: "feature", Query: "tRNA", Features: testFeatures()})
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "ileV", res.Hits[0].Label)
}

func TestPositionSearch(t *testing.T) {
	res := runSearch(t, &SearchTask{Mode: "position", Query: "200..400", Features: testFeatures()})
	require.Len(t, res.Hits, 2, "thrL and thrA overlap [200,400)")

	res = runSearch(t, &SearchTask{Mode: "position", Query: "2900-2950", Features: testFeatures()})
	assert.Empty(t, res.Hits)
}

func TestPositionSearchMalformed(t *testing.T) {
	for _, q := range []string{"", "abc", "100..x", "300-100", "-5..10"} {
		task := &SearchTask{Mode: "position", Query: q, Features: testFeatures()}
		_, err := task.run(context.Background())
		assert.ErrorIs(t, err, ErrInput, "query %q", q)
	}
}

func TestSearchHitCap(t *testing.T) {
	seq := make([]byte, 100)
	for i := range seq {
		seq[i] = 'A'
	}
	res := runSearch(t, &SearchTask{
		Mode:    "sequence",
		Query:   "AAA",
		Seq:     seq,
		Options: SearchOptions{MaxResults: 7, Strand: "+"},
	})
	assert.Len(t, res.Hits, 7)
}

func TestEmptySequenceIsInputError(t *testing.T) {
	task := &SearchTask{Mode: "sequence", Query: "ACGT"}
	_, err := task.run(context.Background())
	require.ErrorIs(t, err, ErrInput)
}
