package fuzzy

import "testing"

func demoIndex() *Index {
	return Build([]Entry{
		{ID: "1", Text: "GC Skew Analysis"},
		{ID: "2", Text: "GC Content"},
		{ID: "3", Text: "Codon Usage"},
		{ID: "4", Text: "Shannon Entropy"},
		{ID: "5", Text: "AT"},
		{ID: "6", Text: "Synteny Alignment"},
	})
}

func TestSubsequenceMatch(t *testing.T) {
	res := demoIndex().Search("gc sk", 10)
	if len(res) == 0 {
		t.Fatal("expected a match for 'gc sk'")
	}
	if res[0].ID != "1" {
		t.Errorf("best match = %q, want GC Skew Analysis", res[0].Text)
	}
	if res[0].Score <= 0 {
		t.Errorf("score = %f, want positive", res[0].Score)
	}
}

func TestNonSubsequenceExcluded(t *testing.T) {
	if res := demoIndex().Search("zk", 10); len(res) != 0 {
		t.Fatalf("expected no match for 'zk', got %d", len(res))
	}
}

func TestPrefixOutranksSubstring(t *testing.T) {
	ix := Build([]Entry{
		{ID: "contains", Text: "xxgc skew"},
		{ID: "prefix", Text: "gc skewxx"},
	})
	res := ix.Search("gc skew", 10)
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	if res[0].ID != "prefix" {
		t.Errorf("prefix match should rank first, got %q", res[0].ID)
	}
}

func TestShortQueryFullScan(t *testing.T) {
	// "at" is under the trigram length, so the short "AT" entry must still
	// be reachable.
	res := demoIndex().Search("at", 10)
	found := false
	for _, r := range res {
		if r.ID == "5" {
			found = true
		}
	}
	if !found {
		t.Error("short entry unreachable via short query")
	}
}

func TestTieBreakOrdering(t *testing.T) {
	ix := Build([]Entry{
		{ID: "long", Text: "gene alpha beta"},
		{ID: "short", Text: "gene alpha"},
	})
	res := ix.Search("gene", 10)
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	if res[0].ID != "short" {
		t.Errorf("shorter text should rank first on equal match, got %q", res[0].ID)
	}
}

func TestLimitTruncates(t *testing.T) {
	res := demoIndex().Search("n", 2)
	if len(res) > 2 {
		t.Errorf("limit not applied: %d results", len(res))
	}
}

func TestRebuildReplacesCorpus(t *testing.T) {
	ix := Build([]Entry{{ID: "old", Text: "obsolete entry"}})
	ix = Build([]Entry{{ID: "new", Text: "fresh entry"}})
	res := ix.Search("entry", 10)
	if len(res) != 1 || res[0].ID != "new" {
		t.Errorf("rebuild should replace the corpus wholesale: %+v", res)
	}
}
