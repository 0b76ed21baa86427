package seqmatch

import "testing"

// EcoRI site with zero mismatches on the plus strand: one hit at position 2.
func TestExactMotifPlusStrand(t *testing.T) {
	hits := Scan([]byte("AAGAATTCAA"), []byte("GAATTC"), 0, 0, StrandPlus)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	h := hits[0]
	if h.Pos != 2 || h.Length != 6 || h.Strand != StrandPlus {
		t.Errorf("unexpected hit %+v, want Pos=2 Length=6 strand=+", h)
	}
}

func TestMismatchBudget(t *testing.T) {
	seq := []byte("AAGAGTTCAA") // one substitution inside the site
	if hits := FindMatches(seq, []byte("GAATTC"), 0, 0); len(hits) != 0 {
		t.Fatalf("expected no exact hits, got %d", len(hits))
	}
	hits := FindMatches(seq, []byte("GAATTC"), 1, 0)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit with 1 mismatch, got %d", len(hits))
	}
	if hits[0].Mismatches != 1 || len(hits[0].MismatchIdx) != 1 || hits[0].MismatchIdx[0] != 2 {
		t.Errorf("mismatch bookkeeping wrong: %+v", hits[0])
	}
}

func TestIUPACMotif(t *testing.T) {
	// GGWCC: W = A or T.
	hits := FindMatches([]byte("TTGGACCTTGGTCCTT"), []byte("GGWCC"), 0, 0)
	if len(hits) != 2 {
		t.Fatalf("expected 2 IUPAC hits, got %d", len(hits))
	}
	if hits[0].Pos != 2 || hits[1].Pos != 9 {
		t.Errorf("hit positions = %d,%d want 2,9", hits[0].Pos, hits[1].Pos)
	}
}

func TestMinusStrandRemap(t *testing.T) {
	// AAAC at forward position 4 means GTTT matches the minus strand there.
	seq := []byte("GGGGAAACGG")
	hits := Scan(seq, []byte("GTTT"), 0, 0, StrandMinus)
	if len(hits) != 1 {
		t.Fatalf("expected 1 minus-strand hit, got %d", len(hits))
	}
	h := hits[0]
	if h.Pos != 4 || h.Strand != StrandMinus {
		t.Errorf("remapped hit %+v, want Pos=4 strand=-", h)
	}
	if h.Pos < 0 || h.Pos+h.Length > len(seq) {
		t.Errorf("hit outside sequence bounds: %+v", h)
	}
}

func TestBothStrandsPalindrome(t *testing.T) {
	// GAATTC is palindromic, so both strands hit the same site.
	hits := Scan([]byte("AAGAATTCAA"), []byte("GAATTC"), 0, 0, StrandBoth)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits on both strands, got %d", len(hits))
	}
	for _, h := range hits {
		if h.Pos != 2 {
			t.Errorf("hit at %d, want 2", h.Pos)
		}
	}
}

func TestHitCapStopsScan(t *testing.T) {
	seq := []byte("AAAAAAAAAA")
	hits := FindMatches(seq, []byte("AA"), 0, 3)
	if len(hits) != 3 {
		t.Fatalf("cap not honored: got %d hits", len(hits))
	}
}

func TestCapAppliesAcrossStrands(t *testing.T) {
	seq := []byte("AAGAATTCAAGAATTCAA")
	hits := Scan(seq, []byte("GAATTC"), 0, 3, StrandBoth)
	if len(hits) != 3 {
		t.Fatalf("combined cap not honored: got %d hits", len(hits))
	}
}

func TestPatternLongerThanSequence(t *testing.T) {
	if hits := FindMatches([]byte("ACG"), []byte("ACGTACGT"), 0, 0); hits != nil {
		t.Errorf("expected nil, got %v", hits)
	}
}
