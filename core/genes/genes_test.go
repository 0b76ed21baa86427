package genes

import "testing"

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"DNA-directed RNA polymerase": "dna directed rna polymerase",
		"  rpoB_2 ":                   "rpob 2",
		"thr operon/leader peptide":   "thr operon leader peptide",
		"":                            "",
	}
	for in, want := range cases {
		if got := NormalizeLabel(in); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLabelFallback(t *testing.T) {
	g := Gene{ID: "g1", Locus: "b0001"}
	if g.Label() != "b0001" {
		t.Errorf("Label = %q, want locus fallback", g.Label())
	}
	g.Product = "thr operon leader"
	if g.Label() != "thr operon leader" {
		t.Errorf("Label = %q, want product over locus", g.Label())
	}
}

func TestOverlaps(t *testing.T) {
	g := Gene{Start: 100, End: 200}
	if !g.Overlaps(150, 160) || !g.Overlaps(0, 101) || !g.Overlaps(199, 300) {
		t.Error("expected overlap")
	}
	if g.Overlaps(200, 300) || g.Overlaps(0, 100) {
		t.Error("half-open ranges must not overlap at the boundary")
	}
}
