package rank

import "testing"

type tieItem struct {
	name  string
	index int
	path  string
	begin int
}

func tieAccessors() Accessors[tieItem] {
	return Accessors[tieItem]{
		Name:  func(i tieItem) string { return i.name },
		Index: func(i tieItem) int { return i.index },
		Path:  func(i tieItem) string { return i.path },
		Begin: func(i tieItem) int { return i.begin },
	}
}

func TestCompareCriteriaOrder(t *testing.T) {
	acc := tieAccessors()

	shorter := tieItem{name: "abc", index: 9}
	longer := tieItem{name: "abcdef", index: 1}

	// Length first: the shorter name wins even with a larger index.
	got := Compare(shorter, longer, []Criterion{CriterionLength, CriterionIndex}, acc)
	if got >= 0 {
		t.Errorf("length criterion: got %d, want negative", got)
	}

	// Index first: order flips.
	got = Compare(shorter, longer, []Criterion{CriterionIndex, CriterionLength}, acc)
	if got <= 0 {
		t.Errorf("index criterion: got %d, want positive", got)
	}
}

func TestComparePathname(t *testing.T) {
	acc := tieAccessors()
	shallow := tieItem{name: "x", path: "a/x"}
	deep := tieItem{name: "x", path: "a/b/c/x"}

	if got := Compare(shallow, deep, []Criterion{CriterionPathname}, acc); got >= 0 {
		t.Errorf("got %d, want negative for fewer segments", got)
	}
}

func TestCompareAntisymmetry(t *testing.T) {
	acc := tieAccessors()
	criteria := []Criterion{CriterionLength, CriterionIndex, CriterionPathname, CriterionBegin}

	items := []tieItem{
		{"main.go", 0, "main.go", 0},
		{"util.go", 1, "a/util.go", 3},
		{"util.go", 2, "a/b/util.go", 3},
		{"x", 3, "", 7},
		{"x", 3, "", 7},
	}
	for i, a := range items {
		for j, b := range items {
			ab := Compare(a, b, criteria, acc)
			ba := Compare(b, a, criteria, acc)
			if ab != -ba {
				t.Errorf("items %d,%d: Compare(a,b)=%d, Compare(b,a)=%d", i, j, ab, ba)
			}
		}
	}
}

func TestCompareFullTie(t *testing.T) {
	acc := tieAccessors()
	a := tieItem{"same", 4, "p/same", 2}
	criteria := []Criterion{CriterionLength, CriterionIndex, CriterionPathname, CriterionBegin}

	if got := Compare(a, a, criteria, acc); got != 0 {
		t.Errorf("identical items: got %d, want 0", got)
	}
	if got := Compare(a, a, nil, acc); got != 0 {
		t.Errorf("no criteria: got %d, want 0", got)
	}
}

func TestCompareNilGetterSkipsCriterion(t *testing.T) {
	acc := Accessors[tieItem]{
		Index: func(i tieItem) int { return i.index },
	}
	a := tieItem{name: "a", index: 1}
	b := tieItem{name: "longer", index: 2}

	// Length has no getter, so index decides.
	got := Compare(a, b, []Criterion{CriterionLength, CriterionIndex}, acc)
	if got >= 0 {
		t.Errorf("got %d, want negative from index fallback", got)
	}
}
