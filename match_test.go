package equations

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func pipes() *store {
	g := NewGrammar()
	g.Bracketed("|", "|", math.Abs)
	g.Bracketed("[", "]", math.Floor)
	return newStore(g)
}

func TestCloseIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	cases := []struct {
		s    string
		at   int
		want int
	}{
		{"()", 0, 1},
		{"(1, (2), 3)", 0, 10},
		{"(1, (2), 3)", 4, 6},
		{"(1,)", 0, -1},
		{"(1, )", 0, -1},
		{"(1", 0, -1},
		{"||7||", 0, 4},
		{"||7||", 1, 3},
		{"|x|", 0, 2},
		{"| |", 0, -1},
		{"([1)]", 0, -1},
		{"([1])", 0, 4},
	}
	st := pipes()
	for _, c := range cases {
		t.Run(c.s, func(t *testing.T) {
			o, cs, ok := st.openerAt(c.s, c.at)
			if !ok {
				t.Fatalf("no opener at %d", c.at)
			}
			got, sym := st.closeIndex(c.s, c.at, o, cs)
			if got != c.want {
				t.Errorf("want %d, got %d (%q)", c.want, got, sym)
			}
			if got >= 0 && sym == "" {
				t.Errorf("found index %d with no symbol", got)
			}
		})
	}
}

func TestOpenIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	cases := []struct {
		s    string
		at   int
		want int
	}{
		{"()", 1, 0},
		{"f(2, g(3))", 9, 1},
		{"f(2, g(3))", 8, 6},
		{"(, 1)", 4, -1},
		{"||7||", 4, 0},
		{"||7||", 3, 1},
		{"2|x|", 3, 1},
	}
	st := pipes()
	for _, c := range cases {
		t.Run(c.s, func(t *testing.T) {
			cl, os, ok := st.closerEndingAt(c.s, c.at)
			if !ok {
				t.Fatalf("no closer at %d", c.at)
			}
			got, _ := st.openIndex(c.s, c.at, cl, os)
			if got != c.want {
				t.Errorf("want %d, got %d", c.want, got)
			}
		})
	}
}

func TestSplitArgs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	cases := []struct {
		s    string
		want []string
	}{
		{"1", []string{"1"}},
		{"1, 2", []string{"1", " 2"}},
		{"1, f(2, 3), 4", []string{"1", " f(2, 3)", " 4"}},
		{"|1, 2|, 3", []string{"|1, 2|", " 3"}},
		{",", []string{"", ""}},
	}
	st := pipes()
	for _, c := range cases {
		t.Run(c.s, func(t *testing.T) {
			got := st.splitArgs(c.s)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestUnmatchedOpeners(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	// No opener closes. This finishes only if failed matches are remembered.
	s := strings.Repeat("(", 200) + "1, 2"
	st := pipes()
	if got, sym := st.closeIndex(s, 0, "(", []string{")"}); got != -1 {
		t.Errorf("closed at %d with %q", got, sym)
	}
	if got, sym := st.openIndex(s+")", len(s), ")", []string{"("}); got != 199 {
		t.Errorf("innermost opener: want 199, got %d (%q)", got, sym)
	}
	if segs := st.outside(s); len(segs) != 1 || segs[0].text != s {
		t.Errorf("want one segment, got %q", segs)
	}
	if args := st.splitArgs(s); len(args) != 1 {
		t.Errorf("split inside an open bracket: %q", args)
	}
}

func TestNodeKindString(t *testing.T) {
	if got := nodeJuxt.String(); got != "Juxt" {
		t.Errorf("want Juxt, got %q", got)
	}
	if got := nodeKind(20).String(); got != "nodeKind(20)" {
		t.Errorf("want nodeKind(20), got %q", got)
	}
}

func TestPlacements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	cases := []struct {
		name string
		s    string
		syms []string
		want [][]int
	}{
		{"binary", "1 + 2 + 3", []string{"+"}, [][]int{{2}, {6}}},
		{"ternary", "1 ? 2 : 3 ? 4 : 5", []string{"?", ":"}, [][]int{{2, 6}, {2, 14}, {10, 14}}},
		{"bracketed", "(1 + 2) + 3", []string{"+"}, [][]int{{8}}},
		{"overlapping", "1 --- 2", []string{"--"}, [][]int{{2}, {3}}},
		{"pipes", "|1 + 2| + 3", []string{"+"}, [][]int{{8}}},
		{"missing", "1 ? 2", []string{"?", ":"}, nil},
	}
	st := pipes()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := st.placements(c.s, c.syms)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestOperands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	got := operands("1 ? 2 : 3", []string{"?", ":"}, []int{2, 6})
	want := []string{"1 ", " 2 ", " 3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestLongestFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	got := longestFirst([]string{"a", "ccc", "b", "a", "bb", "ab"})
	want := []string{"ccc", "ab", "bb", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestLiteralSuffixes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	cases := []struct {
		s    string
		want []string
	}{
		{"x", nil},
		{"2x12.5", []string{"12.5", "2.5", ".5", "5"}},
		{"a-3", []string{"-3", "3"}},
		{"7.", []string{"7."}},
		{"1+", nil},
	}
	for _, c := range cases {
		t.Run(c.s, func(t *testing.T) {
			got := literalSuffixes(c.s)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestScientific(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "equations")
	defer teardown()

	cases := []struct {
		mant, exp string
		want      float64
		ok        bool
	}{
		{"1.5", "3", 1500, true},
		{"7", "-1", 0.7, true},
		{"2", "0.5", 2 * math.Pow(10, 0.5), true},
		{"1", "400", math.Inf(1), true},
		{"x", "1", 0, false},
		{"1", "", 0, false},
	}
	for _, c := range cases {
		t.Run(c.mant+"e"+c.exp, func(t *testing.T) {
			got, ok := scientific(c.mant, c.exp)
			if ok != c.ok {
				t.Fatalf("want ok=%t, got %t", c.ok, ok)
			}
			if ok && got != c.want {
				t.Errorf("want %g, got %g", c.want, got)
			}
		})
	}
}
