package equations

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
)

// parse splits s into two juxtaposed operands. Candidates for the right
// operand come from the end readers in pipeline order, each longest first.
// Prefix operators immediately before a candidate are pulled into it, since
// they bind tighter than juxtaposition.
func (juxtaParser) parse(s string, st *store, depth int) *node {
	if st.jux == nil {
		return nil
	}
	tried := hashset.New()
	var r *node
	for _, p := range pipeline {
		er, ok := p.(endReader)
		if !ok {
			continue
		}
		er.fromEnd(s, st, depth, func(_ *node, src string) bool {
			n := st.pullPrefixes(s, len(s)-len(src))
			if tried.Contains(n) {
				return true
			}
			tried.Add(n)
			left := s[:n]
			if isBlank(left) {
				return true
			}
			l := parseEquation(left, st, depth)
			if l == nil {
				return true
			}
			cut := st.cutoffs
			rt := parseEquation(s[n:], st, depth)
			if rt == nil {
				if st.cutoffs != cut {
					return true
				}
				panic("equations: juxtapand " + strconv.Quote(s[n:]) + " of " + strconv.Quote(s) + " stopped parsing")
			}
			tracer().Debugf("juxtaposing %q and %q", left, s[n:])
			r = &node{kind: nodeJuxt, jux: st.jux, args: []*node{l, rt}}
			return false
		})
		if r != nil {
			return r
		}
	}
	return nil
}

// pullPrefixes moves the start of a right juxtapand at s[at:] leftward past
// any prefix operator symbols directly before it. A symbol is only pulled in
// if something would remain to its left.
func (st *store) pullPrefixes(s string, at int) int {
	for {
		head := strings.TrimRight(s[:at], " ")
		pulled := false
		for _, sym := range st.prefixes {
			if !strings.HasSuffix(head, sym) {
				continue
			}
			k := len(head) - len(sym)
			if isBlank(head[:k]) {
				continue
			}
			at, pulled = k, true
			break
		}
		if !pulled {
			return at
		}
	}
}
