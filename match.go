package equations

import (
	"strings"
)

// openerAt returns the longest bracket-like opening symbol starting at s[i]
// along with the symbols that can close it.
func (st *store) openerAt(s string, i int) (string, []string, bool) {
	for _, o := range st.openers {
		if strings.HasPrefix(s[i:], o) {
			return o, st.closersFor[o], true
		}
	}
	return "", nil, false
}

// closerEndingAt returns the longest bracket-like closing symbol whose last
// byte is s[i] along with the symbols that can open it.
func (st *store) closerEndingAt(s string, i int) (string, []string, bool) {
	for _, c := range st.closers {
		if strings.HasSuffix(s[:i+1], c) {
			return c, st.openersFor[c], true
		}
	}
	return "", nil, false
}

// bracketMatch is the result of a bracket lookup: the index and text of the
// partner symbol, or -1 and "" if there is none.
type bracketMatch struct {
	at  int
	sym string
}

// bracketMemo records the nested bracket lookups made while scanning one
// string, so that a region which fails to close is scanned only once. A
// nested lookup depends only on its position, because the symbol found there
// and its partners are fixed by the store.
type bracketMemo struct {
	fwd map[int]bracketMatch
	bwd map[int]bracketMatch
}

func newBracketMemo() *bracketMemo {
	return &bracketMemo{
		fwd: make(map[int]bracketMatch),
		bwd: make(map[int]bracketMatch),
	}
}

// closeIndex finds the closing symbol matching the opening symbol open, which
// starts at s[at]. Only the symbols in eligible may close it. Nested bracket
// regions of every registered kind are skipped as units. The result is the
// index and text of the closing symbol, or -1 and "" if there is none.
func (st *store) closeIndex(s string, at int, open string, eligible []string) (int, string) {
	return st.closeFrom(s, at, open, eligible, newBracketMemo())
}

// closeAt matches the longest opening symbol at s[i]. ok is false if no
// opening symbol starts there.
func (st *store) closeAt(s string, i int, m *bracketMemo) (j int, c string, ok bool) {
	o, cs, ok := st.openerAt(s, i)
	if !ok {
		return -1, "", false
	}
	if r, seen := m.fwd[i]; seen {
		return r.at, r.sym, true
	}
	j, c = st.closeFrom(s, i, o, cs, m)
	m.fwd[i] = bracketMatch{at: j, sym: c}
	return j, c, true
}

func (st *store) closeFrom(s string, at int, open string, eligible []string, m *bracketMemo) (int, string) {
	start := at + len(open)
	// lastSep is the end of the most recent top-level separator, or -1.
	lastSep := -1
	for i := start; i < len(s); i++ {
		for _, c := range eligible {
			if !strings.HasPrefix(s[i:], c) {
				continue
			}
			if !st.allowsEmpty(open, c) && isBlank(s[start:i]) {
				continue
			}
			if lastSep >= 0 && isBlank(s[lastSep:i]) {
				continue
			}
			return i, c
		}
		if j, c, ok := st.closeAt(s, i, m); ok && c != "" {
			i = j + len(c) - 1
			continue
		}
		if strings.HasPrefix(s[i:], st.sep) {
			lastSep = i + len(st.sep)
			i = lastSep - 1
		}
	}
	return -1, ""
}

// openIndex is the mirror of closeIndex. The closing symbol close ends at
// s[at], and the result is the index of the start of the matching opening
// symbol and its text.
func (st *store) openIndex(s string, at int, close string, eligible []string) (int, string) {
	return st.openFrom(s, at, close, eligible, newBracketMemo())
}

// openAt is the mirror of closeAt for the longest closing symbol ending at
// s[i].
func (st *store) openAt(s string, i int, m *bracketMemo) (k int, o string, ok bool) {
	c, os, ok := st.closerEndingAt(s, i)
	if !ok {
		return -1, "", false
	}
	if r, seen := m.bwd[i]; seen {
		return r.at, r.sym, true
	}
	k, o = st.openFrom(s, i, c, os, m)
	m.bwd[i] = bracketMatch{at: k, sym: o}
	return k, o, true
}

func (st *store) openFrom(s string, at int, close string, eligible []string, m *bracketMemo) (int, string) {
	end := at - len(close) + 1
	// lastSep is the start of the most recent top-level separator, or -1.
	lastSep := -1
	for i := end - 1; i >= 0; i-- {
		for _, o := range eligible {
			if !strings.HasSuffix(s[:i+1], o) {
				continue
			}
			k := i - len(o) + 1
			if !st.allowsEmpty(o, close) && isBlank(s[i+1:end]) {
				continue
			}
			if lastSep >= 0 && isBlank(s[i+1:lastSep]) {
				continue
			}
			return k, o
		}
		if j, o, ok := st.openAt(s, i, m); ok && o != "" {
			i = j
			continue
		}
		if strings.HasSuffix(s[:i+1], st.sep) {
			lastSep = i - len(st.sep) + 1
			i = lastSep
		}
	}
	return -1, ""
}

// splitArgs splits s at each separator outside of brackets.
func (st *store) splitArgs(s string) []string {
	var r []string
	m := newBracketMemo()
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.HasPrefix(s[i:], st.sep) {
			r = append(r, s[start:i])
			start = i + len(st.sep)
			i = start - 1
			continue
		}
		if j, c, ok := st.closeAt(s, i, m); ok {
			if c == "" {
				break
			}
			i = j + len(c) - 1
		}
	}
	return append(r, s[start:])
}

// segment is a run of text outside of any bracket region.
type segment struct {
	text string
	at   int
}

// outside splits s into the segments that are not enclosed by matched
// brackets.
func (st *store) outside(s string) []segment {
	var r []segment
	m := newBracketMemo()
	start := 0
	for i := 0; i < len(s); i++ {
		j, c, ok := st.closeAt(s, i, m)
		if !ok || c == "" {
			continue
		}
		r = append(r, segment{text: s[start:i], at: start})
		i = j + len(c) - 1
		start = i + 1
	}
	return append(r, segment{text: s[start:], at: start})
}

// occurrences returns the indices at or after from where sym appears within
// segs, including overlapping occurrences.
func occurrences(segs []segment, sym string, from int) []int {
	var r []int
	for _, seg := range segs {
		for k := 0; k+len(sym) <= len(seg.text); k++ {
			if seg.at+k < from {
				continue
			}
			if strings.HasPrefix(seg.text[k:], sym) {
				r = append(r, seg.at+k)
			}
		}
	}
	return r
}

// placements lists every way that syms can appear in s in order, without
// overlapping each other, outside of brackets. Each placement is the index of
// each symbol.
func (st *store) placements(s string, syms []string) [][]int {
	segs := st.outside(s)
	var r [][]int
	var walk func(k, from int, acc []int)
	walk = func(k, from int, acc []int) {
		for _, at := range occurrences(segs, syms[k], from) {
			p := append(acc[:k:k], at)
			if k == len(syms)-1 {
				r = append(r, p)
				continue
			}
			walk(k+1, at+len(syms[k]), p)
		}
	}
	walk(0, 0, make([]int, 0, len(syms)))
	return r
}

// operands cuts s around the symbols of a placement.
func operands(s string, syms []string, p []int) []string {
	r := make([]string, 0, len(p)+1)
	start := 0
	for k, at := range p {
		r = append(r, s[start:at])
		start = at + len(syms[k])
	}
	return append(r, s[start:])
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
