package textarea

import "strings"

// Pos is a zero-based line and rune column.
type Pos struct {
	Line int
	Col  int
}

// Before reports whether p sorts before q.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// Range is a span between two positions, Start <= End once normalized.
type Range struct {
	Start Pos
	End   Pos
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) normalize() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Contains reports whether p is within [Start, End).
func (r Range) Contains(p Pos) bool {
	r = r.normalize()
	return !p.Before(r.Start) && p.Before(r.End)
}

// endOf returns where text ends when inserted at start.
func endOf(start Pos, text string) Pos {
	n := strings.Count(text, "\n")
	if n == 0 {
		return Pos{Line: start.Line, Col: start.Col + len([]rune(text))}
	}
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return Pos{Line: start.Line + n, Col: len([]rune(last))}
}
