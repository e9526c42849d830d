package textarea

var bracketPairs = map[rune]struct {
	match   rune
	forward bool
}{
	'(': {')', true},
	'[': {']', true},
	'{': {'}', true},
	')': {'(', false},
	']': {'[', false},
	'}': {'{', false},
}

// maxBracketScan bounds the search so huge files stay responsive.
const maxBracketScan = 100000

// MatchBracket returns the bracket matching the one next to the cursor.
func (a *Area) MatchBracket() (Pos, bool) {
	_, to, ok := a.BracketPair()
	return to, ok
}

// BracketPair returns the bracket next to the cursor and its match. The
// rune before the cursor is tried first, then the rune at it.
func (a *Area) BracketPair() (from, to Pos, ok bool) {
	for _, p := range []Pos{{a.cursor.Line, a.cursor.Col - 1}, a.cursor} {
		r, exists := a.runeAt(p)
		if !exists {
			continue
		}
		if _, isBracket := bracketPairs[r]; !isBracket {
			continue
		}
		if m, found := a.scanMatch(p, r); found {
			return p, m, true
		}
		return Pos{}, Pos{}, false
	}
	return Pos{}, Pos{}, false
}

func (a *Area) scanMatch(p Pos, open rune) (Pos, bool) {
	pair := bracketPairs[open]
	depth := 0
	line, col := p.Line, p.Col
	for steps := 0; steps < maxBracketScan; steps++ {
		if pair.forward {
			col++
			for line < len(a.lines) && col >= len(a.lines[line]) {
				line++
				col = 0
			}
			if line >= len(a.lines) {
				return Pos{}, false
			}
		} else {
			col--
			for col < 0 {
				line--
				if line < 0 {
					return Pos{}, false
				}
				col = len(a.lines[line]) - 1
			}
		}

		switch a.lines[line][col] {
		case open:
			depth++
		case pair.match:
			if depth == 0 {
				return Pos{Line: line, Col: col}, true
			}
			depth--
		}
	}
	return Pos{}, false
}
