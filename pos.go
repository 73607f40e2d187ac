package tick

import "fmt"

// Pos is a source location: a 1-indexed line and column. Every tree node
// and every diagnostic carries one.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (p Pos) IsZero() bool { return p.Line == 0 && p.Column == 0 }

// Range is a half-open span between two source positions. Diagnostics
// carry a single Pos, not a Range.
type Range struct {
	Start Pos
	End   Pos
}

func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}

// LineIndex converts byte offsets in a source buffer into Pos values. The
// parser builds one per compiled file; the lexer tracks line and column
// itself, and diagnostics take their Pos from the tokens.
type LineIndex struct {
	lineStart []int
}

func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{lineStart: lineStart}
}

func (li *LineIndex) PosAt(offset int) Pos {
	lo, hi := 0, len(li.lineStart)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if li.lineStart[mid] <= offset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return Pos{Line: line + 1, Column: offset - li.lineStart[line] + 1}
}
