package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosString(t *testing.T) {
	assert.Equal(t, "3:7", Pos{Line: 3, Column: 7}.String())
}

func TestPosIsZero(t *testing.T) {
	assert.True(t, Pos{}.IsZero())
	assert.False(t, Pos{Line: 1}.IsZero())
}

func TestRangeStringCollapsesWhenEqual(t *testing.T) {
	p := Pos{Line: 1, Column: 1}
	assert.Equal(t, "1:1", Range{Start: p, End: p}.String())
}

func TestRangeStringSpansWhenDifferent(t *testing.T) {
	r := Range{Start: Pos{Line: 1, Column: 1}, End: Pos{Line: 1, Column: 5}}
	assert.Equal(t, "1:1..1:5", r.String())
}

func TestLineIndexPosAt(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	li := NewLineIndex(src)

	tests := []struct {
		offset int
		want   Pos
	}{
		{0, Pos{Line: 1, Column: 1}},
		{2, Pos{Line: 1, Column: 3}},
		{4, Pos{Line: 2, Column: 1}},
		{7, Pos{Line: 2, Column: 4}},
		{8, Pos{Line: 3, Column: 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, li.PosAt(tt.offset), "offset %d", tt.offset)
	}
}
