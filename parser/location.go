package parser

import (
	"sort"
	"unicode/utf8"
)

// Position is a point in the source. Line is 1-based; Column and Index
// count UTF-16 code units, the way JavaScript tooling reports them.
type Position struct {
	Line   int
	Column int
	Index  int

	offset int // byte offset into the input
}

type SourceLocation struct {
	Start          Position
	End            Position
	Filename       string
	IdentifierName string
}

// lineIndex converts byte offsets into Positions.
type lineIndex struct {
	lineStarts []int
	utf16      []int // nil when the input is pure ASCII
}

func newLineIndex(input []byte) *lineIndex {
	idx := &lineIndex{lineStarts: []int{0}}
	ascii := true

	for i := 0; i < len(input); {
		c := input[i]
		if c < utf8.RuneSelf {
			i++
			switch c {
			case '\n':
				idx.lineStarts = append(idx.lineStarts, i)
			case '\r':
				if i < len(input) && input[i] == '\n' {
					i++
				}
				idx.lineStarts = append(idx.lineStarts, i)
			}
			continue
		}
		ascii = false
		r, size := utf8.DecodeRune(input[i:])
		i += size
		if r == '\u2028' || r == '\u2029' {
			idx.lineStarts = append(idx.lineStarts, i)
		}
	}

	if !ascii {
		idx.utf16 = make([]int, len(input)+1)
		units := 0
		for i := 0; i < len(input); {
			r, size := utf8.DecodeRune(input[i:])
			for j := 0; j < size; j++ {
				idx.utf16[i+j] = units
			}
			if r >= 0x10000 {
				units += 2
			} else {
				units++
			}
			i += size
		}
		idx.utf16[len(input)] = units
	}
	return idx
}

func (idx *lineIndex) units(offset int) int {
	if idx.utf16 == nil {
		return offset
	}
	return idx.utf16[offset]
}

func (idx *lineIndex) position(offset int) Position {
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	lineStart := idx.lineStarts[line-1]
	index := idx.units(offset)
	return Position{
		Line:   line,
		Column: index - idx.units(lineStart),
		Index:  index,
		offset: offset,
	}
}
