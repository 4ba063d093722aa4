package engine

import "fmt"

// Size is the number of ranks and files on the board.
const Size = 8

// Position addresses a square by 0-based rank and file. Rank 0 and file 0
// are White's a1 corner. Positions are comparable and can be used as map keys.
type Position struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func NewPosition(rank, file int) Position {
	return Position{Rank: rank, File: file}
}

// Valid reports whether both coordinates are on the board. Positions coming
// from callers must pass Valid before they are used to index a Grid.
func (p Position) Valid() bool {
	return p.Rank >= 0 && p.Rank < Size && p.File >= 0 && p.File < Size
}

// Offset returns the position shifted by dr ranks and df files. The result
// may be off the board.
func (p Position) Offset(dr, df int) Position {
	return Position{Rank: p.Rank + dr, File: p.File + df}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Rank, p.File)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
