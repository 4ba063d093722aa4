package engine

import "fmt"

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "White":
		*c = White
	case "Black":
		*c = Black
	default:
		return fmt.Errorf("engine: unknown color %q", text)
	}
	return nil
}

// Kind is the piece type. The zero value NoKind marks an empty cell.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if i > 0 && name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("engine: unknown piece kind %q", text)
}

// Piece is the content of one grid cell. HasMoved is set once, when a move
// places the piece on a new square; only pawns consult it.
type Piece struct {
	Kind     Kind  `json:"type"`
	Color    Color `json:"color"`
	HasMoved bool  `json:"hasMoved"`
}

// NewPiece returns an unmoved piece.
func NewPiece(kind Kind, color Color) Piece {
	return Piece{Kind: kind, Color: color}
}

// Empty reports whether the cell holds no piece.
func (p Piece) Empty() bool {
	return p.Kind == NoKind
}

type direction struct{ dr, df int }

var (
	straightDirections = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonalDirections = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	royalDirections    = append(append([]direction{}, straightDirections...), diagonalDirections...)
)

// CanMove is the legality predicate: it reports whether p, standing on from,
// may move to to given the occupancy of g. Check is ignored; the board
// applies the self-check veto. The grid is never modified.
func (p Piece) CanMove(from, to Position, g *Grid) bool {
	if p.Empty() || !from.Valid() || !to.Valid() || from == to {
		return false
	}
	switch p.Kind {
	case Pawn:
		return p.pawnMove(from, to, g)
	case Knight:
		dr, df := abs(to.Rank-from.Rank), abs(to.File-from.File)
		if !(dr == 2 && df == 1) && !(dr == 1 && df == 2) {
			return false
		}
		return p.canLandOn(g.At(to))
	case Bishop:
		return p.slide(from, to, g, diagonalDirections)
	case Rook:
		return p.slide(from, to, g, straightDirections)
	case Queen:
		return p.slide(from, to, g, royalDirections)
	case King:
		if abs(to.Rank-from.Rank) > 1 || abs(to.File-from.File) > 1 {
			return false
		}
		return p.canLandOn(g.At(to))
	default:
		return false
	}
}

// canLandOn reports whether the destination cell is empty or holds an
// opposing piece.
func (p Piece) canLandOn(target Piece) bool {
	return target.Empty() || target.Color != p.Color
}

// pawnForward is the rank delta of a single pawn step.
func pawnForward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func pawnStartRank(c Color) int {
	if c == White {
		return 1
	}
	return Size - 2
}

func (p Piece) pawnMove(from, to Position, g *Grid) bool {
	dir := pawnForward(p.Color)
	dr, df := to.Rank-from.Rank, to.File-from.File
	target := g.At(to)

	switch {
	case df == 0 && dr == dir:
		return target.Empty()
	case df == 0 && dr == 2*dir:
		return from.Rank == pawnStartRank(p.Color) &&
			g.At(from.Offset(dir, 0)).Empty() &&
			target.Empty()
	case abs(df) == 1 && dr == dir:
		return !target.Empty() && target.Color != p.Color
	default:
		return false
	}
}

// slide handles rook, bishop and queen: to must lie along one of dirs from
// from, every square strictly between must be empty, and the destination
// must be empty or opposing.
func (p Piece) slide(from, to Position, g *Grid, dirs []direction) bool {
	dr, df := to.Rank-from.Rank, to.File-from.File
	if dr != 0 && df != 0 && abs(dr) != abs(df) {
		return false
	}
	step := direction{sign(dr), sign(df)}
	allowed := false
	for _, d := range dirs {
		if d == step {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	for sq := from.Offset(step.dr, step.df); sq != to; sq = sq.Offset(step.dr, step.df) {
		if !g.At(sq).Empty() {
			return false
		}
	}
	return p.canLandOn(g.At(to))
}
