package engine

// Grid is the 8x8 cell array indexed [rank][file]. It is a plain value, so
// assigning it produces an independent scratch copy.
type Grid [Size][Size]Piece

// At returns the piece on pos; pos must be Valid.
func (g *Grid) At(pos Position) Piece {
	return g[pos.Rank][pos.File]
}

// Set places p on pos, replacing whatever was there.
func (g *Grid) Set(pos Position, p Piece) {
	g[pos.Rank][pos.File] = p
}

// Clear empties pos.
func (g *Grid) Clear(pos Position) {
	g[pos.Rank][pos.File] = Piece{}
}

// apply moves the piece on from to to, discarding any piece on to, and
// returns the discarded piece.
func (g *Grid) apply(from, to Position) Piece {
	captured := g.At(to)
	g.Set(to, g.At(from))
	g.Clear(from)
	return captured
}

// FindKing returns the square of color's king. ok is false when the grid
// holds no such king.
func (g *Grid) FindKing(color Color) (pos Position, ok bool) {
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if p := g[r][f]; p.Kind == King && p.Color == color {
				return Position{Rank: r, File: f}, true
			}
		}
	}
	return Position{}, false
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingGrid returns the standard initial layout.
func StartingGrid() Grid {
	var g Grid
	for f := 0; f < Size; f++ {
		g[0][f] = NewPiece(backRank[f], White)
		g[1][f] = NewPiece(Pawn, White)
		g[Size-2][f] = NewPiece(Pawn, Black)
		g[Size-1][f] = NewPiece(backRank[f], Black)
	}
	return g
}
