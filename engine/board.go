package engine

// Move is an (origin, destination) pair.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Board holds the grid, the side to move and the game status. A Board is not
// safe for concurrent use; wrap it in a Session when it is shared.
type Board struct {
	grid    Grid
	current Color
	status  Status
}

// NewBoard returns a board in the standard starting layout with White to
// move.
func NewBoard() *Board {
	b := &Board{status: NotStarted}
	b.Reset()
	return b
}

// NewBoardFromGrid returns a board for an arbitrary position. The status of
// toMove is evaluated on load, so a position where toMove is mated starts as
// the opponent's win and one without legal moves starts as Stalemate.
func NewBoardFromGrid(g Grid, toMove Color) *Board {
	b := &Board{grid: g, current: toMove}
	b.status = evaluate(toMove, &b.grid)
	return b
}

// Reset discards the grid and restores the starting layout.
func (b *Board) Reset() {
	b.grid = StartingGrid()
	b.current = White
	b.status = InProgress
}

// Grid returns a copy of the cells.
func (b *Board) Grid() Grid { return b.grid }

func (b *Board) CurrentPlayer() Color { return b.current }

func (b *Board) Status() Status { return b.status }

// PieceAt returns the piece on pos. ok is false for empty or off-board
// positions.
func (b *Board) PieceAt(pos Position) (p Piece, ok bool) {
	if !pos.Valid() {
		return Piece{}, false
	}
	p = b.grid.At(pos)
	return p, !p.Empty()
}

// AttemptMove tries to move the piece on from to to for the side to move. It
// returns false, leaving the board untouched, when the game is over, the
// origin is empty or not the mover's, the piece cannot make the move, or the
// move would leave the mover's king attacked. An accepted move updates the
// status for the opponent and passes the turn.
func (b *Board) AttemptMove(from, to Position) bool {
	if !b.status.Active() || !b.isLegal(b.current, from, to) {
		return false
	}

	mover := b.current
	captured := b.grid.apply(from, to)
	b.grid[to.Rank][to.File].HasMoved = true

	// Only constructed positions can leave a king capturable.
	if captured.Kind == King {
		b.status = winFor(mover)
		return true
	}

	opponent := mover.Opponent()
	b.status = evaluate(opponent, &b.grid)
	b.current = opponent
	return true
}

// isLegal combines the piece predicate with the self-check veto.
func (b *Board) isLegal(color Color, from, to Position) bool {
	return legal(color, from, to, &b.grid)
}

func legal(color Color, from, to Position, g *Grid) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	piece := g.At(from)
	if piece.Empty() || piece.Color != color {
		return false
	}
	if !piece.CanMove(from, to, g) {
		return false
	}
	scratch := *g
	scratch.apply(from, to)
	return !IsKingInCheck(color, &scratch)
}

// evaluate returns the status of a position in which side is to move.
func evaluate(side Color, g *Grid) Status {
	inCheck := IsKingInCheck(side, g)
	canMove := hasLegalMove(side, g)
	switch {
	case inCheck && !canMove:
		return winFor(side.Opponent())
	case inCheck:
		return Check
	case !canMove:
		return Stalemate
	default:
		return InProgress
	}
}

// IsKingInCheck reports whether color's king on g is attacked by any
// opposing piece, using the ordinary legality predicates. A grid without
// that king is treated as not in check.
func IsKingInCheck(color Color, g *Grid) bool {
	king, ok := g.FindKing(color)
	if !ok {
		return false
	}
	return isAttacked(king, color.Opponent(), g)
}

// isAttacked reports whether any piece of by could move onto target.
func isAttacked(target Position, by Color, g *Grid) bool {
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			p := g[r][f]
			if p.Empty() || p.Color != by {
				continue
			}
			if p.CanMove(Position{Rank: r, File: f}, target, g) {
				return true
			}
		}
	}
	return false
}

// hasLegalMove reports whether side has at least one move that leaves its
// own king unattacked.
func hasLegalMove(side Color, g *Grid) bool {
	found := false
	eachLegalMove(side, g, func(Move) bool {
		found = true
		return false
	})
	return found
}

// eachLegalMove calls fn for every legal move of side until fn returns
// false.
func eachLegalMove(side Color, g *Grid, fn func(Move) bool) {
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			from := Position{Rank: r, File: f}
			if p := g.At(from); p.Empty() || p.Color != side {
				continue
			}
			for tr := 0; tr < Size; tr++ {
				for tf := 0; tf < Size; tf++ {
					to := Position{Rank: tr, File: tf}
					if legal(side, from, to, g) && !fn(Move{From: from, To: to}) {
						return
					}
				}
			}
		}
	}
}

// LegalMoves lists every legal move for the side to move, ordered by origin
// then destination. It is empty once the game is over.
func (b *Board) LegalMoves() []Move {
	if !b.status.Active() {
		return nil
	}
	var moves []Move
	eachLegalMove(b.current, &b.grid, func(m Move) bool {
		moves = append(moves, m)
		return true
	})
	return moves
}

// LegalDestinations lists the squares the piece on from may legally move to.
// It is empty when from does not hold a piece of the side to move.
func (b *Board) LegalDestinations(from Position) []Position {
	if !b.status.Active() || !from.Valid() {
		return nil
	}
	var out []Position
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			to := Position{Rank: r, File: f}
			if b.isLegal(b.current, from, to) {
				out = append(out, to)
			}
		}
	}
	return out
}
