package engine

import "testing"

func pos(rank, file int) Position { return Position{Rank: rank, File: file} }

// gridWith builds a grid holding only the given pieces.
func gridWith(pieces map[Position]Piece) Grid {
	var g Grid
	for p, piece := range pieces {
		g.Set(p, piece)
	}
	return g
}

func TestPieceCanMove(t *testing.T) {
	start := StartingGrid()
	tests := []struct {
		name     string
		grid     Grid
		from, to Position
		want     bool
	}{
		{"pawn single step", start, pos(1, 4), pos(2, 4), true},
		{"pawn double step from start", start, pos(1, 4), pos(3, 4), true},
		{"pawn triple step", start, pos(1, 4), pos(4, 4), false},
		{"pawn backwards", gridWith(map[Position]Piece{pos(3, 4): NewPiece(Pawn, White)}), pos(3, 4), pos(2, 4), false},
		{"black pawn moves down", start, pos(6, 3), pos(4, 3), true},
		{"black pawn cannot move up", gridWith(map[Position]Piece{pos(4, 3): NewPiece(Pawn, Black)}), pos(4, 3), pos(5, 3), false},
		{"pawn double step off start rank", gridWith(map[Position]Piece{pos(2, 4): NewPiece(Pawn, White)}), pos(2, 4), pos(4, 4), false},
		{"pawn double step through piece", gridWith(map[Position]Piece{
			pos(1, 4): NewPiece(Pawn, White),
			pos(2, 4): NewPiece(Knight, Black),
		}), pos(1, 4), pos(3, 4), false},
		{"pawn forward onto piece", gridWith(map[Position]Piece{
			pos(3, 4): NewPiece(Pawn, White),
			pos(4, 4): NewPiece(Pawn, Black),
		}), pos(3, 4), pos(4, 4), false},
		{"pawn diagonal capture", gridWith(map[Position]Piece{
			pos(3, 4): NewPiece(Pawn, White),
			pos(4, 5): NewPiece(Pawn, Black),
		}), pos(3, 4), pos(4, 5), true},
		{"pawn diagonal onto empty", gridWith(map[Position]Piece{pos(3, 4): NewPiece(Pawn, White)}), pos(3, 4), pos(4, 5), false},
		{"pawn diagonal onto friend", gridWith(map[Position]Piece{
			pos(3, 4): NewPiece(Pawn, White),
			pos(4, 3): NewPiece(Pawn, White),
		}), pos(3, 4), pos(4, 3), false},
		{"knight jumps over pawns", start, pos(0, 1), pos(2, 2), true},
		{"knight onto friend", start, pos(0, 1), pos(1, 3), false},
		{"knight straight", start, pos(0, 1), pos(2, 1), false},
		{"bishop blocked at start", start, pos(0, 2), pos(2, 4), false},
		{"bishop open diagonal", gridWith(map[Position]Piece{pos(0, 2): NewPiece(Bishop, White)}), pos(0, 2), pos(5, 7), true},
		{"bishop straight", gridWith(map[Position]Piece{pos(0, 2): NewPiece(Bishop, White)}), pos(0, 2), pos(4, 2), false},
		{"bishop captures", gridWith(map[Position]Piece{
			pos(0, 2): NewPiece(Bishop, White),
			pos(3, 5): NewPiece(Rook, Black),
		}), pos(0, 2), pos(3, 5), true},
		{"bishop cannot pass capture", gridWith(map[Position]Piece{
			pos(0, 2): NewPiece(Bishop, White),
			pos(3, 5): NewPiece(Rook, Black),
		}), pos(0, 2), pos(4, 6), false},
		{"rook along file", gridWith(map[Position]Piece{pos(0, 0): NewPiece(Rook, White)}), pos(0, 0), pos(7, 0), true},
		{"rook along rank", gridWith(map[Position]Piece{pos(3, 0): NewPiece(Rook, Black)}), pos(3, 0), pos(3, 7), true},
		{"rook diagonal", gridWith(map[Position]Piece{pos(0, 0): NewPiece(Rook, White)}), pos(0, 0), pos(3, 3), false},
		{"rook blocked", start, pos(0, 0), pos(4, 0), false},
		{"queen diagonal", gridWith(map[Position]Piece{pos(0, 3): NewPiece(Queen, White)}), pos(0, 3), pos(4, 7), true},
		{"queen straight", gridWith(map[Position]Piece{pos(0, 3): NewPiece(Queen, White)}), pos(0, 3), pos(7, 3), true},
		{"queen knight shape", gridWith(map[Position]Piece{pos(0, 3): NewPiece(Queen, White)}), pos(0, 3), pos(2, 4), false},
		{"queen blocked", gridWith(map[Position]Piece{
			pos(0, 3): NewPiece(Queen, White),
			pos(2, 3): NewPiece(Pawn, Black),
		}), pos(0, 3), pos(5, 3), false},
		{"king one step", gridWith(map[Position]Piece{pos(4, 4): NewPiece(King, White)}), pos(4, 4), pos(5, 5), true},
		{"king two steps", gridWith(map[Position]Piece{pos(4, 4): NewPiece(King, White)}), pos(4, 4), pos(6, 4), false},
		{"king onto friend", start, pos(0, 4), pos(0, 3), false},
		{"off board destination", start, pos(0, 1), pos(-1, 3), false},
		{"null move", start, pos(0, 1), pos(0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.grid
			piece := g.At(tt.from)
			if got := piece.CanMove(tt.from, tt.to, &g); got != tt.want {
				t.Errorf("%v.CanMove(%v, %v) = %t, want %t", piece.Kind, tt.from, tt.to, got, tt.want)
			}
			if g != tt.grid {
				t.Error("CanMove modified the grid")
			}
		})
	}
}

func TestFriendlyOccupiedDestinationRejected(t *testing.T) {
	for _, kind := range []Kind{Pawn, Knight, Bishop, Rook, Queen, King} {
		t.Run(kind.String(), func(t *testing.T) {
			// Every square a lone piece on d4 can reach gets a friendly blocker.
			from := pos(3, 3)
			piece := NewPiece(kind, White)
			lone := gridWith(map[Position]Piece{from: piece})
			for r := 0; r < Size; r++ {
				for f := 0; f < Size; f++ {
					to := pos(r, f)
					if to == from {
						continue
					}
					g := lone
					g.Set(to, NewPiece(Pawn, White))
					if piece.CanMove(from, to, &g) {
						t.Errorf("%v moved onto friendly piece at %v", kind, to)
					}
				}
			}
		})
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, kind := range []Kind{Pawn, Knight, Bishop, Rook, Queen, King} {
		text, _ := kind.MarshalText()
		var got Kind
		if err := got.UnmarshalText(text); err != nil || got != kind {
			t.Errorf("round trip of %v gave %v, %v", kind, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("Archbishop")); err == nil {
		t.Error("expected error for unknown kind")
	}
}
