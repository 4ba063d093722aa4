// Package notation translates engine positions and histories into the
// standard chess notations used by clients and analysis tools: square names,
// UCI move strings, FEN and PGN.
package notation

import (
	"errors"
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"

	"github.com/walterschell/personal-chess/engine"
)

var (
	ErrInvalidSquare = errors.New("notation: invalid square")
	// ErrNotRepresentable is returned for histories standard chess cannot
	// express, such as a pawn left unpromoted on the back rank.
	ErrNotRepresentable = errors.New("notation: history not representable in standard chess")
)

// squares maps algebraic names to the library's squares.
var squares = func() map[string]chess.Square {
	m := make(map[string]chess.Square, engine.Size*engine.Size)
	for sq := chess.A1; sq <= chess.H8; sq++ {
		m[sq.String()] = sq
	}
	return m
}()

func square(pos engine.Position) chess.Square {
	return chess.NewSquare(chess.File(pos.File), chess.Rank(pos.Rank))
}

// SquareName returns the algebraic name of pos, e.g. "e4".
func SquareName(pos engine.Position) (string, error) {
	if !pos.Valid() {
		return "", fmt.Errorf("%w: %v", ErrInvalidSquare, pos)
	}
	return square(pos).String(), nil
}

// ParseSquare is the inverse of SquareName.
func ParseSquare(s string) (engine.Position, error) {
	sq, ok := squares[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return engine.Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return engine.NewPosition(int(sq.Rank()), int(sq.File())), nil
}

// UCI encodes m as a UCI move string ("e2e4").
func UCI(m engine.Move) (string, error) {
	from, err := SquareName(m.From)
	if err != nil {
		return "", err
	}
	to, err := SquareName(m.To)
	if err != nil {
		return "", err
	}
	return from + to, nil
}

// ParseUCI decodes a four-character UCI move. Promotion suffixes are refused
// because the engine does not promote.
func ParseUCI(s string) (engine.Move, error) {
	if len(s) != 4 {
		return engine.Move{}, fmt.Errorf("notation: invalid UCI move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return engine.Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return engine.Move{}, err
	}
	return engine.Move{From: from, To: to}, nil
}

var pieceTypes = map[engine.Kind]chess.PieceType{
	engine.Pawn:   chess.Pawn,
	engine.Knight: chess.Knight,
	engine.Bishop: chess.Bishop,
	engine.Rook:   chess.Rook,
	engine.Queen:  chess.Queen,
	engine.King:   chess.King,
}

func pieceColor(c engine.Color) chess.Color {
	if c == engine.Black {
		return chess.Black
	}
	return chess.White
}

// Board converts snap's squares into a corentings/chess board.
func Board(snap engine.Snapshot) *chess.Board {
	m := make(map[chess.Square]chess.Piece)
	for r := 0; r < engine.Size; r++ {
		for f := 0; f < engine.Size; f++ {
			if p := snap.Squares[r][f]; p != nil {
				m[square(engine.NewPosition(r, f))] = chess.NewPiece(pieceTypes[p.Kind], pieceColor(p.Color))
			}
		}
	}
	return chess.NewBoard(m)
}

// FEN renders snap as a FEN record. Castling and en passant are always "-"
// and the halfmove clock is 0, since the engine tracks neither.
func FEN(snap engine.Snapshot, fullmove int) string {
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s - - 0 %d", Board(snap), pieceColor(snap.CurrentPlayer), fullmove)
}

// FullmoveNumber returns the FEN fullmove counter after plies half-moves
// from the standard start.
func FullmoveNumber(plies int) int {
	return plies/2 + 1
}
