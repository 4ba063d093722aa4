package engine_test

import (
	"math/rand"
	"sort"
	"testing"

	chess "github.com/corentings/chess/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/walterschell/personal-chess/engine"
	"github.com/walterschell/personal-chess/notation"
)

// TestLegalMovesMatchReference compares the engine's legal move lists with
// corentings/chess along random games. The FEN carries no castling or en
// passant rights and a game stops once a pawn reaches a back rank, so both
// generators play the same rules.
func TestLegalMovesMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 10; game++ {
		b := engine.NewBoard()
		for ply := 0; ply < 120 && b.Status().Active(); ply++ {
			snap := engine.SnapshotOf(b)
			fen := notation.FEN(snap, notation.FullmoveNumber(ply))
			ref, err := notation.ValidateFEN(fen)
			if err != nil {
				t.Fatalf("game %d ply %d: %v", game, ply, err)
			}

			got := engineMoves(t, b)
			want := referenceMoves(ref)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("game %d ply %d %s: move lists differ (-reference +engine):\n%s", game, ply, fen, diff)
			}

			moves := b.LegalMoves()
			m := moves[rng.Intn(len(moves))]
			piece, _ := b.PieceAt(m.From)
			if !b.AttemptMove(m.From, m.To) {
				t.Fatalf("legal move %v rejected", m)
			}
			if piece.Kind == engine.Pawn && (m.To.Rank == 0 || m.To.Rank == engine.Size-1) {
				break
			}
		}
	}
}

func engineMoves(t *testing.T, b *engine.Board) []string {
	t.Helper()
	var out []string
	for _, m := range b.LegalMoves() {
		s, err := notation.UCI(m)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// referenceMoves lists UCI moves without promotion suffixes, one entry per
// origin/destination pair.
func referenceMoves(g *chess.Game) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range g.ValidMoves() {
		s := chess.UCINotation{}.Encode(nil, &m)[:4]
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
