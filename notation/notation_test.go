package notation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/walterschell/personal-chess/engine"
)

func TestSquareNames(t *testing.T) {
	tests := []struct {
		pos  engine.Position
		name string
	}{
		{engine.NewPosition(0, 0), "a1"},
		{engine.NewPosition(3, 4), "e4"},
		{engine.NewPosition(7, 7), "h8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SquareName(tt.pos)
			if err != nil || got != tt.name {
				t.Errorf("SquareName(%v) = %q, %v", tt.pos, got, err)
			}
			back, err := ParseSquare(tt.name)
			if err != nil || back != tt.pos {
				t.Errorf("ParseSquare(%q) = %v, %v", tt.name, back, err)
			}
		})
	}

	if pos, err := ParseSquare(" E4 "); err != nil || pos != engine.NewPosition(3, 4) {
		t.Errorf("ParseSquare(\" E4 \") = %v, %v", pos, err)
	}
	for _, bad := range []string{"", "i1", "a9", "a0", "e44"} {
		if _, err := ParseSquare(bad); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) err = %v, want ErrInvalidSquare", bad, err)
		}
	}
	if _, err := SquareName(engine.NewPosition(8, 0)); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("SquareName off board err = %v", err)
	}
}

func TestUCI(t *testing.T) {
	m := engine.Move{From: engine.NewPosition(1, 4), To: engine.NewPosition(3, 4)}
	s, err := UCI(m)
	if err != nil || s != "e2e4" {
		t.Fatalf("UCI = %q, %v", s, err)
	}
	back, err := ParseUCI(s)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("ParseUCI (-want +got):\n%s", diff)
	}
	if _, err := ParseUCI("e7e8q"); err == nil {
		t.Error("promotion suffix accepted")
	}
}

func TestFEN(t *testing.T) {
	b := engine.NewBoard()
	got := FEN(engine.SnapshotOf(b), 1)
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
	if got != want {
		t.Errorf("FEN = %q, want %q", got, want)
	}

	b.AttemptMove(engine.NewPosition(1, 4), engine.NewPosition(3, 4))
	got = FEN(engine.SnapshotOf(b), FullmoveNumber(1))
	want = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"
	if got != want {
		t.Errorf("FEN after e4 = %q, want %q", got, want)
	}
	game, err := ValidateFEN(got)
	if err != nil {
		t.Fatalf("corentings rejected engine FEN: %v", err)
	}
	if game.FEN() != got {
		t.Errorf("FEN round trip = %q, want %q", game.FEN(), got)
	}
}

func play(t *testing.T, moves ...string) *engine.Session {
	t.Helper()
	s := engine.NewSession()
	for _, uci := range moves {
		m, err := ParseUCI(uci)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.Move(m.From, m.To); !ok {
			t.Fatalf("move %s rejected", uci)
		}
	}
	return s
}

func TestReplayAndPGN(t *testing.T) {
	s := play(t, "f2f3", "e7e5", "g2g4", "d8h4")

	game, sans, err := Replay(s.History())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"f3", "e5", "g4", "Qh4#"}, sans); diff != "" {
		t.Errorf("SAN (-want +got):\n%s", diff)
	}
	if game.Outcome().String() != "0-1" {
		t.Errorf("reference outcome = %v, want 0-1", game.Outcome())
	}

	snap, history := s.State()
	pgn, err := PGN(history, snap.Status)
	if err != nil {
		t.Fatal(err)
	}
	want := "[Event \"Personal Chess\"]\n[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1"
	if diff := cmp.Diff(want, pgn); diff != "" {
		t.Errorf("PGN (-want +got):\n%s", diff)
	}
}

func TestPGNResultFollowsEngineStatus(t *testing.T) {
	tests := []struct {
		status engine.Status
		want   string
	}{
		{engine.InProgress, "*"},
		{engine.Check, "*"},
		{engine.WhiteWon, "1-0"},
		{engine.BlackWon, "0-1"},
		{engine.Stalemate, "1/2-1/2"},
		{engine.Draw, "1/2-1/2"},
	}
	s := play(t, "e2e4", "e7e5")
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			pgn, err := PGN(s.History(), tt.status)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasSuffix(pgn, "1. e4 e5 "+tt.want) {
				t.Errorf("PGN = %q, want result %q", pgn, tt.want)
			}
			if !strings.Contains(pgn, "[Result \""+tt.want+"\"]") {
				t.Errorf("PGN tags = %q, want Result %q", pgn, tt.want)
			}
		})
	}
}

func TestReplayRejectsUnpromotedPawn(t *testing.T) {
	history := []engine.Played{{
		Move:  engine.Move{From: engine.NewPosition(6, 0), To: engine.NewPosition(7, 0)},
		Piece: engine.NewPiece(engine.Pawn, engine.White),
	}}
	if _, _, err := Replay(history); !errors.Is(err, ErrNotRepresentable) {
		t.Errorf("err = %v, want ErrNotRepresentable", err)
	}
}

func TestReplayKeepsSANBeforeFailingPly(t *testing.T) {
	history := play(t, "e2e4", "e7e5").History()
	history = append(history, engine.Played{
		Move:  engine.Move{From: engine.NewPosition(6, 0), To: engine.NewPosition(7, 0)},
		Piece: engine.NewPiece(engine.Pawn, engine.White),
	})
	_, sans, err := Replay(history)
	if !errors.Is(err, ErrNotRepresentable) {
		t.Fatalf("err = %v, want ErrNotRepresentable", err)
	}
	if diff := cmp.Diff([]string{"e4", "e5"}, sans); diff != "" {
		t.Errorf("SAN (-want +got):\n%s", diff)
	}
}

func TestBoardMatchesEngineLayout(t *testing.T) {
	s := play(t, "e2e4", "d7d5", "e4d5")
	snap := s.Snapshot()
	board := Board(snap)
	if got, want := board.String(), "rnbqkbnr/ppp1pppp/8/3P4/8/8/PPPP1PPP/RNBQKBNR"; got != want {
		t.Errorf("board = %q, want %q", got, want)
	}
	sq := board.SquareMap()
	for _, name := range []string{"d5", "e1", "h8"} {
		pos, err := ParseSquare(name)
		if err != nil {
			t.Fatal(err)
		}
		want := snap.Squares[pos.Rank][pos.File]
		got := sq[square(pos)]
		if got.Type() != pieceTypes[want.Kind] || got.Color() != pieceColor(want.Color) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}
