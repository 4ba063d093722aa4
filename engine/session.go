package engine

import (
	"log/slog"
	"sync"
)

var log = slog.Default().With("package", "engine")

// Snapshot is the externally visible state of a game. Squares is row-major by
// rank; empty cells are nil.
type Snapshot struct {
	Squares       [Size][Size]*Piece `json:"squares"`
	CurrentPlayer Color              `json:"currentPlayer"`
	Status        Status             `json:"gameState"`
}

// Played is one accepted move together with what it moved and captured.
type Played struct {
	Move
	Piece    Piece  `json:"piece"`
	Captured *Piece `json:"captured,omitempty"`
}

// Session serialises access to one Board and records its accepted moves.
// All methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	board   *Board
	history []Played
}

func NewSession() *Session {
	return &Session{board: NewBoard()}
}

// NewSessionFromBoard wraps an existing board. The caller must not use b
// afterwards.
func NewSessionFromBoard(b *Board) *Session {
	return &Session{board: b}
}

// Move attempts from->to and returns the resulting snapshot. Rejected moves
// leave the board and the history unchanged.
func (s *Session) Move(from, to Position) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	piece, _ := s.board.PieceAt(from)
	target, occupied := s.board.PieceAt(to)
	if !s.board.AttemptMove(from, to) {
		log.Debug("move rejected", "from", from, "to", to, "status", s.board.Status())
		return s.snapshot(), false
	}

	rec := Played{Move: Move{From: from, To: to}, Piece: piece}
	if occupied {
		rec.Captured = &target
	}
	s.history = append(s.history, rec)
	log.Debug("move accepted", "from", from, "to", to, "piece", piece.Kind, "status", s.board.Status())
	return s.snapshot(), true
}

// Reset restores the starting layout and clears the history.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Reset()
	s.history = nil
	return s.snapshot()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// History returns a copy of the accepted moves in play order.
func (s *Session) History() []Played {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Played(nil), s.history...)
}

// State returns the snapshot together with the history that produced it.
func (s *Session) State() (Snapshot, []Played) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), append([]Played(nil), s.history...)
}

// LegalDestinations lists where the piece on from may go this turn.
func (s *Session) LegalDestinations(from Position) []Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.LegalDestinations(from)
}

func (s *Session) snapshot() Snapshot {
	return SnapshotOf(s.board)
}

// SnapshotOf captures the current state of b.
func SnapshotOf(b *Board) Snapshot {
	snap := Snapshot{CurrentPlayer: b.current, Status: b.status}
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if p := b.grid[r][f]; !p.Empty() {
				snap.Squares[r][f] = &p
			}
		}
	}
	return snap
}

// Grid rebuilds the cell array described by the snapshot.
func (s Snapshot) Grid() Grid {
	var g Grid
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if p := s.Squares[r][f]; p != nil {
				g[r][f] = *p
			}
		}
	}
	return g
}
