package engine

import "fmt"

// Status is the game phase. Check is a non-terminal sub-state of InProgress.
type Status uint8

const (
	NotStarted Status = iota
	InProgress
	Check
	WhiteWon
	BlackWon
	Draw
	Stalemate
)

var statusNames = [...]string{"NotStarted", "InProgress", "Check", "WhiteWon", "BlackWon", "Draw", "Stalemate"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Unknown"
}

// Active reports whether moves may still be attempted.
func (s Status) Active() bool {
	return s == InProgress || s == Check
}

// Terminal reports whether the game is over.
func (s Status) Terminal() bool {
	switch s {
	case WhiteWon, BlackWon, Draw, Stalemate:
		return true
	}
	return false
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("engine: unknown status %q", text)
}

// winFor is the status recording a win for c.
func winFor(c Color) Status {
	if c == White {
		return WhiteWon
	}
	return BlackWon
}
