package notation

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"

	"github.com/walterschell/personal-chess/engine"
)

// Replay plays history from the standard starting position into a
// corentings/chess game, returning the game and the SAN of every move. When a
// ply cannot be replayed the SAN of the plies before it is returned with the
// error.
func Replay(history []engine.Played) (*chess.Game, []string, error) {
	game := chess.NewGame()
	game.AddTagPair("Event", eventName)
	sans := make([]string, 0, len(history))
	for i, played := range history {
		if played.Piece.Kind == engine.Pawn && (played.To.Rank == 0 || played.To.Rank == engine.Size-1) {
			return nil, sans, fmt.Errorf("%w: ply %d leaves a pawn on the back rank", ErrNotRepresentable, i+1)
		}
		uci, err := UCI(played.Move)
		if err != nil {
			return nil, sans, err
		}
		pos := game.Position()
		move, err := chess.UCINotation{}.Decode(pos, uci)
		if err != nil {
			return nil, sans, fmt.Errorf("ply %d %s: %w", i+1, uci, err)
		}
		san := chess.AlgebraicNotation{}.Encode(pos, move)
		if err := game.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
			return nil, sans, fmt.Errorf("%w: ply %d %s: %v", ErrNotRepresentable, i+1, san, err)
		}
		sans = append(sans, san)
	}
	return game, sans, nil
}

const eventName = "Personal Chess"

// Result maps an engine status onto a PGN result. Only terminal statuses
// carry a result; draws the engine does not model stay "*".
func Result(status engine.Status) chess.Outcome {
	switch status {
	case engine.WhiteWon:
		return chess.WhiteWon
	case engine.BlackWon:
		return chess.BlackWon
	case engine.Draw, engine.Stalemate:
		return chess.Draw
	default:
		return chess.NoOutcome
	}
}

// PGN renders history as a PGN document whose result is taken from status.
func PGN(history []engine.Played, status engine.Status) (string, error) {
	_, sans, err := Replay(history)
	if err != nil {
		return "", err
	}
	result := Result(status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[Event %q]\n[Result %q]\n\n", eventName, result)
	for i, san := range sans {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
	}
	sb.WriteString(result.String())
	return sb.String(), nil
}

// ValidateFEN parses fen with corentings/chess and returns a game rooted at
// that position.
func ValidateFEN(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse FEN %q: %w", fen, err)
	}
	return chess.NewGame(opt), nil
}
