package chessanalysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	chess "github.com/corentings/chess/v2"

	"github.com/walterschell/personal-chess/engine"
	"github.com/walterschell/personal-chess/notation"
)

type MoveClassification int

const (
	Neutral MoveClassification = iota
	Blunder
	Questionable
	Good
	Excellent
	Winning
)

func (c MoveClassification) String() string {
	return []string{"Neutral", "Blunder", "Questionable", "Good", "Excellent", "Winning"}[c]
}

// Chess annotation symbols for move classifications
var classificationAnnotations = map[MoveClassification]string{
	Blunder:      "??",
	Questionable: "?",
	Neutral:      "",
	Good:         "!",
	Excellent:    "!!",
	Winning:      "⩲",
}

type MoveAnalysis struct {
	Ply                          int
	MoveNumber                   int
	Color                        engine.Color
	UCI                          string
	SAN                          string
	Score                        float64
	WinningProbability           float64
	WinningProbabilityDifference float64
	Classification               MoveClassification
	IsBestMove                   bool
	BestMove                     string
	BestMoveSAN                  string
	BestMoveScore                float64
}

func (m *MoveAnalysis) String() string {
	return fmt.Sprintf("Move %d %s: %s (Score: %.2f, Classification: %s, Best: %s)",
		m.MoveNumber, m.Color, m.SAN, m.Score, m.Classification, m.BestMoveSAN)
}

type moveAnalysisJSON struct {
	Ply                          int     `json:"ply"`
	MoveNumber                   int     `json:"moveNumber"`
	Color                        string  `json:"color"`
	UCI                          string  `json:"uci"`
	SAN                          string  `json:"san"`
	Score                        float64 `json:"score"`
	WinningProbability           float64 `json:"winningProbability"`
	WinningProbabilityDifference float64 `json:"winningProbabilityDifference"`
	Classification               string  `json:"classification"`
	ClassificationSymbol         string  `json:"classificationSymbol"`
	IsBestMove                   bool    `json:"isBestMove"`
	BestMove                     string  `json:"bestMove"`
	BestMoveSAN                  string  `json:"bestMoveSAN"`
	BestMoveScore                float64 `json:"bestMoveScore"`
}

func (m *MoveAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(moveAnalysisJSON{
		Ply:                          m.Ply,
		MoveNumber:                   m.MoveNumber,
		Color:                        m.Color.String(),
		UCI:                          m.UCI,
		SAN:                          m.SAN,
		Score:                        m.Score,
		WinningProbability:           m.WinningProbability,
		WinningProbabilityDifference: m.WinningProbabilityDifference,
		Classification:               m.Classification.String(),
		ClassificationSymbol:         classificationAnnotations[m.Classification],
		IsBestMove:                   m.IsBestMove,
		BestMove:                     m.BestMove,
		BestMoveSAN:                  m.BestMoveSAN,
		BestMoveScore:                m.BestMoveScore,
	})
}

// classifyMove grades a move by how much winning probability it gave up
// against the engine's preferred move.
func classifyMove(winProb, bestWinProb float64) MoveClassification {
	diff := winProb - bestWinProb

	switch {
	case diff <= -0.2:
		return Blunder
	case diff <= -0.1:
		return Questionable
	case diff >= 0.1:
		return Excellent
	case diff >= 0.05:
		return Good
	case winProb >= 0.95:
		return Winning
	default:
		return Neutral
	}
}

// calculateWinningProbability maps a pawn score to a win probability with a
// logistic curve. Used when the engine does not report WDL.
func calculateWinningProbability(score float64) float64 {
	return 1.0 / (1.0 + math.Exp(-score))
}

type Options struct {
	Depth      int
	EnginePath string
}

var defaultOptions = Options{
	Depth:      2,
	EnginePath: "stockfish",
}

type Option func(*Options)

func WithDepth(depth int) Option {
	return func(opts *Options) {
		opts.Depth = depth
	}
}

// WithEnginePath selects the UCI engine binary.
func WithEnginePath(path string) Option {
	return func(opts *Options) {
		opts.EnginePath = path
	}
}

var ErrEmptyHistory = errors.New("chessanalysis: no moves to analyze")

// AnalyzeMovesStreaming analyzes an engine move history ply by ply, sending
// results on the first channel. The error channel receives at most one error
// and both channels are closed when analysis stops.
func AnalyzeMovesStreaming(history []engine.Played, opts ...Option) (<-chan *MoveAnalysis, <-chan error) {
	analysisOpts := defaultOptions
	for _, opt := range opts {
		opt(&analysisOpts)
	}

	results := make(chan *MoveAnalysis)
	errc := make(chan error, 1)

	if len(history) == 0 {
		errc <- ErrEmptyHistory
		close(results)
		close(errc)
		return results, errc
	}

	go func() {
		defer close(results)
		defer close(errc)

		// Validate the whole line before paying for an engine process.
		if _, _, err := notation.Replay(history); err != nil {
			errc <- err
			return
		}

		log.Info("starting engine", "path", analysisOpts.EnginePath)
		eng, err := NewStockfishEngine(analysisOpts.EnginePath)
		if err != nil {
			errc <- err
			return
		}
		defer eng.Close()

		game := chess.NewGame()
		uciMoves := make([]string, 0, len(history))
		for i, played := range history {
			pos := game.Position()
			uci, err := notation.UCI(played.Move)
			if err != nil {
				errc <- err
				return
			}
			move, err := chess.UCINotation{}.Decode(pos, uci)
			if err != nil {
				errc <- fmt.Errorf("decode ply %d %s: %w", i+1, uci, err)
				return
			}
			san := chess.AlgebraicNotation{}.Encode(pos, move)
			uciMoves = append(uciMoves, uci)

			result, err := eng.analyzeLastMove(uciMoves, analysisOpts.Depth)
			if err != nil {
				errc <- fmt.Errorf("analysis error at ply %d: %w", i+1, err)
				return
			}

			analysis := &MoveAnalysis{
				Ply:        i + 1,
				MoveNumber: i/2 + 1,
				Color:      played.Piece.Color,
				UCI:        uci,
				SAN:        san,
				BestMove:   result.BestMove,
				IsBestMove: result.BestMove == uci,
			}
			if result.BestMove != "" {
				if best, err := (chess.UCINotation{}).Decode(pos, result.BestMove); err != nil {
					log.Error("error parsing best move", "error", err, "bestMove", result.BestMove)
				} else {
					analysis.BestMoveSAN = chess.AlgebraicNotation{}.Encode(pos, best)
				}
			}
			fillScores(analysis, result)

			if err := game.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
				errc <- fmt.Errorf("replay ply %d %s: %w", i+1, san, err)
				return
			}
			results <- analysis
		}
	}()

	return results, errc
}

// fillScores copies engine scores into a, from the mover's point of view.
func fillScores(a *MoveAnalysis, r *AnalysisResult) {
	a.Score = r.Score
	a.BestMoveScore = r.BestMoveScore
	win, bestWin := r.WinProb, r.BestMoveWinProb
	if !r.HasWDL {
		win = calculateWinningProbability(r.Score)
		bestWin = calculateWinningProbability(r.BestMoveScore)
	}
	a.WinningProbability = win
	a.WinningProbabilityDifference = win - bestWin
	a.Classification = classifyMove(win, bestWin)
}

// AnalyzeMoves collects the streaming analysis into a slice.
func AnalyzeMoves(history []engine.Played, opts ...Option) ([]MoveAnalysis, error) {
	movesChan, errChan := AnalyzeMovesStreaming(history, opts...)

	results := make([]MoveAnalysis, 0, len(history))
	for move := range movesChan {
		results = append(results, *move)
	}
	if err := <-errChan; err != nil {
		return nil, err
	}

	log.Info("analysis complete", "moves", len(results))
	return results, nil
}
