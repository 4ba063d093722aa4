package chessanalysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

var log = slog.Default().With("package", "chessanalysis")

// ErrEngineUnavailable is returned when the UCI engine binary cannot be found
// or started.
var ErrEngineUnavailable = errors.New("chessanalysis: analysis engine unavailable")

type StockfishEngine struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Scanner
	ready     bool
	mutex     sync.Mutex
	responses chan string
}

type AnalysisResult struct {
	Score           float64
	WinProb         float64
	DrawProb        float64
	LossProb        float64
	HasWDL          bool
	BestMove        string
	BestMoveScore   float64
	BestMoveWinProb float64
}

// searchResult is what one "go" command reports.
type searchResult struct {
	score           float64
	win, draw, loss float64
	hasWDL          bool
	bestMove        string
}

// NewStockfishEngine starts the UCI engine at path and waits until it is
// ready.
func NewStockfishEngine(path string) (*StockfishEngine, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	cmd := exec.Command(resolved)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	eng := &StockfishEngine{
		cmd:       cmd,
		stdin:     stdin,
		stdout:    bufio.NewScanner(stdout),
		responses: make(chan string, 100),
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	go eng.readOutput()
	if err := eng.initialize(); err != nil {
		eng.Close()
		return nil, err
	}

	return eng, nil
}

// initialize performs the UCI handshake.
func (e *StockfishEngine) initialize() error {
	for _, cmd := range []string{
		"uci",
		"setoption name Hash value 128",
		"setoption name Threads value 4",
		"setoption name Ponder value false",
		"setoption name UCI_ShowWDL value true",
		"isready",
	} {
		if err := e.sendCommand(cmd); err != nil {
			return fmt.Errorf("engine initialization failed: %w", err)
		}
	}

	for response := range e.responses {
		if strings.Contains(response, "readyok") {
			e.ready = true
			return nil
		}
	}
	return fmt.Errorf("engine initialization failed")
}

func (e *StockfishEngine) sendCommand(cmd string) error {
	log.Debug("sending command", "command", cmd)
	e.mutex.Lock()
	defer e.mutex.Unlock()
	_, err := fmt.Fprintln(e.stdin, cmd)
	return err
}

func (e *StockfishEngine) readOutput() {
	for e.stdout.Scan() {
		response := e.stdout.Text()
		log.Debug("received response", "response", response)
		e.responses <- response
	}
	close(e.responses)
}

// search sends "position" and "go" and collects the final score, WDL and
// best move.
func (e *StockfishEngine) search(position, goCmd string) (searchResult, error) {
	var res searchResult
	if err := e.sendCommand(position); err != nil {
		return res, err
	}
	if err := e.sendCommand(goCmd); err != nil {
		return res, err
	}

	for response := range e.responses {
		if _, rest, ok := strings.Cut(response, "score cp "); ok {
			var cp float64
			fmt.Sscanf(rest, "%f", &cp)
			res.score = cp / 100
		}
		if _, rest, ok := strings.Cut(response, " wdl "); ok {
			// Permille, from the side to move's point of view.
			var win, draw, loss int
			if n, _ := fmt.Sscanf(rest, "%d %d %d", &win, &draw, &loss); n == 3 {
				res.win = float64(win) / 1000.0
				res.draw = float64(draw) / 1000.0
				res.loss = float64(loss) / 1000.0
				res.hasWDL = true
			}
		}
		if strings.HasPrefix(response, "bestmove") {
			if parts := strings.Fields(response); len(parts) >= 2 {
				res.bestMove = parts[1]
			}
			return res, nil
		}
	}
	return res, fmt.Errorf("engine exited during search")
}

// analyzeLastMove compares the last of moves with the engine's choice in the
// position before it. Scores are from the mover's point of view, in pawns.
func (e *StockfishEngine) analyzeLastMove(moves []string, depth int) (*AnalysisResult, error) {
	if !e.ready {
		return nil, fmt.Errorf("engine not ready")
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("no moves provided")
	}

	lastMove := moves[len(moves)-1]
	position := "position startpos"
	if len(moves) > 1 {
		position = fmt.Sprintf("position startpos moves %s", strings.Join(moves[:len(moves)-1], " "))
	}

	best, err := e.search(position, fmt.Sprintf("go depth %d", depth))
	if err != nil {
		return nil, err
	}
	result := &AnalysisResult{
		BestMove:        best.bestMove,
		BestMoveScore:   best.score,
		BestMoveWinProb: best.win,
		HasWDL:          best.hasWDL,
	}

	played := best
	if best.bestMove != lastMove {
		played, err = e.search(position, fmt.Sprintf("go depth %d searchmoves %s", depth, lastMove))
		if err != nil {
			return nil, err
		}
		result.HasWDL = result.HasWDL && played.hasWDL
	}
	result.Score = played.score
	result.WinProb = played.win
	result.DrawProb = played.draw
	result.LossProb = played.loss
	return result, nil
}

// Close shuts down the engine process.
func (e *StockfishEngine) Close() error {
	e.sendCommand("quit")
	return e.cmd.Wait()
}
