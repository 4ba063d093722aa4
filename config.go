package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultPort = 8080

type Config struct {
	Port            uint
	CORSOrigins     []string
	StockfishPath   string
	AnalysisDepth   int
	LogFormat       string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

// parseConfig reads flags from args, falling back to CHESS_* environment
// variables for anything not given on the command line.
func parseConfig(args []string, output io.Writer) (Config, error) {
	var (
		cfg     Config
		origins string
		level   string
	)
	fs := flag.NewFlagSet("personal-chess", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.UintVar(&cfg.Port, "port", uint(getenvInt("CHESS_PORT", DefaultPort)), "Port to listen on")
	fs.StringVar(&origins, "cors-origins", getenv("CHESS_CORS_ORIGINS", "http://localhost:4200"), "comma-separated origins allowed to call the API")
	fs.StringVar(&cfg.StockfishPath, "stockfish", getenv("CHESS_STOCKFISH", "stockfish"), "UCI engine used for move analysis")
	fs.IntVar(&cfg.AnalysisDepth, "analysis-depth", getenvInt("CHESS_ANALYSIS_DEPTH", 2), "search depth for move analysis")
	fs.StringVar(&cfg.LogFormat, "log-format", getenv("CHESS_LOG_FORMAT", "text"), "log format: text or json")
	fs.StringVar(&level, "log-level", getenv("CHESS_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getenvDuration("CHESS_SHUTDOWN_TIMEOUT", 5*time.Second), "graceful shutdown limit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port number %d", cfg.Port)
	}
	if cfg.AnalysisDepth < 1 {
		return Config{}, fmt.Errorf("invalid analysis depth %d", cfg.AnalysisDepth)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg, nil
}

// newLogger builds the process-wide slog handler.
func (cfg Config) newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}
