package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/template"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

//go:embed assets
var assets embed.FS
var static fs.FS
var templates fs.FS

var log = slog.Default().With("package", "main")

func init() {
	static, _ = fs.Sub(assets, "assets/static")
	templates, _ = fs.Sub(assets, "assets/templates")
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

type Application struct {
	cfg       Config
	router    *mux.Router
	handler   http.Handler
	templates *template.Template
	games     *gameRegistry
	hub       *hub
	upgrader  websocket.Upgrader
	writeWait time.Duration
}

func NewApplication(cfg Config) *Application {
	templateParser := template.New("")
	templateParser.Delims("[[", "]]")
	app := &Application{
		cfg:       cfg,
		router:    mux.NewRouter(),
		templates: template.Must(templateParser.ParseFS(templates, "*.html.gotmpl")),
		games:     newGameRegistry(),
		hub:       newHub(),
		writeWait: defaultWriteWait,
	}
	app.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     app.checkOrigin,
	}

	app.router.NotFoundHandler = stdoutLogger(http.HandlerFunc(notFoundHandler))
	app.router.Use(stdoutLogger)

	app.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	app.router.HandleFunc("/", app.indexHandler).Methods(http.MethodGet)
	app.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := app.router.PathPrefix("/api/chess").Subrouter()
	api.HandleFunc("/games", app.createGameHandler).Methods(http.MethodPost)
	app.registerGameRoutes(api.PathPrefix("/games/{id}").Subrouter())
	app.registerGameRoutes(api)

	app.handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(app.router),
	)
	return app
}

// registerGameRoutes mounts the per-game endpoints on r. Mounted on the bare
// API prefix they address the default game.
func (app *Application) registerGameRoutes(r *mux.Router) {
	r.HandleFunc("/board", app.boardHandler).Methods(http.MethodGet)
	r.HandleFunc("/move", app.moveHandler).Methods(http.MethodPost)
	r.HandleFunc("/reset", app.resetHandler).Methods(http.MethodPost)
	r.HandleFunc("/moves", app.destinationsHandler).Methods(http.MethodGet)
	r.HandleFunc("/history", app.historyHandler).Methods(http.MethodGet)
	r.HandleFunc("/fen", app.fenHandler).Methods(http.MethodGet)
	r.HandleFunc("/pgn", app.pgnHandler).Methods(http.MethodGet)
	r.HandleFunc("/analysis", app.analysisHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", app.wsHandler)
}

func (app *Application) indexHandler(w http.ResponseWriter, r *http.Request) {
	templateVars := struct {
		Title string
	}{
		Title: "Personal Chess",
	}

	err := app.templates.ExecuteTemplate(w, "index.html.gotmpl", templateVars)
	if err != nil {
		log.Error("error rendering template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// checkOrigin accepts same-host websocket upgrades and the configured CORS
// origins.
func (app *Application) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	return slices.Contains(app.cfg.CORSOrigins, origin) || slices.Contains(app.cfg.CORSOrigins, "*")
}

func (app *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.handler.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

// run serves until ctx is cancelled, then drains connections for at most
// cfg.ShutdownTimeout.
func run(ctx context.Context, cfg Config) error {
	app := NewApplication(cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		app.hub.closeAll()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Println(err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.newLogger(os.Stderr))
	log = slog.Default().With("package", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
