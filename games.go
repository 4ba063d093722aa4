package main

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/walterschell/personal-chess/engine"
)

var errGameNotFound = errors.New("game not found")

// defaultGameKey names the single game served by the unscoped routes.
const defaultGameKey = "default"

// gameRegistry holds one engine.Session per game. Sessions serialise their
// own moves; the registry lock only guards the map.
type gameRegistry struct {
	mu    sync.RWMutex
	games map[string]*engine.Session
}

func newGameRegistry() *gameRegistry {
	return &gameRegistry{
		games: map[string]*engine.Session{defaultGameKey: engine.NewSession()},
	}
}

// create starts a new game and returns its id.
func (g *gameRegistry) create() (string, *engine.Session) {
	id := uuid.NewString()
	s := engine.NewSession()
	g.mu.Lock()
	g.games[id] = s
	g.mu.Unlock()
	return id, s
}

// get looks up a game. An empty id selects the default game.
func (g *gameRegistry) get(id string) (string, *engine.Session, error) {
	if id == "" {
		id = defaultGameKey
	} else if _, err := uuid.Parse(id); err != nil {
		return "", nil, errGameNotFound
	}
	g.mu.RLock()
	s, ok := g.games[id]
	g.mu.RUnlock()
	if !ok {
		return "", nil, errGameNotFound
	}
	return id, s, nil
}

func (g *gameRegistry) count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.games)
}
