package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/walterschell/personal-chess/engine"
)

// Client is one websocket subscriber to a game.
type Client struct {
	conn      *websocket.Conn
	game      string
	writeWait time.Duration
	writeMu   sync.Mutex
}

// defaultWriteWait bounds a single websocket write.
const defaultWriteWait = 10 * time.Second

func (c *Client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteJSON(v)
}

// hub fans game updates out to subscribed clients.
type hub struct {
	clients     map[*Client]struct{}
	clientsLock sync.RWMutex
}

func newHub() *hub {
	return &hub{clients: make(map[*Client]struct{})}
}

func (h *hub) add(c *Client) {
	h.clientsLock.Lock()
	h.clients[c] = struct{}{}
	h.clientsLock.Unlock()
}

func (h *hub) remove(c *Client) {
	h.clientsLock.Lock()
	delete(h.clients, c)
	h.clientsLock.Unlock()
	c.conn.Close()
}

func (h *hub) subscribers(game string) []*Client {
	h.clientsLock.RLock()
	defer h.clientsLock.RUnlock()
	var out []*Client
	for client := range h.clients {
		if client.game == game {
			out = append(out, client)
		}
	}
	return out
}

// broadcast writes msg to every subscriber of game. A subscriber whose write
// fails is dropped.
func (h *hub) broadcast(game string, msg any) {
	for _, client := range h.subscribers(game) {
		if err := client.writeJSON(msg); err != nil {
			log.Warn("error writing to websocket", "error", err, "remote", client.conn.RemoteAddr())
			h.remove(client)
		}
	}
}

func (h *hub) closeAll() {
	h.clientsLock.Lock()
	defer h.clientsLock.Unlock()
	for client := range h.clients {
		client.conn.Close()
		delete(h.clients, client)
	}
}

// wsMessage is both the inbound command and the outbound event format.
type wsMessage struct {
	Type    string           `json:"type"`
	From    *engine.Position `json:"from,omitempty"`
	To      *engine.Position `json:"to,omitempty"`
	Board   *engine.Snapshot `json:"board,omitempty"`
	Message string           `json:"message,omitempty"`
}

func boardEvent(snap engine.Snapshot) wsMessage {
	return wsMessage{Type: "board", Board: &snap}
}

func (app *Application) wsHandler(w http.ResponseWriter, r *http.Request) {
	key, session, err := app.games.get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	log.Info("new websocket connection", "remote", conn.RemoteAddr(), "game", key)
	client := &Client{conn: conn, game: key, writeWait: app.writeWait}
	app.hub.add(client)
	client.writeJSON(boardEvent(session.Snapshot()))

	go func() {
		defer app.hub.remove(client)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("error reading message", "error", err)
				}
				return
			}
			var msg wsMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				client.writeJSON(wsMessage{Type: "error", Message: "invalid json"})
				continue
			}
			app.handleCommand(client, key, session, msg)
		}
	}()
}

func (app *Application) handleCommand(client *Client, key string, session *engine.Session, msg wsMessage) {
	switch msg.Type {
	case "state":
		client.writeJSON(boardEvent(session.Snapshot()))
	case "move":
		if msg.From == nil || msg.To == nil {
			client.writeJSON(wsMessage{Type: "error", Message: "from and to are required"})
			return
		}
		snap, ok := session.Move(*msg.From, *msg.To)
		if !ok {
			client.writeJSON(wsMessage{Type: "error", Message: invalidMoveMessage})
			return
		}
		app.hub.broadcast(key, boardEvent(snap))
	case "reset":
		app.hub.broadcast(key, boardEvent(session.Reset()))
	default:
		client.writeJSON(wsMessage{Type: "error", Message: "unknown message type"})
	}
}
