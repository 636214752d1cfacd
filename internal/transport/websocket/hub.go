package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

// Hub tracks which connections entered which area and fans area changes out
// to them. It is registered as a listener on every area.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	areas map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "websocket_hub"),
		areas:  make(map[string]map[*client]struct{}),
	}
}

func (that *Hub) join(c *client, areaID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.areas[areaID] == nil {
		that.areas[areaID] = make(map[*client]struct{})
	}
	that.areas[areaID][c] = struct{}{}
}

func (that *Hub) leave(c *client, areaID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	clients, ok := that.areas[areaID]
	if !ok {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(that.areas, areaID)
	}
}

// seated reports whether a connection other than except is in the area as playerID.
func (that *Hub) seated(areaID, playerID string, except *client) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.areas[areaID] {
		if c == except {
			continue
		}
		if id, _ := c.session(); id == playerID {
			return true
		}
	}

	return false
}

// Clients returns how many connections are in the area.
func (that *Hub) Clients(areaID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.areas[areaID])
}

// AreaChanged queues the snapshot on every connection in the area.
// Connections that cannot keep up are closed.
func (that *Hub) AreaChanged(_ context.Context, snapshot service.AreaSnapshot) {
	log := that.logger.With("method", "AreaChanged", "areaID", snapshot.AreaID)

	data, err := encode(ActionAreaChanged, snapshot)
	if err != nil {
		log.Error("failed to encode area snapshot", "error", err)
		return
	}

	that.mu.RLock()
	var slow []*client
	for c := range that.areas[snapshot.AreaID] {
		if !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	that.mu.RUnlock()

	for _, c := range slow {
		log.Warn("dropping slow connection")
		that.leave(c, snapshot.AreaID)
		c.close()
	}
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: raw})
}
