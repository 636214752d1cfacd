package service

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-area/internal/apperror"
)

var ErrAreaIDRequired = fmt.Errorf("%w: area id is required", apperror.ErrInvalidCommand)

// AreaRegistry owns the game areas of the process, one per area ID.
// Areas are independent; the registry only guards the map.
type AreaRegistry struct {
	logger     *slog.Logger
	areaLogger *slog.Logger
	listeners  []Listener
	opts       []AreaOption

	mu    sync.RWMutex
	areas map[string]*GameArea
}

// NewAreaRegistry creates a registry whose areas all get the given listeners.
func NewAreaRegistry(logger *slog.Logger, listeners []Listener, opts ...AreaOption) *AreaRegistry {
	return &AreaRegistry{
		logger:     logger.With("component", "area_registry"),
		areaLogger: logger,
		listeners:  listeners,
		opts:       opts,
		areas:      make(map[string]*GameArea),
	}
}

func (that *AreaRegistry) GetOrCreate(id string) (*GameArea, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrAreaIDRequired
	}

	that.mu.RLock()
	area, ok := that.areas[id]
	that.mu.RUnlock()

	if ok {
		return area, nil
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if area, ok = that.areas[id]; ok {
		return area, nil
	}

	area = NewGameArea(that.areaLogger, id, that.opts...)
	for _, listener := range that.listeners {
		area.Register(listener)
	}

	that.areas[id] = area
	that.logger.Info("area created", "areaID", id)

	return area, nil
}

func (that *AreaRegistry) Get(id string) (*GameArea, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	area, ok := that.areas[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("area %q: %w", id, apperror.ErrNotFound)
	}

	return area, nil
}

// IDs returns the known area IDs in sorted order.
func (that *AreaRegistry) IDs() []string {
	that.mu.RLock()
	ids := make([]string, 0, len(that.areas))
	for id := range that.areas {
		ids = append(ids, id)
	}
	that.mu.RUnlock()

	slices.Sort(ids)

	return ids
}
