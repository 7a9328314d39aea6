package livequery

import "sync"

type listener struct {
	dirty chan struct{}
}

// Hub fans table change signals out to the live queries watching them.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]map[*listener]struct{}
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string]map[*listener]struct{}),
	}
}

// Publish marks every listener of table dirty. It never blocks: a listener
// that already has a pending signal absorbs the new one.
func (h *Hub) Publish(table string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for l := range h.listeners[table] {
		select {
		case l.dirty <- struct{}{}:
		default:
		}
	}
}

// Listeners returns how many live queries watch table.
func (h *Hub) Listeners(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[table])
}

func (h *Hub) register(tables []string) *listener {
	l := &listener{dirty: make(chan struct{}, 1)}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, table := range tables {
		set, ok := h.listeners[table]
		if !ok {
			set = make(map[*listener]struct{})
			h.listeners[table] = set
		}
		set[l] = struct{}{}
	}
	return l
}

func (h *Hub) unregister(l *listener, tables []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, table := range tables {
		set := h.listeners[table]
		delete(set, l)
		if len(set) == 0 {
			delete(h.listeners, table)
		}
	}
}
