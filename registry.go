package wstap

import "sync"

// connRegistry maps open WebSocket request IDs to their endpoint URLs.
// Entries are created on connection creation events and removed on close
// events. A request ID with no entry resolves to UnknownURL.
type connRegistry struct {
	mu   sync.RWMutex
	urls map[string]string
}

func newConnRegistry() *connRegistry {
	return &connRegistry{urls: make(map[string]string)}
}

func (r *connRegistry) record(requestID, url string) {
	r.mu.Lock()
	r.urls[requestID] = url
	r.mu.Unlock()
}

func (r *connRegistry) resolve(requestID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if url, ok := r.urls[requestID]; ok {
		return url
	}
	return UnknownURL
}

func (r *connRegistry) forget(requestID string) {
	r.mu.Lock()
	delete(r.urls, requestID)
	r.mu.Unlock()
}

func (r *connRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.urls)
}

func (r *connRegistry) snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.urls))
	for id, url := range r.urls {
		out[id] = url
	}
	return out
}
