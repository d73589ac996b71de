package domain

import "sync"

// Status labels recorded after a row action
const (
	StatusInvoiceSent  = "Invoice Sent"
	StatusWhatsAppSent = "WhatsApp Sent"
)

// StatusTracker remembers the last action taken per request id.
// It lives only as long as the view session that owns it.
type StatusTracker struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewStatusTracker creates an empty tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{entries: make(map[string]string)}
}

// Set records label for id, replacing any earlier entry
func (t *StatusTracker) Set(id, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id] = label
}

// Get returns the label recorded for id
func (t *StatusTracker) Get(id string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	label, ok := t.entries[id]
	return label, ok
}

// Snapshot returns a copy of all entries
func (t *StatusTracker) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of recorded entries
func (t *StatusTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
