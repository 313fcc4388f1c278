// device_store.go provides thread-safe storage for metadata sections that
// are attached to every outgoing crash report.

package unitylog

import "sync"

// DeviceStore provides thread-safe storage for report metadata sections.
// Implementations must be safe for concurrent use.
type DeviceStore interface {
	// Update applies fn to the named section, creating it if needed.
	// IMPORTANT: fn is called while holding the lock. fn MUST be fast and
	// MUST NOT call other DeviceStore methods (deadlock risk).
	Update(section string, fn func(values map[string]any))

	// Get returns a copy of the named section.
	// Returns nil and false if not found.
	Get(section string) (map[string]any, bool)

	// Snapshot returns a copy of all sections for stamping onto a report.
	Snapshot() map[string]any

	// Delete removes the named section.
	Delete(section string)
}

// inMemoryDeviceStore is the default DeviceStore implementation.
type inMemoryDeviceStore struct {
	mu       sync.RWMutex
	sections map[string]map[string]any
}

// NewDeviceStore creates a new in-memory device store.
func NewDeviceStore() DeviceStore {
	return &inMemoryDeviceStore{
		sections: make(map[string]map[string]any),
	}
}

// Update applies fn to the named section, creating it if needed.
func (s *inMemoryDeviceStore) Update(section string, fn func(values map[string]any)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sections[section]
	if !ok {
		values = make(map[string]any)
		s.sections[section] = values
	}
	fn(values) // Called under lock - must be fast!
}

// Get returns a copy of the named section.
func (s *inMemoryDeviceStore) Get(section string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.sections[section]
	if !ok {
		return nil, false
	}
	// Return a copy to prevent external modification
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, true
}

// Snapshot returns a copy of all sections.
func (s *inMemoryDeviceStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.sections) == 0 {
		return nil
	}
	out := make(map[string]any, len(s.sections))
	for section, values := range s.sections {
		copied := make(map[string]any, len(values))
		for k, v := range values {
			copied[k] = v
		}
		out[section] = copied
	}
	return out
}

// Delete removes the named section.
func (s *inMemoryDeviceStore) Delete(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sections, section)
}
