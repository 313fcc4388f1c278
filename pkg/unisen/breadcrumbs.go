// breadcrumbs.go keeps a bounded trail of recent application activity.

package unisen

import (
	"sync"
	"time"
)

// DefaultBreadcrumbCapacity is how many breadcrumbs a trail keeps unless
// configured otherwise.
const DefaultBreadcrumbCapacity = 25

// BreadcrumbType categorizes a breadcrumb.
type BreadcrumbType string

const (
	// BreadcrumbLog marks a console log line.
	BreadcrumbLog BreadcrumbType = "log"

	// BreadcrumbNavigation marks a scene or screen change.
	BreadcrumbNavigation BreadcrumbType = "navigation"

	// BreadcrumbState marks an application lifecycle change.
	BreadcrumbState BreadcrumbType = "state"

	// BreadcrumbError marks a previously captured report.
	BreadcrumbError BreadcrumbType = "error"

	// BreadcrumbManual marks a breadcrumb left by application code.
	BreadcrumbManual BreadcrumbType = "manual"
)

// Breadcrumb is one entry in the activity trail.
type Breadcrumb struct {
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"name"`
	Type      BreadcrumbType    `json:"type"`
	Metadata  map[string]string `json:"metaData,omitempty"`
}

// BreadcrumbTrail is a bounded ring of recent breadcrumbs, oldest evicted
// first. Safe for concurrent use.
type BreadcrumbTrail struct {
	mu       sync.RWMutex
	crumbs   []Breadcrumb
	maxSize  int
	writeIdx int
}

// NewBreadcrumbTrail returns a trail holding at most capacity breadcrumbs.
// A non-positive capacity falls back to DefaultBreadcrumbCapacity.
func NewBreadcrumbTrail(capacity int) *BreadcrumbTrail {
	if capacity <= 0 {
		capacity = DefaultBreadcrumbCapacity
	}
	return &BreadcrumbTrail{maxSize: capacity}
}

// Leave appends a breadcrumb, evicting the oldest when the trail is full.
// A zero timestamp is filled with the current time.
func (t *BreadcrumbTrail) Leave(crumb Breadcrumb) {
	if crumb.Timestamp.IsZero() {
		crumb.Timestamp = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.crumbs) < t.maxSize {
		// Trail not full yet, just append
		t.crumbs = append(t.crumbs, crumb)
		return
	}

	// Trail full, overwrite at writeIdx
	t.crumbs[t.writeIdx] = crumb
	t.writeIdx = (t.writeIdx + 1) % t.maxSize
}

// List returns breadcrumbs in chronological order (oldest first).
func (t *BreadcrumbTrail) List() []Breadcrumb {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.crumbs) == 0 {
		return []Breadcrumb{}
	}

	result := make([]Breadcrumb, len(t.crumbs))
	if len(t.crumbs) < t.maxSize {
		// Trail not full yet, already chronological
		copy(result, t.crumbs)
		return result
	}

	// Trail is full, writeIdx points to the oldest breadcrumb
	copy(result, t.crumbs[t.writeIdx:])
	copy(result[len(t.crumbs)-t.writeIdx:], t.crumbs[:t.writeIdx])
	return result
}

// Len returns the number of breadcrumbs currently held.
func (t *BreadcrumbTrail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.crumbs)
}
