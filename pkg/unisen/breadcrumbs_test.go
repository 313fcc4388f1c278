package unisen

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBreadcrumbTrail_LeaveAndList(t *testing.T) {
	trail := NewBreadcrumbTrail(5)

	trail.Leave(Breadcrumb{Name: "first", Type: BreadcrumbLog})
	trail.Leave(Breadcrumb{Name: "second", Type: BreadcrumbNavigation})

	crumbs := trail.List()
	if len(crumbs) != 2 {
		t.Fatalf("Expected 2 breadcrumbs, got %d", len(crumbs))
	}
	if crumbs[0].Name != "first" || crumbs[1].Name != "second" {
		t.Errorf("List() = %+v, want chronological order", crumbs)
	}
}

func TestBreadcrumbTrail_FillsTimestamp(t *testing.T) {
	trail := NewBreadcrumbTrail(5)

	before := time.Now().UTC()
	trail.Leave(Breadcrumb{Name: "stamped"})
	after := time.Now().UTC()

	crumbs := trail.List()
	ts := crumbs[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("Timestamp %v not in expected range [%v, %v]", ts, before, after)
	}
}

func TestBreadcrumbTrail_PreservesExplicitTimestamp(t *testing.T) {
	trail := NewBreadcrumbTrail(5)

	explicit := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	trail.Leave(Breadcrumb{Name: "stamped", Timestamp: explicit})

	if got := trail.List()[0].Timestamp; !got.Equal(explicit) {
		t.Errorf("Timestamp = %v, want %v", got, explicit)
	}
}

func TestBreadcrumbTrail_EvictsOldestWhenFull(t *testing.T) {
	trail := NewBreadcrumbTrail(3)

	for i := 1; i <= 5; i++ {
		trail.Leave(Breadcrumb{Name: fmt.Sprintf("crumb-%d", i)})
	}

	crumbs := trail.List()
	if len(crumbs) != 3 {
		t.Fatalf("Expected 3 breadcrumbs, got %d", len(crumbs))
	}

	want := []string{"crumb-3", "crumb-4", "crumb-5"}
	for i, name := range want {
		if crumbs[i].Name != name {
			t.Errorf("crumbs[%d].Name = %q, want %q", i, crumbs[i].Name, name)
		}
	}
}

func TestBreadcrumbTrail_DefaultCapacity(t *testing.T) {
	trail := NewBreadcrumbTrail(0)

	for i := 0; i < DefaultBreadcrumbCapacity+10; i++ {
		trail.Leave(Breadcrumb{Name: "crumb"})
	}

	if got := trail.Len(); got != DefaultBreadcrumbCapacity {
		t.Errorf("Len() = %d, want %d", got, DefaultBreadcrumbCapacity)
	}
}

func TestBreadcrumbTrail_ListReturnsCopy(t *testing.T) {
	trail := NewBreadcrumbTrail(5)
	trail.Leave(Breadcrumb{Name: "original"})

	crumbs := trail.List()
	crumbs[0].Name = "mutated"

	if trail.List()[0].Name != "original" {
		t.Error("List() must return a copy, not the internal slice")
	}
}

func TestBreadcrumbTrail_ConcurrentUse(t *testing.T) {
	trail := NewBreadcrumbTrail(10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			trail.Leave(Breadcrumb{Name: "writer"})
		}()
		go func() {
			defer wg.Done()
			_ = trail.List()
		}()
	}
	wg.Wait()

	if got := trail.Len(); got != 10 {
		t.Errorf("Len() = %d, want the full capacity 10", got)
	}
}
