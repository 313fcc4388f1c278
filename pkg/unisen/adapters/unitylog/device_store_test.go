// Tests for the device store (metadata sections stamped onto reports).
package unitylog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeviceStoreUpdate verifies sections are created on demand.
func TestDeviceStoreUpdate(t *testing.T) {
	store := NewDeviceStore()

	store.Update("device", func(values map[string]any) {
		values["model"] = "Pixel 8"
		values["osVersion"] = "14"
	})

	values, ok := store.Get("device")
	require.True(t, ok, "section should exist after Update")
	assert.Equal(t, "Pixel 8", values["model"])
	assert.Equal(t, "14", values["osVersion"])
}

// TestDeviceStoreUpdateMerges verifies repeated updates touch the same section.
func TestDeviceStoreUpdateMerges(t *testing.T) {
	store := NewDeviceStore()

	store.Update("app", func(values map[string]any) {
		values["scene"] = "MainMenu"
	})
	store.Update("app", func(values map[string]any) {
		values["scene"] = "Level1"
		values["fps"] = 60
	})

	values, ok := store.Get("app")
	require.True(t, ok)
	assert.Equal(t, "Level1", values["scene"], "later updates should overwrite")
	assert.Equal(t, 60, values["fps"])
}

// TestDeviceStoreGetMissing verifies the not-found contract.
func TestDeviceStoreGetMissing(t *testing.T) {
	store := NewDeviceStore()

	values, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, values)
}

// TestDeviceStoreGetReturnsCopy verifies callers cannot mutate stored state.
func TestDeviceStoreGetReturnsCopy(t *testing.T) {
	store := NewDeviceStore()
	store.Update("device", func(values map[string]any) {
		values["model"] = "Pixel 8"
	})

	values, ok := store.Get("device")
	require.True(t, ok)
	values["model"] = "tampered"

	fresh, ok := store.Get("device")
	require.True(t, ok)
	assert.Equal(t, "Pixel 8", fresh["model"], "stored section should be unaffected")
}

// TestDeviceStoreSnapshot verifies all sections are copied out.
func TestDeviceStoreSnapshot(t *testing.T) {
	store := NewDeviceStore()
	store.Update("device", func(values map[string]any) {
		values["model"] = "Pixel 8"
	})
	store.Update("app", func(values map[string]any) {
		values["scene"] = "MainMenu"
	})

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)

	device, ok := snapshot["device"].(map[string]any)
	require.True(t, ok, "sections should be map[string]any")
	assert.Equal(t, "Pixel 8", device["model"])

	// Mutating the snapshot must not leak back into the store
	device["model"] = "tampered"
	fresh, _ := store.Get("device")
	assert.Equal(t, "Pixel 8", fresh["model"])
}

// TestDeviceStoreSnapshotEmpty verifies the empty store yields nil.
func TestDeviceStoreSnapshotEmpty(t *testing.T) {
	store := NewDeviceStore()
	assert.Nil(t, store.Snapshot(), "empty store should snapshot to nil")
}

// TestDeviceStoreDelete verifies section removal.
func TestDeviceStoreDelete(t *testing.T) {
	store := NewDeviceStore()
	store.Update("device", func(values map[string]any) {
		values["model"] = "Pixel 8"
	})

	store.Delete("device")

	_, ok := store.Get("device")
	assert.False(t, ok, "deleted section should be gone")
}

// TestDeviceStoreConcurrentAccess verifies thread safety under mixed load.
func TestDeviceStoreConcurrentAccess(t *testing.T) {
	store := NewDeviceStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n)
			store.Update("shared", func(values map[string]any) {
				values[key] = n
			})
			store.Get("shared")
			store.Snapshot()
		}(i)
	}
	wg.Wait()

	values, ok := store.Get("shared")
	require.True(t, ok)
	assert.Len(t, values, 50, "every goroutine's key should land")
}
