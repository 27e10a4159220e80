package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

func testConfig() *engine.GameConfig {
	config, err := engine.BuiltinConfig(engine.Easy)
	if err != nil {
		panic(err)
	}
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	sess, err := manager.Create("abcd", testConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if sess.ID != "abcd" {
		t.Errorf("Expected session ID 'abcd', got '%s'", sess.ID)
	}
	if sess.Engine == nil {
		t.Error("Expected session to have an engine")
	}
	if sess.Engine.GetState().Phase != engine.PhaseIdle {
		t.Errorf("Expected a fresh engine in idle phase, got %s", sess.Engine.GetState().Phase)
	}
	if sess.CreatedAt.IsZero() || sess.LastAccessedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestManager_Create_GeneratedID(t *testing.T) {
	manager := NewManager()

	sess, err := manager.Create("", testConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if len(sess.ID) != 4 {
		t.Errorf("Expected 4-character generated ID, got '%s'", sess.ID)
	}
}

func TestManager_Create_Duplicate(t *testing.T) {
	manager := NewManager()

	if _, err := manager.Create("abcd", testConfig()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	_, err := manager.Create("abcd", testConfig())
	if !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
	}

	// Case-insensitive collision
	_, err = manager.Create("ABCD", testConfig())
	if !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("Expected case-insensitive collision, got %v", err)
	}
}

func TestManager_Create_InvalidConfig(t *testing.T) {
	manager := NewManager()

	bad := testConfig()
	bad.GridSize = 99
	if _, err := manager.Create("abcd", bad); err == nil {
		t.Error("Expected error for invalid config")
	}
	if manager.Count() != 0 {
		t.Error("Expected no session stored after failed create")
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	manager.Create("abcd", testConfig())

	sess, err := manager.Get("abcd")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if sess.ID != "abcd" {
		t.Errorf("Expected session ID 'abcd', got '%s'", sess.ID)
	}

	// Case-insensitive lookup
	sess, err = manager.Get("ABCD")
	if err != nil {
		t.Fatalf("Failed case-insensitive get: %v", err)
	}
	if sess.ID != "abcd" {
		t.Errorf("Expected the same session, got '%s'", sess.ID)
	}

	_, err = manager.Get("zzzz")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()

	first, err := manager.GetOrCreate("abcd", testConfig())
	if err != nil {
		t.Fatalf("Failed to get-or-create: %v", err)
	}

	second, err := manager.GetOrCreate("abcd", testConfig())
	if err != nil {
		t.Fatalf("Failed to get-or-create existing: %v", err)
	}
	if first != second {
		t.Error("Expected the same session instance on second call")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected exactly one session, got %d", manager.Count())
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()

	if len(manager.List()) != 0 {
		t.Error("Expected empty list for a fresh manager")
	}

	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("s%03d", i), testConfig()); err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("abcd", testConfig())

	if err := manager.Delete("ABCD"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if manager.Count() != 0 {
		t.Error("Expected no sessions after delete")
	}

	if err := manager.Delete("abcd"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on double delete, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	sess, _ := manager.Create("abcd", testConfig())

	before := sess.LastAccessedAt
	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("abcd"); err != nil {
		t.Fatalf("Failed to update access time: %v", err)
	}
	if !sess.LastAccessedAt.After(before) {
		t.Error("Expected last accessed time to advance")
	}

	if err := manager.UpdateLastAccessed("zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old1", testConfig())
	manager.Create("new1", testConfig())

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("old1"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session gone")
	}
	if _, err := manager.Get("new1"); err != nil {
		t.Errorf("Expected fresh session kept: %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%03d", n)
			if _, err := manager.Create(id, testConfig()); err != nil {
				t.Errorf("Concurrent create failed: %v", err)
				return
			}
			if _, err := manager.Get(id); err != nil {
				t.Errorf("Concurrent get failed: %v", err)
			}
			manager.UpdateLastAccessed(id)
		}(i)
	}

	wg.Wait()
	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	a, _ := manager.Create("aaaa", testConfig())
	b, _ := manager.Create("bbbb", testConfig())

	a.Engine.Initialize()
	a.Engine.Tick()

	if b.Engine.GetState().Phase != engine.PhaseIdle {
		t.Error("Expected sessions to have independent engines")
	}
	if b.Engine.GetElapsed() != 0 {
		t.Error("Expected tick on one session not to touch another")
	}
}

func TestManager_GeneratedIDsUnique(t *testing.T) {
	manager := NewManager()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		sess, err := manager.Create("", testConfig())
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		if seen[sess.ID] {
			t.Fatalf("Duplicate generated ID: %s", sess.ID)
		}
		seen[sess.ID] = true
	}
}
