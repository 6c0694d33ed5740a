package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lava/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		RNGSeed:   42,
		Width:     960,
		Height:    640,
		Tick:      1000,
		LowColor:  "#ff3300",
		HighColor: "#ffdd00",
		Particles: []components.Particle{
			{X: 150, Y: 250, VX: 0.5, VY: -0.3, Heat: 0.75},
			{X: 10, Y: 600, Heat: 0},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkHeatSurge,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != snapshot.RNGSeed || loaded.Tick != snapshot.Tick {
		t.Errorf("header mismatch: got seed %d tick %d", loaded.RNGSeed, loaded.Tick)
	}
	if loaded.Width != 960 || loaded.Height != 640 {
		t.Errorf("viewport mismatch: got %vx%v", loaded.Width, loaded.Height)
	}
	if len(loaded.Particles) != len(snapshot.Particles) {
		t.Fatalf("particle count mismatch: got %d, want %d", len(loaded.Particles), len(snapshot.Particles))
	}
	for i := range snapshot.Particles {
		if loaded.Particles[i] != snapshot.Particles[i] {
			t.Errorf("particle %d mismatch: got %+v, want %+v", i, loaded.Particles[i], snapshot.Particles[i])
		}
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkHeatSurge {
		t.Errorf("bookmark not restored: %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	withBookmark := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkHeatCollapse, Tick: 5000},
	}
	path, err := SaveSnapshot(withBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_heat_collapse.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	plain := &Snapshot{Version: SnapshotVersion, Tick: 3000}
	path, err = SaveSnapshot(plain, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_3000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
	}{
		{name: "wrong version", snapshot: Snapshot{Version: 99, Width: 10, Height: 10}},
		{name: "empty viewport", snapshot: Snapshot{Version: SnapshotVersion}},
		{name: "bad heat", snapshot: Snapshot{
			Version: SnapshotVersion, Width: 10, Height: 10,
			Particles: []components.Particle{{Heat: 1.5}},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, err := SaveSnapshot(&tc.snapshot, t.TempDir())
			if err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if _, err := LoadSnapshot(path); err == nil {
				t.Error("expected LoadSnapshot to fail")
			}
		})
	}
}
