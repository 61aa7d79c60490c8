package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/uisync/pkg/paint"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite snapshot files instead of comparing against them.
const UpdateSnapshotsEnv = "UISYNC_UPDATE_SNAPSHOTS"

// Snapshot is a render response with generated connector ids replaced by
// stable names of the form "<tag>#<n>", numbered per tag in paint order.
// Strings anywhere in the response that equal a connector id are renamed
// too, so focus calls and similar references stay comparable.
type Snapshot struct {
	Data any
}

// CaptureSnapshot captures the latest response of the tester.
func (st *SessionTester) CaptureSnapshot() *Snapshot {
	st.t.Helper()
	snap, err := NewSnapshot(st.last)
	if err != nil {
		st.t.Fatalf("capturing snapshot: %v", err)
	}
	return snap
}

// NewSnapshot normalizes resp.
func NewSnapshot(resp *paint.Response) (*Snapshot, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	names := make(map[string]string)
	counts := make(map[string]int)
	if obj, ok := decoded.(map[string]any); ok {
		if changes, ok := obj["changes"].([]any); ok {
			for _, c := range changes {
				collectIDs(c, names, counts)
			}
		}
	}
	return &Snapshot{Data: rename(decoded, names)}, nil
}

func collectIDs(v any, names map[string]string, counts map[string]int) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	id, _ := obj["id"].(string)
	tag, _ := obj["tag"].(string)
	if _, seen := names[id]; id != "" && !seen {
		counts[tag]++
		names[id] = fmt.Sprintf("%s#%d", tag, counts[tag])
	}
	if children, ok := obj["children"].([]any); ok {
		for _, child := range children {
			collectIDs(child, names, counts)
		}
	}
}

func rename(v any, names map[string]string) any {
	switch x := v.(type) {
	case string:
		if name, ok := names[x]; ok {
			return name
		}
		return x
	case []any:
		for i := range x {
			x[i] = rename(x[i], names)
		}
		return x
	case map[string]any:
		for k, val := range x {
			x[k] = rename(val, names)
		}
		return x
	default:
		return v
	}
}

// Diff returns a human-readable diff between s and other, or "" when equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other.Data, s.Data)
}

// MatchesFile compares the snapshot with the one stored at path. With
// UISYNC_UPDATE_SNAPSHOTS=1 the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got)\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes the snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Snapshot{Data: decoded}, nil
}
