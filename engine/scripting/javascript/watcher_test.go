package javascript

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWritesToTargetOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "game.js")
	other := filepath.Join(dir, "other.js")
	require.NoError(t, os.WriteFile(target, []byte("// v1"), 0o644))

	w, err := NewWatcher(target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(other, []byte("// noise"), 0o644))
	select {
	case <-w.Changes():
		t.Fatal("change reported for another file")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(target, []byte("// v2"), 0o644))
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for target")
	}

	require.NoError(t, w.Close())
	require.Error(t, w.Close())
}
