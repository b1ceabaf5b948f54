package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// before InitLogger everything is discarded
	early := NewLogger("early")
	assert.NotPanics(t, func() {
		early.Info("nobody hears this")
		early.Errorw("nor this", "k", "v")
	})

	dir := t.TempDir()
	var console bytes.Buffer
	InitLogger(true, dir, &console)

	l := NewLogger("api client")
	l.Info("sending", "hello")
	l.Warn("careful")
	l.Errorw("request failed", "status", 502)
	Close()

	out := console.String()
	assert.Contains(t, out, "[green]DEBUG (api client): sending hello[-]")
	assert.Contains(t, out, "[yellow]DEBUG (api client): careful[-]")
	assert.Contains(t, out, "[red]DEBUG (api client): request failed status=502[-]")

	files, err := filepath.Glob(filepath.Join(dir, "loanchat_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tag":"api client"`)
	assert.Contains(t, string(data), `"status":502`)
}

func TestTypesToString(t *testing.T) {
	assert.Equal(t, "INFO", Info.toString())
	assert.Equal(t, "ERROR", Error.toString())
	assert.Equal(t, "WARN", Warn.toString())
	assert.Equal(t, "FATAL", Fatal.toString())
	assert.Equal(t, "UNKNOWN", Types(42).toString())
}
