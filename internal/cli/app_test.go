package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/config"
)

func runApp(t *testing.T, cfg config.Config, input string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(Options{
		Config: &cfg,
		In:     NewBasicLineReader(strings.NewReader(input), io.Discard),
		Out:    &out,
		Err:    &errOut,
	})
	return code, out.String(), errOut.String()
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Defaults()
	cfg.Color = "never"
	cfg.Store = filepath.Join(t.TempDir(), "todos.txt")
	return cfg
}

func TestRunPersistsAcrossSessions(t *testing.T) {
	cfg := testConfig(t)

	code, out, _ := runApp(t, cfg, script("1", "Buy milk", "Errand", "2025-01-10", "9"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No saved todos found")
	assert.Contains(t, out, "saved 1 todos")

	b, err := os.ReadFile(cfg.Store)
	require.NoError(t, err)
	assert.Equal(t, "1,Buy milk,Errand,2025-01-10,false\n", string(b))

	code, out, _ = runApp(t, cfg, script("3", "1", "1", "Call mom", "Family", "2025-01-12", "9"))
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "No saved todos found")

	b, err = os.ReadFile(cfg.Store)
	require.NoError(t, err)
	assert.Equal(t, "1,Buy milk,Errand,2025-01-10,true\n2,Call mom,Family,2025-01-12,false\n", string(b))
}

func TestRunSkipsMalformedLines(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Store,
		[]byte("1,Buy milk,Errand,2025-01-10,false\nbroken line\nx,a,b,2025-01-10,false\n"), 0o644))

	t.Run("quiet by default", func(t *testing.T) {
		code, out, errOut := runApp(t, cfg, script("2", "9"))
		require.Equal(t, 0, code)
		assert.Contains(t, out, "Task: Buy milk")
		assert.Empty(t, errOut)
	})

	t.Run("verbose logs them", func(t *testing.T) {
		require.NoError(t, os.WriteFile(cfg.Store, []byte("1,a,b,2025-01-10,false\nbroken line\n"), 0o644))
		cfg := cfg
		cfg.Verbose = true
		code, _, errOut := runApp(t, cfg, script("9"))
		require.Equal(t, 0, code)
		assert.Contains(t, errOut, "dropped stored line")
		assert.Contains(t, errOut, "line=2")
	})
}

func TestRunSaveFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = filepath.Join(t.TempDir(), "no-such-dir", "todos.txt")

	code, _, errOut := runApp(t, cfg, script("1", "a", "b", "2025-01-10", "9"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "save:")
}

func TestRunNonNumericIDNeverMatchesStoredRecord(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Store,
		[]byte("-1,Sentinel,X,2025-01-10,false\n2,Keep,Y,2025-01-10,false\n"), 0o644))

	code, out, _ := runApp(t, cfg, script("5", "abc", "9"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Todo not found.")

	b, err := os.ReadFile(cfg.Store)
	require.NoError(t, err)
	assert.Equal(t, "2,Keep,Y,2025-01-10,false\n", string(b))
}
