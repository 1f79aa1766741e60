package textstore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestLoadMissingFile(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "todos.txt")}

	c, rep, err := s.Load()
	require.NoError(t, err)
	assert.True(t, rep.Missing)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, c.NextID())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "todos.txt")}

	c := model.NewCollection().
		Add("Team meeting", "Work", day(t, "2025-01-10")).
		Add("Buy milk", "Errand", day(t, "2025-01-11")).
		Add("", "", day(t, "2025-12-31")).
		Complete(2)

	require.NoError(t, s.Save(c))

	got, rep, err := s.Load()
	require.NoError(t, err)
	assert.False(t, rep.Missing)
	assert.Empty(t, rep.Dropped)
	assert.Equal(t, c.Todos(), got.Todos())
	assert.Equal(t, c, got)
}

func TestSaveWritesFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.txt")
	s := &Store{Path: path}

	c := model.NewCollection().
		Add("Buy milk", "Errand", day(t, "2025-01-10")).
		Add("Team meeting", "Work", day(t, "2025-02-03")).
		Complete(1)
	require.NoError(t, s.Save(c))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Buy milk,Errand,2025-01-10,true\n2,Team meeting,Work,2025-02-03,false\n", string(b))
}

func TestSaveTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.txt")
	s := &Store{Path: path}

	c := model.NewCollection().
		Add("a", "x", day(t, "2025-01-10")).
		Add("b", "x", day(t, "2025-01-10"))
	require.NoError(t, s.Save(c))
	require.NoError(t, s.Save(c.Delete(1)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2,b,x,2025-01-10,false\n", string(b))

	// no temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "todos.txt", entries[0].Name())
}

func TestSaveUnwritablePath(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "missing-dir", "todos.txt")}
	err := s.Save(model.NewCollection().Add("a", "x", day(t, "2025-01-10")))
	require.Error(t, err)
}

func TestDecodeTolerant(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIDs   []int
		wantLines []int
	}{
		{
			name:      "four fields dropped",
			input:     "1,Buy milk,Errand,2025-01-10,false\n2,Shopping,2025-01-11,false\n",
			wantIDs:   []int{1},
			wantLines: []int{2},
		},
		{
			name:      "non numeric id dropped",
			input:     "x,Bad,Work,2025-01-10,false\n2,Good,Work,2025-01-10,true\n3,Also good,Home,2025-01-12,false\n",
			wantIDs:   []int{2, 3},
			wantLines: []int{1},
		},
		{
			name:      "bad date and bad bool dropped",
			input:     "1,a,b,2025/01/10,false\n2,a,b,2025-01-10,yes\n3,a,b,2025-01-10,TRUE\n4,a,b,2025-01-10,true\n",
			wantIDs:   []int{4},
			wantLines: []int{1, 2, 3},
		},
		{
			name:      "comma inside task splits the line",
			input:     "1,Milk, eggs,Errand,2025-01-10,false\n",
			wantIDs:   nil,
			wantLines: []int{1},
		},
		{
			name:      "blank and windows line endings",
			input:     "1,a,b,2025-01-10,false\r\n\r\n2,c,d,2025-01-11,true\r\n",
			wantIDs:   []int{1, 2},
			wantLines: []int{2},
		},
		{
			name:      "zero and negative ids dropped",
			input:     "0,a,b,2025-01-10,false\n-1,a,b,2025-01-10,false\n2,a,b,2025-01-10,false\n",
			wantIDs:   []int{2},
			wantLines: []int{1, 2},
		},
		{
			name:      "later duplicate ids dropped",
			input:     "1,first,b,2025-01-10,false\n2,c,d,2025-01-10,false\n1,second,b,2025-01-10,true\n",
			wantIDs:   []int{1, 2},
			wantLines: []int{3},
		},
		{
			name:    "last line without newline",
			input:   "1,a,b,2025-01-10,false\n2,c,d,2025-01-11,true",
			wantIDs: []int{1, 2},
		},
		{
			name:  "empty file",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, dropped, err := Decode(strings.NewReader(tt.input))
			require.NoError(t, err)

			var gotIDs []int
			for _, td := range todos {
				gotIDs = append(gotIDs, td.ID)
			}
			var gotLines []int
			for _, d := range dropped {
				gotLines = append(gotLines, d.Line)
				assert.NotEmpty(t, d.Reason)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
			assert.Equal(t, tt.wantLines, gotLines)
		})
	}
}

func TestDecodeReasons(t *testing.T) {
	_, dropped, err := Decode(strings.NewReader("-1,a,b,2025-01-10,false\n3,a,b,2025-01-10,false\n3,x,y,2025-01-10,false\n"))
	require.NoError(t, err)
	require.Len(t, dropped, 2)
	assert.Contains(t, dropped[0].Reason, "positive")
	assert.Equal(t, Dropped{Line: 3, Text: "3,x,y,2025-01-10,false", Reason: "duplicate id"}, dropped[1])
}

func TestSaveLoadVeryLongTask(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "todos.txt")}
	long := strings.Repeat("x", 2<<20)

	c := model.NewCollection().
		Add(long, "Huge", day(t, "2025-01-10")).
		Add("Buy milk", "Errand", day(t, "2025-01-11"))
	require.NoError(t, s.Save(c))

	got, rep, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, rep.Dropped)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, c.Todos(), got.Todos())
}

func TestLoadReportsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,a,b,2025-01-10,false\n7,broken\n"), 0o644))

	c, rep, err := (&Store{Path: path}).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	require.Len(t, rep.Dropped, 1)
	assert.Equal(t, Dropped{Line: 2, Text: "7,broken", Reason: "want 5 fields, got 2"}, rep.Dropped[0])
	// dropped ids do not count toward the next id
	assert.Equal(t, 2, c.NextID())
}

func TestEncodeDecode(t *testing.T) {
	todos := []model.Todo{
		{ID: 3, Task: "Ship it", Category: "Work", Deadline: day(t, "2024-02-29"), Completed: true},
		{ID: 10, Task: "Rest", Category: "Home", Deadline: day(t, "2024-03-01")},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, todos))

	got, dropped, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, todos, got)
}

func TestNewDefaultsToWorkingDir(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, filepath.Base(s.Path))
	assert.True(t, filepath.IsAbs(s.Path))

	s, err = New("custom.txt")
	require.NoError(t, err)
	assert.Equal(t, "custom.txt", s.Path)
}
