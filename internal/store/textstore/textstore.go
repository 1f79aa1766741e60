package textstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/todolist/internal/model"
)

// Line-oriented text storage. Single file, one todo per line:
//
//	id,task,category,yyyy-MM-dd,true|false
//
// Fields are not escaped. A comma inside a task or category splits into
// extra fields and that line is dropped on the next load.
// No locking; fine for a local single-user CLI.

const DefaultFileName = "todos.txt"

const fieldCount = 5

// Dropped describes a stored line that Decode skipped.
type Dropped struct {
	Line   int
	Text   string
	Reason string
}

// Report tells the caller what Load found besides the todos themselves.
type Report struct {
	Missing bool // no store file yet; the collection is empty
	Dropped []Dropped
}

// Store reads and writes a collection at Path.
type Store struct {
	Path string
}

// New returns a Store for path, or for todos.txt in the working directory
// when path is empty.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &Store{Path: path}, nil
}

// Load reads the store file. A missing file is not an error: it yields an
// empty collection with Report.Missing set. Malformed lines are skipped and
// listed in Report.Dropped.
func (s *Store) Load() (model.Collection, Report, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewCollection(), Report{Missing: true}, nil
		}
		return model.Collection{}, Report{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	todos, dropped, err := Decode(f)
	if err != nil {
		return model.Collection{}, Report{}, err
	}
	return model.NewCollection(todos...), Report{Dropped: dropped}, nil
}

// Save replaces the store file with the whole collection. It writes a temp
// file next to the target and renames it over, so an interrupted save leaves
// the previous file intact.
func (s *Store) Save(c model.Collection) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, c.Todos()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Encode writes one line per todo.
func Encode(w io.Writer, todos []model.Todo) error {
	bw := bufio.NewWriter(w)
	for _, t := range todos {
		if _, err := bw.WriteString(FormatLine(t) + "\n"); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// Decode reads todos line by line. Lines that do not parse, and later lines
// repeating an id already read, are skipped and returned as dropped; only a
// read failure is an error. Line length is unbounded.
func Decode(r io.Reader) ([]model.Todo, []Dropped, error) {
	var (
		todos   []model.Todo
		dropped []Dropped
		seen    = map[int]bool{}
	)
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("read file: %w", err)
		}
		if line == "" && err != nil {
			break // EOF with nothing after the last newline
		}
		text := strings.TrimRight(line, "\r\n")
		t, perr := ParseLine(text)
		switch {
		case perr != nil:
			dropped = append(dropped, Dropped{Line: n, Text: text, Reason: perr.Error()})
		case seen[t.ID]:
			dropped = append(dropped, Dropped{Line: n, Text: text, Reason: "duplicate id"})
		default:
			seen[t.ID] = true
			todos = append(todos, t)
		}
		if err != nil {
			break
		}
	}
	return todos, dropped, nil
}

// FormatLine renders a todo in store format, without the trailing newline.
func FormatLine(t model.Todo) string {
	return strings.Join([]string{
		strconv.Itoa(t.ID),
		t.Task,
		t.Category,
		t.DeadlineString(),
		strconv.FormatBool(t.Completed),
	}, ",")
}

// ParseLine parses one stored line.
func ParseLine(line string) (model.Todo, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldCount {
		return model.Todo{}, fmt.Errorf("want %d fields, got %d", fieldCount, len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Todo{}, fmt.Errorf("id: %w", err)
	}
	if id < 1 {
		return model.Todo{}, fmt.Errorf("id: want a positive integer, got %d", id)
	}
	deadline, err := time.Parse(model.DateLayout, fields[3])
	if err != nil {
		return model.Todo{}, fmt.Errorf("deadline: %w", err)
	}
	var completed bool
	switch fields[4] {
	case "true":
		completed = true
	case "false":
	default:
		return model.Todo{}, fmt.Errorf("completed: want true or false, got %q", fields[4])
	}
	return model.Todo{
		ID:        id,
		Task:      fields[1],
		Category:  fields[2],
		Deadline:  deadline,
		Completed: completed,
	}, nil
}
