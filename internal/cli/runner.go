package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// State is the control state of the menu loop.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// missingID never matches a record; unparsable ids map to it so they take
// the not-found path.
const missingID = -1

type command struct {
	key   string
	label string
	run   func(*Session, model.Collection) (model.Collection, State, error)
}

var commands = []command{
	{"1", "Add todo", (*Session).add},
	{"2", "Display all todos", (*Session).displayAll},
	{"3", "Mark todo as completed", (*Session).complete},
	{"4", "Update todo", (*Session).update},
	{"5", "Delete todo", (*Session).delete},
	{"6", "Filter by category", (*Session).filterByCategory},
	{"7", "Filter by deadline", (*Session).filterByDeadline},
	{"8", "Search todos", (*Session).search},
	{"9", "Exit", (*Session).exit},
}

func menuItems() []ui.MenuItem {
	items := make([]ui.MenuItem, 0, len(commands))
	for _, c := range commands {
		items = append(items, ui.MenuItem{Key: c.key, Label: c.label})
	}
	return items
}

// Session is the interactive numbered-menu loop.
type Session struct {
	in     LineReader
	r      *ui.Renderer
	logger *log.Logger
}

// NewSession wires a menu loop to its input, renderer and logger.
func NewSession(in LineReader, r *ui.Renderer, logger *log.Logger) *Session {
	return &Session{in: in, r: r, logger: logger}
}

// Run shows the menu and dispatches commands until Exit, end of input or an
// interrupt, then returns the final collection. Only input read failures are
// returned as errors; bad dates and unknown ids are reported and skipped.
func (s *Session) Run(c model.Collection) (model.Collection, error) {
	state := Running
	for state == Running {
		var err error
		c, state, err = s.Step(c)
		if err != nil {
			return c, err
		}
	}
	return c, nil
}

// Step runs one menu iteration.
func (s *Session) Step(c model.Collection) (model.Collection, State, error) {
	s.r.Menu("Todo List Manager", menuItems())
	choice, err := s.in.ReadLine("Enter your choice: ")
	if err != nil {
		return s.inputEnded(c, err)
	}
	choice = strings.TrimSpace(choice)
	for _, cmd := range commands {
		if cmd.key == choice {
			s.logger.Debug("command", "choice", choice, "label", cmd.label)
			next, state, err := cmd.run(s, c)
			if err != nil {
				return s.inputEnded(c, err)
			}
			return next, state, nil
		}
	}
	s.r.Notice("Invalid choice. Please try again.")
	return c, Running, nil
}

// inputEnded turns end of input or Ctrl-C into a normal exit; the
// collection is kept as it was before the interrupted command.
func (s *Session) inputEnded(c model.Collection, err error) (model.Collection, State, error) {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
		s.logger.Debug("input ended", "reason", err)
		fmt.Fprintln(s.out())
		return c, Terminated, nil
	}
	return c, Terminated, fmt.Errorf("read input: %w", err)
}

func (s *Session) out() io.Writer { return s.r.Out() }

func (s *Session) readText(prompt string) (string, error) {
	line, err := s.in.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readID returns missingID for anything that is not an integer.
func (s *Session) readID() (int, error) {
	line, err := s.readText("Enter todo ID: ")
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(line)
	if err != nil {
		return missingID, nil
	}
	return id, nil
}

// readDate reports ok=false, with a notice already printed, for bad input.
func (s *Session) readDate(prompt string) (d time.Time, ok bool, err error) {
	line, err := s.readText(prompt)
	if err != nil {
		return time.Time{}, false, err
	}
	d, perr := model.ParseDate(line)
	if perr != nil {
		s.r.Notice("Invalid date format. Use yyyy-MM-dd.")
		return time.Time{}, false, nil
	}
	return d, true, nil
}

// readFields reads task, category and deadline.
func (s *Session) readFields() (task, category string, deadline time.Time, ok bool, err error) {
	if task, err = s.readText("Enter task: "); err != nil {
		return
	}
	if category, err = s.readText("Enter category: "); err != nil {
		return
	}
	deadline, ok, err = s.readDate("Enter deadline (yyyy-MM-dd): ")
	return
}

// readExistingID reads an id and reports whether c holds it, printing the
// not-found notice when it does not.
func (s *Session) readExistingID(c model.Collection) (int, bool, error) {
	id, err := s.readID()
	if err != nil {
		return 0, false, err
	}
	if !c.Contains(id) {
		s.r.Notice("Todo not found.")
		return id, false, nil
	}
	return id, true, nil
}

// -------------- commands ----------------

func (s *Session) add(c model.Collection) (model.Collection, State, error) {
	task, category, deadline, ok, err := s.readFields()
	if err != nil || !ok {
		return c, Running, err
	}
	next := c.Add(task, category, deadline)
	s.r.OK(fmt.Sprintf("Todo added with ID %d.", c.NextID()))
	return next, Running, nil
}

func (s *Session) displayAll(c model.Collection) (model.Collection, State, error) {
	s.r.Overview(c)
	return c, Running, nil
}

func (s *Session) complete(c model.Collection) (model.Collection, State, error) {
	id, ok, err := s.readExistingID(c)
	if err != nil || !ok {
		return c, Running, err
	}
	s.r.OK("Todo marked as completed.")
	return c.Complete(id), Running, nil
}

func (s *Session) update(c model.Collection) (model.Collection, State, error) {
	id, ok, err := s.readExistingID(c)
	if err != nil || !ok {
		return c, Running, err
	}
	task, category, deadline, ok, err := s.readFields()
	if err != nil || !ok {
		return c, Running, err
	}
	s.r.OK("Todo updated.")
	return c.Update(id, task, category, deadline), Running, nil
}

func (s *Session) delete(c model.Collection) (model.Collection, State, error) {
	id, ok, err := s.readExistingID(c)
	if err != nil || !ok {
		return c, Running, err
	}
	s.r.OK("Todo deleted.")
	return c.Delete(id), Running, nil
}

func (s *Session) filterByCategory(c model.Collection) (model.Collection, State, error) {
	category, err := s.readText("Enter category: ")
	if err != nil {
		return c, Running, err
	}
	s.r.Display(c.FilterByCategory(category))
	return c, Running, nil
}

func (s *Session) filterByDeadline(c model.Collection) (model.Collection, State, error) {
	d, ok, err := s.readDate("Enter deadline (yyyy-MM-dd): ")
	if err != nil || !ok {
		return c, Running, err
	}
	s.r.Display(c.FilterByDeadline(d))
	return c, Running, nil
}

func (s *Session) search(c model.Collection) (model.Collection, State, error) {
	query, err := s.readText("Enter search query: ")
	if err != nil {
		return c, Running, err
	}
	s.r.Display(c.Search(query))
	return c, Running, nil
}

func (s *Session) exit(c model.Collection) (model.Collection, State, error) {
	return c, Terminated, nil
}
