// Package tui is the full-screen todo browser.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string { return i.todo.Task }
func (i listItem) Description() string {
	return i.todo.Category + " · due " + i.todo.DeadlineString()
}

// Filtering matches on task and category, like the menu search.
func (i listItem) FilterValue() string { return i.todo.Task + " " + i.todo.Category }

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	r *ui.Renderer
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	th := d.r.Theme()
	box := d.r.Style().Foreground(th.Muted).Render(th.BoxUnchecked)
	text := it.todo.Task
	if it.todo.Completed {
		box = d.r.Style().Foreground(th.Success).Render(th.BoxChecked)
		text = d.r.Style().Faint(true).Strikethrough(true).Render(text)
	}
	meta := d.r.Style().Foreground(th.Muted).Render(
		fmt.Sprintf("#%d  %s  %s", it.todo.ID, it.todo.Category, it.todo.DeadlineString()))

	prefix := "  "
	if index == m.Index() {
		prefix = d.r.Style().Bold(true).Reverse(true).Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, box, text, meta)
}

// form fields, in prompt order
const (
	fieldTask = iota
	fieldCategory
	fieldDeadline
	fieldCount
)

var fieldLabels = [fieldCount]string{"Task", "Category", "Deadline (yyyy-MM-dd)"}

// form collects task, category and deadline one field at a time.
// editID is 0 when adding.
type form struct {
	active bool
	editID int
	step   int
	values [fieldCount]string
	err    string
}

// Model is the Bubble Tea model for the browser. It owns the collection and
// changes it only through the Collection operations.
type Model struct {
	list    list.Model
	ti      textinput.Model
	r       *ui.Renderer
	todos   model.Collection
	changed bool
	form    form
	width   int
	height  int
}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	completeBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "complete"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

// New builds the browser over c.
func New(c model.Collection, r *ui.Renderer) Model {
	l := list.New(items(c), itemDelegate{r: r}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = r.Style().Bold(true)
	l.Styles.HelpStyle = r.Style().Faint(true)
	l.Styles.PaginationStyle = r.Style().Faint(true)
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, editBind, completeBind, deleteBind}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{list: l, ti: ti, r: r, todos: c}
	m.list.Title = m.header()
	return m
}

func items(c model.Collection) []list.Item {
	todos := c.Todos()
	out := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		out = append(out, listItem{todo: t})
	}
	return out
}

func (m Model) header() string {
	th := m.r.Theme()
	d, p := m.todos.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		m.r.Style().Bold(true).Render("Todos"),
		m.r.Style().Foreground(th.Success).Render(th.SymDone), d,
		m.r.Style().Foreground(th.Pending).Render(th.SymPending), p,
		m.r.Style().Foreground(th.Accent).Render("Total"), m.todos.Len(),
	)
}

// Collection is the current collection.
func (m Model) Collection() model.Collection { return m.todos }

// Changed reports whether any command modified the collection.
func (m Model) Changed() bool { return m.changed }

// Run opens the browser full screen and returns the final collection and
// whether it changed.
func Run(c model.Collection, r *ui.Renderer) (model.Collection, bool, error) {
	p := tea.NewProgram(New(c, r), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return c, false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return c, false, nil
	}
	return fm.todos, fm.changed, nil
}

func (m Model) Init() tea.Cmd { return nil }

// apply installs a new collection and refreshes the list.
func (m Model) apply(c model.Collection) (Model, tea.Cmd) {
	m.todos = c
	m.changed = true
	m.list.Title = m.header()
	return m, m.list.SetItems(items(c))
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.list.SetSize(m.listSize())
		return m, nil
	}

	if m.form.active {
		return m.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() == list.Unfiltered {
				return m, tea.Quit
			}
		case " ":
			if t, ok := m.selected(); ok && !t.Completed {
				return m.apply(m.todos.Complete(t.ID))
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				return m.apply(m.todos.Delete(t.ID))
			}
			return m, nil
		case "a":
			return m.openForm(0, [fieldCount]string{}), nil
		case "e":
			if t, ok := m.selected(); ok {
				return m.openForm(t.ID, [fieldCount]string{t.Task, t.Category, t.DeadlineString()}), nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) openForm(editID int, values [fieldCount]string) Model {
	m.form = form{active: true, editID: editID, values: values}
	m.ti.SetValue(values[fieldTask])
	m.ti.CursorEnd()
	m.ti.Placeholder = fieldLabels[fieldTask]
	m.ti.Focus()
	m.list.SetSize(m.listSize())
	return m
}

func (m Model) closeForm() Model {
	m.form = form{}
	m.ti.SetValue("")
	m.ti.Blur()
	m.list.SetSize(m.listSize())
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return m.closeForm(), nil
		case "enter":
			return m.submitField()
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) submitField() (tea.Model, tea.Cmd) {
	v := strings.TrimSpace(m.ti.Value())
	switch m.form.step {
	case fieldTask:
		if v == "" {
			m.form.err = "Task cannot be empty"
			return m, nil
		}
	case fieldDeadline:
		if _, err := model.ParseDate(v); err != nil {
			m.form.err = "Invalid date format. Use yyyy-MM-dd."
			return m, nil
		}
	}
	m.form.values[m.form.step] = v
	m.form.err = ""
	m.form.step++

	if m.form.step < fieldCount {
		m.ti.SetValue(m.form.values[m.form.step])
		m.ti.CursorEnd()
		m.ti.Placeholder = fieldLabels[m.form.step]
		return m, nil
	}

	vals, editID := m.form.values, m.form.editID
	deadline, _ := model.ParseDate(vals[fieldDeadline])
	m = m.closeForm()
	if editID != 0 {
		return m.apply(m.todos.Update(editID, vals[fieldTask], vals[fieldCategory], deadline))
	}
	return m.apply(m.todos.Add(vals[fieldTask], vals[fieldCategory], deadline))
}

func (m Model) listSize() (int, int) {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	listHeight := h - 4
	if m.form.active {
		listHeight = h - 7
	}
	return w - 4, max(listHeight, 1)
}

func (m Model) View() string {
	th := m.r.Theme()
	content := m.list.View()
	if m.form.active {
		title := "Add todo"
		if m.form.editID != 0 {
			title = fmt.Sprintf("Edit todo #%d", m.form.editID)
		}
		title += ": " + fieldLabels[m.form.step]
		if m.form.err != "" {
			title += "  " + m.r.Style().Foreground(th.Error).Bold(true).Render(m.form.err)
		}
		bar := m.r.Style().Border(th.Border).BorderForeground(th.Muted).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return m.r.Style().Border(th.Border).BorderForeground(th.Muted).Padding(0, 1).Render(content)
}
