package model

import (
	"slices"
	"strings"
	"time"
)

// Collection is the ordered set of todos in insertion order.
//
// It is threaded through the app as a value: every mutating method returns a
// new Collection and never touches the receiver's backing array. lastID is the
// highest id ever handed out, so a deleted id is never reused.
type Collection struct {
	todos  []Todo
	lastID int
}

// NewCollection builds a collection from already-numbered todos, e.g. the
// records read from the store. The id high-water mark starts at their max id.
func NewCollection(todos ...Todo) Collection {
	c := Collection{todos: slices.Clone(todos)}
	for _, t := range todos {
		c.lastID = max(c.lastID, t.ID)
	}
	return c
}

// Todos returns a copy of the records in order.
func (c Collection) Todos() []Todo { return slices.Clone(c.todos) }

// Len is the number of records.
func (c Collection) Len() int { return len(c.todos) }

// NextID is the id the next Add will assign.
func (c Collection) NextID() int { return c.lastID + 1 }

// Find returns the record with the given id.
func (c Collection) Find(id int) (Todo, bool) {
	i := c.index(id)
	if i < 0 {
		return Todo{}, false
	}
	return c.todos[i], true
}

// Contains reports whether a record with the given id exists.
func (c Collection) Contains(id int) bool { return c.index(id) >= 0 }

func (c Collection) index(id int) int {
	return slices.IndexFunc(c.todos, func(t Todo) bool { return t.ID == id })
}

// Add appends a pending todo with the next id.
// Input is taken as given; callers validate the deadline before calling.
func (c Collection) Add(task, category string, deadline time.Time) Collection {
	t := Todo{
		ID:       c.NextID(),
		Task:     task,
		Category: category,
		Deadline: deadline,
	}
	// Clip so append always copies instead of writing into a shared array.
	return Collection{
		todos:  append(slices.Clip(c.todos), t),
		lastID: t.ID,
	}
}

// Update replaces task, category and deadline of the matching record,
// keeping its id and completion state. A missing id returns c unchanged.
func (c Collection) Update(id int, task, category string, deadline time.Time) Collection {
	return c.replace(id, func(t Todo) Todo {
		t.Task, t.Category, t.Deadline = task, category, deadline
		return t
	})
}

// Complete marks the matching record done. A missing id returns c unchanged.
func (c Collection) Complete(id int) Collection {
	return c.replace(id, func(t Todo) Todo {
		t.Completed = true
		return t
	})
}

// Delete removes the matching record, keeping the order of the rest.
// A missing id returns c unchanged.
func (c Collection) Delete(id int) Collection {
	i := c.index(id)
	if i < 0 {
		return c
	}
	todos := slices.Delete(slices.Clone(c.todos), i, i+1)
	return Collection{todos: todos, lastID: c.lastID}
}

func (c Collection) replace(id int, fn func(Todo) Todo) Collection {
	i := c.index(id)
	if i < 0 {
		return c
	}
	todos := slices.Clone(c.todos)
	todos[i] = fn(todos[i])
	return Collection{todos: todos, lastID: c.lastID}
}

// FilterByCategory returns the records whose category equals category
// exactly (case-sensitive), in collection order.
func (c Collection) FilterByCategory(category string) []Todo {
	return c.filter(func(t Todo) bool { return t.Category == category })
}

// FilterByDeadline returns the records due on the given day.
func (c Collection) FilterByDeadline(date time.Time) []Todo {
	return c.filter(func(t Todo) bool { return t.DueOn(date) })
}

// Search returns the records whose task or category contains query.
// Matching is a plain case-sensitive substring test.
func (c Collection) Search(query string) []Todo {
	return c.filter(func(t Todo) bool {
		return strings.Contains(t.Task, query) || strings.Contains(t.Category, query)
	})
}

func (c Collection) filter(keep func(Todo) bool) []Todo {
	out := []Todo{}
	for _, t := range c.todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats counts completed and pending records.
func (c Collection) Stats() (done, pending int) {
	for _, t := range c.todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
