package model

import (
	"errors"
	"fmt"
)

var ErrDuplicateID = errors.New("model: duplicate catalog id")

// Catalog is the fixed, ordered list of daily tasks. It is never mutated after construction.
type Catalog struct {
	tasks []Task
	index map[string]int
}

func NewCatalog(tasks []Task) (*Catalog, error) {
	if len(tasks) == 0 {
		return nil, errors.New("model: catalog must contain at least one task")
	}
	c := &Catalog{
		tasks: make([]Task, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, t.ID)
		}
		c.tasks[i] = t
		c.index[t.ID] = i
	}
	return c, nil
}

func (c *Catalog) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Catalog) Lookup(id string) (Task, bool) {
	i, ok := c.index[id]
	if !ok {
		return Task{}, false
	}
	return c.tasks[i], true
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Catalog) Len() int { return len(c.tasks) }

func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.tasks))
	for _, t := range c.tasks {
		out = append(out, t.ID)
	}
	return out
}

func DefaultTasks() []Task {
	return []Task{
		{ID: "pee1", Label: "First potty break", Emoji: "🚽", ScheduledAt: MustTimeOfDay("08:30"), Points: 10},
		{ID: "breakfast", Label: "Breakfast", Emoji: "🍳", ScheduledAt: MustTimeOfDay("10:00"), Points: 15},
		{ID: "lunch", Label: "Lunch", Emoji: "🍖", ScheduledAt: MustTimeOfDay("12:00"), Points: 15},
		{ID: "pee2", Label: "Second potty break", Emoji: "🚽", ScheduledAt: MustTimeOfDay("13:30"), Points: 10},
		{ID: "pee3", Label: "Third potty break", Emoji: "🚽", ScheduledAt: MustTimeOfDay("19:00"), Points: 10},
		{ID: "dinner", Label: "Dinner", Emoji: "🥘", ScheduledAt: MustTimeOfDay("22:00"), Points: 15},
		{ID: "pee4", Label: "Last potty break", Emoji: "🚽", ScheduledAt: MustTimeOfDay("00:00"), Points: 10},
	}
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTasks())
	if err != nil {
		panic(err)
	}
	return c
}

// ActionCatalog lists the ad-hoc actions offered as quick buttons.
type ActionCatalog struct {
	actions []Action
	index   map[string]int
}

func NewActionCatalog(actions []Action) (*ActionCatalog, error) {
	c := &ActionCatalog{
		actions: make([]Action, len(actions)),
		index:   make(map[string]int, len(actions)),
	}
	for i, a := range actions {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[a.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
		}
		c.actions[i] = a
		c.index[a.ID] = i
	}
	return c, nil
}

func (c *ActionCatalog) Actions() []Action {
	out := make([]Action, len(c.actions))
	copy(out, c.actions)
	return out
}

func (c *ActionCatalog) Lookup(id string) (Action, bool) {
	i, ok := c.index[id]
	if !ok {
		return Action{}, false
	}
	return c.actions[i], true
}

func (c *ActionCatalog) Len() int { return len(c.actions) }

func DefaultActions() []Action {
	return []Action{
		{ID: "pet", Label: "Cuddles", Emoji: "🤗", Points: 5},
		{ID: "food", Label: "Treat", Emoji: "🍖", Points: 10},
		{ID: "walk", Label: "Walk", Emoji: "🦮", Points: 15},
		{ID: "water", Label: "Fresh water", Emoji: "💧", Points: 5},
		{ID: "play", Label: "Play time", Emoji: "🎾", Points: 12},
		{ID: "bath", Label: "Bath", Emoji: "🛁", Points: 8},
	}
}

func DefaultActionCatalog() *ActionCatalog {
	c, err := NewActionCatalog(DefaultActions())
	if err != nil {
		panic(err)
	}
	return c
}
