package routine

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

// HappinessPerPoint is the share of a reward's points added to happiness.
const HappinessPerPoint = 0.5

var ErrNoPet = errors.New("routine: no pet configured")

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithActions(actions *model.ActionCatalog) Option {
	return func(e *Engine) {
		if actions != nil {
			e.actions = actions
		}
	}
}

// Engine applies the routine rules to one AppState. It is not safe for concurrent use;
// callers that share an Engine across goroutines must serialise access.
type Engine struct {
	catalog *model.Catalog
	actions *model.ActionCatalog
	state   model.AppState
	now     func() time.Time
}

type Reward struct {
	TaskID        string
	Label         string
	Emoji         string
	Points        int
	HappinessGain int
	Happiness     int
	TotalPoints   int
	Celebrate     bool
	Entry         model.ActivityEntry
}

type RolloverResult struct {
	Changed          bool
	PreviousDay      model.Day
	Day              model.Day
	CompletedTaskIDs []string
	CatalogSize      int
	PointsEarned     int
	HappinessAtClose int
	StreakBefore     int
	StreakAfter      int
}

// FullDay reports whether the closed day had every catalog task completed.
func (r RolloverResult) FullDay() bool {
	return r.CatalogSize > 0 && len(r.CompletedTaskIDs) == r.CatalogSize
}

type TaskView struct {
	Task   model.Task
	Status model.TaskStatus
}

func NewEngine(catalog *model.Catalog, state model.AppState, opts ...Option) *Engine {
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	e := &Engine{
		catalog: catalog,
		actions: model.DefaultActionCatalog(),
		state:   state.Clone(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *model.Catalog { return e.catalog }

func (e *Engine) Actions() *model.ActionCatalog { return e.actions }

// State returns a deep copy of the current state.
func (e *Engine) State() model.AppState { return e.state.Clone() }

func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) CompleteTask(taskID string) (Reward, bool) {
	task, ok := e.catalog.Lookup(taskID)
	if !ok || e.state.IsCompleted(taskID) {
		return Reward{}, false
	}
	e.state.CompletedTaskIDs = append(e.state.CompletedTaskIDs, taskID)
	r := e.award(task.Label, task.Emoji, task.Points)
	r.TaskID = taskID
	r.Celebrate = e.AllDone()
	return r, true
}

// LogAction records an ad-hoc action. It has no done state and may repeat any number of times.
func (e *Engine) LogAction(label, emoji string, points int) (Reward, bool) {
	if strings.TrimSpace(label) == "" || points <= 0 {
		return Reward{}, false
	}
	return e.award(label, emoji, points), true
}

func (e *Engine) LogActionByID(actionID string) (Reward, bool) {
	a, ok := e.actions.Lookup(actionID)
	if !ok {
		return Reward{}, false
	}
	return e.LogAction(a.Label, a.Emoji, a.Points)
}

func (e *Engine) award(label, emoji string, points int) Reward {
	gain := int(math.Round(float64(points) * HappinessPerPoint))
	e.state.TotalPoints += points
	e.state.Happiness = model.ClampHappiness(e.state.Happiness + gain)
	entry := model.NewActivityEntry(label, emoji, points, e.now())
	e.state.ActivityHistory = append(e.state.ActivityHistory, entry)
	return Reward{
		Label:         label,
		Emoji:         emoji,
		Points:        points,
		HappinessGain: gain,
		Happiness:     e.state.Happiness,
		TotalPoints:   e.state.TotalPoints,
		Entry:         entry,
	}
}

func (e *Engine) AllDone() bool {
	if len(e.state.CompletedTaskIDs) != e.catalog.Len() {
		return false
	}
	for _, id := range e.catalog.IDs() {
		if !e.state.IsCompleted(id) {
			return false
		}
	}
	return true
}

// Rollover closes the previous day when today differs from the last rollover date.
// A brand-new record (no previous date) keeps its streak untouched.
func (e *Engine) Rollover(today model.Day) RolloverResult {
	res := RolloverResult{
		PreviousDay:  e.state.LastRolloverDate,
		Day:          today,
		StreakBefore: e.state.StreakDays,
		StreakAfter:  e.state.StreakDays,
	}
	if e.state.LastRolloverDate == today {
		return res
	}
	res.Changed = true
	res.CatalogSize = e.catalog.Len()
	res.CompletedTaskIDs = append([]string{}, e.state.CompletedTaskIDs...)
	res.HappinessAtClose = e.state.Happiness
	for _, entry := range e.state.ActivityHistory {
		res.PointsEarned += entry.Points
	}

	if !e.state.LastRolloverDate.IsZero() {
		if len(e.state.CompletedTaskIDs) == e.catalog.Len() {
			e.state.StreakDays++
		} else {
			e.state.StreakDays = 0
		}
	}
	e.state.CompletedTaskIDs = []string{}
	e.state.ActivityHistory = []model.ActivityEntry{}
	e.state.LastRolloverDate = today
	res.StreakAfter = e.state.StreakDays
	return res
}

// RolloverAt rolls over using the calendar day of t.
func (e *Engine) RolloverAt(t time.Time) RolloverResult {
	return e.Rollover(model.DayOf(t))
}

// DecayTick lowers happiness by one while a pet exists and happiness is above zero.
func (e *Engine) DecayTick() bool {
	if e.state.Pet == nil || e.state.Happiness <= model.MinHappiness {
		return false
	}
	e.state.Happiness = model.ClampHappiness(e.state.Happiness - 1)
	return true
}

func (e *Engine) AdjustHappiness(delta int) int {
	e.state.Happiness = model.ClampHappiness(e.state.Happiness + delta)
	return e.state.Happiness
}

func (e *Engine) Reset() {
	e.state = model.DefaultAppState()
}

func (e *Engine) SetupPet(pet model.Pet, today model.Day) error {
	if err := pet.Validate(); err != nil {
		return err
	}
	e.state.Pet = &pet
	e.state.Happiness = model.InitialHappiness
	e.state.LastRolloverDate = today
	return nil
}

func (e *Engine) EditPet(name, breed string) error {
	if e.state.Pet == nil {
		return ErrNoPet
	}
	updated, err := model.NewPet(name, breed)
	if err != nil {
		return err
	}
	updated.Photo = e.state.Pet.Photo
	e.state.Pet = &updated
	return nil
}

func (e *Engine) SetPhoto(photo model.Photo) error {
	if e.state.Pet == nil {
		return ErrNoPet
	}
	if err := photo.Validate(); err != nil {
		return err
	}
	e.state.Pet.Photo = &photo
	return nil
}

func (e *Engine) RemovePhoto() bool {
	if e.state.Pet == nil || e.state.Pet.Photo == nil {
		return false
	}
	e.state.Pet.Photo = nil
	return true
}

func (e *Engine) Statuses(now time.Time) []TaskView {
	minutes := MinutesOfDay(now)
	tasks := e.catalog.Tasks()
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskView{Task: t, Status: Classify(minutes, t, e.state.IsCompleted(t.ID))})
	}
	return out
}

// Recent returns up to n history entries, newest first.
func (e *Engine) Recent(n int) []model.ActivityEntry {
	h := e.state.ActivityHistory
	if n <= 0 || n > len(h) {
		n = len(h)
	}
	out := make([]model.ActivityEntry, 0, n)
	for i := len(h) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h[i])
	}
	return out
}

func (e *Engine) Mood() model.Mood {
	return model.MoodFor(e.state.Happiness)
}
