// Package session serialises every routine operation for one device key and fans the
// result out to persistence, events, metrics and reminders.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/petd/internal/events"
	"github.com/sandeepkv93/petd/internal/flavor"
	"github.com/sandeepkv93/petd/internal/metrics"
	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/routine"
	"github.com/sandeepkv93/petd/internal/scheduler"
	"github.com/sandeepkv93/petd/internal/storage"
)

const (
	DefaultDecayInterval = time.Minute
	reportHistoryDays    = 30
)

type Options struct {
	Key       string
	Catalog   *model.Catalog
	Actions   *model.ActionCatalog
	Logger    *slog.Logger
	Publisher events.Publisher
	Metrics   *metrics.Recorder
	Scheduler *scheduler.Engine
	Clock     func() time.Time
}

type Session struct {
	mu      sync.Mutex
	key     string
	catalog *model.Catalog
	actions *model.ActionCatalog
	engine  *routine.Engine

	store     storage.Store
	days      storage.DayLog
	saver     *storage.Saver
	publisher events.Publisher
	metrics   *metrics.Recorder
	sched     *scheduler.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// Open loads the record for opts.Key and rolls it over to today. Missing or corrupt records
// start from defaults.
func Open(ctx context.Context, store storage.Store, opts Options) (*Session, error) {
	if store == nil {
		return nil, errors.New("session: nil store")
	}
	if opts.Key == "" {
		return nil, errors.New("session: key is required")
	}
	s := &Session{
		key:       opts.Key,
		catalog:   opts.Catalog,
		actions:   opts.Actions,
		store:     store,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		sched:     opts.Scheduler,
		logger:    opts.Logger,
		now:       opts.Clock,
	}
	if s.catalog == nil {
		s.catalog = model.DefaultCatalog()
	}
	if s.actions == nil {
		s.actions = model.DefaultActionCatalog()
	}
	if s.publisher == nil {
		s.publisher = events.Noop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if dl, ok := store.(storage.DayLog); ok {
		s.days = dl
	}

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.engine = s.newEngine(state)
	s.saver = storage.NewSaver(store, s.key,
		storage.WithSaverLogger(s.logger),
		storage.WithSaveObserver(s.metrics),
	)
	s.CheckRollover(ctx)
	s.mu.Lock()
	s.metrics.SetState(s.engine.State().Happiness, s.engine.State().StreakDays)
	s.mu.Unlock()
	return s, nil
}

func (s *Session) newEngine(state model.AppState) *routine.Engine {
	return routine.NewEngine(s.catalog, state, routine.WithActions(s.actions), routine.WithClock(s.now))
}

func (s *Session) load(ctx context.Context) (model.AppState, error) {
	state, err := s.store.Load(ctx, s.key)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("no saved state, starting fresh", "key", s.key)
		return model.DefaultAppState(), nil
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.Warn("saved state is corrupt, starting fresh", "key", s.key, "err", err)
		return model.DefaultAppState(), nil
	default:
		return model.AppState{}, fmt.Errorf("load state: %w", err)
	}
	if err := state.Validate(s.catalog); err != nil {
		s.logger.Warn("saved state does not match the catalog, starting fresh", "key", s.key, "err", err)
		return model.DefaultAppState(), nil
	}
	return state, nil
}

func (s *Session) Key() string { return s.key }

func (s *Session) Catalog() *model.Catalog { return s.catalog }

func (s *Session) Actions() *model.ActionCatalog { return s.actions }

func (s *Session) Now() time.Time { return s.now() }

// Close flushes the pending write. The store and publisher stay open.
func (s *Session) Close() {
	s.saver.Close()
}

func (s *Session) Snapshot() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

func (s *Session) Statuses() []routine.TaskView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Statuses(s.now())
}

func (s *Session) Recent(n int) []model.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Recent(n)
}

func (s *Session) Mood() model.Mood {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Mood()
}

func (s *Session) AllDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.AllDone()
}

// SaverBusy reports whether a write is still queued or in flight.
func (s *Session) SaverBusy() bool { return s.saver.Busy() }

// CompleteTask marks a catalog task done. ok is false for unknown or already-done tasks.
func (s *Session) CompleteTask(ctx context.Context, taskID string) (routine.Reward, bool) {
	s.mu.Lock()
	s.rolloverLocked(ctx)
	reward, ok := s.engine.CompleteTask(taskID)
	state := s.engine.State()
	s.mu.Unlock()
	if !ok {
		return reward, false
	}

	s.persist(state)
	s.metrics.TaskCompleted(taskID, reward.Points)
	if s.sched != nil {
		s.sched.Cancel(taskID)
	}
	s.publish(ctx, events.TypeTaskCompleted, rewardData(reward))
	if reward.Celebrate {
		s.publish(ctx, events.TypeRoutineCelebrate, map[string]any{
			"streak_days": state.StreakDays,
			"happiness":   state.Happiness,
		})
	}
	return reward, true
}

// LogAction records a repeatable action from the action catalog.
func (s *Session) LogAction(ctx context.Context, actionID string) (routine.Reward, bool) {
	s.mu.Lock()
	s.rolloverLocked(ctx)
	reward, ok := s.engine.LogActionByID(actionID)
	state := s.engine.State()
	s.mu.Unlock()
	if !ok {
		return reward, false
	}
	s.persist(state)
	s.metrics.ActionLogged(reward.Label, reward.Points)
	data := rewardData(reward)
	data["action_id"] = actionID
	s.publish(ctx, events.TypeActionLogged, data)
	return reward, true
}

// SetupPet creates the pet, resetting happiness and starting today's routine.
func (s *Session) SetupPet(ctx context.Context, name, breed string, photo *model.Photo) error {
	pet, err := model.NewPet(name, breed)
	if err != nil {
		return err
	}
	if photo != nil {
		if err := photo.Validate(); err != nil {
			return err
		}
		p := *photo
		pet.Photo = &p
	}
	s.mu.Lock()
	if err := s.engine.SetupPet(pet, model.DayOf(s.now())); err != nil {
		s.mu.Unlock()
		return err
	}
	state := s.engine.State()
	s.mu.Unlock()

	s.persist(state)
	s.PlanReminders()
	s.publish(ctx, events.TypePetUpdated, petData("setup", state))
	return nil
}

func (s *Session) EditPet(ctx context.Context, name, breed string) error {
	return s.mutatePet(ctx, "edit", func(e *routine.Engine) error { return e.EditPet(name, breed) })
}

func (s *Session) SetPhoto(ctx context.Context, photo model.Photo) error {
	return s.mutatePet(ctx, "photo", func(e *routine.Engine) error { return e.SetPhoto(photo) })
}

// RemovePhoto restores the default photo. It reports false when there was nothing to remove.
func (s *Session) RemovePhoto(ctx context.Context) bool {
	err := s.mutatePet(ctx, "photo_removed", func(e *routine.Engine) error {
		if !e.RemovePhoto() {
			return errNoChange
		}
		return nil
	})
	return err == nil
}

var errNoChange = errors.New("session: no change")

func (s *Session) mutatePet(ctx context.Context, change string, fn func(*routine.Engine) error) error {
	s.mu.Lock()
	if err := fn(s.engine); err != nil {
		s.mu.Unlock()
		return err
	}
	state := s.engine.State()
	s.mu.Unlock()
	s.persist(state)
	s.publish(ctx, events.TypePetUpdated, petData(change, state))
	return nil
}

// Reset wipes the pet, the routine and the stored record with its day history.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	s.engine.Reset()
	state := s.engine.State()
	s.mu.Unlock()

	s.saver.Delete()
	if s.sched != nil {
		s.sched.Clear()
	}
	s.metrics.SetState(state.Happiness, state.StreakDays)
	s.publish(ctx, events.TypeStateReset, nil)
}

// CheckRollover closes yesterday if the calendar day changed since the last rollover.
func (s *Session) CheckRollover(ctx context.Context) routine.RolloverResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rolloverLocked(ctx)
}

func (s *Session) rolloverLocked(ctx context.Context) routine.RolloverResult {
	res := s.engine.RolloverAt(s.now())
	if !res.Changed {
		return res
	}
	state := s.engine.State()
	s.persist(state)

	outcome := "first_day"
	switch {
	case res.PreviousDay.IsZero():
	case res.StreakAfter > res.StreakBefore:
		outcome = "extended"
	default:
		outcome = "broken"
	}
	s.metrics.Rollover(outcome)
	s.logger.Info("day rolled over", "key", s.key, "previous", res.PreviousDay.String(), "day", res.Day.String(), "streak", res.StreakAfter)

	if s.days != nil && !res.PreviousDay.IsZero() {
		err := s.days.RecordDay(ctx, storage.DaySummary{
			Key:              s.key,
			Day:              res.PreviousDay,
			CompletedTaskIDs: res.CompletedTaskIDs,
			CatalogSize:      res.CatalogSize,
			PointsEarned:     res.PointsEarned,
			Happiness:        res.HappinessAtClose,
			RecordedAt:       s.now(),
		})
		if err != nil {
			s.logger.Warn("record day summary failed", "key", s.key, "day", res.PreviousDay.String(), "err", err)
		}
	}
	if s.sched != nil && state.HasPet() {
		s.planLocked()
	}
	// A brand-new record has no closed day to announce.
	if res.PreviousDay.IsZero() {
		return res
	}
	s.publish(ctx, events.TypeDayRolledOver, map[string]any{
		"previous_day":  res.PreviousDay.String(),
		"day":           res.Day.String(),
		"full_day":      res.FullDay(),
		"points_earned": res.PointsEarned,
		"streak_days":   res.StreakAfter,
	})
	return res
}

// Decay lowers happiness by one step. It reports whether anything changed.
func (s *Session) Decay(ctx context.Context) bool {
	s.mu.Lock()
	s.rolloverLocked(ctx)
	changed := s.engine.DecayTick()
	state := s.engine.State()
	s.mu.Unlock()
	if changed {
		s.persist(state)
	}
	return changed
}

// RunDecay ticks Decay every interval until ctx is done.
func (s *Session) RunDecay(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultDecayInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Decay(ctx)
		}
	}
}

// PlanReminders replaces the scheduler queue with today's outstanding reminders.
func (s *Session) PlanReminders() int {
	if s.sched == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.State().HasPet() {
		s.sched.Clear()
		return 0
	}
	return s.planLocked()
}

func (s *Session) planLocked() int {
	s.sched.Clear()
	state := s.engine.State()
	planned := 0
	for _, r := range scheduler.PlanDay(s.catalog, s.now(), state.IsCompleted) {
		if err := s.sched.Schedule(r); err != nil {
			s.logger.Warn("schedule reminder failed", "id", r.ID, "err", err)
			continue
		}
		planned++
	}
	return planned
}

// DescribeReminder turns a fired reminder into a message, or ok=false when the task is
// already done or unknown.
func (s *Session) DescribeReminder(r model.Reminder) (string, bool) {
	task, found := s.catalog.Lookup(r.TaskID)
	if !found {
		return "", false
	}
	s.mu.Lock()
	state := s.engine.State()
	s.mu.Unlock()
	if !state.HasPet() || state.IsCompleted(r.TaskID) {
		return "", false
	}
	s.metrics.Reminder(string(r.Kind))
	if r.Kind == model.ReminderKindLate {
		return fmt.Sprintf("%s %s is late for %s (was due %s)", task.Emoji, task.Label, state.Pet.Name, task.ScheduledAt), true
	}
	return fmt.Sprintf("%s Time for %s: %s", task.Emoji, state.Pet.Name, task.Label), true
}

// ReportContext gathers today's routine and, when the store keeps day history, recent stats.
func (s *Session) ReportContext(ctx context.Context, notes string) (flavor.ReportContext, error) {
	s.mu.Lock()
	state := s.engine.State()
	s.mu.Unlock()
	if !state.HasPet() {
		return flavor.ReportContext{}, routine.ErrNoPet
	}
	out := flavor.ReportContext{
		Name:      state.Pet.Name,
		Breed:     state.Pet.BreedOrUnknown(),
		Happiness: state.Happiness,
		Points:    state.TotalPoints,
		Streak:    state.StreakDays,
		Notes:     notes,
		Completed: []string{},
		Pending:   []string{},
	}
	for _, task := range s.catalog.Tasks() {
		if state.IsCompleted(task.ID) {
			out.Completed = append(out.Completed, task.Label)
		} else {
			out.Pending = append(out.Pending, fmt.Sprintf("%s (%s)", task.Label, task.ScheduledAt))
		}
	}
	for _, entry := range state.ActivityHistory {
		out.History = append(out.History, flavor.ReportEntry{Time: entry.TimeLabel(), Label: entry.Label, Points: entry.Points})
	}
	if s.days != nil {
		days, err := s.days.ListDays(ctx, storage.DayListFilter{Key: s.key, Limit: reportHistoryDays})
		if err != nil {
			s.logger.Warn("list day history failed", "key", s.key, "err", err)
		} else if len(days) > 0 {
			stats := storage.Summarize(days, s.catalog)
			out.Stats = &flavor.HistoryStats{
				DaysTracked:      stats.DaysTracked,
				AverageHappiness: stats.AverageHappiness,
				MostCompleted:    stats.MostCompleted,
				LeastCompleted:   stats.LeastCompleted,
			}
		}
	}
	return out, nil
}

// History lists recorded day summaries, newest first. Backends without a day log return none.
func (s *Session) History(ctx context.Context, limit int) ([]storage.DaySummary, error) {
	if s.days == nil {
		return nil, nil
	}
	return s.days.ListDays(ctx, storage.DayListFilter{Key: s.key, Limit: limit})
}

// ReloadIfChanged re-reads the store after an external write. Writes this session made itself
// and writes while a save is pending are ignored.
func (s *Session) ReloadIfChanged(ctx context.Context) (bool, error) {
	if s.saver.Busy() {
		return false, nil
	}
	state, err := s.store.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if s.saver.IsLastWritten(state) {
		return false, nil
	}
	if err := state.Validate(s.catalog); err != nil {
		return false, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}

	s.mu.Lock()
	s.engine = s.newEngine(state)
	s.rolloverLocked(ctx)
	if s.sched != nil {
		if s.engine.State().HasPet() {
			s.planLocked()
		} else {
			s.sched.Clear()
		}
	}
	current := s.engine.State()
	s.mu.Unlock()
	s.metrics.SetState(current.Happiness, current.StreakDays)
	s.logger.Info("reloaded state written by another process", "key", s.key)
	return true, nil
}

func (s *Session) persist(state model.AppState) {
	s.saver.Save(state)
	s.metrics.SetState(state.Happiness, state.StreakDays)
}

func (s *Session) publish(ctx context.Context, t events.Type, data map[string]any) {
	err := s.publisher.Publish(ctx, events.New(t, s.key, s.now(), data))
	s.metrics.EventPublished(string(t), err)
	if err != nil {
		s.logger.Warn("publish event failed", "type", string(t), "err", err)
	}
}

func rewardData(r routine.Reward) map[string]any {
	data := map[string]any{
		"label":          r.Label,
		"points":         r.Points,
		"happiness_gain": r.HappinessGain,
		"happiness":      r.Happiness,
		"total_points":   r.TotalPoints,
	}
	if r.TaskID != "" {
		data["task_id"] = r.TaskID
	}
	return data
}

func petData(change string, state model.AppState) map[string]any {
	data := map[string]any{"change": change}
	if state.Pet != nil {
		data["name"] = state.Pet.Name
		data["breed"] = state.Pet.Breed
		data["default_photo"] = state.Pet.HasDefaultPhoto()
	}
	return data
}
