package routine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/petd/internal/model"
)

var fixedNow = time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(model.DefaultCatalog(), model.DefaultAppState(), WithClock(func() time.Time { return fixedNow }))
	pet, err := model.NewPet("Rex", "Beagle")
	require.NoError(t, err)
	require.NoError(t, e.SetupPet(pet, model.DayOf(fixedNow)))
	return e
}

func TestCompleteTaskRewards(t *testing.T) {
	e := newTestEngine(t)

	r, ok := e.CompleteTask("pee1")
	require.True(t, ok)
	assert.Equal(t, 10, r.Points)
	assert.Equal(t, 5, r.HappinessGain)
	assert.False(t, r.Celebrate)

	s := e.State()
	assert.Equal(t, 10, s.TotalPoints)
	assert.Equal(t, 55, s.Happiness)
	assert.Equal(t, []string{"pee1"}, s.CompletedTaskIDs)
	require.Len(t, s.ActivityHistory, 1)
	assert.Equal(t, "First potty break", s.ActivityHistory[0].Label)
	assert.Equal(t, fixedNow, s.ActivityHistory[0].At)
}

func TestCompleteTaskIdempotent(t *testing.T) {
	e := newTestEngine(t)
	_, ok := e.CompleteTask("breakfast")
	require.True(t, ok)
	before := e.State()

	_, ok = e.CompleteTask("breakfast")
	assert.False(t, ok)
	after := e.State()
	assert.Equal(t, before.TotalPoints, after.TotalPoints)
	assert.Len(t, after.ActivityHistory, len(before.ActivityHistory))
	assert.Equal(t, before.Happiness, after.Happiness)
}

func TestCompleteUnknownTaskIsNoop(t *testing.T) {
	e := newTestEngine(t)
	before := e.State()
	_, ok := e.CompleteTask("ghost")
	assert.False(t, ok)
	assert.Equal(t, before, e.State())
}

func TestHappinessGainRoundsHalfAwayFromZero(t *testing.T) {
	e := newTestEngine(t)
	r, ok := e.LogAction("Quick pat", "", 5)
	require.True(t, ok)
	assert.Equal(t, 3, r.HappinessGain)
	assert.Equal(t, 53, r.Happiness)
}

func TestLogActionRepeats(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 3; i++ {
		_, ok := e.LogActionByID("walk")
		require.True(t, ok)
	}
	s := e.State()
	assert.Equal(t, 45, s.TotalPoints)
	assert.Len(t, s.ActivityHistory, 3)
	assert.Empty(t, s.CompletedTaskIDs)

	_, ok := e.LogActionByID("juggle")
	assert.False(t, ok)
	_, ok = e.LogAction("  ", "", 5)
	assert.False(t, ok)
	_, ok = e.LogAction("Nothing", "", 0)
	assert.False(t, ok)
}

func TestFullDayThenRollover(t *testing.T) {
	e := newTestEngine(t)
	var last Reward
	for _, id := range e.Catalog().IDs() {
		r, ok := e.CompleteTask(id)
		require.True(t, ok)
		last = r
	}
	assert.True(t, last.Celebrate)
	assert.True(t, e.AllDone())
	points := e.State().TotalPoints
	assert.Equal(t, 85, points)

	res := e.Rollover(model.DayOf(fixedNow.AddDate(0, 0, 1)))
	require.True(t, res.Changed)
	assert.True(t, res.FullDay())
	assert.Equal(t, 85, res.PointsEarned)

	s := e.State()
	assert.Equal(t, 1, s.StreakDays)
	assert.Empty(t, s.CompletedTaskIDs)
	assert.Empty(t, s.ActivityHistory)
	assert.Equal(t, points, s.TotalPoints)
}

func TestRolloverIdempotent(t *testing.T) {
	e := newTestEngine(t)
	e.CompleteTask("lunch")
	next := model.DayOf(fixedNow.AddDate(0, 0, 1))
	e.Rollover(next)
	before := e.State()

	res := e.Rollover(next)
	assert.False(t, res.Changed)
	assert.Equal(t, before, e.State())
}

func TestRolloverBreaksStreak(t *testing.T) {
	state := model.DefaultAppState()
	state.StreakDays = 4
	state.LastRolloverDate = "2026-03-03"
	state.CompletedTaskIDs = []string{"pee1", "breakfast"}
	e := NewEngine(model.DefaultCatalog(), state)

	res := e.Rollover("2026-03-04")
	assert.True(t, res.Changed)
	assert.Equal(t, 4, res.StreakBefore)
	assert.Equal(t, 0, res.StreakAfter)
	assert.Equal(t, 0, e.State().StreakDays)
}

func TestRolloverFirstRunExemption(t *testing.T) {
	state := model.DefaultAppState()
	state.StreakDays = 3
	e := NewEngine(model.DefaultCatalog(), state)

	res := e.Rollover("2026-03-04")
	assert.True(t, res.Changed)
	s := e.State()
	assert.Equal(t, 3, s.StreakDays)
	assert.Equal(t, model.Day("2026-03-04"), s.LastRolloverDate)
}

func TestDecayTick(t *testing.T) {
	e := newTestEngine(t)
	assert.True(t, e.DecayTick())
	assert.Equal(t, 49, e.State().Happiness)

	e.AdjustHappiness(-500)
	assert.False(t, e.DecayTick())
	assert.Equal(t, 0, e.State().Happiness)

	noPet := NewEngine(model.DefaultCatalog(), model.DefaultAppState())
	assert.False(t, noPet.DecayTick())
	assert.Equal(t, model.InitialHappiness, noPet.State().Happiness)
}

func TestHappinessStaysClamped(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(7))
	ids := e.Catalog().IDs()
	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			e.CompleteTask(ids[rng.Intn(len(ids))])
		case 1:
			e.LogAction("Play", "", 1+rng.Intn(40))
		default:
			e.DecayTick()
		}
		if i%200 == 0 {
			e.Rollover(model.DayOf(fixedNow.AddDate(0, 0, i/200+1)))
		}
		h := e.State().Happiness
		require.GreaterOrEqual(t, h, model.MinHappiness)
		require.LessOrEqual(t, h, model.MaxHappiness)
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(t)
	e.CompleteTask("pee1")
	e.LogActionByID("play")
	e.Reset()
	assert.Equal(t, model.DefaultAppState(), e.State())
}

func TestPetLifecycle(t *testing.T) {
	e := NewEngine(model.DefaultCatalog(), model.DefaultAppState())
	assert.ErrorIs(t, e.EditPet("Max", ""), ErrNoPet)
	assert.ErrorIs(t, e.SetPhoto(model.Photo{MIMEType: "image/png", Data: []byte{1}}), ErrNoPet)

	e.AdjustHappiness(30)
	require.NoError(t, e.SetupPet(model.Pet{Name: "Rex"}, "2026-03-04"))
	s := e.State()
	assert.Equal(t, model.InitialHappiness, s.Happiness)
	assert.Equal(t, model.Day("2026-03-04"), s.LastRolloverDate)

	require.NoError(t, e.SetPhoto(model.Photo{MIMEType: "image/png", Data: []byte{1, 2}}))
	require.NoError(t, e.EditPet(" Max ", "Collie"))
	s = e.State()
	assert.Equal(t, "Max", s.Pet.Name)
	require.NotNil(t, s.Pet.Photo)

	assert.Error(t, e.SetPhoto(model.Photo{MIMEType: "text/plain", Data: []byte{1}}))
	assert.True(t, e.RemovePhoto())
	assert.False(t, e.RemovePhoto())
	assert.ErrorIs(t, e.EditPet("", ""), model.ErrPetNameRequired)
}

func TestStatusesAndRecent(t *testing.T) {
	e := newTestEngine(t)
	e.CompleteTask("breakfast")
	e.LogActionByID("water")

	views := e.Statuses(time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC))
	require.Len(t, views, 7)
	assert.Equal(t, model.TaskStatusLate, views[0].Status)
	assert.Equal(t, model.TaskStatusDone, views[1].Status)
	assert.Equal(t, model.TaskStatusPending, views[2].Status)
	assert.Equal(t, model.TaskStatusPending, views[6].Status)

	recent := e.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "Fresh water", recent[0].Label)
	assert.Len(t, e.Recent(0), 2)
}

func TestStateIsCopied(t *testing.T) {
	e := newTestEngine(t)
	e.CompleteTask("pee1")
	s := e.State()
	s.CompletedTaskIDs[0] = "tampered"
	s.Pet.Name = "Other"
	assert.Equal(t, "pee1", e.State().CompletedTaskIDs[0])
	assert.Equal(t, "Rex", e.State().Pet.Name)
}
