package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

func TestPlanDaySkipsPastAndDone(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 10, 0, 0, time.UTC)
	done := map[string]bool{"pee2": true}
	plan := PlanDay(model.DefaultCatalog(), now, func(id string) bool { return done[id] })

	got := make(map[string]time.Time, len(plan))
	for _, r := range plan {
		if err := r.Validate(); err != nil {
			t.Fatalf("invalid reminder %+v: %v", r, err)
		}
		if !r.TriggerAt.After(now) {
			t.Fatalf("reminder %s is not in the future", r.ID)
		}
		got[r.TaskID+"/"+string(r.Kind)] = r.TriggerAt
	}

	if _, ok := got["lunch/Due"]; ok {
		t.Fatal("lunch due time already passed")
	}
	if at := got["lunch/Late"]; !at.Equal(time.Date(2026, 3, 4, 12, 31, 0, 0, time.UTC)) {
		t.Fatalf("unexpected lunch late time %v", at)
	}
	if _, ok := got["pee2/Due"]; ok {
		t.Fatal("done task should not be planned")
	}
	if at := got["pee4/Due"]; !at.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected midnight due time %v", at)
	}
	if _, ok := got["pee4/Late"]; ok {
		t.Fatal("midnight task should not get a late reminder")
	}
	if _, ok := got["breakfast/Late"]; ok {
		t.Fatal("breakfast late time already passed")
	}
	// lunch late, pee3 due+late, dinner due+late, pee4 due
	if len(plan) != 6 {
		t.Fatalf("expected 6 reminders, got %d", len(plan))
	}
}
