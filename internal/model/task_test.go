package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:30", 8*60 + 30, false},
		{"00:00", 0, false},
		{"23:59", 23*60 + 59, false},
		{"24:00", 0, true},
		{"7:5", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidTimeOfDay) {
				t.Fatalf("parse %q: expected ErrInvalidTimeOfDay, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if got.Minutes() != tc.want {
			t.Fatalf("parse %q minutes = %d, want %d", tc.in, got.Minutes(), tc.want)
		}
	}
}

func TestTimeOfDayOnKeepsLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ref := time.Date(2026, 2, 9, 23, 10, 0, 0, loc)
	got := MustTimeOfDay("19:00").On(ref)
	if got.Hour() != 19 || got.Day() != 9 || got.Location() != loc {
		t.Fatalf("unexpected instant: %v", got)
	}
}

func TestTaskValidate(t *testing.T) {
	task := Task{ID: "walk", Label: "Walk", ScheduledAt: MustTimeOfDay("07:00"), Points: 10}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}

	task.Points = 0
	if err := task.Validate(); !errors.Is(err, ErrInvalidPoints) {
		t.Fatalf("expected ErrInvalidPoints, got: %v", err)
	}

	task.Points = 5
	task.ScheduledAt = TimeOfDay{Hour: 25}
	if err := task.Validate(); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got: %v", err)
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusLate, TaskStatusDone} {
		if !s.IsValid() {
			t.Fatalf("expected valid status: %q", s)
		}
	}
	if TaskStatus("Skipped").IsValid() {
		t.Fatal("expected invalid status")
	}
}

func TestDefaultCatalogShape(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() != 7 {
		t.Fatalf("expected 7 tasks, got %d", c.Len())
	}
	last := c.Tasks()[6]
	if !last.ScheduledAt.IsMidnight() {
		t.Fatalf("expected last task at midnight, got %s", last.ScheduledAt)
	}
	if _, ok := c.Lookup("breakfast"); !ok {
		t.Fatal("expected breakfast in catalog")
	}
	if c.Has("nope") {
		t.Fatal("unexpected id in catalog")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	tasks := []Task{
		{ID: "a", Label: "A", ScheduledAt: MustTimeOfDay("08:00"), Points: 1},
		{ID: "a", Label: "A again", ScheduledAt: MustTimeOfDay("09:00"), Points: 1},
	}
	if _, err := NewCatalog(tasks); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := NewCatalog(nil); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestCatalogTasksReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	tasks := c.Tasks()
	tasks[0].Points = 999
	if got, _ := c.Lookup(tasks[0].ID); got.Points == 999 {
		t.Fatal("catalog mutated through returned slice")
	}
}

func TestActionCatalog(t *testing.T) {
	c := DefaultActionCatalog()
	if c.Len() != 6 {
		t.Fatalf("expected 6 actions, got %d", c.Len())
	}
	walk, ok := c.Lookup("walk")
	if !ok || walk.Points != 15 {
		t.Fatalf("unexpected walk action: %#v ok=%v", walk, ok)
	}
	if _, err := NewActionCatalog([]Action{{ID: "x", Label: "X", Points: -1}}); !errors.Is(err, ErrInvalidPoints) {
		t.Fatalf("expected ErrInvalidPoints, got %v", err)
	}
}

func TestMoodFor(t *testing.T) {
	cases := map[int]string{
		100: "Ecstatic",
		80:  "Ecstatic",
		79:  "Happy",
		40:  "Okay",
		20:  "Sad",
		0:   "Very sad",
		-5:  "Very sad",
	}
	for h, want := range cases {
		if got := MoodFor(h).Label; got != want {
			t.Fatalf("MoodFor(%d) = %q, want %q", h, got, want)
		}
	}
}
