package routine

import (
	"testing"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

func taskAt(raw string) model.Task {
	return model.Task{ID: "t", Label: "Task", ScheduledAt: model.MustTimeOfDay(raw), Points: 10}
}

func TestClassifyGeneralWindow(t *testing.T) {
	task := taskAt("19:00")
	cases := []struct {
		name string
		now  string
		done bool
		want model.TaskStatus
	}{
		{name: "before", now: "18:00", want: model.TaskStatusPending},
		{name: "at scheduled time", now: "19:00", want: model.TaskStatusPending},
		{name: "inside grace", now: "19:29", want: model.TaskStatusPending},
		{name: "grace boundary", now: "19:30", want: model.TaskStatusPending},
		{name: "first late minute", now: "19:31", want: model.TaskStatusLate},
		{name: "late", now: "19:45", want: model.TaskStatusLate},
		{name: "end of day", now: "23:59", want: model.TaskStatusLate},
		{name: "done wins", now: "19:45", done: true, want: model.TaskStatusDone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := model.MustTimeOfDay(tc.now).Minutes()
			if got := Classify(now, task, tc.done); got != tc.want {
				t.Fatalf("Classify(%s) = %s, want %s", tc.now, got, tc.want)
			}
		})
	}
}

func TestClassifyMidnightWindow(t *testing.T) {
	task := taskAt("00:00")
	for m := 0; m < model.MinutesPerDay; m++ {
		want := model.TaskStatusPending
		if m < MidnightLateWindowMinutes {
			want = model.TaskStatusLate
		}
		if got := Classify(m, task, false); got != want {
			t.Fatalf("minute %d: got %s, want %s", m, got, want)
		}
	}
	if got := Classify(15, task, true); got != model.TaskStatusDone {
		t.Fatalf("expected done, got %s", got)
	}
}

func TestClassifyLateIffPastGrace(t *testing.T) {
	for _, task := range model.DefaultTasks() {
		if task.ScheduledAt.IsMidnight() {
			continue
		}
		for m := 0; m < model.MinutesPerDay; m++ {
			late := Classify(m, task, false) == model.TaskStatusLate
			if late != (m > task.ScheduledAt.Minutes()+GraceMinutes) {
				t.Fatalf("task %s minute %d: late=%v", task.ID, m, late)
			}
		}
	}
}

func TestLateAt(t *testing.T) {
	ref := time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC)
	got := LateAt(taskAt("19:00"), ref)
	want := time.Date(2026, 3, 4, 19, 31, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("LateAt = %v, want %v", got, want)
	}
	if Classify(MinutesOfDay(got), taskAt("19:00"), false) != model.TaskStatusLate {
		t.Fatal("expected late at LateAt")
	}
	if Classify(MinutesOfDay(got.Add(-time.Minute)), taskAt("19:00"), false) != model.TaskStatusPending {
		t.Fatal("expected pending one minute before LateAt")
	}

	mid := LateAt(taskAt("00:00"), ref)
	if !mid.Equal(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected midnight LateAt %v", mid)
	}
}
