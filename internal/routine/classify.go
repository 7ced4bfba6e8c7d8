package routine

import (
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

const (
	// GraceMinutes is how long after its scheduled time a task stays pending.
	GraceMinutes = 30
	// MidnightLateWindowMinutes is the window after 00:00 in which the midnight task reads as late.
	MidnightLateWindowMinutes = 60
)

func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Classify maps the current minute of day to a task's status.
//
// The midnight task cannot use the general grace rule because minutes of day wrap at 1440:
// it is late only during [00:00, 01:00) and pending at every other time of day.
func Classify(nowMinutes int, task model.Task, done bool) model.TaskStatus {
	if done {
		return model.TaskStatusDone
	}
	if task.ScheduledAt.IsMidnight() {
		if nowMinutes >= 0 && nowMinutes < MidnightLateWindowMinutes {
			return model.TaskStatusLate
		}
		return model.TaskStatusPending
	}
	if nowMinutes > task.ScheduledAt.Minutes()+GraceMinutes {
		return model.TaskStatusLate
	}
	return model.TaskStatusPending
}

// LateAt is the first instant on ref's day at which Classify reports the task late.
func LateAt(task model.Task, ref time.Time) time.Time {
	if task.ScheduledAt.IsMidnight() {
		return task.ScheduledAt.On(ref)
	}
	return task.ScheduledAt.On(ref).Add(time.Duration(GraceMinutes+1) * time.Minute)
}
