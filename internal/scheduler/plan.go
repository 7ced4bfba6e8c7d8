package scheduler

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/routine"
)

// PlanDay returns the Due and Late reminders still ahead of now for tasks not yet done.
// The midnight task is due at the end of the day and gets no separate late reminder.
func PlanDay(catalog *model.Catalog, now time.Time, done func(taskID string) bool) []model.Reminder {
	day := model.DayOf(now)
	out := make([]model.Reminder, 0, catalog.Len()*2)
	for _, task := range catalog.Tasks() {
		if done != nil && done(task.ID) {
			continue
		}
		due := task.ScheduledAt.On(now)
		if task.ScheduledAt.IsMidnight() {
			due = due.AddDate(0, 0, 1)
		}
		if due.After(now) {
			out = append(out, newReminder(day, task.ID, model.ReminderKindDue, due))
		}
		if task.ScheduledAt.IsMidnight() {
			continue
		}
		if late := routine.LateAt(task, now); late.After(now) {
			out = append(out, newReminder(day, task.ID, model.ReminderKindLate, late))
		}
	}
	return out
}

func newReminder(day model.Day, taskID string, kind model.ReminderKind, at time.Time) model.Reminder {
	return model.Reminder{
		ID:        fmt.Sprintf("%s/%s/%s", day, taskID, kind),
		TaskID:    taskID,
		Kind:      kind,
		TriggerAt: at,
	}
}
