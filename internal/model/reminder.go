package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderKind = errors.New("model: invalid reminder kind")

type ReminderKind string

const (
	// ReminderKindDue fires at the task's scheduled time.
	ReminderKindDue ReminderKind = "Due"
	// ReminderKindLate fires when the task turns late.
	ReminderKindLate ReminderKind = "Late"
)

func (r ReminderKind) IsValid() bool {
	switch r {
	case ReminderKindDue, ReminderKindLate:
		return true
	default:
		return false
	}
}

type Reminder struct {
	ID        string
	TaskID    string
	Kind      ReminderKind
	TriggerAt time.Time
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.TaskID) == "" {
		return errors.New("model: reminder task_id is required")
	}
	if r.TriggerAt.IsZero() {
		return errors.New("model: reminder trigger_at is required")
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderKind, r.Kind)
	}
	return nil
}
