package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("model: invalid time of day")
	ErrInvalidPoints    = errors.New("model: point value must be positive")
	ErrInvalidStatus    = errors.New("model: invalid task status")
)

const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock hour and minute, 24h.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	t := TimeOfDay{Hour: h, Minute: m}
	if !t.IsValid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	return t, nil
}

func MustTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) IsValid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) IsMidnight() bool {
	return t.Hour == 0 && t.Minute == 0
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant this time of day falls on the calendar day of ref, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	y, mo, d := ref.Date()
	return time.Date(y, mo, d, t.Hour, t.Minute, 0, 0, ref.Location())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "Pending"
	TaskStatusLate    TaskStatus = "Late"
	TaskStatusDone    TaskStatus = "Done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusLate, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Task is one scheduled daily chore from the catalog.
type Task struct {
	ID          string    `yaml:"id"`
	Label       string    `yaml:"label"`
	Emoji       string    `yaml:"emoji"`
	ScheduledAt TimeOfDay `yaml:"time"`
	Points      int       `yaml:"points"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Label) == "" {
		return fmt.Errorf("model: task %q label is required", t.ID)
	}
	if !t.ScheduledAt.IsValid() {
		return fmt.Errorf("%w: task %q", ErrInvalidTimeOfDay, t.ID)
	}
	if t.Points <= 0 {
		return fmt.Errorf("%w: task %q", ErrInvalidPoints, t.ID)
	}
	return nil
}

// Action is an ad-hoc, repeatable care action such as petting or an extra walk.
type Action struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Emoji  string `yaml:"emoji"`
	Points int    `yaml:"points"`
}

func (a Action) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: action id is required")
	}
	if strings.TrimSpace(a.Label) == "" {
		return fmt.Errorf("model: action %q label is required", a.ID)
	}
	if a.Points <= 0 {
		return fmt.Errorf("%w: action %q", ErrInvalidPoints, a.ID)
	}
	return nil
}
