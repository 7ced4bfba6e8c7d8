package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinHappiness     = 0
	MaxHappiness     = 100
	InitialHappiness = 50

	DayLayout = "2006-01-02"
)

var ErrInvalidState = errors.New("model: invalid app state")

// Day is a calendar date in YYYY-MM-DD form. The empty Day means "never" and encodes as JSON null.
type Day string

func DayOf(t time.Time) Day { return Day(t.Format(DayLayout)) }

func ParseDay(raw string) (Day, error) {
	if _, err := time.Parse(DayLayout, raw); err != nil {
		return "", fmt.Errorf("model: invalid day %q: %w", raw, err)
	}
	return Day(raw), nil
}

func (d Day) IsZero() bool { return d == "" }

func (d Day) String() string { return string(d) }

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Day) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDay(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type ActivityEntry struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Emoji  string    `json:"emoji,omitempty"`
	Points int       `json:"pointValue"`
	At     time.Time `json:"time"`
}

func NewActivityEntry(label, emoji string, points int, at time.Time) ActivityEntry {
	return ActivityEntry{
		ID:     uuid.New().String(),
		Label:  label,
		Emoji:  emoji,
		Points: points,
		At:     at,
	}
}

// TimeLabel is the HH:MM wall-clock label shown in the timeline.
func (e ActivityEntry) TimeLabel() string {
	return e.At.Format("15:04")
}

// AppState is the single mutable record owned by one device or user.
type AppState struct {
	Pet              *Pet            `json:"pet"`
	Happiness        int             `json:"happiness"`
	CompletedTaskIDs []string        `json:"completedTaskIds"`
	ActivityHistory  []ActivityEntry `json:"activityHistory"`
	StreakDays       int             `json:"streakDays"`
	TotalPoints      int             `json:"totalPoints"`
	LastRolloverDate Day             `json:"lastRolloverDate"`
}

func DefaultAppState() AppState {
	return AppState{
		Happiness:        InitialHappiness,
		CompletedTaskIDs: []string{},
		ActivityHistory:  []ActivityEntry{},
	}
}

func (s AppState) HasPet() bool { return s.Pet != nil }

func (s AppState) IsCompleted(taskID string) bool {
	for _, id := range s.CompletedTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s AppState) Clone() AppState {
	out := s
	if s.Pet != nil {
		p := s.Pet.clone()
		out.Pet = &p
	}
	out.CompletedTaskIDs = append([]string{}, s.CompletedTaskIDs...)
	out.ActivityHistory = append([]ActivityEntry{}, s.ActivityHistory...)
	return out
}

// Validate checks a loaded record against the catalog. Records that fail are discarded, not repaired.
func (s AppState) Validate(catalog *Catalog) error {
	if s.Happiness < MinHappiness || s.Happiness > MaxHappiness {
		return fmt.Errorf("%w: happiness %d out of range", ErrInvalidState, s.Happiness)
	}
	if s.StreakDays < 0 {
		return fmt.Errorf("%w: negative streak", ErrInvalidState)
	}
	if s.TotalPoints < 0 {
		return fmt.Errorf("%w: negative points", ErrInvalidState)
	}
	if s.Pet != nil {
		if err := s.Pet.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
	}
	seen := make(map[string]bool, len(s.CompletedTaskIDs))
	for _, id := range s.CompletedTaskIDs {
		if catalog != nil && !catalog.Has(id) {
			return fmt.Errorf("%w: unknown task id %q", ErrInvalidState, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate task id %q", ErrInvalidState, id)
		}
		seen[id] = true
	}
	return nil
}

func ClampHappiness(v int) int {
	if v < MinHappiness {
		return MinHappiness
	}
	if v > MaxHappiness {
		return MaxHappiness
	}
	return v
}
