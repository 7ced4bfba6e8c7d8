package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDayJSONNull(t *testing.T) {
	s := DefaultAppState()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"lastRolloverDate":null`) {
		t.Fatalf("expected null rollover date, got %s", raw)
	}
	if !strings.Contains(string(raw), `"pet":null`) {
		t.Fatalf("expected null pet, got %s", raw)
	}

	var back AppState
	if err := json.Unmarshal([]byte(`{"happiness":10,"lastRolloverDate":"2026-02-09"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.LastRolloverDate != "2026-02-09" {
		t.Fatalf("unexpected day: %q", back.LastRolloverDate)
	}
	if err := json.Unmarshal([]byte(`{"lastRolloverDate":"09/02/2026"}`), &back); err == nil {
		t.Fatal("expected error for malformed day")
	}
}

func TestAppStateValidate(t *testing.T) {
	c := DefaultCatalog()
	s := DefaultAppState()
	if err := s.Validate(c); err != nil {
		t.Fatalf("default state invalid: %v", err)
	}

	s.Happiness = 101
	if err := s.Validate(c); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	s = DefaultAppState()
	s.CompletedTaskIDs = []string{"breakfast", "breakfast"}
	if err := s.Validate(c); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	s.CompletedTaskIDs = []string{"ghost"}
	if err := s.Validate(c); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected unknown id rejection, got %v", err)
	}

	s = DefaultAppState()
	s.Pet = &Pet{Name: " "}
	if err := s.Validate(c); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected pet rejection, got %v", err)
	}
}

func TestAppStateCloneIsDeep(t *testing.T) {
	s := DefaultAppState()
	s.Pet = &Pet{Name: "Rex", Photo: &Photo{MIMEType: "image/png", Data: []byte{1, 2, 3}}}
	s.CompletedTaskIDs = append(s.CompletedTaskIDs, "lunch")
	s.ActivityHistory = append(s.ActivityHistory, NewActivityEntry("Lunch", "🍖", 15, time.Now()))

	c := s.Clone()
	c.Pet.Name = "Max"
	c.Pet.Photo.Data[0] = 9
	c.CompletedTaskIDs[0] = "dinner"
	c.ActivityHistory[0].Label = "changed"

	if s.Pet.Name != "Rex" || s.Pet.Photo.Data[0] != 1 {
		t.Fatalf("pet shared between clones: %#v", s.Pet)
	}
	if s.CompletedTaskIDs[0] != "lunch" || s.ActivityHistory[0].Label != "Lunch" {
		t.Fatal("slices shared between clones")
	}
}

func TestPetValidate(t *testing.T) {
	if _, err := NewPet("  ", "lab"); !errors.Is(err, ErrPetNameRequired) {
		t.Fatalf("expected ErrPetNameRequired, got %v", err)
	}
	p, err := NewPet(" Rex ", "")
	if err != nil {
		t.Fatalf("new pet: %v", err)
	}
	if p.Name != "Rex" || !p.HasDefaultPhoto() || p.BreedOrUnknown() != "mixed breed" {
		t.Fatalf("unexpected pet: %#v", p)
	}
	p.Photo = &Photo{MIMEType: "text/plain", Data: []byte("x")}
	if err := p.Validate(); !errors.Is(err, ErrPhotoType) {
		t.Fatalf("expected ErrPhotoType, got %v", err)
	}
	p.Photo = &Photo{MIMEType: "image/jpeg", Data: make([]byte, MaxPhotoBytes+1)}
	if err := p.Validate(); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}
}
