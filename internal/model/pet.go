package model

import (
	"errors"
	"fmt"
	"strings"
)

const MaxPhotoBytes = 2 << 20

var (
	ErrPetNameRequired = errors.New("model: pet name is required")
	ErrPhotoTooLarge   = errors.New("model: photo exceeds size limit")
	ErrPhotoType       = errors.New("model: photo must be an image")
)

// Photo is an uploaded pet picture. A nil *Photo on a Pet means the default photo.
type Photo struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

func (p Photo) Validate() error {
	if !strings.HasPrefix(p.MIMEType, "image/") {
		return fmt.Errorf("%w: %q", ErrPhotoType, p.MIMEType)
	}
	if len(p.Data) == 0 {
		return errors.New("model: photo data is empty")
	}
	if len(p.Data) > MaxPhotoBytes {
		return fmt.Errorf("%w: %d bytes", ErrPhotoTooLarge, len(p.Data))
	}
	return nil
}

type Pet struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Photo *Photo `json:"photo"`
}

func NewPet(name, breed string) (Pet, error) {
	p := Pet{Name: strings.TrimSpace(name), Breed: strings.TrimSpace(breed)}
	if err := p.Validate(); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (p Pet) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrPetNameRequired
	}
	if p.Photo != nil {
		return p.Photo.Validate()
	}
	return nil
}

func (p Pet) HasDefaultPhoto() bool { return p.Photo == nil }

// BreedOrUnknown is the breed as shown in prompts and headers.
func (p Pet) BreedOrUnknown() string {
	if strings.TrimSpace(p.Breed) == "" {
		return "mixed breed"
	}
	return p.Breed
}

func (p Pet) clone() Pet {
	out := p
	if p.Photo != nil {
		ph := *p.Photo
		ph.Data = append([]byte(nil), p.Photo.Data...)
		out.Photo = &ph
	}
	return out
}
