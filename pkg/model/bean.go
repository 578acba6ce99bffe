package model

import (
	"fmt"
	"time"
)

type OriginType string

const (
	SingleOrigin OriginType = "Single Origin"
	Blend        OriginType = "Blend"
)

var OriginTypes = []OriginType{SingleOrigin, Blend}

type RoastType string

// Light was dropped in favour of Omni; old values are not accepted on read.
const (
	MediumLight RoastType = "Medium-Light"
	Medium      RoastType = "Medium"
	MediumDark  RoastType = "Medium-Dark"
	Dark        RoastType = "Dark"
	Omni        RoastType = "Omni"
)

var RoastTypes = []RoastType{MediumLight, Medium, MediumDark, Dark, Omni}

// Bean is a coffee in the log. OriginType and RoastType hold one of the known
// values, or are empty when a stored or imported record carried a value that is
// no longer accepted. An empty type must be picked again before the bean can be
// saved through an edit.
type Bean struct {
	ID           string     `json:"id"`
	Roaster      string     `json:"roaster"`
	Name         string     `json:"name"`
	OriginType   OriginType `json:"originType"`
	RoastType    RoastType  `json:"roastType"`
	TastingNotes string     `json:"tastingNotes"`
	Image        *string    `json:"image,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func ParseOriginType(value string) (OriginType, error) {
	for _, origin := range OriginTypes {
		if string(origin) == value {
			return origin, nil
		}
	}

	return "", fmt.Errorf("%w: origin type %q", ErrUnknownValue, value)
}

func ParseRoastType(value string) (RoastType, error) {
	for _, roast := range RoastTypes {
		if string(roast) == value {
			return roast, nil
		}
	}

	return "", fmt.Errorf("%w: roast type %q", ErrUnknownValue, value)
}

func (o OriginType) Valid() bool {
	_, err := ParseOriginType(string(o))

	return err == nil
}

func (r RoastType) Valid() bool {
	_, err := ParseRoastType(string(r))

	return err == nil
}

// Apply replaces every mutable field of the bean with the input.
func (b *Bean) Apply(input BeanInput) {
	b.Roaster = input.Roaster
	b.Name = input.Name
	b.OriginType = OriginType(input.OriginType)
	b.RoastType = RoastType(input.RoastType)
	b.TastingNotes = input.TastingNotes
	b.Image = input.Image
}

func (b Bean) Clone() Bean {
	if b.Image != nil {
		image := *b.Image
		b.Image = &image
	}

	return b
}
