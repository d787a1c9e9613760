// Package inference holds the text and image adapters that turn listing
// descriptions into renovation flags and photos into room labels.
package inference

import (
	"context"

	"github.com/renotrack/renovation-tracker/internal/model"
)

// Area keys used in Judgement.Evidence.
const (
	AreaBedroom    = "bedroom"
	AreaKitchen    = "kitchen"
	AreaLivingRoom = "living_room"
	AreaBathroom   = "bathroom"
	AreaBasement   = "basement"
)

// Sources reported in Judgement.Source.
const (
	SourceKeywords = "keywords"
	SourceOpenAI   = "openai"
)

// Flags mirrors the renovation booleans of model.Renovation.
type Flags struct {
	Bedroom    bool `json:"bedroom"`
	Kitchen    bool `json:"kitchen"`
	LivingRoom bool `json:"living_room"`
	Bathroom   bool `json:"bathroom"`
	Basement   bool `json:"basement"`
}

// Judgement is the outcome of analysing one description.
type Judgement struct {
	Renovations Flags               `json:"renovations"`
	Evidence    map[string][]string `json:"evidence"`
	Confidence  float64             `json:"confidence"`
	Source      string              `json:"source"`
}

// Renovation builds an unsaved renovation row for listingID.
func (j *Judgement) Renovation(listingID uint64) model.Renovation {
	return model.Renovation{
		ListingID:  listingID,
		Bedroom:    j.Renovations.Bedroom,
		Kitchen:    j.Renovations.Kitchen,
		LivingRoom: j.Renovations.LivingRoom,
		Bathroom:   j.Renovations.Bathroom,
		Basement:   j.Renovations.Basement,
	}
}

func (f *Flags) set(area string) {
	switch area {
	case AreaBedroom:
		f.Bedroom = true
	case AreaKitchen:
		f.Kitchen = true
	case AreaLivingRoom:
		f.LivingRoom = true
	case AreaBathroom:
		f.Bathroom = true
	case AreaBasement:
		f.Basement = true
	}
}

// Extractor maps a free-text description to a Judgement.
type Extractor interface {
	Extract(ctx context.Context, description string) (*Judgement, error)
}

// RoomClassifier labels a photo by URL.
type RoomClassifier interface {
	Classify(ctx context.Context, imageURL string) (model.RoomType, error)
}
