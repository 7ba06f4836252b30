package script

import (
	"fmt"

	"github.com/ivlev/treedecor/internal/geometry"
)

// PhotoAlias is the item id placements use to refer to the photo
// imported for this run.
const PhotoAlias = "@photo"

// Script represents a complete decorating session replayed by the CLI
type Script struct {
	Version     string      `yaml:"version"`
	Photo       *Photo      `yaml:"photo,omitempty"`
	Placements  []Placement `yaml:"placements"`
	Fill        int         `yaml:"fill,omitempty"` // random ornaments after the placements
	Night       bool        `yaml:"night,omitempty"`
	Caption     string      `yaml:"caption,omitempty"`
	Mode        string      `yaml:"mode"` // png or gif
	Environment Environment `yaml:"environment"`
}

// Photo is a custom ornament imported before the placements run.
type Photo struct {
	Path  string     `yaml:"path"` // file, or directory to take the newest image from
	Label string     `yaml:"label,omitempty"`
	Crop  *Rectangle `yaml:"crop,omitempty"`
}

// Placement drops one ornament either at percentage coordinates or,
// when Drop is set, at raw client coordinates over a target box.
type Placement struct {
	Item string  `yaml:"item"`
	X    float64 `yaml:"x,omitempty"`
	Y    float64 `yaml:"y,omitempty"`
	Drop *Drop   `yaml:"drop,omitempty"`
}

type Drop struct {
	ClientX float64      `yaml:"client_x"`
	ClientY float64      `yaml:"client_y"`
	Box     geometry.Box `yaml:"box"`
}

// Rectangle represents a bounding box in source pixels
type Rectangle struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type Environment struct {
	CanShareFiles bool `yaml:"can_share_files"`
	SmallScreen   bool `yaml:"small_screen"`
}

const (
	ModeStill    = "png"
	ModeAnimated = "gif"
)

// Validate checks the parts of a script that do not depend on a catalog.
func (s *Script) Validate() error {
	switch s.Mode {
	case "", ModeStill, ModeAnimated:
	default:
		return fmt.Errorf("unknown export mode %q", s.Mode)
	}
	if s.Fill < 0 {
		return fmt.Errorf("fill must not be negative, got %d", s.Fill)
	}
	for i, p := range s.Placements {
		if p.Item == "" {
			return fmt.Errorf("placement %d: item is empty", i+1)
		}
		if p.Item == PhotoAlias && s.Photo == nil {
			return fmt.Errorf("placement %d: %s used without a photo", i+1, PhotoAlias)
		}
	}
	if s.Photo != nil && s.Photo.Path == "" {
		return fmt.Errorf("photo path is empty")
	}
	return nil
}
