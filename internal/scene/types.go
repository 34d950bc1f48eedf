package scene

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSeedURL is the scene every store starts with unless configured
// otherwise.
const DefaultSeedURL = "https://www.nytimes.com/"

// API selects a rendering backend. The zero value means unset.
type API string

const (
	APIUnset API = ""
	APINytar API = "nytar"
	APIWebGL API = "webgl"
)

func (a API) String() string {
	if a == APIUnset {
		return "unset"
	}
	return string(a)
}

// Scene is a read-only copy of one scene record.
type Scene struct {
	URL    string `json:"url" yaml:"url"`
	Loaded bool   `json:"loaded" yaml:"loaded"`
	Shown  bool   `json:"shown" yaml:"shown"`
}

// Dimensions of the viewport. The zero value means unset.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Environment reports the viewport size of the display, if one is available.
type Environment interface {
	Size() (width, height int, ok bool)
}

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventLoaded  EventKind = "loaded"
	EventShown   EventKind = "shown"
	EventResized EventKind = "resized"
)

// Event records one successful store mutation.
type Event struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Kind   EventKind `json:"kind" yaml:"kind"`
	URL    string    `json:"url,omitempty" yaml:"url,omitempty"`
	Width  int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height int       `json:"height,omitempty" yaml:"height,omitempty"`
	At     time.Time `json:"at" yaml:"at"`
}

// Snapshot is a plain copy of the whole store.
type Snapshot struct {
	API          API     `json:"api,omitempty" yaml:"api,omitempty"`
	Width        int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height       int     `json:"height,omitempty" yaml:"height,omitempty"`
	CurrentScene string  `json:"current_scene,omitempty" yaml:"current_scene,omitempty"`
	Scenes       []Scene `json:"scenes" yaml:"scenes"`
	Events       []Event `json:"events" yaml:"events"`
}

// Counts tallies scenes per lifecycle stage.
type Counts struct {
	Scenes int
	Loaded int
	Shown  int
}

func (s Snapshot) Counts() Counts {
	c := Counts{Scenes: len(s.Scenes)}
	for _, sc := range s.Scenes {
		if sc.Loaded {
			c.Loaded++
		}
		if sc.Shown {
			c.Shown++
		}
	}
	return c
}
