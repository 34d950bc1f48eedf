package scene

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/scenestage/internal/reactive"
)

type record struct {
	url    string
	loaded *reactive.Value[bool]
	shown  *reactive.Value[bool]
}

// Store owns the scene records, the viewport dimensions and the current
// scene.
type Store struct {
	rt     *reactive.Runtime
	logger *slog.Logger
	now    func() time.Time
	newID  func() uuid.UUID
	seed   []string

	api     *reactive.Value[API]
	dims    *reactive.Value[Dimensions]
	scenes  *reactive.Value[[]*record]
	current *reactive.Value[string]
	events  *reactive.Value[[]Event]
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces uuid.New for event ids.
func WithIDs(newID func() uuid.UUID) Option {
	return func(s *Store) { s.newID = newID }
}

// WithSeedScenes replaces the default seed scene. Seeds are added in order.
func WithSeedScenes(urls ...string) Option {
	return func(s *Store) { s.seed = urls }
}

// New creates a store on rt and adds the seed scenes.
func New(rt *reactive.Runtime, opts ...Option) (*Store, error) {
	s := &Store{
		rt:     rt,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  uuid.New,
		seed:   []string{DefaultSeedURL},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.api = reactive.NewValue(rt, "api", APIUnset)
	s.dims = reactive.NewValue(rt, "dimensions", Dimensions{})
	s.scenes = reactive.NewValueFunc[[]*record](rt, "scenes", nil, nil)
	s.current = reactive.NewValue(rt, "currentScene", "")
	s.events = reactive.NewValueFunc[[]Event](rt, "events", nil, nil)

	for _, url := range s.seed {
		if err := s.AddScene(url); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Runtime() *reactive.Runtime { return s.rt }

// AddScene appends an unloaded scene.
func (s *Store) AddScene(url string) error {
	return s.rt.Action("addScene", func() error {
		if url == "" {
			return &OpError{Op: "add", URL: url, Err: ErrInvalidURL}
		}
		scenes := s.scenes.Peek()
		if s.lookup(url) != nil {
			return &OpError{Op: "add", URL: url, Err: ErrDuplicateScene}
		}

		rec := &record{
			url:    url,
			loaded: reactive.NewValue(s.rt, "scene.loaded", false),
			shown:  reactive.NewValue(s.rt, "scene.shown", false),
		}
		next := make([]*record, len(scenes), len(scenes)+1)
		copy(next, scenes)
		next = append(next, rec)

		return errors.Join(
			s.scenes.Set(next),
			s.emit(Event{Kind: EventAdded, URL: url}),
		)
	})
}

// LoadScene marks a scene loaded. Loading a loaded scene succeeds again.
func (s *Store) LoadScene(url string) error {
	return s.rt.Action("loadScene", func() error {
		rec := s.lookup(url)
		if rec == nil {
			return &OpError{Op: "load", URL: url, Err: ErrUnknownScene}
		}
		return errors.Join(
			rec.loaded.Set(true),
			s.emit(Event{Kind: EventLoaded, URL: url}),
		)
	})
}

// ShowScene makes a loaded scene current and marks it shown. An unknown url
// is ignored. Scenes shown earlier stay marked shown.
func (s *Store) ShowScene(url string) error {
	return s.rt.Action("showScene", func() error {
		rec := s.lookup(url)
		if rec == nil {
			return nil
		}
		if !rec.loaded.Peek() {
			return &OpError{Op: "show", URL: url, Err: ErrSceneNotLoaded}
		}
		return errors.Join(
			s.current.Set(url),
			rec.shown.Set(true),
			s.emit(Event{Kind: EventShown, URL: url}),
		)
	})
}

// SyncDimensions copies the environment's viewport size into the store when
// the environment is available and the dimensions are still unset. It
// reports whether it wrote.
func (s *Store) SyncDimensions(env Environment) (bool, error) {
	var synced bool
	err := s.rt.Action("syncDimensions", func() error {
		if s.dims.Peek().Valid() {
			return nil
		}
		w, h, ok := env.Size()
		if !ok || w <= 0 || h <= 0 {
			return nil
		}
		synced = true
		return errors.Join(
			s.dims.Set(Dimensions{Width: w, Height: h}),
			s.emit(Event{Kind: EventResized, Width: w, Height: h}),
		)
	})
	return synced, err
}

// WatchDimensions registers the one-shot rule that syncs the dimensions the
// first time env is available while they are unset.
func (s *Store) WatchDimensions(env Environment) reactive.Disposer {
	return s.rt.When("syncDimensions",
		func() bool {
			_, _, ok := env.Size()
			return ok && !s.dims.Get().Valid()
		},
		func() {
			if _, err := s.SyncDimensions(env); err != nil {
				s.logger.Error("sync dimensions", "err", err)
			}
		},
	)
}

func (s *Store) API() API { return s.api.Get() }

func (s *Store) Dimensions() Dimensions { return s.dims.Get() }

func (s *Store) Width() (int, bool) {
	d := s.dims.Get()
	return d.Width, d.Valid()
}

func (s *Store) Height() (int, bool) {
	d := s.dims.Get()
	return d.Height, d.Valid()
}

// Scenes returns the scenes in display order.
func (s *Store) Scenes() []Scene {
	recs := s.scenes.Get()
	out := make([]Scene, len(recs))
	for i, rec := range recs {
		out[i] = Scene{URL: rec.url, Loaded: rec.loaded.Get(), Shown: rec.shown.Get()}
	}
	return out
}

func (s *Store) Scene(url string) (Scene, bool) {
	for _, rec := range s.scenes.Get() {
		if rec.url == url {
			return Scene{URL: rec.url, Loaded: rec.loaded.Get(), Shown: rec.shown.Get()}, true
		}
	}
	return Scene{}, false
}

func (s *Store) CurrentScene() (string, bool) {
	url := s.current.Get()
	return url, url != ""
}

func (s *Store) Events() []Event {
	return append([]Event(nil), s.events.Get()...)
}

// Snapshot copies the whole state without registering reads.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	s.rt.Untracked(func() {
		d := s.dims.Get()
		snap = Snapshot{
			API:          s.api.Get(),
			Width:        d.Width,
			Height:       d.Height,
			CurrentScene: s.current.Get(),
			Scenes:       s.Scenes(),
			Events:       s.Events(),
		}
	})
	return snap
}

func (s *Store) lookup(url string) *record {
	for _, rec := range s.scenes.Peek() {
		if rec.url == url {
			return rec
		}
	}
	return nil
}

func (s *Store) emit(ev Event) error {
	ev.ID = s.newID()
	ev.At = s.now()

	events := s.events.Peek()
	next := make([]Event, len(events), len(events)+1)
	copy(next, events)
	next = append(next, ev)

	switch ev.Kind {
	case EventResized:
		s.logger.Info("dimensions synced", "width", ev.Width, "height", ev.Height, "event", ev.ID)
	default:
		s.logger.Info("scene "+string(ev.Kind), "url", ev.URL, "event", ev.ID)
	}
	return s.events.Set(next)
}
