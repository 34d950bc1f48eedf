// Package viewport provides display environments that report a viewport
// size.
package viewport

import "github.com/san-kum/scenestage/internal/reactive"

// Size of a viewport in cells.
type Size struct {
	Width, Height int
}

func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

// Static always reports the same size.
type Static Size

func (s Static) Size() (int, int, bool) {
	return s.Width, s.Height, Size(s).Valid()
}

// Absent is an environment with no display.
type Absent struct{}

func (Absent) Size() (int, int, bool) { return 0, 0, false }

// Window is a display whose size is learned from resize events. It is
// unavailable until the first valid resize.
type Window struct {
	rt   *reactive.Runtime
	size *reactive.Value[Size]
}

func NewWindow(rt *reactive.Runtime) *Window {
	return &Window{
		rt:   rt,
		size: reactive.NewValue(rt, "window.size", Size{}),
	}
}

// Resize records the current window size.
func (w *Window) Resize(width, height int) error {
	return w.rt.Action("resize", func() error {
		return w.size.Set(Size{Width: width, Height: height})
	})
}

func (w *Window) Size() (int, int, bool) {
	s := w.size.Get()
	return s.Width, s.Height, s.Valid()
}
