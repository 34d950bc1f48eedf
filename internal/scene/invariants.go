package scene

import (
	"errors"
	"fmt"
)

// ErrInvariant indicates a snapshot that breaks a store invariant.
var ErrInvariant = errors.New("scene: invariant violated")

// CheckInvariants verifies a snapshot: unique urls, shown scenes are loaded,
// the current scene is shown, and the dimensions are set together.
func CheckInvariants(s Snapshot) error {
	shown := make(map[string]bool, len(s.Scenes))
	for _, sc := range s.Scenes {
		if _, dup := shown[sc.URL]; dup {
			return fmt.Errorf("%w: url %q appears twice", ErrInvariant, sc.URL)
		}
		if sc.Shown && !sc.Loaded {
			return fmt.Errorf("%w: %q shown but not loaded", ErrInvariant, sc.URL)
		}
		shown[sc.URL] = sc.Shown
	}
	if s.CurrentScene != "" && !shown[s.CurrentScene] {
		return fmt.Errorf("%w: current scene %q is not shown", ErrInvariant, s.CurrentScene)
	}
	if (s.Width > 0) != (s.Height > 0) {
		return fmt.Errorf("%w: dimensions %dx%d half set", ErrInvariant, s.Width, s.Height)
	}
	return nil
}
