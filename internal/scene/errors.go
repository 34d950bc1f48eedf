package scene

import "errors"

// Domain errors for store operations.
var (
	// ErrDuplicateScene indicates AddScene was given a url already present.
	ErrDuplicateScene = errors.New("scene: duplicate scene url")

	// ErrUnknownScene indicates no scene has the requested url.
	ErrUnknownScene = errors.New("scene: unknown scene")

	// ErrSceneNotLoaded indicates ShowScene on a scene that was never loaded.
	ErrSceneNotLoaded = errors.New("scene: scene has not been loaded")

	// ErrInvalidURL indicates an empty scene url.
	ErrInvalidURL = errors.New("scene: invalid scene url")
)

// OpError wraps an error with the operation and scene it concerns.
type OpError struct {
	Op  string
	URL string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + " " + quote(e.URL) + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func quote(s string) string {
	return "'" + s + "'"
}
