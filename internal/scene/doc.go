// Package scene holds the application state of the scene stage: the viewport
// dimensions, an ordered list of scenes and the scene currently shown.
//
// A scene moves forward through Unloaded, Loaded and Shown. All writes go
// through the store's operations, which validate before writing and run as
// single [reactive.Runtime] actions, so a display tracking the store
// re-renders once per operation.
//
// # Example
//
//	rt := reactive.New()
//	st, _ := scene.New(rt)
//	_ = st.LoadScene(scene.DefaultSeedURL)
//	_ = st.ShowScene(scene.DefaultSeedURL)
//
// # Thread Safety
//
// Store is NOT thread-safe; drive it from one event loop.
package scene
