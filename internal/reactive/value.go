package reactive

type observable interface {
	addObserver(r *Reaction)
	removeObserver(r *Reaction)
}

// Value is an observable cell.
type Value[T any] struct {
	rt        *Runtime
	name      string
	v         T
	equal     func(a, b T) bool
	observers map[*Reaction]struct{}
}

// NewValue creates a value that only notifies when a write changes it.
func NewValue[T comparable](rt *Runtime, name string, initial T) *Value[T] {
	return NewValueFunc(rt, name, initial, func(a, b T) bool { return a == b })
}

// NewValueFunc creates a value compared with equal. A nil equal makes every
// write notify, which suits slices and other non-comparable types.
func NewValueFunc[T any](rt *Runtime, name string, initial T, equal func(a, b T) bool) *Value[T] {
	return &Value[T]{
		rt:        rt,
		name:      name,
		v:         initial,
		equal:     equal,
		observers: make(map[*Reaction]struct{}),
	}
}

func (v *Value[T]) Name() string { return v.name }

// Get returns the current value and records the read.
func (v *Value[T]) Get() T {
	v.rt.reportRead(v)
	return v.v
}

// Peek returns the current value without recording the read.
func (v *Value[T]) Peek() T { return v.v }

// Set writes x and invalidates the observers when x differs from the
// current value.
func (v *Value[T]) Set(x T) error {
	if err := v.rt.checkWrite(v.name, len(v.observers) > 0); err != nil {
		return err
	}
	if v.equal != nil && v.equal(v.v, x) {
		return nil
	}
	v.v = x
	v.rt.invalidate(v.observers)
	return nil
}

// Observers reports how many reactions currently depend on v.
func (v *Value[T]) Observers() int { return len(v.observers) }

func (v *Value[T]) addObserver(r *Reaction) { v.observers[r] = struct{}{} }

func (v *Value[T]) removeObserver(r *Reaction) { delete(v.observers, r) }
