package reactive

// Disposer cancels a reaction.
type Disposer func()

// Reaction tracks the values read by the last Track call and invokes its
// callback once per batch in which any of them changed.
type Reaction struct {
	rt           *Runtime
	id           uint64
	name         string
	onInvalidate func()
	deps         map[observable]struct{}
	scheduled    bool
	disposed     bool
}

func (rt *Runtime) NewReaction(name string, onInvalidate func()) *Reaction {
	rt.nextID++
	if onInvalidate == nil {
		onInvalidate = func() {}
	}
	return &Reaction{
		rt:           rt,
		id:           rt.nextID,
		name:         name,
		onInvalidate: onInvalidate,
		deps:         make(map[observable]struct{}),
	}
}

func (r *Reaction) Name() string { return r.name }

// Track runs fn and replaces the reaction's dependencies with the values fn
// read.
func (r *Reaction) Track(fn func()) {
	if r.disposed {
		fn()
		return
	}
	r.clearDeps()

	prev := r.rt.tracking
	r.rt.tracking = r
	defer func() { r.rt.tracking = prev }()
	fn()
}

func (r *Reaction) Dependencies() int { return len(r.deps) }

func (r *Reaction) Disposed() bool { return r.disposed }

func (r *Reaction) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.clearDeps()
}

func (r *Reaction) clearDeps() {
	for o := range r.deps {
		o.removeObserver(r)
	}
	clear(r.deps)
}

// Autorun runs fn now and again whenever a value it read changes.
func (rt *Runtime) Autorun(name string, fn func()) Disposer {
	r := rt.NewReaction(name, nil)
	r.onInvalidate = func() { r.Track(fn) }
	r.Track(fn)
	return r.Dispose
}

// When evaluates predicate now and after every change to what it read. The
// first time it holds, the rule disposes itself and runs effect inside an
// action. effect runs at most once.
func (rt *Runtime) When(name string, predicate func() bool, effect func()) Disposer {
	r := rt.NewReaction(name, nil)
	check := func() {
		var ok bool
		r.Track(func() { ok = predicate() })
		if !ok || r.disposed {
			return
		}
		r.Dispose()
		rt.logger.Debug("when rule fired", "rule", name)
		_ = rt.Action(name, func() error {
			effect()
			return nil
		})
	}
	r.onInvalidate = check
	check()
	return r.Dispose
}
