package reactive

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// maxFlushIterations bounds how many rounds of reactions a single flush may
// run before giving up.
const maxFlushIterations = 100

type EnforceMode int

const (
	EnforceAlways EnforceMode = iota
	EnforceObserved
	EnforceNever
)

func (m EnforceMode) String() string {
	switch m {
	case EnforceAlways:
		return "always"
	case EnforceObserved:
		return "observed"
	case EnforceNever:
		return "never"
	default:
		return fmt.Sprintf("EnforceMode(%d)", int(m))
	}
}

// ParseEnforceMode maps a config name to an EnforceMode. The empty string
// means EnforceAlways.
func ParseEnforceMode(s string) (EnforceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return EnforceAlways, nil
	case "observed":
		return EnforceObserved, nil
	case "never":
		return EnforceNever, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEnforceMode, s)
	}
}

// Stats counts work done by a Runtime.
type Stats struct {
	Actions   int
	Reactions int
}

type Runtime struct {
	mode   EnforceMode
	logger *slog.Logger

	depth    int
	flushing bool
	tracking *Reaction
	pending  []*Reaction
	nextID   uint64
	stats    Stats
}

type Option func(*Runtime)

func WithEnforceMode(mode EnforceMode) Option {
	return func(rt *Runtime) { rt.mode = mode }
}

func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

func New(opts ...Option) *Runtime {
	rt := &Runtime{
		mode:   EnforceAlways,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) EnforceMode() EnforceMode { return rt.mode }

func (rt *Runtime) Stats() Stats { return rt.stats }

// InAction reports whether the caller runs inside an action.
func (rt *Runtime) InAction() bool { return rt.depth > 0 }

// Action runs fn as one batch of writes. Nested actions join the outermost
// batch. Invalidated reactions run once each after the outermost action
// returns, whether or not fn failed.
func (rt *Runtime) Action(name string, fn func() error) error {
	rt.depth++
	rt.stats.Actions++
	defer func() {
		rt.depth--
		if rt.depth == 0 {
			rt.flush()
		}
	}()

	err := fn()
	if err != nil {
		rt.logger.Debug("action failed", "action", name, "err", err)
	}
	return err
}

// Untracked runs fn without recording reads into the tracking reaction.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.tracking
	rt.tracking = nil
	defer func() { rt.tracking = prev }()
	fn()
}

func (rt *Runtime) checkWrite(name string, observed bool) error {
	if rt.depth > 0 {
		return nil
	}
	switch rt.mode {
	case EnforceAlways:
		return fmt.Errorf("%w: %s", ErrOutsideAction, name)
	case EnforceObserved:
		if observed {
			return fmt.Errorf("%w: %s", ErrOutsideAction, name)
		}
	}
	return nil
}

func (rt *Runtime) reportRead(o observable) {
	r := rt.tracking
	if r == nil || r.disposed {
		return
	}
	if _, ok := r.deps[o]; ok {
		return
	}
	r.deps[o] = struct{}{}
	o.addObserver(r)
}

// invalidate schedules the observers of a changed value. Outside an action
// the schedule is flushed right away.
func (rt *Runtime) invalidate(observers map[*Reaction]struct{}) {
	if len(observers) > 0 {
		batch := make([]*Reaction, 0, len(observers))
		for r := range observers {
			if !r.scheduled && !r.disposed {
				batch = append(batch, r)
			}
		}
		sort.Slice(batch, func(i, j int) bool { return batch[i].id < batch[j].id })
		for _, r := range batch {
			r.scheduled = true
			rt.pending = append(rt.pending, r)
		}
	}
	if rt.depth == 0 {
		rt.flush()
	}
}

func (rt *Runtime) flush() {
	if rt.flushing {
		return
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	for i := 0; len(rt.pending) > 0; i++ {
		if i >= maxFlushIterations {
			rt.logger.Error("dropping reactions", "err", ErrNoConvergence, "pending", len(rt.pending))
			for _, r := range rt.pending {
				r.scheduled = false
			}
			rt.pending = nil
			return
		}
		batch := rt.pending
		rt.pending = nil
		for _, r := range batch {
			r.scheduled = false
			if r.disposed {
				continue
			}
			rt.stats.Reactions++
			r.onInvalidate()
		}
	}
}
