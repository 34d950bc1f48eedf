package reactive_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scenestage/internal/reactive"
)

var _ = Describe("Runtime", func() {
	var rt *reactive.Runtime

	BeforeEach(func() {
		rt = reactive.New()
	})

	Describe("enforcement", func() {
		It("rejects writes outside an action by default", func() {
			v := reactive.NewValue(rt, "width", 0)
			err := v.Set(10)
			Expect(err).To(MatchError(reactive.ErrOutsideAction))
			Expect(v.Peek()).To(Equal(0))
		})

		It("accepts writes inside an action", func() {
			v := reactive.NewValue(rt, "width", 0)
			Expect(rt.Action("set", func() error { return v.Set(10) })).To(Succeed())
			Expect(v.Peek()).To(Equal(10))
		})

		It("only guards observed values in observed mode", func() {
			rt = reactive.New(reactive.WithEnforceMode(reactive.EnforceObserved))
			free := reactive.NewValue(rt, "free", 0)
			watched := reactive.NewValue(rt, "watched", 0)
			rt.Autorun("watch", func() { watched.Get() })

			Expect(free.Set(1)).To(Succeed())
			Expect(watched.Set(1)).To(MatchError(reactive.ErrOutsideAction))
		})

		It("never guards in never mode and runs reactions per write", func() {
			rt = reactive.New(reactive.WithEnforceMode(reactive.EnforceNever))
			v := reactive.NewValue(rt, "v", 0)
			runs := 0
			rt.Autorun("count", func() {
				v.Get()
				runs++
			})
			Expect(v.Set(1)).To(Succeed())
			Expect(v.Set(2)).To(Succeed())
			Expect(runs).To(Equal(3))
		})
	})

	DescribeTable("ParseEnforceMode",
		func(in string, want reactive.EnforceMode, ok bool) {
			got, err := reactive.ParseEnforceMode(in)
			if !ok {
				Expect(err).To(MatchError(reactive.ErrUnknownEnforceMode))
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("empty", "", reactive.EnforceAlways, true),
		Entry("always", "always", reactive.EnforceAlways, true),
		Entry("observed", "Observed", reactive.EnforceObserved, true),
		Entry("never", " never ", reactive.EnforceNever, true),
		Entry("bogus", "sometimes", reactive.EnforceAlways, false),
	)

	Describe("Action", func() {
		It("batches several writes into one reaction run", func() {
			a := reactive.NewValue(rt, "a", 0)
			b := reactive.NewValue(rt, "b", 0)
			runs := 0
			rt.Autorun("sum", func() {
				_ = a.Get() + b.Get()
				runs++
			})
			Expect(runs).To(Equal(1))

			Expect(rt.Action("both", func() error {
				return errors.Join(a.Set(1), b.Set(2))
			})).To(Succeed())
			Expect(runs).To(Equal(2))
		})

		It("defers reactions until the outermost action returns", func() {
			v := reactive.NewValue(rt, "v", 0)
			runs := 0
			rt.Autorun("count", func() {
				v.Get()
				runs++
			})

			Expect(rt.Action("outer", func() error {
				Expect(rt.Action("inner", func() error { return v.Set(1) })).To(Succeed())
				Expect(runs).To(Equal(1))
				return v.Set(2)
			})).To(Succeed())
			Expect(runs).To(Equal(2))
		})

		It("returns the error of fn", func() {
			boom := errors.New("boom")
			Expect(rt.Action("fail", func() error { return boom })).To(MatchError(boom))
			Expect(rt.InAction()).To(BeFalse())
		})

		It("does not notify when the value is unchanged", func() {
			v := reactive.NewValue(rt, "v", 5)
			runs := 0
			rt.Autorun("count", func() {
				v.Get()
				runs++
			})
			Expect(rt.Action("same", func() error { return v.Set(5) })).To(Succeed())
			Expect(runs).To(Equal(1))
		})

		It("counts actions and reactions", func() {
			v := reactive.NewValue(rt, "v", 0)
			rt.Autorun("count", func() { v.Get() })
			Expect(rt.Action("set", func() error { return v.Set(1) })).To(Succeed())
			Expect(rt.Stats()).To(Equal(reactive.Stats{Actions: 1, Reactions: 1}))
		})
	})

	Describe("Reaction", func() {
		It("only reacts to values read during the last Track", func() {
			a := reactive.NewValue(rt, "a", 0)
			b := reactive.NewValue(rt, "b", 0)
			invalidated := 0
			r := rt.NewReaction("render", func() { invalidated++ })

			r.Track(func() { a.Get() })
			Expect(r.Dependencies()).To(Equal(1))

			Expect(rt.Action("b", func() error { return b.Set(1) })).To(Succeed())
			Expect(invalidated).To(Equal(0))

			Expect(rt.Action("a", func() error { return a.Set(1) })).To(Succeed())
			Expect(invalidated).To(Equal(1))

			r.Track(func() { b.Get() })
			Expect(a.Observers()).To(Equal(0))
			Expect(rt.Action("a", func() error { return a.Set(2) })).To(Succeed())
			Expect(invalidated).To(Equal(1))
		})

		It("stops reacting once disposed", func() {
			v := reactive.NewValue(rt, "v", 0)
			invalidated := 0
			r := rt.NewReaction("render", func() { invalidated++ })
			r.Track(func() { v.Get() })
			r.Dispose()

			Expect(r.Disposed()).To(BeTrue())
			Expect(v.Observers()).To(Equal(0))
			Expect(rt.Action("v", func() error { return v.Set(1) })).To(Succeed())
			Expect(invalidated).To(Equal(0))
		})

		It("ignores reads made through Untracked", func() {
			v := reactive.NewValue(rt, "v", 0)
			r := rt.NewReaction("render", nil)
			r.Track(func() {
				rt.Untracked(func() { v.Get() })
			})
			Expect(r.Dependencies()).To(Equal(0))
		})

		It("stops flushing reactions that never settle", func() {
			rt = reactive.New(reactive.WithEnforceMode(reactive.EnforceNever))
			v := reactive.NewValue(rt, "v", 0)
			rt.Autorun("loop", func() {
				n := v.Get()
				_ = v.Set(n + 1)
			})
			Expect(v.Peek()).To(BeNumerically(">", 1))
			Expect(v.Peek()).To(BeNumerically("<=", 102))
		})
	})

	Describe("When", func() {
		It("fires once when the predicate becomes true", func() {
			ready := reactive.NewValue(rt, "ready", false)
			fired := 0
			rt.When("ready", func() bool { return ready.Get() }, func() { fired++ })
			Expect(fired).To(Equal(0))

			Expect(rt.Action("on", func() error { return ready.Set(true) })).To(Succeed())
			Expect(fired).To(Equal(1))

			Expect(rt.Action("off", func() error { return ready.Set(false) })).To(Succeed())
			Expect(rt.Action("on", func() error { return ready.Set(true) })).To(Succeed())
			Expect(fired).To(Equal(1))
			Expect(ready.Observers()).To(Equal(0))
		})

		It("fires immediately when the predicate already holds", func() {
			fired := false
			rt.When("now", func() bool { return true }, func() { fired = true })
			Expect(fired).To(BeTrue())
		})

		It("runs the effect inside an action", func() {
			target := reactive.NewValue(rt, "target", 0)
			var err error
			rt.When("write", func() bool { return true }, func() { err = target.Set(7) })
			Expect(err).NotTo(HaveOccurred())
			Expect(target.Peek()).To(Equal(7))
		})

		It("never fires after being disposed", func() {
			ready := reactive.NewValue(rt, "ready", false)
			fired := false
			dispose := rt.When("ready", func() bool { return ready.Get() }, func() { fired = true })
			dispose()
			Expect(rt.Action("on", func() error { return ready.Set(true) })).To(Succeed())
			Expect(fired).To(BeFalse())
		})
	})
})
