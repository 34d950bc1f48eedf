package scene_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scenestage/internal/reactive"
	"github.com/san-kum/scenestage/internal/scene"
	"github.com/san-kum/scenestage/internal/viewport"
)

const seed = scene.DefaultSeedURL

var _ = Describe("Store", func() {
	var (
		rt *reactive.Runtime
		st *scene.Store
	)

	BeforeEach(func() {
		rt = reactive.New()
		var err error
		st, err = scene.New(rt)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("initial state", func() {
		It("starts with the seed scene and nothing else set", func() {
			Expect(st.Scenes()).To(Equal([]scene.Scene{{URL: seed}}))
			_, ok := st.CurrentScene()
			Expect(ok).To(BeFalse())
			_, ok = st.Width()
			Expect(ok).To(BeFalse())
			_, ok = st.Height()
			Expect(ok).To(BeFalse())
			Expect(st.API()).To(Equal(scene.APIUnset))
		})

		It("accepts configured seeds", func() {
			st, err := scene.New(rt, scene.WithSeedScenes("https://a/", "https://b/"))
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Scenes()).To(HaveLen(2))
			Expect(st.Scenes()[1].URL).To(Equal("https://b/"))
		})

		It("rejects duplicate seeds", func() {
			_, err := scene.New(rt, scene.WithSeedScenes("https://a/", "https://a/"))
			Expect(err).To(MatchError(scene.ErrDuplicateScene))
		})
	})

	Describe("AddScene", func() {
		It("appends distinct urls in call order", func() {
			urls := []string{"https://one/", "https://two/", "https://three/"}
			for _, u := range urls {
				Expect(st.AddScene(u)).To(Succeed())
			}

			scenes := st.Scenes()
			Expect(scenes).To(HaveLen(len(urls) + 1))
			for i, u := range urls {
				Expect(scenes[i+1]).To(Equal(scene.Scene{URL: u}))
			}
		})

		It("rejects a duplicate url without changing the scenes", func() {
			Expect(st.AddScene("https://one/")).To(Succeed())
			before := st.Scenes()

			err := st.AddScene("https://one/")
			Expect(err).To(MatchError(scene.ErrDuplicateScene))

			var opErr *scene.OpError
			Expect(err).To(BeAssignableToTypeOf(opErr))
			Expect(st.Scenes()).To(Equal(before))
		})

		It("rejects an empty url", func() {
			Expect(st.AddScene("")).To(MatchError(scene.ErrInvalidURL))
			Expect(st.Scenes()).To(HaveLen(1))
		})
	})

	Describe("LoadScene", func() {
		It("marks an existing scene loaded but not shown", func() {
			Expect(st.LoadScene(seed)).To(Succeed())
			sc, ok := st.Scene(seed)
			Expect(ok).To(BeTrue())
			Expect(sc.Loaded).To(BeTrue())
			Expect(sc.Shown).To(BeFalse())
		})

		It("is idempotent", func() {
			Expect(st.LoadScene(seed)).To(Succeed())
			Expect(st.LoadScene(seed)).To(Succeed())
			Expect(st.Scenes()[0].Loaded).To(BeTrue())
		})

		It("fails on an unknown url", func() {
			err := st.LoadScene("https://unknown/")
			Expect(err).To(MatchError(scene.ErrUnknownScene))
			Expect(err.Error()).To(ContainSubstring("https://unknown/"))
		})
	})

	Describe("ShowScene", func() {
		It("shows a loaded scene and makes it current", func() {
			Expect(st.LoadScene(seed)).To(Succeed())
			Expect(st.ShowScene(seed)).To(Succeed())

			current, ok := st.CurrentScene()
			Expect(ok).To(BeTrue())
			Expect(current).To(Equal(seed))
			Expect(st.Scenes()[0].Shown).To(BeTrue())
		})

		It("refuses a scene that is not loaded", func() {
			err := st.ShowScene(seed)
			Expect(err).To(MatchError(scene.ErrSceneNotLoaded))
			_, ok := st.CurrentScene()
			Expect(ok).To(BeFalse())
			Expect(st.Scenes()[0].Shown).To(BeFalse())
		})

		It("ignores an unknown url", func() {
			before := st.Snapshot()
			Expect(st.ShowScene("https://unknown/")).To(Succeed())
			Expect(st.Snapshot()).To(Equal(before))
		})

		It("keeps earlier scenes marked shown", func() {
			other := "https://other/"
			Expect(st.AddScene(other)).To(Succeed())
			for _, u := range []string{seed, other} {
				Expect(st.LoadScene(u)).To(Succeed())
				Expect(st.ShowScene(u)).To(Succeed())
			}

			current, _ := st.CurrentScene()
			Expect(current).To(Equal(other))
			Expect(st.Snapshot().Counts()).To(Equal(scene.Counts{Scenes: 2, Loaded: 2, Shown: 2}))
		})

		It("re-renders a tracking display once", func() {
			Expect(st.LoadScene(seed)).To(Succeed())

			renders := 0
			rt.Autorun("render", func() {
				st.Scenes()
				st.CurrentScene()
				renders++
			})
			Expect(renders).To(Equal(1))

			Expect(st.ShowScene(seed)).To(Succeed())
			Expect(renders).To(Equal(2))
		})
	})

	Describe("the seed scenario", func() {
		It("loads, shows and then refuses to re-add the seed", func() {
			Expect(st.LoadScene(seed)).To(Succeed())
			Expect(st.Scenes()[0].Loaded).To(BeTrue())

			Expect(st.ShowScene(seed)).To(Succeed())
			current, _ := st.CurrentScene()
			Expect(current).To(Equal(seed))
			Expect(st.Scenes()[0].Shown).To(BeTrue())

			Expect(st.AddScene(seed)).To(MatchError(scene.ErrDuplicateScene))
		})
	})

	Describe("dimensions", func() {
		It("syncs once from the environment", func() {
			win := viewport.NewWindow(rt)
			st.WatchDimensions(win)
			_, ok := st.Width()
			Expect(ok).To(BeFalse())

			Expect(win.Resize(1024, 768)).To(Succeed())
			Expect(st.Dimensions()).To(Equal(scene.Dimensions{Width: 1024, Height: 768}))

			Expect(win.Resize(640, 480)).To(Succeed())
			w, _ := st.Width()
			h, _ := st.Height()
			Expect(w).To(Equal(1024))
			Expect(h).To(Equal(768))
		})

		It("syncs immediately when the environment is already available", func() {
			st.WatchDimensions(viewport.Static{Width: 1024, Height: 768})
			Expect(st.Dimensions()).To(Equal(scene.Dimensions{Width: 1024, Height: 768}))
		})

		It("does nothing without an environment", func() {
			st.WatchDimensions(viewport.Absent{})
			synced, err := st.SyncDimensions(viewport.Absent{})
			Expect(err).NotTo(HaveOccurred())
			Expect(synced).To(BeFalse())
			Expect(st.Dimensions().Valid()).To(BeFalse())
		})

		It("does not overwrite dimensions already set", func() {
			synced, err := st.SyncDimensions(viewport.Static{Width: 800, Height: 600})
			Expect(err).NotTo(HaveOccurred())
			Expect(synced).To(BeTrue())

			synced, err = st.SyncDimensions(viewport.Static{Width: 1, Height: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(synced).To(BeFalse())
			Expect(st.Dimensions()).To(Equal(scene.Dimensions{Width: 800, Height: 600}))
		})
	})

	Describe("events", func() {
		It("records and logs each mutation", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			n := 0
			st, err := scene.New(rt,
				scene.WithLogger(logger),
				scene.WithClock(func() time.Time { return at }),
				scene.WithIDs(func() uuid.UUID {
					n++
					return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
				}),
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(st.LoadScene(seed)).To(Succeed())
			Expect(st.ShowScene(seed)).To(Succeed())

			events := st.Events()
			Expect(events).To(HaveLen(3))
			kinds := []scene.EventKind{events[0].Kind, events[1].Kind, events[2].Kind}
			Expect(kinds).To(Equal([]scene.EventKind{scene.EventAdded, scene.EventLoaded, scene.EventShown}))
			Expect(events[2].ID.String()).To(Equal("00000000-0000-0000-0000-000000000003"))
			Expect(events[2].At).To(Equal(at))

			Expect(buf.String()).To(ContainSubstring("scene loaded"))
			Expect(buf.String()).To(ContainSubstring("url=" + seed))
		})

		It("records nothing for failed operations", func() {
			before := len(st.Events())
			Expect(st.LoadScene("https://missing/")).NotTo(Succeed())
			Expect(st.AddScene(seed)).NotTo(Succeed())
			Expect(st.Events()).To(HaveLen(before))
		})
	})

	Describe("actions", func() {
		It("runs each operation as one action", func() {
			before := rt.Stats().Actions
			Expect(st.AddScene("https://x/")).To(Succeed())
			Expect(st.LoadScene("https://x/")).To(Succeed())
			Expect(st.ShowScene("https://x/")).To(Succeed())
			Expect(rt.Stats().Actions - before).To(Equal(3))
		})
	})
})
