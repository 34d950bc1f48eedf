package scene_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scenestage/internal/scene"
)

var _ = DescribeTable("CheckInvariants",
	func(snap scene.Snapshot, ok bool) {
		err := scene.CheckInvariants(snap)
		if ok {
			Expect(err).NotTo(HaveOccurred())
		} else {
			Expect(err).To(MatchError(scene.ErrInvariant))
		}
	},
	Entry("empty", scene.Snapshot{}, true),
	Entry("consistent",
		scene.Snapshot{
			Width: 80, Height: 24, CurrentScene: "https://a/",
			Scenes: []scene.Scene{{URL: "https://a/", Loaded: true, Shown: true}, {URL: "https://b/"}},
		}, true),
	Entry("duplicate url",
		scene.Snapshot{Scenes: []scene.Scene{{URL: "https://a/"}, {URL: "https://a/"}}}, false),
	Entry("shown without load",
		scene.Snapshot{Scenes: []scene.Scene{{URL: "https://a/", Shown: true}}}, false),
	Entry("current not shown",
		scene.Snapshot{CurrentScene: "https://a/", Scenes: []scene.Scene{{URL: "https://a/", Loaded: true}}}, false),
	Entry("current missing",
		scene.Snapshot{CurrentScene: "https://gone/"}, false),
	Entry("half dimensions", scene.Snapshot{Width: 80}, false),
)
