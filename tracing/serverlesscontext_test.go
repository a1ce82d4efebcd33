package tracing

import (
	"time"

	gomock "go.uber.org/mock/gomock"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ServerlessContext", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		provider   *MockFacadeProvider
		facade     *FacadeSegment
		c          *ServerlessContext
	)

	ginkgo.BeforeEach(func() {
		mockCtrl = gomock.NewController(ginkgo.GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		provider = NewMockFacadeProvider(mockCtrl)
		facade = NewFacadeSegment("facade-1", "trace-1")
		provider.EXPECT().RefreshFacade().Return(facade).AnyTimes()

		c = NewServerlessContext(
			timeTeller, provider, nil, StrategyRuntimeError)
	})

	ginkgo.AfterEach(func() {
		mockCtrl.Finish()
	})

	ginkgo.It("should project an opened segment under the facade", func() {
		seg := NewSegmentWithID("1", "work")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.OpenSegment(seg)

		e, err := c.GetCurrentEntity()
		Expect(err).ToNot(HaveOccurred())

		mimic, ok := e.(*MimicSegment)
		Expect(ok).To(BeTrue())
		Expect(mimic.Segment()).To(BeIdenticalTo(seg))
		Expect(facade.Subsegments()).To(HaveLen(1))
		Expect(facade.Subsegments()[0]).To(BeIdenticalTo(mimic))
	})

	ginkgo.It("should let the projected segment inherit the facade trace ID", func() {
		seg := NewSegmentWithID("1", "work")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.OpenSegment(seg)

		Expect(seg.TraceID).To(Equal("trace-1"))
		Expect(seg.InProgress()).To(BeTrue())
		Expect(seg.StartTime()).To(Equal(time.Unix(1, 0)))
	})

	ginkgo.It("should remove the projection from the facade on close", func() {
		seg := NewSegmentWithID("1", "work")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.OpenSegment(seg)

		c.CloseSegment(time.Unix(2, 0))

		Expect(facade.Subsegments()).To(BeEmpty())
		Expect(seg.InProgress()).To(BeFalse())
		Expect(seg.EndTime()).To(Equal(time.Unix(2, 0)))

		_, err := c.GetCurrentEntity()
		Expect(err).To(MatchError(ErrMissingContext))
	})

	ginkgo.It("should close a segment with the current time when none is given",
		func() {
			seg := NewSegmentWithID("1", "work")

			timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
			c.OpenSegment(seg)

			timeTeller.EXPECT().CurrentTime().Return(time.Unix(3, 0))
			c.CloseSegment(time.Time{})

			Expect(seg.EndTime()).To(Equal(time.Unix(3, 0)))
		})

	ginkgo.It("should pass subsegments through without projection", func() {
		seg := NewSegmentWithID("1", "work")
		sub := NewSubsegmentWithID("2", "step")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.OpenSegment(seg)

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(2, 0))
		Expect(c.OpenSubsegment(sub)).To(Succeed())

		e, err := c.GetCurrentEntity()
		Expect(err).ToNot(HaveOccurred())
		Expect(e).To(BeIdenticalTo(sub))
		Expect(seg.Subsegments()).To(ContainElement(Entity(sub)))
		Expect(facade.Subsegments()).To(HaveLen(1))
	})

	ginkgo.It("should restore stack depth after matched subsegment opens and closes",
		func() {
			seg := NewSegmentWithID("1", "work")

			timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
			c.OpenSegment(seg)
			mimic, _ := c.GetCurrentEntity()

			timeTeller.EXPECT().CurrentTime().
				Return(time.Unix(2, 0)).Times(3)
			Expect(c.OpenSubsegment(NewSubsegmentWithID("2", "a"))).
				To(Succeed())
			Expect(c.OpenSubsegment(NewSubsegmentWithID("3", "b"))).
				To(Succeed())
			Expect(c.OpenSubsegment(NewSubsegmentWithID("4", "c"))).
				To(Succeed())

			Expect(c.CloseSubsegment(time.Unix(3, 0))).To(BeTrue())
			Expect(c.CloseSubsegment(time.Unix(4, 0))).To(BeTrue())
			Expect(c.CloseSubsegment(time.Unix(5, 0))).To(BeTrue())

			e, err := c.GetCurrentEntity()
			Expect(err).ToNot(HaveOccurred())
			Expect(e).To(BeIdenticalTo(mimic))
		})

	ginkgo.It("should fail open when closing a subsegment on an empty slot", func() {
		Expect(c.CloseSubsegment(time.Unix(1, 0))).To(BeFalse())
	})

	ginkgo.It("should refuse to close a mimic projection as a subsegment", func() {
		seg := NewSegmentWithID("1", "work")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.OpenSegment(seg)

		Expect(c.CloseSubsegment(time.Unix(2, 0))).To(BeFalse())
		Expect(seg.InProgress()).To(BeTrue())
	})

	ginkgo.It("should skip facade removal when closing a dangling subsegment",
		func() {
			seg := NewSegmentWithID("1", "work")
			sub := NewSubsegmentWithID("2", "step")

			timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
			c.OpenSegment(seg)

			timeTeller.EXPECT().CurrentTime().Return(time.Unix(2, 0))
			Expect(c.OpenSubsegment(sub)).To(Succeed())

			// Misuse: the caller closes the segment while a subsegment
			// is still current. The subsegment is closed, the facade
			// keeps its projection.
			c.CloseSegment(time.Unix(3, 0))

			Expect(sub.InProgress()).To(BeFalse())
			Expect(facade.Subsegments()).To(HaveLen(1))

			e, err := c.GetCurrentEntity()
			Expect(err).ToNot(HaveOccurred())
			Expect(e.EntityID()).To(Equal("1"))
		})

	ginkgo.It("should surface the missing-context error when opening a subsegment "+
		"on an empty slot", func() {
		err := c.OpenSubsegment(NewSubsegmentWithID("1", "orphan"))
		Expect(err).To(MatchError(ErrMissingContext))
	})

	ginkgo.It("should discard an orphan subsegment under a degrading strategy",
		func() {
			c.SetContextMissing(StrategyIgnoreError)

			Expect(c.OpenSubsegment(NewSubsegmentWithID("1", "orphan"))).
				To(Succeed())
			Expect(c.CloseSubsegment(time.Unix(1, 0))).To(BeFalse())
		})

	ginkgo.It("should convert a raw segment in SetCurrentEntity", func() {
		seg := NewSegmentWithID("1", "work")

		c.SetCurrentEntity(seg)

		e, err := c.GetCurrentEntity()
		Expect(err).ToNot(HaveOccurred())

		mimic, ok := e.(*MimicSegment)
		Expect(ok).To(BeTrue())
		Expect(mimic.Segment()).To(BeIdenticalTo(seg))
	})

	ginkgo.It("should overwrite the facade children in SetCurrentEntity", func() {
		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0)).Times(2)
		c.OpenSegment(NewSegmentWithID("1", "first"))
		c.OpenSegment(NewSegmentWithID("2", "second"))
		Expect(facade.Subsegments()).To(HaveLen(2))

		replacement := NewSegmentWithID("3", "third")
		c.SetCurrentEntity(replacement)

		Expect(facade.Subsegments()).To(HaveLen(1))
		mimic := facade.Subsegments()[0].(*MimicSegment)
		Expect(mimic.Segment()).To(BeIdenticalTo(replacement))
	})

	ginkgo.It("should leave the facade children alone when setting a subsegment",
		func() {
			seg := NewSegmentWithID("1", "work")
			sub := NewSubsegmentWithID("2", "step")

			timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
			c.OpenSegment(seg)

			c.SetCurrentEntity(sub)

			e, err := c.GetCurrentEntity()
			Expect(err).ToNot(HaveOccurred())
			Expect(e).To(BeIdenticalTo(sub))
			Expect(facade.Subsegments()).To(HaveLen(1))
		})

	ginkgo.It("should walk the documented open/close scenario", func() {
		s1 := NewSegmentWithID("s1", "invocation")
		sub1 := NewSubsegmentWithID("sub1", "step")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.OpenSegment(s1)
		mimic, _ := c.GetCurrentEntity()
		Expect(facade.Subsegments()).To(Equal([]Entity{mimic}))

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(2, 0))
		Expect(c.OpenSubsegment(sub1)).To(Succeed())
		e, _ := c.GetCurrentEntity()
		Expect(e).To(BeIdenticalTo(sub1))
		Expect(facade.Subsegments()).To(Equal([]Entity{mimic}))

		Expect(c.CloseSubsegment(time.Unix(3, 0))).To(BeTrue())
		e, _ = c.GetCurrentEntity()
		Expect(e).To(BeIdenticalTo(mimic))

		c.CloseSegment(time.Unix(4, 0))
		Expect(facade.Subsegments()).To(BeEmpty())

		_, err := c.GetCurrentEntity()
		Expect(err).To(MatchError(ErrMissingContext))
	})

	ginkgo.It("should expose the mutable context-missing property", func() {
		Expect(c.ContextMissing()).To(Equal(StrategyRuntimeError))

		c.SetContextMissing(StrategyLogError)
		Expect(c.ContextMissing()).To(Equal(StrategyLogError))

		// Any string is accepted; validation is the handler's problem.
		c.SetContextMissing("SOMETHING_ELSE")
		Expect(c.ContextMissing()).To(Equal(MissingStrategy("SOMETHING_ELSE")))
	})

	ginkgo.It("should resolve the strategy from the environment at construction",
		func() {
			ginkgo.GinkgoT().Setenv("NIMBUS_CONTEXT_MISSING", "LOG_ERROR")

			fresh := NewServerlessContext(
				timeTeller, provider, nil, StrategyRuntimeError)

			Expect(fresh.ContextMissing()).To(Equal(StrategyLogError))
		})

	ginkgo.It("should panic when a non-mimic child is forced onto the facade",
		func() {
			Expect(func() {
				facade.AddSubsegment(NewSubsegmentWithID("1", "bad"))
			}).To(Panic())
		})
})
