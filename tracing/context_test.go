package tracing

import (
	"time"

	gomock "go.uber.org/mock/gomock"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Context", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		c          *Context
	)

	ginkgo.BeforeEach(func() {
		mockCtrl = gomock.NewController(ginkgo.GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)

		c = NewContext(timeTeller, nil, StrategyRuntimeError)
	})

	ginkgo.AfterEach(func() {
		mockCtrl.Finish()
	})

	ginkgo.It("should install a segment as the current entity", func() {
		seg := NewSegmentWithID("1", "work")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.PutSegment(seg)

		Expect(c.Peek()).To(BeIdenticalTo(seg))
		Expect(seg.StartTime()).To(Equal(time.Unix(1, 0)))
	})

	ginkgo.It("should keep a caller-provided start time", func() {
		seg := NewSegmentWithID("1", "work")
		seg.begin(time.Unix(5, 0))

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(9, 0))
		c.PutSegment(seg)

		Expect(seg.StartTime()).To(Equal(time.Unix(5, 0)))
	})

	ginkgo.It("should pop back to the parent when ending a subsegment", func() {
		seg := NewSegmentWithID("1", "work")
		sub := NewSubsegmentWithID("2", "step")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0)).Times(2)
		c.PutSegment(seg)
		Expect(c.PutSubsegment(sub)).To(Succeed())

		Expect(c.EndSubsegment(time.Unix(2, 0))).To(BeTrue())

		Expect(c.Peek()).To(BeIdenticalTo(seg))
		Expect(sub.Parent()).To(BeIdenticalTo(Entity(seg)))
		Expect(sub.EndTime()).To(Equal(time.Unix(2, 0)))
	})

	ginkgo.It("should refuse to end a segment through the subsegment path", func() {
		seg := NewSegmentWithID("1", "work")

		timeTeller.EXPECT().CurrentTime().Return(time.Unix(1, 0))
		c.PutSegment(seg)

		Expect(c.EndSubsegment(time.Unix(2, 0))).To(BeFalse())
		Expect(c.Peek()).To(BeIdenticalTo(seg))
	})

	ginkgo.It("should return nil when ending a segment on an empty slot", func() {
		Expect(c.EndSegment(time.Unix(1, 0))).To(BeNil())
	})

	ginkgo.It("should report the missing-context error from CurrentEntity", func() {
		_, err := c.CurrentEntity()
		Expect(err).To(MatchError(ErrMissingContext))
	})

	ginkgo.It("should treat an unrecognized strategy as the strict one", func() {
		c.SetContextMissing("NOT_A_STRATEGY")

		_, err := c.CurrentEntity()
		Expect(err).To(MatchError(ErrMissingContext))
	})

	ginkgo.It("should hand out the overwritten current entity", func() {
		seg := NewSegmentWithID("1", "work")

		c.SetCurrentEntity(seg)

		e, err := c.CurrentEntity()
		Expect(err).ToNot(HaveOccurred())
		Expect(e).To(BeIdenticalTo(seg))
	})
})
