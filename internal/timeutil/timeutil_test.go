package timeutil_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zonoapp/workforce/internal/timeutil"
)

func TestTimeutil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Timeutil Suite")
}

var _ = Describe("Day", func() {
	var berlin *time.Location

	BeforeEach(func() {
		var err error
		berlin, err = time.LoadLocation("Europe/Berlin")
		Expect(err).ToNot(HaveOccurred())
	})

	It("normalizes an afternoon instant to UTC midnight of the business day", func() {
		instant := time.Date(2024, 6, 1, 14, 30, 0, 0, berlin)
		day := timeutil.Day(instant, berlin)
		Expect(day).To(Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	})

	It("keeps a late-evening instant on the local day even though it is past midnight UTC", func() {
		// 23:58 Berlin on June 1st is 21:58 UTC; a plain UTC truncation
		// would agree here, so test the opposite edge too.
		instant := time.Date(2024, 6, 1, 23, 58, 0, 0, berlin)
		Expect(timeutil.Day(instant, berlin)).To(Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

		// 00:10 Berlin on June 2nd is 22:10 UTC on June 1st; UTC-day
		// truncation would land it on the wrong business day.
		instant = time.Date(2024, 6, 2, 0, 10, 0, 0, berlin)
		Expect(timeutil.Day(instant, berlin)).To(Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))
	})

	It("parses a YYYY-MM-DD string", func() {
		day, err := timeutil.ParseDay("2024-06-01")
		Expect(err).ToNot(HaveOccurred())
		Expect(day).To(Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects malformed dates", func() {
		_, err := timeutil.ParseDay("01.06.2024")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Overlaps", func() {
	It("treats intervals as half-open", func() {
		Expect(timeutil.Overlaps("09:00", "17:00", "17:00", "18:00")).To(BeFalse())
		Expect(timeutil.Overlaps("09:00", "17:00", "16:59", "18:00")).To(BeTrue())
	})

	It("is symmetric", func() {
		Expect(timeutil.Overlaps("16:59", "18:00", "09:00", "17:00")).To(BeTrue())
		Expect(timeutil.Overlaps("17:00", "18:00", "09:00", "17:00")).To(BeFalse())
	})

	It("detects containment", func() {
		Expect(timeutil.Overlaps("10:00", "11:00", "09:00", "17:00")).To(BeTrue())
		Expect(timeutil.Overlaps("09:00", "17:00", "10:00", "11:00")).To(BeTrue())
	})
})

var _ = Describe("Clocks", func() {
	It("parses HH:MM into minutes", func() {
		mins, err := timeutil.ParseClock("09:04")
		Expect(err).ToNot(HaveOccurred())
		Expect(mins).To(Equal(9*60 + 4))
	})

	It("rejects malformed clock values", func() {
		_, err := timeutil.ParseClock("9am")
		Expect(err).To(HaveOccurred())
		Expect(timeutil.ValidClock("9:00")).To(BeFalse())
		Expect(timeutil.ValidClock("09:00")).To(BeTrue())
	})

	It("materializes a clock on a business day in the business timezone", func() {
		berlin, err := time.LoadLocation("Europe/Berlin")
		Expect(err).ToNot(HaveOccurred())

		day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		at, err := timeutil.ClockOnDay(day, "09:00", berlin)
		Expect(err).ToNot(HaveOccurred())
		Expect(at).To(Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, berlin)))
	})
})

var _ = Describe("DiffMinutes", func() {
	It("rounds to whole minutes and never goes negative", func() {
		a := time.Date(2024, 6, 1, 23, 58, 0, 0, time.UTC)
		b := a.Add(12*time.Minute + 20*time.Second)
		Expect(timeutil.DiffMinutes(a, b)).To(Equal(12))
		Expect(timeutil.DiffMinutes(b, a)).To(Equal(0))
	})

	It("measures true elapsed time across a midnight boundary", func() {
		berlin, _ := time.LoadLocation("Europe/Berlin")
		in := time.Date(2024, 6, 1, 23, 58, 0, 0, berlin)
		out := time.Date(2024, 6, 2, 0, 10, 0, 0, berlin)
		Expect(timeutil.DiffMinutes(in, out)).To(Equal(12))
	})
})
