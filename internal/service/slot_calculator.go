package service

import (
	"iter"
	"time"

	"contractor-booking/internal/domain/entity"
)

const (
	DefaultWindowDays   = 30
	DefaultDayStart     = 10 * time.Hour
	DefaultDayEnd       = 21 * time.Hour
	DefaultSlotInterval = 30 * time.Minute

	// minimum lead time between now and the first slot offered today
	bookingLeadTime = time.Hour
)

// SlotCalculatorOptions configures the slot grid. Zero fields fall back to
// the defaults above.
type SlotCalculatorOptions struct {
	WindowDays   int
	DayStart     time.Duration
	DayEnd       time.Duration
	SlotInterval time.Duration
	Location     *time.Location
}

// SlotCalculator generates the bookable slot grid of a contractor. It holds
// no state besides its options and never mutates its inputs.
type SlotCalculator struct {
	windowDays int
	dayStart   time.Duration
	dayEnd     time.Duration
	interval   time.Duration
	loc        *time.Location
}

func NewSlotCalculator(opts SlotCalculatorOptions) *SlotCalculator {
	c := &SlotCalculator{
		windowDays: opts.WindowDays,
		dayStart:   opts.DayStart,
		dayEnd:     opts.DayEnd,
		interval:   opts.SlotInterval,
		loc:        opts.Location,
	}
	if c.windowDays <= 0 {
		c.windowDays = DefaultWindowDays
	}
	if c.dayStart <= 0 {
		c.dayStart = DefaultDayStart
	}
	if c.dayEnd <= c.dayStart {
		c.dayEnd = DefaultDayEnd
	}
	if c.interval <= 0 {
		c.interval = DefaultSlotInterval
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	return c
}

func (c *SlotCalculator) Location() *time.Location {
	return c.loc
}

// Window returns the first and last date of the rolling window that starts
// on now's date.
func (c *SlotCalculator) Window(now time.Time) (entity.SlotDate, entity.SlotDate) {
	today := entity.SlotDateOf(now.In(c.loc))
	return today, today.AddDays(c.windowDays - 1)
}

// AvailableSlots yields, oldest day first, the slots of every day in the
// window that are not in booked. Days without a free slot are skipped. The
// sequence is finite and can be ranged over any number of times.
func (c *SlotCalculator) AvailableSlots(now time.Time, booked entity.BookedSlots) iter.Seq[entity.DaySlots] {
	now = now.In(c.loc)
	today := entity.SlotDateOf(now)

	return func(yield func(entity.DaySlots) bool) {
		for i := 0; i < c.windowDays; i++ {
			date := today.AddDays(i)
			var times []string
			for label := range c.grid(date, now) {
				if !booked.Has(date, label) {
					times = append(times, label)
				}
			}
			if len(times) == 0 {
				continue
			}
			if !yield(entity.DaySlots{Date: date, Times: times}) {
				return
			}
		}
	}
}

// ValidateSlot checks that (date, label) lies inside the window and on the
// grid as seen at now. Bookings are not consulted.
func (c *SlotCalculator) ValidateSlot(now time.Time, date entity.SlotDate, label string) error {
	first, last := c.Window(now)
	if date.Before(first) || last.Before(date) {
		return entity.NewValidationError("slot_date", "date is outside the booking window")
	}
	for candidate := range c.grid(date, now.In(c.loc)) {
		if candidate == label {
			return nil
		}
	}
	return entity.NewValidationError("slot_time", "time is not a bookable slot on that date")
}

// grid yields the slot labels of date. For today the first slot is at least
// bookingLeadTime away from now.
func (c *SlotCalculator) grid(date entity.SlotDate, now time.Time) iter.Seq[string] {
	start := c.wallClock(date, c.dayStart)
	end := c.wallClock(date, c.dayEnd)

	if date == entity.SlotDateOf(now) {
		if earliest := roundUpToHalfHour(now.Add(bookingLeadTime)); earliest.After(start) {
			start = earliest
		}
	}

	return func(yield func(string) bool) {
		for t := start; t.Before(end); t = t.Add(c.interval) {
			if !yield(t.Format(entity.SlotTimeLayout)) {
				return
			}
		}
	}
}

// wallClock returns the instant on date whose local clock reads offset past
// midnight. Elapsed time from midnight drifts by an hour on DST days.
func (c *SlotCalculator) wallClock(date entity.SlotDate, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return time.Date(date.Year, date.Month, date.Day, h, m, 0, 0, c.loc)
}

// roundUpToHalfHour moves t to the next :00 or :30 boundary. A time already
// on the hour is kept; minutes 1-30 become :30 and anything later becomes the
// top of the next hour.
func roundUpToHalfHour(t time.Time) time.Time {
	top := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	switch m := t.Minute(); {
	case m == 0 && t.Second() == 0 && t.Nanosecond() == 0:
		return top
	case m < 30 || (m == 30 && t.Second() == 0 && t.Nanosecond() == 0):
		return top.Add(30 * time.Minute)
	default:
		return top.Add(time.Hour)
	}
}
