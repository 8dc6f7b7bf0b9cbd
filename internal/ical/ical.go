// Package ical turns compressed holiday rules into iCalendar events and
// serializes one calendar per region. Every bounded rule is re-expanded and
// checked against the engine-computed dates before it is allowed out.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"holcal/internal/compress"
)

// Event is one all-day calendar entry spanning a single day, optionally
// carrying a recurrence rule.
type Event struct {
	Title string
	UID   string
	Start time.Time

	// RRule is the serialized recurrence rule; empty for one-off events.
	RRule string

	// Dates are the exact dates this event must cover, used by Verify.
	Dates []time.Time
}

// FixedEvent builds the single long-running yearly event of a fixed-date
// holiday: it starts in the window's first year and repeats yearly until an
// explicit end-of-window cutoff.
func FixedEvent(title, uid string, dates []time.Time, endYear int) Event {
	return Event{
		Title: title,
		UID:   uid,
		Start: dates[0],
		RRule: fmt.Sprintf("FREQ=YEARLY;UNTIL=%d1231", endYear),
		Dates: dates,
	}
}

// RunEvent builds the event for one compressed movable-holiday run at the
// given month/day. A singleton run becomes a plain one-off event; a longer
// run becomes a yearly rule with an explicit interval and occurrence count.
// The count bounds the rule to exactly the years proven to match; a higher
// multiple of the interval is not guaranteed to still satisfy the movable
// computation.
func RunEvent(title, uid string, month time.Month, day int, run compress.Run) Event {
	ev := Event{
		Title: title,
		UID:   uid,
		Start: time.Date(run.Start, month, day, 0, 0, 0, 0, time.UTC),
	}
	if run.Interval == 0 || run.Count <= 1 {
		ev.Dates = []time.Time{ev.Start}
		return ev
	}
	ev.RRule = fmt.Sprintf("FREQ=YEARLY;INTERVAL=%d;COUNT=%d", run.Interval, run.Count)
	ev.Dates = make([]time.Time, 0, run.Count)
	for _, y := range run.Years() {
		ev.Dates = append(ev.Dates, time.Date(y, month, day, 0, 0, 0, 0, time.UTC))
	}
	return ev
}

// Verify re-expands the event's recurrence rule and checks the occurrences
// against the dates the engine computed. A mismatch means the emitted rule
// would put a holiday on a wrong date, which must never reach a calendar
// file silently.
func Verify(ev Event) error {
	if ev.RRule == "" {
		if len(ev.Dates) != 1 || !ev.Dates[0].Equal(ev.Start) {
			return fmt.Errorf("event %q: one-off event must cover exactly its start date", ev.Title)
		}
		return nil
	}

	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		return fmt.Errorf("event %q: bad rrule %q: %w", ev.Title, ev.RRule, err)
	}
	r.DTStart(ev.Start)

	got := r.All()
	if len(got) != len(ev.Dates) {
		return fmt.Errorf("event %q: rrule %q yields %d occurrences, want %d",
			ev.Title, ev.RRule, len(got), len(ev.Dates))
	}
	for i := range got {
		if !got[i].Equal(ev.Dates[i]) {
			return fmt.Errorf("event %q: rrule %q occurrence %d is %s, want %s",
				ev.Title, ev.RRule, i, got[i].Format("2006-01-02"), ev.Dates[i].Format("2006-01-02"))
		}
	}
	return nil
}

// NewCalendar assembles the per-region calendar document.
func NewCalendar(region, prodID string, events []Event, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetVersion("2.0")
	cal.SetProductId(prodID)
	cal.SetXWRCalName("Feiertage " + region)

	for _, ev := range events {
		ve := cal.AddEvent(ev.UID)
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)
		ve.SetAllDayStartAt(ev.Start)
		ve.SetAllDayEndAt(ev.Start.AddDate(0, 0, 1))
		if ev.RRule != "" {
			ve.AddRrule(ev.RRule)
		}
	}
	return cal
}
