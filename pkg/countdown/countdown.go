// Package countdown computes the time left until a weekly recurring event.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	// zone data is embedded so wasm builds and slim containers resolve BRT
	_ "time/tzdata"
)

// DefaultTimezone is Brasília time.
const DefaultTimezone = "America/Sao_Paulo"

var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule is a weekday and hour in a named zone.
type Schedule struct {
	Weekday  time.Weekday
	Hour     int
	Location *time.Location
}

// NewSchedule loads tz and validates the weekday and hour.
func NewSchedule(tz string, weekday time.Weekday, hour int) (Schedule, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return Schedule{}, fmt.Errorf("%w: weekday %d", ErrInvalidSchedule, weekday)
	}
	if hour < 0 || hour > 23 {
		return Schedule{}, fmt.Errorf("%w: hour %d", ErrInvalidSchedule, hour)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: load timezone %q: %v", ErrInvalidSchedule, tz, err)
	}
	return Schedule{Weekday: weekday, Hour: hour, Location: loc}, nil
}

// WednesdayEvening is the live event slot: Wednesday 20:00 BRT.
func WednesdayEvening() Schedule {
	s, err := NewSchedule(DefaultTimezone, time.Wednesday, 20)
	if err != nil {
		panic(err)
	}
	return s
}

// Next returns the first occurrence of the slot strictly after now. Being
// exactly at the slot counts as passed.
func (s Schedule) Next(now time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()

	offset := (int(s.Weekday) - int(local.Weekday()) + 7) % 7
	if offset == 0 && !local.Before(time.Date(y, m, d, s.Hour, 0, 0, 0, loc)) {
		offset = 7
	}
	return time.Date(y, m, d+offset, s.Hour, 0, 0, 0, loc)
}

// Remaining is the floored time left, split into display units.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Until splits target-now into days, hours, minutes and seconds. A target in
// the past yields zero.
func Until(now, target time.Time) Remaining {
	diff := target.Sub(now)
	if diff <= 0 {
		return Remaining{}
	}
	diff = diff.Truncate(time.Second)
	day := 24 * time.Hour
	return Remaining{
		Days:    int(diff / day),
		Hours:   int(diff % day / time.Hour),
		Minutes: int(diff % time.Hour / time.Minute),
		Seconds: int(diff % time.Minute / time.Second),
	}
}

// Padded returns the four fields zero-padded to two digits.
func (r Remaining) Padded() (days, hours, minutes, seconds string) {
	return pad(r.Days), pad(r.Hours), pad(r.Minutes), pad(r.Seconds)
}

func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Snapshot is one rendered tick.
type Snapshot struct {
	Target  time.Time `json:"target"`
	Days    string    `json:"days"`
	Hours   string    `json:"hours"`
	Minutes string    `json:"minutes"`
	Seconds string    `json:"seconds"`
}

func newSnapshot(target time.Time, r Remaining) Snapshot {
	d, h, m, s := r.Padded()
	return Snapshot{Target: target, Days: d, Hours: h, Minutes: m, Seconds: s}
}

// Countdown caches the current target and recomputes it once it passes.
type Countdown struct {
	schedule Schedule
	now      func() time.Time

	mu     sync.Mutex
	target time.Time
}

// New creates a Countdown for the schedule using the wall clock.
func New(schedule Schedule) *Countdown {
	return NewWithClock(schedule, time.Now)
}

// NewWithClock creates a Countdown reading time from now.
func NewWithClock(schedule Schedule, now func() time.Time) *Countdown {
	return &Countdown{schedule: schedule, now: now}
}

// Schedule returns the slot the countdown targets.
func (c *Countdown) Schedule() Schedule {
	return c.schedule
}

// Tick renders the remaining time at now, moving the target forward first
// when it is no longer in the future.
func (c *Countdown) Tick(now time.Time) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.target.IsZero() || c.target.Sub(now) <= 0 {
		c.target = c.schedule.Next(now)
	}
	return newSnapshot(c.target, Until(now, c.target))
}

// Current ticks at the clock's current instant.
func (c *Countdown) Current() Snapshot {
	return c.Tick(c.now())
}

// Run calls render immediately and then every interval until ctx is done.
func (c *Countdown) Run(ctx context.Context, interval time.Duration, render func(Snapshot)) {
	render(c.Current())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			render(c.Current())
		}
	}
}
