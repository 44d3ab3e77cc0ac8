package quota

import (
	"fmt"
	"time"
)

// Period decides which calendar month an instant belongs to. Every
// customer shares the deployment's zone so the month boundary does not
// depend on where a request came from.
type Period struct {
	loc *time.Location
	now func() time.Time
}

func NewPeriod(zone string) (*Period, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, zone, err)
	}
	return &Period{loc: loc, now: time.Now}, nil
}

// NewPeriodAt pins the clock, for tests.
func NewPeriodAt(loc *time.Location, now func() time.Time) *Period {
	return &Period{loc: loc, now: now}
}

func (p *Period) Now() time.Time {
	return p.now().In(p.loc)
}

// MonthStart is midnight on the first day of the month containing t.
func (p *Period) MonthStart(t time.Time) time.Time {
	t = t.In(p.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, p.loc)
}

// CurrentMonthStart is MonthStart of the current clock reading.
func (p *Period) CurrentMonthStart() time.Time {
	return p.MonthStart(p.Now())
}

func (p *Period) Location() *time.Location {
	return p.loc
}
