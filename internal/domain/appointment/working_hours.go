package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// Window is the effective open/close wall-clock window of a provider on a local date.
type Window struct {
	Date  timezone.Date
	Open  timezone.Clock
	Close timezone.Clock

	// optional break, both set or both nil
	LunchStart *timezone.Clock
	LunchEnd   *timezone.Clock
}

// Instants converts the window to absolute instants for loc.
func (w Window) Instants(loc *time.Location) Interval {
	return Interval{
		Start: timezone.ToInstantIn(w.Date, w.Open, loc),
		End:   timezone.ToInstantIn(w.Date, w.Close, loc),
	}
}

// Lunch returns the break as an interval, or nil when the window has none.
func (w Window) Lunch(loc *time.Location) *Interval {
	if w.LunchStart == nil || w.LunchEnd == nil {
		return nil
	}
	iv := Interval{
		Start: timezone.ToInstantIn(w.Date, *w.LunchStart, loc),
		End:   timezone.ToInstantIn(w.Date, *w.LunchEnd, loc),
	}
	if !iv.Valid() {
		return nil
	}
	return &iv
}

// Contains reports whether the interval fits the window and stays clear of the break.
func (w Window) Contains(iv Interval, loc *time.Location) bool {
	day := w.Instants(loc)
	if iv.Start.Before(day.Start) || iv.End.After(day.End) {
		return false
	}
	if lunch := w.Lunch(loc); lunch != nil && Overlaps(iv, *lunch) {
		return false
	}
	return true
}

// WorkingHoursReader returns (nil, nil) when the provider has no rule for the weekday.
type WorkingHoursReader interface {
	GetWorkingHours(ctx context.Context, providerID uint, weekday int) (*models.WorkingHours, error)
}

type DefaultWindow struct {
	Open  timezone.Clock
	Close timezone.Clock
}

type WorkingHoursResolver struct {
	repo     WorkingHoursReader
	fallback *DefaultWindow
}

// NewWorkingHoursResolver builds a resolver. A nil fallback means days without a rule are closed.
func NewWorkingHoursResolver(repo WorkingHoursReader, fallback *DefaultWindow) *WorkingHoursResolver {
	return &WorkingHoursResolver{repo: repo, fallback: fallback}
}

// Resolve returns the window for a date already expressed in the provider's zone,
// or nil when the provider does not work that day.
func (r *WorkingHoursResolver) Resolve(ctx context.Context, providerID uint, date timezone.Date) (*Window, error) {
	wh, err := r.repo.GetWorkingHours(ctx, providerID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}

	if wh == nil {
		if r.fallback == nil {
			return nil, nil
		}
		return &Window{Date: date, Open: r.fallback.Open, Close: r.fallback.Close}, nil
	}

	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return nil, nil
	}

	open, err := timezone.ParseClock(wh.StartTime)
	if err != nil {
		return nil, fmt.Errorf("working hours %d: %w", wh.ID, err)
	}
	closing, err := timezone.ParseClock(wh.EndTime)
	if err != nil {
		return nil, fmt.Errorf("working hours %d: %w", wh.ID, err)
	}
	if !open.Before(closing) {
		return nil, nil
	}

	w := &Window{Date: date, Open: open, Close: closing}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		ls, errS := timezone.ParseClock(wh.LunchStart)
		le, errE := timezone.ParseClock(wh.LunchEnd)
		if errS == nil && errE == nil && ls.Before(le) {
			w.LunchStart = &ls
			w.LunchEnd = &le
		}
	}

	return w, nil
}
