package appointment

import (
	"iter"
	"slices"
	"time"
)

// Slot is a bookable candidate. Label is the local wall-clock start, "HH:MM".
type Slot struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotRequest struct {
	Open     time.Time
	Close    time.Time
	Duration time.Duration
	Step     time.Duration
	Busy     []Interval

	// Location renders labels; UTC when nil.
	Location *time.Location

	// NotBefore drops candidates starting earlier. Zero keeps everything.
	NotBefore time.Time
}

// GenerateSlots yields open + k*step for k = 0,1,... while the slot still ends by Close,
// skipping candidates that overlap a busy interval. The sequence holds no state between
// iterations, so ranging over it twice yields the same slots.
func GenerateSlots(req SlotRequest) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		if req.Duration <= 0 || req.Step <= 0 || !req.Close.After(req.Open) {
			return
		}
		loc := req.Location
		if loc == nil {
			loc = time.UTC
		}

		for start := req.Open; !start.Add(req.Duration).After(req.Close); start = start.Add(req.Step) {
			if !req.NotBefore.IsZero() && start.Before(req.NotBefore) {
				continue
			}
			candidate := Interval{Start: start, End: start.Add(req.Duration)}
			if OverlapsAny(candidate, req.Busy) {
				continue
			}
			if !yield(Slot{
				Label: start.In(loc).Format("15:04"),
				Start: candidate.Start,
				End:   candidate.End,
			}) {
				return
			}
		}
	}
}

func CollectSlots(req SlotRequest) []Slot {
	out := slices.Collect(GenerateSlots(req))
	if out == nil {
		return []Slot{}
	}
	return out
}
