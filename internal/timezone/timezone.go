package timezone

import (
	"fmt"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

// ErrInvalidZone marks a zone identifier the tz database does not know.
// It is a configuration problem, never a user input problem.
type ErrInvalidZone struct {
	Zone string
}

func (e ErrInvalidZone) Error() string {
	return fmt.Sprintf("timezone: invalid zone %q", e.Zone)
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Load resolves a zone identifier. An empty identifier resolves to the default zone.
func Load(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, ErrInvalidZone{Zone: tz}
	}
	return loc, nil
}

// Resolve returns the first non-empty zone of the candidates.
func Resolve(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return DefaultTimezone
}

func NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
