package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type stubHours map[int]*models.WorkingHours

func (s stubHours) GetWorkingHours(_ context.Context, _ uint, weekday int) (*models.WorkingHours, error) {
	if wh, ok := s[weekday]; ok {
		if wh == nil {
			return nil, errors.New("boom")
		}
		return wh, nil
	}
	return nil, nil
}

func TestWorkingHoursResolver(t *testing.T) {
	loc, monday := lisbonDay(t)
	ctx := context.Background()

	rules := stubHours{
		1: {ID: 1, Weekday: 1, StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00", LunchEnd: "13:00", Active: true},
		2: {ID: 2, Weekday: 2, StartTime: "09:00", EndTime: "18:00", Active: false},
		3: {ID: 3, Weekday: 3, StartTime: "18:00", EndTime: "09:00", Active: true},
		4: nil,
	}
	fallback := &DefaultWindow{Open: timezone.Clock{Hour: 10}, Close: timezone.Clock{Hour: 16}}

	r := NewWorkingHoursResolver(rules, fallback)

	t.Run("active rule with lunch", func(t *testing.T) {
		w, err := r.Resolve(ctx, 7, monday)
		require.NoError(t, err)
		require.NotNil(t, w)
		assert.Equal(t, "09:00", w.Open.String())
		assert.Equal(t, "18:00", w.Close.String())

		lunch := w.Lunch(loc)
		require.NotNil(t, lunch)

		inLunch := Interval{Start: at(t, monday, "12:30", loc), End: at(t, monday, "13:00", loc)}
		afterLunch := Interval{Start: at(t, monday, "13:00", loc), End: at(t, monday, "13:30", loc)}
		late := Interval{Start: at(t, monday, "17:45", loc), End: at(t, monday, "18:15", loc)}
		assert.False(t, w.Contains(inLunch, loc))
		assert.True(t, w.Contains(afterLunch, loc))
		assert.False(t, w.Contains(late, loc))
	})

	t.Run("inactive rule is closed", func(t *testing.T) {
		w, err := r.Resolve(ctx, 7, monday.AddDays(1))
		require.NoError(t, err)
		assert.Nil(t, w)
	})

	t.Run("inverted rule is closed", func(t *testing.T) {
		w, err := r.Resolve(ctx, 7, monday.AddDays(2))
		require.NoError(t, err)
		assert.Nil(t, w)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		_, err := r.Resolve(ctx, 7, monday.AddDays(3))
		assert.Error(t, err)
	})

	t.Run("missing rule uses fallback", func(t *testing.T) {
		w, err := r.Resolve(ctx, 7, monday.AddDays(4))
		require.NoError(t, err)
		require.NotNil(t, w)
		assert.Equal(t, "10:00", w.Open.String())
		assert.Nil(t, w.Lunch(loc))
	})

	t.Run("missing rule without fallback is closed", func(t *testing.T) {
		w, err := NewWorkingHoursResolver(rules, nil).Resolve(ctx, 7, monday.AddDays(4))
		require.NoError(t, err)
		assert.Nil(t, w)
	})
}
