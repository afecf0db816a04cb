package model

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/mkilpat/sqlmesh/pkg/date"
)

// IntervalUnit is the inferred granularity of a model's schedule: the
// minimum time delta between a sample of firing times, classified as one
// of day, hour, or minute.
type IntervalUnit string

// IntervalUnit values, coarsest first.
const (
	IntervalUnitDay    IntervalUnit = "day"
	IntervalUnitHour   IntervalUnit = "hour"
	IntervalUnitMinute IntervalUnit = "minute"
)

// defaultSampleSize is the number of firings sampled by IntervalUnit.
const defaultSampleSize = 10

// IntervalUnit infers the granularity of the model's cron schedule from a
// sample of ten consecutive firings.
func (m *ModelMeta) IntervalUnit() IntervalUnit {
	return m.IntervalUnitSampled(defaultSampleSize)
}

// IntervalUnitSampled infers the granularity from sampleSize consecutive
// future firings, anchored at the current time. Cron expressions do not
// self-describe their granularity, so the minimum observed step is used
// as a proxy; for highly irregular schedules the result is probabilistic
// since the minimum gap can depend on the anchor.
func (m *ModelMeta) IntervalUnitSampled(sampleSize int) IntervalUnit {
	samples := make([]time.Time, 0, sampleSize)
	cursor := time.Now().UTC()
	for i := 0; i < sampleSize; i++ {
		next, err := gronx.NextTickAfter(m.cron, cursor, false)
		if err != nil {
			// The cron was validated at construction; an error here means
			// the sample is short, so classify with what we have.
			break
		}
		samples = append(samples, next)
		cursor = next
	}
	if len(samples) < 2 {
		return IntervalUnitDay
	}

	minGap := samples[1].Sub(samples[0])
	for i := 2; i < len(samples); i++ {
		if gap := samples[i].Sub(samples[i-1]); gap < minGap {
			minGap = gap
		}
	}
	switch {
	case minGap >= 24*time.Hour:
		return IntervalUnitDay
	case minGap >= time.Hour:
		return IntervalUnitHour
	default:
		return IntervalUnitMinute
	}
}

// NormalizedCron collapses the model's schedule into one of exactly three
// canonical UTC-aligned cadences. A job scheduled daily at 1PM still
// computes intervals from midnight UTC; downstream interval-window logic
// only reasons about the three cadence classes, not arbitrary cron
// semantics. Returns "" for an unknown unit, which the exhaustive
// classifier should make unreachable.
func (m *ModelMeta) NormalizedCron() string {
	switch m.IntervalUnit() {
	case IntervalUnitMinute:
		return "* * * * *"
	case IntervalUnitHour:
		return "0 * * * *"
	case IntervalUnitDay:
		return "0 0 * * *"
	}
	return ""
}

// CronNext returns the first firing time of the normalized cron strictly
// after value, in value's own representation.
func (m *ModelMeta) CronNext(value date.TimeLike) (date.TimeLike, error) {
	return m.cronTick(value, func(expr string, t time.Time) (time.Time, error) {
		return gronx.NextTickAfter(expr, t, false)
	})
}

// CronPrev returns the last firing time of the normalized cron strictly
// before value, in value's own representation. When value is itself on a
// firing boundary the result is the boundary before it; use CronFloor for
// the inclusive variant.
func (m *ModelMeta) CronPrev(value date.TimeLike) (date.TimeLike, error) {
	return m.cronTick(value, func(expr string, t time.Time) (time.Time, error) {
		return gronx.PrevTickBefore(expr, t, false)
	})
}

// CronFloor returns the latest firing time of the normalized cron at or
// before value, in value's own representation: value itself when it sits
// exactly on a boundary, otherwise the boundary before it.
func (m *ModelMeta) CronFloor(value date.TimeLike) (date.TimeLike, error) {
	return m.cronTick(value, func(expr string, t time.Time) (time.Time, error) {
		return gronx.PrevTickBefore(expr, t, true)
	})
}

func (m *ModelMeta) cronTick(
	value date.TimeLike,
	tick func(expr string, t time.Time) (time.Time, error),
) (date.TimeLike, error) {
	t, err := date.ToTime(value)
	if err != nil {
		return nil, err
	}
	out, err := tick(m.NormalizedCron(), t)
	if err != nil {
		return nil, fmt.Errorf("evaluating cron for model %s: %w", m.name, err)
	}
	return date.Preserve(value, out), nil
}
