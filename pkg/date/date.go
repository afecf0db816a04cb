// Package date handles the flexible time-like values accepted by model
// definitions: formatted strings, epoch integers, and time.Time. The
// representation a caller hands in is the representation it gets back.
package date

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLike is a value representing a point in time in one of several
// representations: a formatted string, an epoch integer (seconds or
// milliseconds), or a time.Time.
type TimeLike = any

// Epoch integers at or above this value are interpreted as milliseconds.
// Unix seconds do not reach 1e12 until the year 33658.
const epochMillisThreshold = int64(1e12)

// ToTime converts a time-like value to a UTC time.Time.
func ToTime(v TimeLike) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		parsed, err := dateparse.ParseIn(t, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing time %q: %w", t, err)
		}
		return parsed.UTC(), nil
	case int:
		return fromEpoch(int64(t)), nil
	case int64:
		return fromEpoch(t), nil
	case float64:
		return fromEpoch(int64(t)), nil
	default:
		return time.Time{}, fmt.Errorf("cannot interpret %v (%T) as a time", v, v)
	}
}

func fromEpoch(n int64) time.Time {
	if n >= epochMillisThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// Preserve re-expresses t in the representation family of ref: a string
// ref yields a formatted string, an epoch ref yields an epoch of the
// same precision, and anything else yields t itself.
func Preserve(ref TimeLike, t time.Time) TimeLike {
	switch r := ref.(type) {
	case string:
		return t.UTC().Format("2006-01-02 15:04:05")
	case int:
		return int(toEpoch(int64(r), t))
	case int64:
		return toEpoch(r, t)
	case float64:
		return float64(toEpoch(int64(r), t))
	default:
		return t.UTC()
	}
}

func toEpoch(ref int64, t time.Time) int64 {
	if ref >= epochMillisThreshold {
		return t.UnixMilli()
	}
	return t.Unix()
}

// Unique returns xs with duplicates removed, keeping first-seen order.
func Unique[T comparable](xs []T) []T {
	seen := make(map[T]struct{}, len(xs))
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
