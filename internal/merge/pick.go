package merge

import (
	"time"

	"github.com/statloom/statloom/internal/domain/opt"
)

// The pick functions implement the field-level conflict policy. All of them
// are asymmetric: on a genuine tie the first argument wins, so the order in
// which providers are folded is a semantic input to every merge. Callers
// must iterate providers in their registered priority order.

// PickFirst keeps a unless it is absent.
func PickFirst[T any](a, b opt.Val[T]) opt.Val[T] {
	if a.Null() {
		return b
	}
	return a
}

// PickLast keeps the most recently seen non-null value. Used for fields
// where later sources are expected to refine earlier ones (venue surface
// flags, weather samples).
func PickLast[T any](a, b opt.Val[T]) opt.Val[T] {
	if b.Null() {
		return a
	}
	return b
}

// PickFloat prefers the non-zero candidate: a zero stat line usually means
// the source had no figure rather than a genuine zero.
func PickFloat(a, b opt.Val[float64]) opt.Val[float64] {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case !aok:
		return b
	case !bok:
		return a
	case av == 0 && bv != 0:
		return b
	default:
		return a
	}
}

// PickInt applies the same zero rule to integers.
func PickInt(a, b opt.Val[int64]) opt.Val[int64] {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case !aok:
		return b
	case !bok:
		return a
	case av == 0 && bv != 0:
		return b
	default:
		return a
	}
}

// PickTime prefers the more time-specific timestamp. A timestamp at exactly
// midnight, or with a zero minute component, is usually a date-only or
// rounded value from a source that doesn't know the real start time.
func PickTime(a, b opt.Val[time.Time]) opt.Val[time.Time] {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case !aok:
		return b
	case !bok:
		return a
	case roundedTime(av) && !roundedTime(bv):
		return b
	default:
		return a
	}
}

func roundedTime(t time.Time) bool {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return true
	}
	return t.Minute() == 0
}

// reduce folds a pick function across candidates in order.
func reduce[T any](pick func(a, b opt.Val[T]) opt.Val[T], vals ...opt.Val[T]) opt.Val[T] {
	if len(vals) == 0 {
		return opt.None[T]()
	}
	acc := vals[0]
	for _, v := range vals[1:] {
		acc = pick(acc, v)
	}
	return acc
}
