// Package opt provides the single optional-value representation used by
// every reconcilable entity field. Source feeds encode absence in many ways
// (missing key, NaN, epoch-zero timestamps); all of them collapse to an
// empty Val at construction so the merge layer never has to sniff sentinels.
package opt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Val holds either a value of type T or nothing.
type Val[T any] struct {
	v  T
	ok bool
}

// Of wraps a value that is known to be present.
func Of[T any](v T) Val[T] {
	return Val[T]{v: v, ok: true}
}

// None returns the empty value for T.
func None[T any]() Val[T] {
	return Val[T]{}
}

// Float wraps a float, treating NaN and infinities as absent.
func Float(f float64) Val[float64] {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return None[float64]()
	}
	return Of(f)
}

// Time wraps a timestamp, treating the zero time as absent.
func Time(t time.Time) Val[time.Time] {
	if t.IsZero() {
		return None[time.Time]()
	}
	return Of(t)
}

// String wraps a string, treating the empty string as absent.
func String(s string) Val[string] {
	if s == "" {
		return None[string]()
	}
	return Of(s)
}

// FloatPtr wraps a possibly-nil float pointer.
func FloatPtr(p *float64) Val[float64] {
	if p == nil {
		return None[float64]()
	}
	return Float(*p)
}

// IntPtr wraps a possibly-nil int pointer.
func IntPtr(p *int64) Val[int64] {
	if p == nil {
		return None[int64]()
	}
	return Of(*p)
}

// BoolPtr wraps a possibly-nil bool pointer.
func BoolPtr(p *bool) Val[bool] {
	if p == nil {
		return None[bool]()
	}
	return Of(*p)
}

// Null reports whether the value is absent.
func (v Val[T]) Null() bool {
	return !v.ok
}

// Get returns the held value and whether it is present.
func (v Val[T]) Get() (T, bool) {
	return v.v, v.ok
}

// Or returns the held value, or fallback when absent.
func (v Val[T]) Or(fallback T) T {
	if v.ok {
		return v.v
	}
	return fallback
}

// MustGet returns the held value and panics when absent. Reserved for spots
// where presence was already established by a Validate call.
func (v Val[T]) MustGet() T {
	if !v.ok {
		panic("opt: MustGet on empty value")
	}
	return v.v
}

var jsonNull = []byte("null")

// MarshalJSON encodes absence as JSON null and presence as the bare value.
func (v Val[T]) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return jsonNull, nil
	}
	return json.Marshal(v.v)
}

func (v *Val[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*v = Val[T]{}
		return nil
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if absent(any(decoded)) {
		*v = Val[T]{}
		return nil
	}
	*v = Of(decoded)
	return nil
}

// absent re-applies the constructor sentinels on decode, so a round-tripped
// zero time or NaN cannot smuggle a fake presence back in.
func absent(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return t.IsZero()
	case float64:
		return math.IsNaN(t) || math.IsInf(t, 0)
	default:
		return false
	}
}

func (v Val[T]) String() string {
	if !v.ok {
		return "<none>"
	}
	return fmt.Sprintf("%v", v.v)
}
