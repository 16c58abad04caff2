package merge

import (
	"testing"
	"time"

	"github.com/statloom/statloom/internal/domain/opt"
)

func TestPickFloatPrefersNonZeroEitherSide(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0.0, 5.0, 5.0},
		{5.0, 0.0, 5.0},
		{3.0, 5.0, 3.0}, // both real, first wins
		{0.0, 0.0, 0.0},
	}
	for _, tc := range cases {
		got := PickFloat(opt.Float(tc.a), opt.Float(tc.b))
		if got.Or(-1) != tc.want {
			t.Fatalf("PickFloat(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPickFloatNullSides(t *testing.T) {
	if got := PickFloat(opt.None[float64](), opt.Float(2)); got.Or(-1) != 2 {
		t.Fatalf("null left must yield right, got %v", got)
	}
	if got := PickFloat(opt.Float(2), opt.None[float64]()); got.Or(-1) != 2 {
		t.Fatalf("null right must yield left, got %v", got)
	}
	if got := PickFloat(opt.None[float64](), opt.None[float64]()); !got.Null() {
		t.Fatalf("both null must stay null, got %v", got)
	}
}

func TestPickTimeMidnightRule(t *testing.T) {
	midnight := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2020, 1, 1, 14, 30, 0, 0, time.UTC)

	got := PickTime(opt.Time(midnight), opt.Time(afternoon))
	if !got.Or(time.Time{}).Equal(afternoon) {
		t.Fatalf("midnight must lose to a real start time, got %v", got)
	}

	// Rounded the other way around too.
	got = PickTime(opt.Time(afternoon), opt.Time(midnight))
	if !got.Or(time.Time{}).Equal(afternoon) {
		t.Fatalf("order must not matter for the rounded rule, got %v", got)
	}
}

func TestPickTimeZeroMinuteIsRounded(t *testing.T) {
	onTheHour := time.Date(2020, 1, 1, 13, 0, 0, 0, time.UTC)
	specific := time.Date(2020, 1, 1, 13, 45, 0, 0, time.UTC)
	got := PickTime(opt.Time(onTheHour), opt.Time(specific))
	if !got.Or(time.Time{}).Equal(specific) {
		t.Fatalf("on-the-hour timestamp must lose, got %v", got)
	}
}

func TestPickTimeFullTiePrefersFirst(t *testing.T) {
	a := time.Date(2020, 1, 1, 14, 30, 0, 0, time.UTC)
	b := time.Date(2020, 1, 1, 19, 50, 0, 0, time.UTC)
	got := PickTime(opt.Time(a), opt.Time(b))
	if !got.Or(time.Time{}).Equal(a) {
		t.Fatalf("two specific timestamps must keep the first, got %v", got)
	}
}

func TestPickFirstAndLast(t *testing.T) {
	if got := PickFirst(opt.Of("a"), opt.Of("b")); got.Or("") != "a" {
		t.Fatalf("PickFirst must keep first, got %v", got)
	}
	if got := PickFirst(opt.None[string](), opt.Of("b")); got.Or("") != "b" {
		t.Fatalf("PickFirst must fall through nulls, got %v", got)
	}
	if got := PickLast(opt.Of(true), opt.Of(false)); got.Or(true) != false {
		t.Fatalf("PickLast must take the later non-null, got %v", got)
	}
	if got := PickLast(opt.Of(true), opt.None[bool]()); got.Or(false) != true {
		t.Fatalf("PickLast must keep earlier when later is null, got %v", got)
	}
}

func TestReduceOrder(t *testing.T) {
	got := reduce(PickFloat, opt.Float(0), opt.Float(0), opt.Float(7), opt.Float(9))
	if got.Or(-1) != 7 {
		t.Fatalf("reduce must fold in order, got %v", got)
	}
	if !reduce(PickFloat).Null() {
		t.Fatalf("empty reduce must be null")
	}
}
