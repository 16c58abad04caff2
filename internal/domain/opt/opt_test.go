package opt

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestFloatRejectsNaN(t *testing.T) {
	if !Float(math.NaN()).Null() {
		t.Fatalf("NaN must be absent")
	}
	if !Float(math.Inf(1)).Null() {
		t.Fatalf("+Inf must be absent")
	}
	if Float(0).Null() {
		t.Fatalf("zero is a real value, not absence")
	}
}

func TestTimeRejectsZero(t *testing.T) {
	if !Time(time.Time{}).Null() {
		t.Fatalf("zero time must be absent")
	}
	if Time(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).Null() {
		t.Fatalf("midnight is a real timestamp, not absence")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type row struct {
		Sex   Val[string]    `json:"sex"`
		Score Val[float64]   `json:"score"`
		At    Val[time.Time] `json:"at"`
	}
	in := row{Sex: Of("male"), Score: Float(0)}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out row
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Sex.Or("") != "male" {
		t.Fatalf("sex lost in round trip: %v", out.Sex)
	}
	if out.Score.Null() || out.Score.Or(-1) != 0 {
		t.Fatalf("present zero must survive, got %v", out.Score)
	}
	if !out.At.Null() {
		t.Fatalf("absent time must stay absent, got %v", out.At)
	}
}

func TestGetAndOr(t *testing.T) {
	v := Of("male")
	got, ok := v.Get()
	if !ok || got != "male" {
		t.Fatalf("unexpected get: %q %v", got, ok)
	}
	if None[string]().Or("fallback") != "fallback" {
		t.Fatalf("Or must return fallback for empty value")
	}
	if v.Or("fallback") != "male" {
		t.Fatalf("Or must return held value when present")
	}
}
