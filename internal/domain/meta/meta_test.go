package meta

import "testing"

func TestTagSetNames(t *testing.T) {
	s := Tags(TagOdds, TagCategorical, TagLookahead)
	got := s.String()
	if got != "categorical|odds|lookahead" {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if !s.Has(TagOdds) || s.Has(TagText) {
		t.Fatalf("membership check broken")
	}
}

func TestGoldenFields(t *testing.T) {
	if !Golden(KindCoach, "sex") {
		t.Fatalf("coach sex must be forward-fill eligible")
	}
	if Golden(KindCoach, "name") {
		t.Fatalf("coach name must never be forward-filled")
	}
	if Golden(KindTeam, "points") {
		t.Fatalf("team points must never be forward-filled")
	}
}

func TestIdentifierRegisteredPerKind(t *testing.T) {
	for _, kind := range []Kind{KindTeam, KindPlayer, KindVenue} {
		tags := FieldTags(kind, "identifier")
		if !tags.Has(TagCategorical) {
			t.Fatalf("%s identifier must carry its own categorical tags", kind)
		}
		if tags.Has(TagGolden) {
			t.Fatalf("%s identifier must never be forward-filled", kind)
		}
	}
}

func TestLookaheadCoversResultColumns(t *testing.T) {
	for _, field := range []string{"kicks", "goals", "disposals"} {
		if !FieldTags(KindPlayer, field).Has(TagLookahead) {
			t.Fatalf("player %s must be look-ahead", field)
		}
		if !FieldTags(KindPlayer, field).Has(TagPoints) {
			t.Fatalf("player %s must be a points column", field)
		}
	}
	if !FieldTags(KindOdds, "price").Has(TagOdds) {
		t.Fatalf("odds price must carry the odds tag")
	}
}
