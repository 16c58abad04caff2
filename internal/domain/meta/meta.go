// Package meta declares the static per-entity-kind field schema: which
// fields exist on each reconcilable entity and which column tags apply to
// them. The merge layer uses it to decide forward-fill eligibility; the
// export layer copies the tags onto output columns so the trainer can tell
// odds, points, categorical, text and look-ahead columns apart.
package meta

import "strings"

// Kind identifies one reconcilable entity kind.
type Kind string

const (
	KindAddress  Kind = "address"
	KindWeather  Kind = "weather"
	KindVenue    Kind = "venue"
	KindCoach    Kind = "coach"
	KindUmpire   Kind = "umpire"
	KindOwner    Kind = "owner"
	KindPlayer   Kind = "player"
	KindTeam     Kind = "team"
	KindOdds     Kind = "odds"
	KindGame     Kind = "game"
	KindDividend Kind = "dividend"
	KindSocial   Kind = "social"
	KindNews     Kind = "news"
)

// Tag is one column marker. The set is closed; the downstream trainer
// switches on exactly these.
type Tag uint8

const (
	// TagCategorical marks columns the trainer one-hot or ordinal encodes.
	TagCategorical Tag = 1 << iota
	// TagText marks free-text columns excluded from numeric features.
	TagText
	// TagOdds marks bookmaker price columns used by the return simulation.
	TagOdds
	// TagPoints marks scoring columns used to derive results.
	TagPoints
	// TagLookahead marks columns only knowable after the event; they must
	// never be fed to the model as inputs.
	TagLookahead
	// TagGolden marks columns eligible to inherit the last known value for
	// the same canonical identifier when a merge leaves them empty.
	TagGolden
)

var tagNames = map[Tag]string{
	TagCategorical: "categorical",
	TagText:        "text",
	TagOdds:        "odds",
	TagPoints:      "points",
	TagLookahead:   "lookahead",
	TagGolden:      "golden",
}

// allTags is ordered for a stable sidecar rendering.
var allTags = []Tag{TagCategorical, TagText, TagOdds, TagPoints, TagLookahead, TagGolden}

// TagSet is a combination of tags on one field.
type TagSet uint8

// Tags builds a TagSet from individual tags.
func Tags(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s |= TagSet(t)
	}
	return s
}

// Has reports whether the set contains the tag.
func (s TagSet) Has(t Tag) bool {
	return s&TagSet(t) != 0
}

// Names returns the set's tag names in declaration order.
func (s TagSet) Names() []string {
	out := make([]string, 0, len(allTags))
	for _, t := range allTags {
		if s.Has(t) {
			out = append(out, tagNames[t])
		}
	}
	return out
}

func (s TagSet) String() string {
	return strings.Join(s.Names(), "|")
}

// registry is the single source of truth for per-kind field tags. Fields not
// listed here carry no tags; listing a field with zero tags is equivalent to
// omitting it.
var registry = map[Kind]map[string]TagSet{
	KindAddress: {
		"city":         Tags(TagCategorical),
		"state":        Tags(TagCategorical),
		"zipcode":      Tags(TagCategorical),
		"house_number": 0,
		"latitude":     0,
		"longitude":    0,
		"altitude":     0,
	},
	KindWeather: {
		"temperature": Tags(TagLookahead),
		"humidity":    Tags(TagLookahead),
	},
	KindVenue: {
		"identifier": Tags(TagCategorical),
		"name":       Tags(TagCategorical),
		"is_grass":   Tags(TagCategorical, TagGolden),
		"is_indoor":  Tags(TagCategorical, TagGolden),
	},
	KindCoach: {
		"name":        Tags(TagCategorical),
		"birth_date":  Tags(TagGolden),
		"age":         Tags(TagGolden),
		"sex":         Tags(TagCategorical, TagGolden),
		"high_school": Tags(TagText, TagGolden),
	},
	KindUmpire: {
		"name":        Tags(TagCategorical),
		"birth_date":  Tags(TagGolden),
		"age":         Tags(TagGolden),
		"sex":         Tags(TagCategorical, TagGolden),
		"high_school": Tags(TagText, TagGolden),
	},
	KindOwner: {
		"name":        Tags(TagCategorical),
		"birth_date":  Tags(TagGolden),
		"age":         Tags(TagGolden),
		"sex":         Tags(TagCategorical, TagGolden),
		"high_school": Tags(TagText, TagGolden),
	},
	KindPlayer: {
		"identifier":     Tags(TagCategorical),
		"name":           Tags(TagCategorical),
		"position":       Tags(TagCategorical, TagGolden),
		"kicks":          Tags(TagPoints, TagLookahead),
		"marks":          Tags(TagPoints, TagLookahead),
		"handballs":      Tags(TagPoints, TagLookahead),
		"disposals":      Tags(TagPoints, TagLookahead),
		"goals":          Tags(TagPoints, TagLookahead),
		"behinds":        Tags(TagPoints, TagLookahead),
		"tackles":        Tags(TagPoints, TagLookahead),
		"brownlow_votes": Tags(TagPoints, TagLookahead),
	},
	KindTeam: {
		"identifier": Tags(TagCategorical),
		"name":       Tags(TagCategorical),
		"points":     Tags(TagPoints, TagLookahead),
		"goals":      Tags(TagPoints, TagLookahead),
		"behinds":    Tags(TagPoints, TagLookahead),
	},
	KindOdds: {
		"bookmaker": Tags(TagCategorical),
		"price":     Tags(TagOdds),
		"line":      Tags(TagOdds),
	},
	KindGame: {
		"date":         0,
		"week":         Tags(TagCategorical),
		"game_number":  Tags(TagCategorical),
		"season_stage": Tags(TagCategorical),
		"attendance":   Tags(TagLookahead),
		"postponed":    Tags(TagCategorical, TagLookahead),
		"playoff":      Tags(TagCategorical),
	},
	KindDividend: {
		"product": Tags(TagCategorical),
		"amount":  Tags(TagOdds, TagLookahead),
	},
	KindSocial: {
		"handle":    Tags(TagCategorical),
		"text":      Tags(TagText),
		"posted_at": 0,
		"likes":     Tags(TagLookahead),
		"reposts":   Tags(TagLookahead),
	},
	KindNews: {
		"title":        Tags(TagText),
		"summary":      Tags(TagText),
		"url":          Tags(TagText),
		"published_at": 0,
	},
}

// Fields returns the field→tags table for a kind. The returned map is shared;
// callers must not mutate it.
func Fields(kind Kind) map[string]TagSet {
	return registry[kind]
}

// FieldTags returns the tags on one field of a kind, zero when unknown.
func FieldTags(kind Kind, field string) TagSet {
	return registry[kind][field]
}

// Golden reports whether a field inherits forward-filled values.
func Golden(kind Kind, field string) bool {
	return registry[kind][field].Has(TagGolden)
}
