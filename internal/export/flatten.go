// Package export turns merged games into the flat table the training
// pipeline consumes: one row per game, columns namespaced by entity path,
// and per-column tag metadata carried as a sidecar rather than data rows.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/domain/media"
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
	"github.com/statloom/statloom/internal/domain/venue"
)

// Column is one output column and the union of tags its values carry.
type Column struct {
	Name string
	Tags meta.TagSet
}

// Table is the flattened export: rows aligned to Columns, empty string for
// absent values.
type Table struct {
	League  string
	Columns []Column
	Rows    [][]string
}

type cell struct {
	value string
	tags  meta.TagSet
}

// Flatten produces one row per game. Column order is lexicographic so the
// output is stable across runs regardless of which games carry which
// optional sub-entities.
func Flatten(league string, games []game.Game) Table {
	rows := make([]map[string]cell, len(games))
	iter.ForEachIdx(games, func(i int, g *game.Game) {
		rows[i] = flattenGame(*g)
	})

	tags := make(map[string]meta.TagSet)
	for _, row := range rows {
		for name, c := range row {
			tags[name] |= c.tags
		}
	}
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Tags: tags[name]}
	}

	out := Table{League: league, Columns: columns}
	for _, row := range rows {
		values := make([]string, len(names))
		for i, name := range names {
			values[i] = row[name].value
		}
		out.Rows = append(out.Rows, values)
	}
	return out
}

// Placeholder is the degraded artifact written when a harvesting run fails
// outright: structurally valid, content-free, never zero bytes.
func Placeholder(league string) Table {
	return Table{
		League: league,
		Columns: []Column{
			{Name: "date", Tags: meta.FieldTags(meta.KindGame, "date")},
			{Name: "league"},
		},
		Rows: [][]string{{"", league}},
	}
}

func flattenGame(g game.Game) map[string]cell {
	cells := make(map[string]cell, 64)

	cells["league"] = cell{value: g.League}
	put(cells, "date", meta.KindGame, "date", timeValue(g.Date))
	putInt(cells, "week", meta.KindGame, "week", g.Week)
	putInt(cells, "game_number", meta.KindGame, "game_number", g.GameNumber)
	putString(cells, "season_stage", meta.KindGame, "season_stage", g.SeasonStage)
	putFloat(cells, "attendance", meta.KindGame, "attendance", g.Attendance)
	putBool(cells, "postponed", meta.KindGame, "postponed", g.Postponed)
	putBool(cells, "playoff", meta.KindGame, "playoff", g.Playoff)

	flattenVenue(cells, "venue", g.Venue)

	for i, t := range g.Teams {
		prefix := fmt.Sprintf("team_%d", i)
		put(cells, prefix+"_identifier", meta.KindTeam, "identifier", t.ID)
		put(cells, prefix+"_name", meta.KindTeam, "name", t.Name)
		putFloat(cells, prefix+"_points", meta.KindTeam, "points", t.Points)
		putFloat(cells, prefix+"_goals", meta.KindTeam, "goals", t.Goals)
		putFloat(cells, prefix+"_behinds", meta.KindTeam, "behinds", t.Behinds)

		for j, p := range t.Players {
			pp := fmt.Sprintf("%s_player_%d", prefix, j)
			put(cells, pp+"_identifier", meta.KindPlayer, "identifier", p.ID)
			put(cells, pp+"_name", meta.KindPlayer, "name", p.Name)
			putString(cells, pp+"_position", meta.KindPlayer, "position", p.Position)
			putFloat(cells, pp+"_kicks", meta.KindPlayer, "kicks", p.Kicks)
			putFloat(cells, pp+"_marks", meta.KindPlayer, "marks", p.Marks)
			putFloat(cells, pp+"_handballs", meta.KindPlayer, "handballs", p.Handballs)
			putFloat(cells, pp+"_disposals", meta.KindPlayer, "disposals", p.Disposals)
			putFloat(cells, pp+"_goals", meta.KindPlayer, "goals", p.Goals)
			putFloat(cells, pp+"_behinds", meta.KindPlayer, "behinds", p.Behinds)
			putFloat(cells, pp+"_tackles", meta.KindPlayer, "tackles", p.Tackles)
			putFloat(cells, pp+"_brownlow_votes", meta.KindPlayer, "brownlow_votes", p.BrownlowVotes)
		}

		for j, q := range t.Odds {
			qp := fmt.Sprintf("%s_odds_%d", prefix, j)
			put(cells, qp+"_bookmaker", meta.KindOdds, "bookmaker", q.Bookmaker)
			putFloat(cells, qp+"_price", meta.KindOdds, "price", q.Price)
			putFloat(cells, qp+"_line", meta.KindOdds, "line", q.Line)
		}

		for j, c := range t.Coaches {
			flattenPerson(cells, fmt.Sprintf("%s_coach_%d", prefix, j), meta.KindCoach, c)
		}
	}

	for i, u := range g.Umpires {
		flattenPerson(cells, fmt.Sprintf("umpire_%d", i), meta.KindUmpire, u)
	}

	for i, d := range g.Dividends {
		dp := fmt.Sprintf("dividend_%d", i)
		put(cells, dp+"_product", meta.KindDividend, "product", d.Product)
		putFloat(cells, dp+"_amount", meta.KindDividend, "amount", d.Amount)
	}

	for i, s := range g.Social {
		flattenSocial(cells, fmt.Sprintf("social_%d", i), s)
	}
	for i, n := range g.News {
		flattenNews(cells, fmt.Sprintf("news_%d", i), n)
	}

	return cells
}

func flattenVenue(cells map[string]cell, prefix string, v *venue.Venue) {
	if v == nil {
		return
	}
	put(cells, prefix+"_identifier", meta.KindVenue, "identifier", v.ID)
	putString(cells, prefix+"_name", meta.KindVenue, "name", v.Name)
	putBool(cells, prefix+"_is_grass", meta.KindVenue, "is_grass", v.IsGrass)
	putBool(cells, prefix+"_is_indoor", meta.KindVenue, "is_indoor", v.IsIndoor)

	if v.Address == nil {
		return
	}
	ap := prefix + "_address"
	put(cells, ap+"_city", meta.KindAddress, "city", v.Address.City)
	put(cells, ap+"_state", meta.KindAddress, "state", v.Address.State)
	put(cells, ap+"_zipcode", meta.KindAddress, "zipcode", v.Address.Zipcode)
	putInt(cells, ap+"_house_number", meta.KindAddress, "house_number", v.Address.HouseNumber)
	putFloat(cells, ap+"_latitude", meta.KindAddress, "latitude", v.Address.Latitude)
	putFloat(cells, ap+"_longitude", meta.KindAddress, "longitude", v.Address.Longitude)
	putFloat(cells, ap+"_altitude", meta.KindAddress, "altitude", v.Address.Altitude)
	for i, w := range v.Address.Weather {
		wp := fmt.Sprintf("%s_weather_%d", ap, i)
		putFloat(cells, wp+"_temperature", meta.KindWeather, "temperature", w.Temperature)
		putFloat(cells, wp+"_humidity", meta.KindWeather, "humidity", w.Humidity)
	}
}

func flattenPerson(cells map[string]cell, prefix string, kind meta.Kind, p person.Person) {
	put(cells, prefix+"_name", kind, "name", p.Name)
	if bd, ok := p.BirthDate.Get(); ok {
		put(cells, prefix+"_birth_date", kind, "birth_date", timeValue(bd))
	}
	putFloat(cells, prefix+"_age", kind, "age", p.Age)
	putString(cells, prefix+"_sex", kind, "sex", p.Sex)
	putString(cells, prefix+"_high_school", kind, "high_school", p.HighSchool)
}

func flattenSocial(cells map[string]cell, prefix string, s media.Social) {
	put(cells, prefix+"_handle", meta.KindSocial, "handle", s.Handle)
	putString(cells, prefix+"_text", meta.KindSocial, "text", s.Text)
	if at, ok := s.PostedAt.Get(); ok {
		put(cells, prefix+"_posted_at", meta.KindSocial, "posted_at", timeValue(at))
	}
	putFloat(cells, prefix+"_likes", meta.KindSocial, "likes", s.Likes)
	putFloat(cells, prefix+"_reposts", meta.KindSocial, "reposts", s.Reposts)
}

func flattenNews(cells map[string]cell, prefix string, n media.News) {
	put(cells, prefix+"_url", meta.KindNews, "url", n.URL)
	putString(cells, prefix+"_title", meta.KindNews, "title", n.Title)
	putString(cells, prefix+"_summary", meta.KindNews, "summary", n.Summary)
	if at, ok := n.PublishedAt.Get(); ok {
		put(cells, prefix+"_published_at", meta.KindNews, "published_at", timeValue(at))
	}
}

func put(cells map[string]cell, name string, kind meta.Kind, field, value string) {
	if value == "" {
		return
	}
	cells[name] = cell{value: value, tags: meta.FieldTags(kind, field)}
}

func putString(cells map[string]cell, name string, kind meta.Kind, field string, v opt.Val[string]) {
	if s, ok := v.Get(); ok {
		put(cells, name, kind, field, s)
	}
}

func putFloat(cells map[string]cell, name string, kind meta.Kind, field string, v opt.Val[float64]) {
	if f, ok := v.Get(); ok {
		put(cells, name, kind, field, strconv.FormatFloat(f, 'g', -1, 64))
	}
}

func putInt(cells map[string]cell, name string, kind meta.Kind, field string, v opt.Val[int64]) {
	if n, ok := v.Get(); ok {
		put(cells, name, kind, field, strconv.FormatInt(n, 10))
	}
}

func putBool(cells map[string]cell, name string, kind meta.Kind, field string, v opt.Val[bool]) {
	if b, ok := v.Get(); ok {
		put(cells, name, kind, field, strconv.FormatBool(b))
	}
}

func timeValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
