package statsfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/game"
	"github.com/statloom/statloom/internal/domain/media"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
	"github.com/statloom/statloom/internal/domain/player"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/domain/venue"
	"github.com/statloom/statloom/internal/domain/weather"
)

// The feed returns a flat envelope of games for one league round. Every
// optional stat is a pointer so that absent and zero survive the wire
// distinctly.
type gamesEnvelope struct {
	Games []gameDTO `json:"games" validate:"required"`
}

type gameDTO struct {
	Date        string         `json:"date" validate:"required"`
	Week        *int64         `json:"week,omitempty"`
	GameNumber  *int64         `json:"game_number,omitempty"`
	SeasonStage *string        `json:"season_stage,omitempty"`
	Attendance  *float64       `json:"attendance,omitempty"`
	Postponed   *bool          `json:"postponed,omitempty"`
	Playoff     *bool          `json:"playoff,omitempty"`
	Teams       []teamDTO      `json:"teams" validate:"required,min=1,dive"`
	Venue       *venueDTO      `json:"venue,omitempty"`
	Umpires     []personDTO    `json:"umpires,omitempty" validate:"dive"`
	Dividends   []dividendDTO  `json:"dividends,omitempty"`
	Social      []socialDTO    `json:"social,omitempty" validate:"dive"`
	News        []newsDTO      `json:"news,omitempty" validate:"dive"`
}

type teamDTO struct {
	ID      string      `json:"id" validate:"required"`
	Name    string      `json:"name"`
	Points  *float64    `json:"points,omitempty"`
	Goals   *float64    `json:"goals,omitempty"`
	Behinds *float64    `json:"behinds,omitempty"`
	Players []playerDTO `json:"players,omitempty" validate:"dive"`
	Coaches []personDTO `json:"coaches,omitempty" validate:"dive"`
}

type playerDTO struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Position      *string  `json:"position,omitempty"`
	BirthDate     *string  `json:"birth_date,omitempty"`
	Kicks         *float64 `json:"kicks,omitempty"`
	Marks         *float64 `json:"marks,omitempty"`
	Handballs     *float64 `json:"handballs,omitempty"`
	Disposals     *float64 `json:"disposals,omitempty"`
	Goals         *float64 `json:"goals,omitempty"`
	Behinds       *float64 `json:"behinds,omitempty"`
	Tackles       *float64 `json:"tackles,omitempty"`
	BrownlowVotes *float64 `json:"brownlow_votes,omitempty"`
}

type personDTO struct {
	Name       string      `json:"name" validate:"required"`
	BirthDate  *string     `json:"birth_date,omitempty"`
	Age        *float64    `json:"age,omitempty"`
	Sex        *string     `json:"sex,omitempty"`
	HighSchool *string     `json:"high_school,omitempty"`
	BirthPlace *addressDTO `json:"birth_place,omitempty"`
}

type venueDTO struct {
	ID       string      `json:"id" validate:"required"`
	Name     *string     `json:"name,omitempty"`
	IsGrass  *bool       `json:"is_grass,omitempty"`
	IsIndoor *bool       `json:"is_indoor,omitempty"`
	Address  *addressDTO `json:"address,omitempty"`
}

type addressDTO struct {
	City        string        `json:"city"`
	State       string        `json:"state"`
	Zipcode     string        `json:"zipcode"`
	HouseNumber *int64        `json:"house_number,omitempty"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	Altitude    *float64      `json:"altitude,omitempty"`
	Weather     []weatherDTO  `json:"weather,omitempty"`
}

type weatherDTO struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

type dividendDTO struct {
	Product string   `json:"product" validate:"required"`
	Amount  *float64 `json:"amount,omitempty"`
}

type socialDTO struct {
	Handle   string   `json:"handle" validate:"required"`
	Text     *string  `json:"text,omitempty"`
	PostedAt *string  `json:"posted_at,omitempty"`
	Likes    *float64 `json:"likes,omitempty"`
	Reposts  *float64 `json:"reposts,omitempty"`
}

type newsDTO struct {
	URL         string  `json:"url" validate:"required"`
	Title       *string `json:"title,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
}

// Games fetches and materializes every game the feed currently exposes for
// the configured league. Individual malformed games are logged and skipped
// so one bad row does not cost the whole provider's contribution.
func (c *Client) Games(ctx context.Context) ([]game.Game, error) {
	var envelope gamesEnvelope
	if err := c.doJSON(ctx, "/v1/games", map[string]string{"league": c.league}, &envelope); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(envelope); err != nil {
		return nil, fmt.Errorf("stats feed payload failed validation: %w", err)
	}

	games := make([]game.Game, 0, len(envelope.Games))
	for _, dto := range envelope.Games {
		mapped, err := c.mapGame(dto)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed feed game",
				"provider", c.name,
				"date", dto.Date,
				"error", err,
			)
			continue
		}
		games = append(games, mapped)
	}
	return games, nil
}

func (c *Client) mapGame(dto gameDTO) (game.Game, error) {
	date, err := parseFeedTime(dto.Date)
	if err != nil {
		return game.Game{}, fmt.Errorf("parse game date: %w", err)
	}

	mapped := game.Game{
		League:      c.league,
		Source:      c.name,
		Date:        date,
		Week:        opt.IntPtr(dto.Week),
		GameNumber:  opt.IntPtr(dto.GameNumber),
		SeasonStage: stringPtr(dto.SeasonStage),
		Attendance:  opt.FloatPtr(dto.Attendance),
		Postponed:   opt.BoolPtr(dto.Postponed),
		Playoff:     opt.BoolPtr(dto.Playoff),
		Venue:       mapVenue(dto.Venue),
	}

	for _, t := range dto.Teams {
		mapped.Teams = append(mapped.Teams, mapTeam(t))
	}
	for _, u := range dto.Umpires {
		mapped.Umpires = append(mapped.Umpires, mapPerson(u, person.RoleUmpire))
	}
	for _, d := range dto.Dividends {
		mapped.Dividends = append(mapped.Dividends, game.Dividend{
			Product: d.Product,
			Amount:  opt.FloatPtr(d.Amount),
		})
	}
	for _, s := range dto.Social {
		mapped.Social = append(mapped.Social, media.Social{
			Handle:   s.Handle,
			Text:     stringPtr(s.Text),
			PostedAt: timePtr(s.PostedAt),
			Likes:    opt.FloatPtr(s.Likes),
			Reposts:  opt.FloatPtr(s.Reposts),
		})
	}
	for _, n := range dto.News {
		mapped.News = append(mapped.News, media.News{
			URL:         n.URL,
			Title:       stringPtr(n.Title),
			Summary:     stringPtr(n.Summary),
			PublishedAt: timePtr(n.PublishedAt),
		})
	}

	if err := mapped.Validate(); err != nil {
		return game.Game{}, err
	}
	return mapped, nil
}

func mapTeam(dto teamDTO) team.Team {
	mapped := team.Team{
		ID:      dto.ID,
		Name:    dto.Name,
		Points:  opt.FloatPtr(dto.Points),
		Goals:   opt.FloatPtr(dto.Goals),
		Behinds: opt.FloatPtr(dto.Behinds),
	}
	for _, p := range dto.Players {
		mapped.Players = append(mapped.Players, player.Player{
			ID:            p.ID,
			Name:          p.Name,
			Position:      stringPtr(p.Position),
			BirthDate:     timePtr(p.BirthDate),
			Kicks:         opt.FloatPtr(p.Kicks),
			Marks:         opt.FloatPtr(p.Marks),
			Handballs:     opt.FloatPtr(p.Handballs),
			Disposals:     opt.FloatPtr(p.Disposals),
			Goals:         opt.FloatPtr(p.Goals),
			Behinds:       opt.FloatPtr(p.Behinds),
			Tackles:       opt.FloatPtr(p.Tackles),
			BrownlowVotes: opt.FloatPtr(p.BrownlowVotes),
		})
	}
	for _, coach := range dto.Coaches {
		mapped.Coaches = append(mapped.Coaches, mapPerson(coach, person.RoleCoach))
	}
	return mapped
}

func mapPerson(dto personDTO, role person.Role) person.Person {
	return person.Person{
		Name:         dto.Name,
		Role:         role,
		BirthDate:    timePtr(dto.BirthDate),
		Age:          opt.FloatPtr(dto.Age),
		Sex:          stringPtr(dto.Sex),
		HighSchool:   stringPtr(dto.HighSchool),
		BirthAddress: mapAddress(dto.BirthPlace),
	}
}

func mapVenue(dto *venueDTO) *venue.Venue {
	if dto == nil {
		return nil
	}
	return &venue.Venue{
		ID:       dto.ID,
		Name:     stringPtr(dto.Name),
		IsGrass:  opt.BoolPtr(dto.IsGrass),
		IsIndoor: opt.BoolPtr(dto.IsIndoor),
		Address:  mapAddress(dto.Address),
	}
}

func mapAddress(dto *addressDTO) *address.Address {
	if dto == nil {
		return nil
	}
	mapped := &address.Address{
		City:        dto.City,
		State:       dto.State,
		Zipcode:     dto.Zipcode,
		HouseNumber: opt.IntPtr(dto.HouseNumber),
		Latitude:    opt.FloatPtr(dto.Latitude),
		Longitude:   opt.FloatPtr(dto.Longitude),
		Altitude:    opt.FloatPtr(dto.Altitude),
	}
	for _, w := range dto.Weather {
		mapped.Weather = append(mapped.Weather, weather.Reading{
			Temperature: opt.FloatPtr(w.Temperature),
			Humidity:    opt.FloatPtr(w.Humidity),
		})
	}
	return mapped
}

func stringPtr(p *string) opt.Val[string] {
	if p == nil {
		return opt.None[string]()
	}
	return opt.String(*p)
}

func timePtr(p *string) opt.Val[time.Time] {
	if p == nil {
		return opt.None[time.Time]()
	}
	parsed, err := parseFeedTime(*p)
	if err != nil {
		return opt.None[time.Time]()
	}
	return opt.Time(parsed)
}

// parseFeedTime accepts the two timestamp shapes the feeds emit.
func parseFeedTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
