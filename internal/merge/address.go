package merge

import (
	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/weather"
)

// Address merges location records. The first source is treated as canonical
// for the textual locality fields; the numeric fields fold through the
// comparator so a later source can supply a coordinate the first one
// zeroed or omitted. Weather readings from every source are collected and
// handed to the weather merger as one group.
func (m *Merger) Address(recs []*address.Address) *address.Address {
	present := make([]*address.Address, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			present = append(present, r)
		}
	}
	if len(present) == 0 {
		return nil
	}

	out := address.Address{
		City:    present[0].City,
		State:   present[0].State,
		Zipcode: present[0].Zipcode,
	}

	out.HouseNumber = present[0].HouseNumber
	out.Latitude = present[0].Latitude
	out.Longitude = present[0].Longitude
	out.Altitude = present[0].Altitude
	for _, r := range present[1:] {
		out.HouseNumber = PickInt(out.HouseNumber, r.HouseNumber)
		out.Latitude = PickFloat(out.Latitude, r.Latitude)
		out.Longitude = PickFloat(out.Longitude, r.Longitude)
		out.Altitude = PickFloat(out.Altitude, r.Altitude)
	}

	collected := collectReadings(present)
	if merged := m.Weather(collected); merged != nil {
		out.Weather = append(out.Weather, *merged)
	}
	return &out
}

func collectReadings(recs []*address.Address) []weather.Reading {
	var out []weather.Reading
	for _, r := range recs {
		out = append(out, r.Weather...)
	}
	return out
}
