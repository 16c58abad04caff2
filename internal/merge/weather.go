package merge

import "github.com/statloom/statloom/internal/domain/weather"

// Weather folds readings from every contributing source. Later sources win:
// a fresher sample supersedes an earlier one for any field it carries.
func (m *Merger) Weather(recs []weather.Reading) *weather.Reading {
	if len(recs) == 0 {
		return nil
	}
	out := recs[0]
	for _, r := range recs[1:] {
		out.Temperature = PickLast(out.Temperature, r.Temperature)
		out.Humidity = PickLast(out.Humidity, r.Humidity)
	}
	if out.Empty() {
		return nil
	}
	return &out
}
