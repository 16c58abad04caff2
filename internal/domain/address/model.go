package address

import (
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/weather"
)

// Address locates a venue or a person's birthplace. City, state and zipcode
// come from whichever source is treated as canonical for the record; the
// numeric fields may be refined by later, more precise sources.
type Address struct {
	City        string
	State       string
	Zipcode     string
	HouseNumber opt.Val[int64]
	Latitude    opt.Val[float64]
	Longitude   opt.Val[float64]
	Altitude    opt.Val[float64]
	Weather     []weather.Reading
}
