package weather

import "github.com/statloom/statloom/internal/domain/opt"

// Reading is one observed or forecast weather sample attached to an address.
type Reading struct {
	Temperature opt.Val[float64]
	Humidity    opt.Val[float64]
}

// Empty reports whether the reading carries no data at all.
func (r Reading) Empty() bool {
	return r.Temperature.Null() && r.Humidity.Null()
}
