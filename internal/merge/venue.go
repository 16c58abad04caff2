package merge

import (
	"context"

	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/venue"
)

// Venue merges ground records under a caller-supplied canonical identifier.
// When a lookup source is configured, its record joins the group as the
// lowest-priority candidate. A lookup error is logged and folded as an
// absent candidate, never cached as a permanent gap by the caller.
func (m *Merger) Venue(ctx context.Context, canonicalID string, recs []*venue.Venue) (*venue.Venue, error) {
	present := make([]*venue.Venue, 0, len(recs)+1)
	for _, r := range recs {
		if r != nil {
			present = append(present, r)
		}
	}
	if len(present) == 0 {
		return nil, nil
	}

	name := opt.None[string]()
	for _, r := range present {
		name = PickFirst(name, r.Name)
	}

	if m.venues != nil {
		extra, err := m.venues.Lookup(ctx, name.Or(canonicalID))
		if err != nil {
			m.logger.WarnContext(ctx, "venue lookup failed",
				"venue", canonicalID,
				"error", err,
			)
		} else if extra != nil {
			present = append(present, extra)
			name = PickFirst(name, extra.Name)
		}
	}

	out := venue.Venue{
		ID:   canonicalID,
		Name: name,
	}

	addresses := make([]*address.Address, 0, len(present))
	for _, r := range present {
		out.IsGrass = PickLast(out.IsGrass, r.IsGrass)
		out.IsIndoor = PickLast(out.IsIndoor, r.IsIndoor)
		addresses = append(addresses, r.Address)
	}
	out.Address = m.Address(addresses)

	m.ledger.Apply(meta.KindVenue, canonicalID, map[string]Slot{
		"is_grass":  Field(&out.IsGrass),
		"is_indoor": Field(&out.IsIndoor),
	})

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
