package merge

import (
	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/meta"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
)

func roleKind(role person.Role) meta.Kind {
	switch role {
	case person.RoleUmpire:
		return meta.KindUmpire
	case person.RoleOwner:
		return meta.KindOwner
	default:
		return meta.KindCoach
	}
}

// Person merges coach/umpire/owner records for one canonical identifier.
// Name is structurally mandatory: when no source carries it the whole group
// is unconstructible. After the field fold, still-empty golden fields are
// patched from the ledger so a person's slowly-changing attributes survive
// sources that only carry them intermittently.
func (m *Merger) Person(role person.Role, canonicalID string, recs []person.Person) (*person.Person, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	kind := roleKind(role)

	out := person.Person{Role: role}

	name := opt.None[string]()
	addresses := make([]*address.Address, 0, len(recs))
	for _, r := range recs {
		name = PickFirst(name, opt.String(r.Name))
		out.BirthDate = PickTime(out.BirthDate, r.BirthDate)
		out.Age = PickFloat(out.Age, r.Age)
		out.Sex = PickFirst(out.Sex, r.Sex)
		out.HighSchool = PickFirst(out.HighSchool, r.HighSchool)
		addresses = append(addresses, r.BirthAddress)
	}
	got, ok := name.Get()
	if !ok {
		return nil, mandatoryFieldErr(kind, "name")
	}
	out.Name = got
	out.BirthAddress = m.Address(addresses)

	m.ledger.Apply(kind, canonicalID, map[string]Slot{
		"birth_date":  Field(&out.BirthDate),
		"age":         Field(&out.Age),
		"sex":         Field(&out.Sex),
		"high_school": Field(&out.HighSchool),
	})

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
