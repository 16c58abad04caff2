package person

import (
	"fmt"
	"time"

	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/opt"
)

// Role distinguishes the people attached to games and teams.
type Role string

const (
	RoleCoach  Role = "coach"
	RoleUmpire Role = "umpire"
	RoleOwner  Role = "owner"
)

// Person is a coach, umpire or owner record. Name is the only structurally
// mandatory field; everything else may be absent on any given source.
type Person struct {
	Name         string
	Role         Role
	BirthDate    opt.Val[time.Time]
	Age          opt.Val[float64]
	Sex          opt.Val[string]
	HighSchool   opt.Val[string]
	BirthAddress *address.Address
}

func (p Person) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%s name is required", roleLabel(p.Role))
	}
	return nil
}

func roleLabel(r Role) string {
	if r == "" {
		return "person"
	}
	return string(r)
}
