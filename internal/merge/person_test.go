package merge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/person"
)

func newTestMerger() *Merger {
	return NewMerger(Config{League: "afl"})
}

func TestPersonSingleRecordIdempotent(t *testing.T) {
	m := newTestMerger()
	rec := person.Person{
		Name:      "Alastair Clarkson",
		Role:      person.RoleCoach,
		BirthDate: opt.Time(time.Date(1968, 4, 27, 0, 0, 0, 0, time.UTC)),
		Sex:       opt.Of("male"),
	}

	got, err := m.Person(person.RoleCoach, "Alastair Clarkson", []person.Person{rec})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, rec.Name, got.Name)
	require.Equal(t, rec.Sex, got.Sex)
	require.Equal(t, rec.BirthDate, got.BirthDate)
}

func TestPersonNullAbsorption(t *testing.T) {
	m := newTestMerger()
	rec := person.Person{Name: "Ray Chamberlain", Role: person.RoleUmpire, Sex: opt.Of("male")}
	blank := person.Person{Name: "Ray Chamberlain", Role: person.RoleUmpire}

	solo, err := m.Person(person.RoleUmpire, "Ray Chamberlain", []person.Person{rec})
	require.NoError(t, err)

	joined, err := m.Person(person.RoleUmpire, "Ray Chamberlain", []person.Person{rec, blank})
	require.NoError(t, err)
	require.Equal(t, solo, joined)
}

func TestPersonMandatoryNameFailure(t *testing.T) {
	m := newTestMerger()
	_, err := m.Person(person.RoleCoach, "x", []person.Person{
		{Role: person.RoleCoach, Sex: opt.Of("male")},
		{Role: person.RoleCoach, Age: opt.Float(51)},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMandatoryField))
}

func TestPersonForwardFillAcrossMerges(t *testing.T) {
	m := newTestMerger()

	first, err := m.Person(person.RoleCoach, "C1", []person.Person{
		{Name: "Chris Scott", Role: person.RoleCoach, Sex: opt.Of("male"), HighSchool: opt.Of("St Kevin's")},
	})
	require.NoError(t, err)
	require.Equal(t, "St Kevin's", first.HighSchool.Or(""))

	// A later game where no source knew the high school inherits it.
	second, err := m.Person(person.RoleCoach, "C1", []person.Person{
		{Name: "Chris Scott", Role: person.RoleCoach},
	})
	require.NoError(t, err)
	require.Equal(t, "St Kevin's", second.HighSchool.Or(""))
	require.Equal(t, "male", second.Sex.Or(""))
}

func TestPersonEmptyGroupIsNil(t *testing.T) {
	m := newTestMerger()
	got, err := m.Person(person.RoleOwner, "x", nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPersonPrefersSpecificBirthDate(t *testing.T) {
	m := newTestMerger()
	dateOnly := opt.Time(time.Date(1970, 5, 2, 0, 0, 0, 0, time.UTC))
	specific := opt.Time(time.Date(1970, 5, 2, 8, 15, 0, 0, time.UTC))

	got, err := m.Person(person.RoleCoach, "C2", []person.Person{
		{Name: "A", Role: person.RoleCoach, BirthDate: dateOnly},
		{Name: "A", Role: person.RoleCoach, BirthDate: specific},
	})
	require.NoError(t, err)
	require.Equal(t, specific, got.BirthDate)
}
