package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettersResetPage(t *testing.T) {
	setters := map[string]func(*State){
		"name":    func(s *State) { s.SetName("rick") },
		"status":  func(s *State) { s.SetStatus(StatusDead) },
		"gender":  func(s *State) { s.SetGender(GenderMale) },
		"species": func(s *State) { s.SetSpecies(SpeciesAlien) },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			s := New()
			s.SetPage(7)
			require.Equal(t, 7, s.Page)

			set(&s)
			assert.Equal(t, FirstPage, s.Page)
		})
	}
}

func TestSetPageDoesNotTouchFilters(t *testing.T) {
	s := New()
	s.SetStatus(StatusAlive)
	s.SetPage(3)
	assert.Equal(t, StatusAlive, s.Status)
	assert.Equal(t, 3, s.Page)

	s.SetPage(-2)
	assert.Equal(t, FirstPage, s.Page)
}

func TestResetClearsEverything(t *testing.T) {
	s := State{Name: "morty", Status: StatusAlive, Gender: GenderMale, Species: SpeciesHuman, Page: 4}
	s.Reset()
	assert.Equal(t, New(), s)
	assert.False(t, s.Active())
}

func TestAPIValues(t *testing.T) {
	s := New()
	s.SetStatus(StatusAlive)
	s.SetGender(GenderFemale)
	s.SetSpecies(SpeciesHuman)

	values := s.APIValues()
	assert.Len(t, values, 4)
	assert.Equal(t, "1", values.Get("page"))
	assert.Equal(t, "alive", values.Get("status"))
	assert.Equal(t, "female", values.Get("gender"))
	assert.Equal(t, "human", values.Get("species"))
	assert.NotContains(t, values, "name")

	s.SetSpecies(SpeciesAny)
	values = s.APIValues()
	assert.NotContains(t, values, "species")
	assert.Len(t, values, 3)
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := State{Status: StatusAlive, Gender: GenderFemale, Page: 1}
	b := State{Gender: GenderFemale, Status: " Alive ", Page: 0}
	assert.Equal(t, a.Key(), b.Key())

	c := a
	c.SetPage(2)
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestEncodeOmitsFirstPage(t *testing.T) {
	s := State{Status: StatusAlive, Gender: GenderFemale, Species: SpeciesHuman, Page: 1}
	assert.Equal(t, "gender=female&species=human&status=alive", s.Encode())

	s.Page = 3
	assert.Equal(t, "gender=female&page=3&species=human&status=alive", s.Encode())

	assert.Equal(t, "", New().Encode())
}

func TestParseQueryRoundTrip(t *testing.T) {
	want := State{Name: "Rick Sanchez", Status: StatusDead, Gender: GenderMale, Species: SpeciesCronenberg, Page: 2}
	got, err := ParseQuery(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseQueryAcceptsURLs(t *testing.T) {
	got, err := ParseQuery("https://example.test/?status=Alive&gender=female#top")
	require.NoError(t, err)
	assert.Equal(t, StatusAlive, got.Status)
	assert.Equal(t, GenderFemale, got.Gender)
	assert.Equal(t, FirstPage, got.Page)
}

func TestParseQueryKeepsQuestionMarkInValues(t *testing.T) {
	got, err := ParseQuery("name=what?&status=alive")
	require.NoError(t, err)
	assert.Equal(t, State{Name: "what?", Status: StatusAlive, Page: FirstPage}, got)

	got, err = ParseQuery("?name=what?")
	require.NoError(t, err)
	assert.Equal(t, "what?", got.Name)
}

func TestParseQueryDropsInvalidValues(t *testing.T) {
	got, err := ParseQuery("status=zombie&gender=female&species=dragon&page=abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "zombie"`)
	assert.Contains(t, err.Error(), `unknown species "dragon"`)
	assert.Contains(t, err.Error(), `invalid page "abc"`)

	assert.Equal(t, State{Gender: GenderFemale, Page: FirstPage}, got)
}

func TestDescribe(t *testing.T) {
	s := State{Name: "rick", Status: StatusAlive, Species: SpeciesPoopybutthole}
	assert.Equal(t, []string{"Name: rick", "Status: Alive", "Species: Poopybutthole"}, s.Describe())
	assert.Empty(t, New().Describe())
}
