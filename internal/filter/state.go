// Package filter defines the canonical filter schema used to query characters.
//
// State is the single source of truth for name/status/gender/species/page.
// It converts to API query parameters, to a cache key, and to and from the
// shareable query string accepted by -query and shown by the share action.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FirstPage is where every filter change lands.
const FirstPage = 1

// State holds the user-selected criteria driving the list request.
type State struct {
	Name    string  `toml:"name"`
	Status  Status  `toml:"status"`
	Gender  Gender  `toml:"gender"`
	Species Species `toml:"species"`
	Page    int     `toml:"page"`
}

// New returns an empty filter on the first page.
func New() State {
	return State{Page: FirstPage}
}

// SetName changes the free-text name filter and resets pagination.
func (s *State) SetName(name string) {
	s.Name = strings.TrimSpace(name)
	s.Page = FirstPage
}

// SetStatus changes the status filter and resets pagination.
func (s *State) SetStatus(status Status) {
	s.Status = status
	s.Page = FirstPage
}

// SetGender changes the gender filter and resets pagination.
func (s *State) SetGender(gender Gender) {
	s.Gender = gender
	s.Page = FirstPage
}

// SetSpecies changes the species filter and resets pagination.
func (s *State) SetSpecies(species Species) {
	s.Species = species
	s.Page = FirstPage
}

// SetPage moves to page, clamped to FirstPage.
func (s *State) SetPage(page int) {
	if page < FirstPage {
		page = FirstPage
	}
	s.Page = page
}

// Reset clears every filter and returns to the first page.
func (s *State) Reset() {
	*s = New()
}

// Normalize trims the name, lowercases enum values and clamps the page.
func (s State) Normalize() State {
	s.Name = strings.TrimSpace(s.Name)
	s.Status = Status(strings.ToLower(strings.TrimSpace(string(s.Status))))
	s.Gender = Gender(strings.ToLower(strings.TrimSpace(string(s.Gender))))
	s.Species = Species(strings.ToLower(strings.TrimSpace(string(s.Species))))
	if s.Page < FirstPage {
		s.Page = FirstPage
	}
	return s
}

// Active reports whether any criterion other than the page is set.
func (s State) Active() bool {
	return s.Name != "" || s.Status != "" || s.Gender != "" || s.Species != ""
}

// APIValues returns the list request parameters. page is always present; the
// other criteria only when set.
func (s State) APIValues() url.Values {
	s = s.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(s.Page))
	if s.Name != "" {
		values.Set("name", s.Name)
	}
	if s.Status != "" {
		values.Set("status", string(s.Status))
	}
	if s.Gender != "" {
		values.Set("gender", string(s.Gender))
	}
	if s.Species != "" {
		values.Set("species", string(s.Species))
	}
	return values
}

// Key is a stable cache key for the list request.
func (s State) Key() string {
	return "characters?" + s.APIValues().Encode()
}

// Encode renders the shareable query string. The page is omitted when it is
// the first page.
func (s State) Encode() string {
	values := s.APIValues()
	if s.Normalize().Page == FirstPage {
		values.Del("page")
	}
	return values.Encode()
}

// Describe lists the active criteria as "Label: value" pairs for display.
func (s State) Describe() []string {
	s = s.Normalize()
	var parts []string
	if s.Name != "" {
		parts = append(parts, fmt.Sprintf("Name: %s", s.Name))
	}
	if s.Status != "" {
		parts = append(parts, "Status: "+Label(StatusOptions, s.Status))
	}
	if s.Gender != "" {
		parts = append(parts, "Gender: "+Label(GenderOptions, s.Gender))
	}
	if s.Species != "" {
		parts = append(parts, "Species: "+Label(SpeciesOptions, s.Species))
	}
	return parts
}

// Sanitize drops invalid criteria, returning the cleaned state and what was
// dropped.
func (s State) Sanitize() (State, error) {
	s = s.Normalize()
	var errs []error
	if _, err := ParseStatus(string(s.Status)); err != nil {
		s.Status = StatusAny
		errs = append(errs, err)
	}
	if _, err := ParseGender(string(s.Gender)); err != nil {
		s.Gender = GenderAny
		errs = append(errs, err)
	}
	if _, err := ParseSpecies(string(s.Species)); err != nil {
		s.Species = SpeciesAny
		errs = append(errs, err)
	}
	return s, errors.Join(errs...)
}

// ParseQuery builds a State from a query string such as
// "status=alive&gender=female". A leading "?" or a full URL is accepted.
// Invalid values are dropped and reported through the returned error while
// the remaining criteria are kept.
func ParseQuery(raw string) (State, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return New(), fmt.Errorf("parse query: %w", err)
		}
		raw = u.RawQuery
	} else {
		raw = strings.TrimPrefix(raw, "?")
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return New(), fmt.Errorf("parse query: %w", err)
	}

	s := New()
	s.Name = values.Get("name")
	s.Status = Status(values.Get("status"))
	s.Gender = Gender(values.Get("gender"))
	s.Species = Species(values.Get("species"))

	var errs []error
	if rawPage := strings.TrimSpace(values.Get("page")); rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < FirstPage {
			errs = append(errs, fmt.Errorf("invalid page %q", rawPage))
		} else {
			s.Page = page
		}
	}
	s, err = s.Sanitize()
	if err != nil {
		errs = append(errs, err)
	}
	return s, errors.Join(errs...)
}
