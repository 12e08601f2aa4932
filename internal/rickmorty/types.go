package rickmorty

import (
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Character mirrors a record returned by /character.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   Place    `json:"origin"`
	Location Place    `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Place is a named reference to a location resource.
type Place struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Known reports whether the API has a real location for the reference.
func (p Place) Known() bool {
	name := strings.TrimSpace(p.Name)
	return name != "" && !strings.EqualFold(name, "unknown")
}

// Info carries pagination metadata for list responses.
type Info struct {
	Count int    `json:"count"`
	Pages int    `json:"pages"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// Page mirrors a /character list response.
type Page struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}

// EmptyPage is the result reported when the API has no matches.
func EmptyPage() Page {
	return Page{Info: Info{}, Results: []Character{}}
}

// Empty reports whether the page carries no characters.
func (p Page) Empty() bool {
	return len(p.Results) == 0
}

// LifeStatus classifies the free-form status string sent by the API.
type LifeStatus int

const (
	LifeUnknown LifeStatus = iota
	LifeAlive
	LifeDead
)

func (s LifeStatus) String() string {
	switch s {
	case LifeAlive:
		return "alive"
	case LifeDead:
		return "dead"
	default:
		return "unknown"
	}
}

// LifeStatus returns the normalized life status of the character.
func (c Character) LifeStatus() LifeStatus {
	switch strings.ToLower(strings.TrimSpace(c.Status)) {
	case "alive":
		return LifeAlive
	case "dead":
		return LifeDead
	default:
		return LifeUnknown
	}
}

// CreatedAt returns the parsed creation timestamp, or the zero time.
func (c Character) CreatedAt() time.Time {
	return parseTime(c.Created)
}

// EpisodeNumbers extracts the numeric ids from the episode reference URLs,
// sorted ascending. References that do not end in a number are skipped.
func (c Character) EpisodeNumbers() []int {
	if len(c.Episode) == 0 {
		return nil
	}
	out := make([]int, 0, len(c.Episode))
	for _, ref := range c.Episode {
		ref = strings.TrimRight(strings.TrimSpace(ref), "/")
		if ref == "" {
			continue
		}
		n, err := strconv.Atoi(path.Base(ref))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
