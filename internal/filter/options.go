package filter

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the life-status filter sent as the status query parameter.
type Status string

// Gender is the gender filter sent as the gender query parameter.
type Gender string

// Species is the species filter sent as the species query parameter.
type Species string

const (
	StatusAny     Status = ""
	StatusAlive   Status = "alive"
	StatusDead    Status = "dead"
	StatusUnknown Status = "unknown"
)

const (
	GenderAny        Gender = ""
	GenderFemale     Gender = "female"
	GenderMale       Gender = "male"
	GenderGenderless Gender = "genderless"
	GenderUnknown    Gender = "unknown"
)

const (
	SpeciesAny           Species = ""
	SpeciesHuman         Species = "human"
	SpeciesAlien         Species = "alien"
	SpeciesHumanoid      Species = "humanoid"
	SpeciesPoopybutthole Species = "poopybutthole"
	SpeciesMythological  Species = "mythological"
	SpeciesAnimal        Species = "animal"
	SpeciesRobot         Species = "robot"
	SpeciesCronenberg    Species = "cronenberg"
	SpeciesDisease       Species = "disease"
	SpeciesUnknown       Species = "unknown"
)

// Option pairs a wire value with its display label.
type Option[T ~string] struct {
	Value T
	Label string
}

// title builds a fresh Caser per call; Casers are stateful.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func options[T ~string](anyLabel string, values ...T) []Option[T] {
	out := make([]Option[T], 0, len(values)+1)
	out = append(out, Option[T]{Label: anyLabel})
	for _, v := range values {
		out = append(out, Option[T]{Value: v, Label: title(string(v))})
	}
	return out
}

var (
	StatusOptions = options("All Status",
		StatusAlive, StatusDead, StatusUnknown)
	GenderOptions = options("All Genders",
		GenderFemale, GenderMale, GenderGenderless, GenderUnknown)
	SpeciesOptions = options("All Species",
		SpeciesHuman, SpeciesAlien, SpeciesHumanoid, SpeciesPoopybutthole,
		SpeciesMythological, SpeciesAnimal, SpeciesRobot, SpeciesCronenberg,
		SpeciesDisease, SpeciesUnknown)
)

// Label returns the display label for value, or a title-cased fallback.
func Label[T ~string](opts []Option[T], value T) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return title(string(value))
}

// Cycle steps through opts starting at cur. Unknown values restart at the
// first option.
func Cycle[T ~string](opts []Option[T], cur T, step int) T {
	if len(opts) == 0 {
		return cur
	}
	idx := -1
	for i, o := range opts {
		if o.Value == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return opts[0].Value
	}
	n := len(opts)
	return opts[((idx+step)%n+n)%n].Value
}

func parseOption[T ~string](kind string, opts []Option[T], raw string) (T, error) {
	value := T(strings.ToLower(strings.TrimSpace(raw)))
	for _, o := range opts {
		if o.Value == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("unknown %s %q", kind, raw)
}

// ParseStatus validates a status value case-insensitively.
func ParseStatus(raw string) (Status, error) {
	return parseOption("status", StatusOptions, raw)
}

// ParseGender validates a gender value case-insensitively.
func ParseGender(raw string) (Gender, error) {
	return parseOption("gender", GenderOptions, raw)
}

// ParseSpecies validates a species value case-insensitively.
func ParseSpecies(raw string) (Species, error) {
	return parseOption("species", SpeciesOptions, raw)
}
