package rickmorty

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCharacterDecodesAPIPayload(t *testing.T) {
	raw := `{
		"id": 1,
		"name": "Rick Sanchez",
		"status": "Alive",
		"species": "Human",
		"type": "",
		"gender": "Male",
		"origin": {"name": "Earth (C-137)", "url": "https://rickandmortyapi.com/api/location/1"},
		"location": {"name": "Citadel of Ricks", "url": "https://rickandmortyapi.com/api/location/3"},
		"image": "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
		"episode": [
			"https://rickandmortyapi.com/api/episode/2",
			"https://rickandmortyapi.com/api/episode/1"
		],
		"url": "https://rickandmortyapi.com/api/character/1",
		"created": "2017-11-04T18:48:46.250Z"
	}`

	var c Character
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.ID != 1 || c.Name != "Rick Sanchez" || c.Origin.Name != "Earth (C-137)" {
		t.Fatalf("decoded = %#v", c)
	}
	if c.LifeStatus() != LifeAlive {
		t.Fatalf("LifeStatus = %v, want alive", c.LifeStatus())
	}
	created := c.CreatedAt()
	if created.Year() != 2017 || created.Month() != time.November || created.Day() != 4 {
		t.Fatalf("CreatedAt = %v, want 2017-11-04", created)
	}
	if got := c.EpisodeNumbers(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("EpisodeNumbers = %v, want [1 2]", got)
	}
}

func TestPageDecodesNullCursors(t *testing.T) {
	var p Page
	raw := `{"info":{"count":826,"pages":42,"next":"https://rickandmortyapi.com/api/character?page=2","prev":null},"results":[]}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Info.Pages != 42 || p.Info.Prev != "" || p.Info.Next == "" {
		t.Fatalf("info = %#v", p.Info)
	}
	if !p.Empty() {
		t.Fatalf("Empty() = false, want true")
	}
}

func TestLifeStatus(t *testing.T) {
	tests := []struct {
		status string
		want   LifeStatus
	}{
		{"Alive", LifeAlive},
		{" dead ", LifeDead},
		{"unknown", LifeUnknown},
		{"", LifeUnknown},
	}
	for _, tt := range tests {
		if got := (Character{Status: tt.status}).LifeStatus(); got != tt.want {
			t.Errorf("LifeStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestEpisodeNumbersSkipsMalformed(t *testing.T) {
	c := Character{Episode: []string{
		"https://rickandmortyapi.com/api/episode/10/",
		"",
		"https://rickandmortyapi.com/api/episode/pilot",
		"https://rickandmortyapi.com/api/episode/3",
	}}
	if got := c.EpisodeNumbers(); !reflect.DeepEqual(got, []int{3, 10}) {
		t.Fatalf("EpisodeNumbers = %v, want [3 10]", got)
	}
	if (Character{}).EpisodeNumbers() != nil {
		t.Fatalf("EpisodeNumbers on empty should be nil")
	}
}

func TestPlaceKnown(t *testing.T) {
	if (Place{Name: "unknown"}).Known() {
		t.Fatalf("Known(unknown) = true, want false")
	}
	if (Place{}).Known() {
		t.Fatalf("Known(empty) = true, want false")
	}
	if !(Place{Name: "Earth (Replacement Dimension)"}).Known() {
		t.Fatalf("Known(Earth) = false, want true")
	}
}

func TestParseTimeInvalid(t *testing.T) {
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for invalid input")
	}
}
