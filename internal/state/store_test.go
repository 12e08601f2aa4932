package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/rickmorty"
)

func samplePage(pages int, ids ...int) rickmorty.Page {
	page := rickmorty.Page{Info: rickmorty.Info{Count: len(ids), Pages: pages}}
	for _, id := range ids {
		page.Results = append(page.Results, rickmorty.Character{ID: id, Name: "c"})
	}
	return page
}

func TestStore_ApplyResultAndSnapshotClone(t *testing.T) {
	s := NewStore(filter.New())

	gen, f := s.BeginFetch()
	if f.Page != 1 {
		t.Fatalf("BeginFetch page = %d, want 1", f.Page)
	}
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false after BeginFetch, want true")
	}

	before := time.Now()
	if !s.ApplyResult(gen, samplePage(3, 1, 2), nil) {
		t.Fatal("ApplyResult = false for current generation")
	}

	snap := s.Snapshot()
	if snap.Loading || !snap.HasPage {
		t.Fatalf("Loading=%v HasPage=%v, want false/true", snap.Loading, snap.HasPage)
	}
	if len(snap.Page.Results) != 2 || snap.Page.Results[0].ID != 1 {
		t.Fatalf("snapshot results = %#v, want 2 items", snap.Page.Results)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Page.Results[0].ID = 999
	if got := s.Snapshot().Page.Results[0].ID; got != 1 {
		t.Fatalf("Snapshot should clone results; got id %d want 1", got)
	}
}

func TestStore_ApplyResultErrorKeepsPreviousData(t *testing.T) {
	s := NewStore(filter.New())
	gen, _ := s.BeginFetch()
	s.ApplyResult(gen, samplePage(1, 7), nil)

	origErr := errors.New("boom")
	gen, _ = s.BeginFetch()
	s.ApplyResult(gen, rickmorty.Page{}, origErr)

	snap := s.Snapshot()
	if len(snap.Page.Results) != 1 || snap.Page.Results[0].ID != 7 {
		t.Fatalf("results changed on error: got %#v", snap.Page.Results)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatal("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatal("Snapshot should clone error instance")
	}
}

func TestStore_StaleGenerationDropped(t *testing.T) {
	s := NewStore(filter.New())

	first, _ := s.BeginFetch()
	s.SetStatus(filter.StatusDead)
	second, f := s.BeginFetch()
	if f.Status != filter.StatusDead {
		t.Fatalf("second fetch status = %q, want dead", f.Status)
	}

	if !s.ApplyResult(second, samplePage(1, 2), nil) {
		t.Fatal("ApplyResult(second) = false, want true")
	}
	if s.ApplyResult(first, samplePage(1, 1), nil) {
		t.Fatal("ApplyResult(first) = true, want stale result dropped")
	}

	snap := s.Snapshot()
	if snap.Page.Results[0].ID != 2 {
		t.Fatalf("results = %#v, want the newer page", snap.Page.Results)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	s := NewStore(filter.New())
	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	for i := 1; i <= 2; i++ {
		gen, _ := s.BeginFetch()
		s.ApplyResult(gen, rickmorty.Page{}, errors.New("down"))
		if got := s.Snapshot().ConsecutiveFailures; got != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", got, i)
		}
	}
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true after 2 failures")
	}

	gen, _ := s.BeginFetch()
	s.ApplyResult(gen, samplePage(1, 1), nil)
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", got)
	}
}

func TestStore_FilterChangesResetPageAndSelection(t *testing.T) {
	s := NewStore(filter.New())
	s.SetPage(4)
	s.Select(10)

	f := s.SetGender(filter.GenderFemale)
	if f.Page != 1 {
		t.Fatalf("page = %d, want 1 after gender change", f.Page)
	}
	snap := s.Snapshot()
	if snap.SelectedID != 0 || snap.DetailOpen {
		t.Fatalf("selection = %d open=%v, want cleared", snap.SelectedID, snap.DetailOpen)
	}
}

func TestStore_SetPageKeepsSelection(t *testing.T) {
	s := NewStore(filter.New())
	s.Select(3)
	s.SetPage(2)
	if snap := s.Snapshot(); snap.SelectedID != 3 {
		t.Fatalf("SelectedID = %d, want 3", snap.SelectedID)
	}
}

func TestStore_SelectToggles(t *testing.T) {
	s := NewStore(filter.New())

	if id, open := s.Select(5); id != 5 || !open {
		t.Fatalf("Select(5) = %d,%v want 5,true", id, open)
	}
	if id, open := s.Select(6); id != 6 || !open {
		t.Fatalf("Select(6) = %d,%v want 6,true", id, open)
	}
	if id, open := s.Select(6); id != 0 || open {
		t.Fatalf("Select(6) again = %d,%v want 0,false", id, open)
	}

	s.Select(8)
	s.CloseDetail()
	if snap := s.Snapshot(); snap.DetailOpen || snap.SelectedID != 0 {
		t.Fatalf("after CloseDetail open=%v id=%d", snap.DetailOpen, snap.SelectedID)
	}
}

func TestStore_NextPrevBounded(t *testing.T) {
	s := NewStore(filter.New())
	if _, ok := s.PrevPage(); ok {
		t.Fatal("PrevPage on first page = true")
	}
	if _, ok := s.NextPage(); ok {
		t.Fatal("NextPage before any result = true")
	}

	gen, _ := s.BeginFetch()
	s.ApplyResult(gen, samplePage(2, 1), nil)

	f, ok := s.NextPage()
	if !ok || f.Page != 2 {
		t.Fatalf("NextPage = %d,%v want 2,true", f.Page, ok)
	}
	if _, ok := s.NextPage(); ok {
		t.Fatal("NextPage past last page = true")
	}
	f, ok = s.PrevPage()
	if !ok || f.Page != 1 {
		t.Fatalf("PrevPage = %d,%v want 1,true", f.Page, ok)
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(filter.State{Name: " rick ", Status: "ALIVE", Page: 0})
	f := s.Filter()
	if f.Name != "rick" || f.Status != filter.StatusAlive || f.Page != 1 {
		t.Fatalf("hydrated filter = %#v", f)
	}

	f = s.ResetFilters()
	if f != filter.New() {
		t.Fatalf("ResetFilters = %#v, want empty filter", f)
	}
}

func TestStore_NextPageWaitsForLoad(t *testing.T) {
	s := NewStore(filter.New())
	gen, _ := s.BeginFetch()
	s.ApplyResult(gen, samplePage(3, 1, 2), nil)

	s.SetStatus(filter.StatusDead)
	s.BeginFetch()
	if s.Snapshot().HasNext() {
		t.Fatal("HasNext = true while the new filter is loading")
	}
	if _, ok := s.NextPage(); ok {
		t.Fatal("NextPage advanced using the previous filter's page count")
	}
	if got := s.Filter().Page; got != 1 {
		t.Fatalf("Page = %d, want 1", got)
	}
}

func TestSnapshot_Selected(t *testing.T) {
	s := NewStore(filter.New())
	gen, _ := s.BeginFetch()
	s.ApplyResult(gen, samplePage(1, 1, 2), nil)

	if _, ok := s.Snapshot().Selected(); ok {
		t.Fatal("Selected() ok with no selection")
	}
	s.Select(2)
	c, ok := s.Snapshot().Selected()
	if !ok || c.ID != 2 {
		t.Fatalf("Selected() = %d,%v want 2,true", c.ID, ok)
	}
	s.Select(1)
	s.Select(1)
	s.Select(42)
	if _, ok := s.Snapshot().Selected(); ok {
		t.Fatal("Selected() ok for id not on page")
	}
}

func TestSnapshot_TotalPages(t *testing.T) {
	var snap Snapshot
	if snap.TotalPages() != 1 {
		t.Fatalf("TotalPages() = %d, want 1", snap.TotalPages())
	}
	snap.Page.Info.Pages = 42
	if snap.TotalPages() != 42 {
		t.Fatalf("TotalPages() = %d, want 42", snap.TotalPages())
	}
}
