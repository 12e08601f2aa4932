package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/rickmorty"
)

// Snapshot represents the latest state available to the UI.
type Snapshot struct {
	Filter              filter.State
	Page                rickmorty.Page
	HasPage             bool
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed fetches
	Generation          uint64
	SelectedID          int
	DetailOpen          bool
}

// IsOffline returns true when the API has failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// TotalPages returns the page count reported by the last result, at least 1.
func (s Snapshot) TotalPages() int {
	if s.Page.Info.Pages < 1 {
		return 1
	}
	return s.Page.Info.Pages
}

// HasNext reports whether a later page exists. While a fetch is in flight the
// held page may belong to another filter, so it reports false.
func (s Snapshot) HasNext() bool {
	return s.HasPage && !s.Loading && s.Filter.Page < s.Page.Info.Pages
}

// HasPrev reports whether an earlier page exists.
func (s Snapshot) HasPrev() bool {
	return s.Filter.Page > filter.FirstPage
}

// Selected returns the selected character when it is on the current page.
func (s Snapshot) Selected() (rickmorty.Character, bool) {
	if s.SelectedID <= 0 {
		return rickmorty.Character{}, false
	}
	for _, c := range s.Page.Results {
		if c.ID == s.SelectedID {
			return c, true
		}
	}
	return rickmorty.Character{}, false
}

// Store is the single container for filter selections, selection/detail
// flags and the most recent list result.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store hydrated with f.
func NewStore(f filter.State) *Store {
	s := &Store{}
	s.snapshot.Filter = f.Normalize()
	return s
}

// Filter returns the current filter state.
func (s *Store) Filter() filter.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked()
}

func (s *Store) filterLocked() filter.State {
	f := s.snapshot.Filter
	if f.Page < filter.FirstPage {
		f.Page = filter.FirstPage
	}
	return f
}

// mutateFilter applies fn to the filter. Any change to the criteria clears
// the selection.
func (s *Store) mutateFilter(fn func(*filter.State)) filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.filterLocked()
	after := before
	fn(&after)
	s.snapshot.Filter = after
	if before.Name != after.Name || before.Status != after.Status ||
		before.Gender != after.Gender || before.Species != after.Species {
		s.snapshot.SelectedID = 0
		s.snapshot.DetailOpen = false
	}
	return after
}

// SetName changes the name filter and returns to the first page.
func (s *Store) SetName(name string) filter.State {
	return s.mutateFilter(func(f *filter.State) { f.SetName(name) })
}

// SetStatus changes the status filter and returns to the first page.
func (s *Store) SetStatus(status filter.Status) filter.State {
	return s.mutateFilter(func(f *filter.State) { f.SetStatus(status) })
}

// SetGender changes the gender filter and returns to the first page.
func (s *Store) SetGender(gender filter.Gender) filter.State {
	return s.mutateFilter(func(f *filter.State) { f.SetGender(gender) })
}

// SetSpecies changes the species filter and returns to the first page.
func (s *Store) SetSpecies(species filter.Species) filter.State {
	return s.mutateFilter(func(f *filter.State) { f.SetSpecies(species) })
}

// SetPage moves to page without touching the criteria.
func (s *Store) SetPage(page int) filter.State {
	return s.mutateFilter(func(f *filter.State) { f.SetPage(page) })
}

// NextPage advances one page when the last result reports one. It returns
// false when already on the last known page.
func (s *Store) NextPage() (filter.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snapshot.HasNext() {
		return s.filterLocked(), false
	}
	s.snapshot.Filter.SetPage(s.filterLocked().Page + 1)
	return s.snapshot.Filter, true
}

// PrevPage goes back one page. It returns false on the first page.
func (s *Store) PrevPage() (filter.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snapshot.HasPrev() {
		return s.filterLocked(), false
	}
	s.snapshot.Filter.SetPage(s.snapshot.Filter.Page - 1)
	return s.snapshot.Filter, true
}

// ResetFilters clears every criterion and returns to the first page.
func (s *Store) ResetFilters() filter.State {
	return s.mutateFilter(func(f *filter.State) { f.Reset() })
}

// Select toggles the detail view for id. Selecting the character whose
// detail is already open closes it; any other id opens its detail.
func (s *Store) Select(id int) (selectedID int, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= 0 || (s.snapshot.DetailOpen && s.snapshot.SelectedID == id) {
		s.snapshot.SelectedID = 0
		s.snapshot.DetailOpen = false
		return 0, false
	}
	s.snapshot.SelectedID = id
	s.snapshot.DetailOpen = true
	return id, true
}

// CloseDetail hides the detail view and clears the selection.
func (s *Store) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.SelectedID = 0
	s.snapshot.DetailOpen = false
}

// BeginFetch marks a list request as in flight and returns its generation
// together with the filter it should use.
func (s *Store) BeginFetch() (uint64, filter.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Generation++
	s.snapshot.Loading = true
	return s.snapshot.Generation, s.filterLocked()
}

// ApplyResult records the outcome of the fetch started as generation gen.
// Results from superseded generations are dropped and ApplyResult returns
// false. When err is non-nil the previous page is kept but the error is
// recorded for visibility.
func (s *Store) ApplyResult(gen uint64, page rickmorty.Page, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.snapshot.Generation {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Page = clonePage(page)
	s.snapshot.HasPage = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Filter = s.filterLocked()
	snap.Page = clonePage(s.snapshot.Page)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePage(p rickmorty.Page) rickmorty.Page {
	if p.Results == nil {
		return p
	}
	dup := make([]rickmorty.Character, len(p.Results))
	copy(dup, p.Results)
	p.Results = dup
	return p
}
