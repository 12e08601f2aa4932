// Package catalog is the data-access layer between filter state and the API.
// It translates a filter.State into list parameters and keeps responses in a
// TTL cache keyed by those parameters.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/five82/citadel/internal/cache"
	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/rickmorty"
)

const (
	DefaultListTTL   = 5 * time.Minute
	DefaultDetailTTL = 10 * time.Minute
)

// Options configure a Service.
type Options struct {
	ListTTL   time.Duration
	DetailTTL time.Duration
	Logger    *slog.Logger
}

// Service serves character lists and details through a cache.
type Service struct {
	api       rickmorty.CharacterFetcher
	pages     *cache.Typed[rickmorty.Page]
	details   *cache.Typed[rickmorty.Character]
	listTTL   time.Duration
	detailTTL time.Duration
	logger    *slog.Logger
}

// New builds a Service over api using backend for storage.
func New(api rickmorty.CharacterFetcher, backend cache.Backend, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	listTTL := opts.ListTTL
	if listTTL <= 0 {
		listTTL = DefaultListTTL
	}
	detailTTL := opts.DetailTTL
	if detailTTL <= 0 {
		detailTTL = DefaultDetailTTL
	}
	return &Service{
		api:       api,
		pages:     cache.NewTyped[rickmorty.Page](backend, logger),
		details:   cache.NewTyped[rickmorty.Character](backend, logger),
		listTTL:   listTTL,
		detailTTL: detailTTL,
		logger:    logger,
	}
}

// Characters returns the page of characters matching f.
func (s *Service) Characters(ctx context.Context, f filter.State) (rickmorty.Page, error) {
	if s == nil || s.api == nil {
		return rickmorty.Page{}, fmt.Errorf("catalog is not configured")
	}
	f = f.Normalize()
	key := f.Key()
	page, err := s.pages.GetOrLoad(ctx, key, s.listTTL, func(ctx context.Context) (rickmorty.Page, error) {
		s.logger.Debug("fetching characters", slog.String("key", key))
		page, err := s.api.FetchCharacters(ctx, f.APIValues())
		if err == nil {
			s.Remember(ctx, page.Results)
		}
		return page, err
	})
	if err != nil {
		return rickmorty.Page{}, fmt.Errorf("list characters: %w", err)
	}
	return page, nil
}

// Invalidate drops the cached page for f so the next Characters call loads
// it from the API.
func (s *Service) Invalidate(ctx context.Context, f filter.State) {
	if s == nil {
		return
	}
	s.pages.Invalidate(ctx, f.Normalize().Key())
}

// Character returns the character with id, fetching it on a cache miss.
func (s *Service) Character(ctx context.Context, id int) (rickmorty.Character, error) {
	if s == nil || s.api == nil {
		return rickmorty.Character{}, fmt.Errorf("catalog is not configured")
	}
	if id <= 0 {
		return rickmorty.Character{}, fmt.Errorf("character id required")
	}
	key := "character/" + strconv.Itoa(id)
	ch, err := s.details.GetOrLoad(ctx, key, s.detailTTL, func(ctx context.Context) (rickmorty.Character, error) {
		s.logger.Debug("fetching character", slog.Int("id", id))
		return s.api.FetchCharacter(ctx, id)
	})
	if err != nil {
		return rickmorty.Character{}, fmt.Errorf("get character %d: %w", id, err)
	}
	return ch, nil
}

// Remember seeds the detail cache with characters delivered by a list response.
func (s *Service) Remember(ctx context.Context, characters []rickmorty.Character) {
	if s == nil {
		return
	}
	for _, ch := range characters {
		if ch.ID <= 0 {
			continue
		}
		s.details.Put(ctx, "character/"+strconv.Itoa(ch.ID), ch, s.detailTTL)
	}
}
