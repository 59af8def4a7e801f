// Package refdata coordinates the location hierarchy (country → states)
// with the districts that hang off it.
//
// The stores enforce uniqueness and make single-country state mutations
// atomic. This package adds what spans both stores: a district must point
// at an existing (country, state), and removing a state or a country
// removes its districts first. Children always go before their parent, so
// an interrupted cascade leaves no orphans and repeating the call finishes
// the job.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const locationsKey = "locations"

// Service is safe for concurrent use.
type Service struct {
	locations storage.LocationStore
	districts storage.DistrictStore

	cache *cache.Cache
	// mu orders cache fills against invalidations: a list that started
	// before a mutation must not repopulate the cache after it.
	mu  sync.Mutex
	gen uint64
}

// New returns a Service whose location list is cached for ttl. A ttl of
// zero keeps the list until the next mutation.
func New(locations storage.LocationStore, districts storage.DistrictStore, ttl time.Duration) *Service {
	cleanup := 2 * ttl
	if ttl <= 0 {
		ttl, cleanup = cache.NoExpiration, 0
	}
	return &Service{
		locations: locations,
		districts: districts,
		cache:     cache.New(ttl, cleanup),
	}
}

// ListLocations returns every location ordered by country.
func (s *Service) ListLocations(ctx context.Context) ([]types.Location, error) {
	if v, ok := s.cache.Get(locationsKey); ok {
		return cloneLocations(v.([]types.Location)), nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	locations, err := s.locations.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if gen == s.gen {
		s.cache.SetDefault(locationsKey, cloneLocations(locations))
	}
	s.mu.Unlock()
	return locations, nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.gen++
	s.cache.Delete(locationsKey)
	s.mu.Unlock()
}

// AddCountry creates a location with no states. A second call with the
// same name fails with storage.ErrConflict.
func (s *Service) AddCountry(ctx context.Context, country string) (types.Location, error) {
	loc, err := s.locations.CreateLocation(ctx, country)
	if err != nil {
		return types.Location{}, err
	}
	s.invalidate()
	slog.Info("country added", slog.String("country", country))
	return loc, nil
}

// AddState appends state to country. Adding a state that is already there
// changes nothing.
func (s *Service) AddState(ctx context.Context, country, state string) (types.Location, error) {
	loc, err := s.locations.AddState(ctx, country, state)
	if err != nil {
		return types.Location{}, err
	}
	s.invalidate()
	return loc, nil
}

// ReplaceStates overwrites the state sequence of country. Districts of
// states that are not in the new sequence are deleted first.
func (s *Service) ReplaceStates(ctx context.Context, country string, states []string) (types.Location, error) {
	current, err := s.locations.GetLocation(ctx, country)
	if err != nil {
		return types.Location{}, err
	}

	keep := make(map[string]struct{}, len(states))
	for _, st := range states {
		keep[st] = struct{}{}
	}
	var dropped []string
	for _, st := range current.States {
		if _, ok := keep[st]; !ok {
			dropped = append(dropped, st)
		}
	}

	if len(dropped) > 0 {
		n, err := s.districts.DeleteDistrictsByStates(ctx, country, dropped)
		if err != nil {
			return types.Location{}, fmt.Errorf("refdata.ReplaceStates: cascade: %w", err)
		}
		if n > 0 {
			slog.Info("districts removed with their states",
				slog.String("country", country),
				slog.Any("states", dropped),
				slog.Int64("districts", n),
			)
		}
	}

	loc, err := s.locations.ReplaceStates(ctx, country, states)
	if err != nil {
		return types.Location{}, err
	}
	s.invalidate()
	return loc, nil
}

// DeleteState removes state and its districts from country. Deleting a
// state that is not there succeeds without changes.
func (s *Service) DeleteState(ctx context.Context, country, state string) (types.Location, error) {
	current, err := s.locations.GetLocation(ctx, country)
	if err != nil {
		return types.Location{}, err
	}

	// Districts are removed even when the state is already gone, which
	// finishes a cascade that was interrupted earlier.
	n, err := s.districts.DeleteDistrictsByStates(ctx, country, []string{state})
	if err != nil {
		return types.Location{}, fmt.Errorf("refdata.DeleteState: cascade: %w", err)
	}
	if n > 0 {
		slog.Info("districts removed with their state",
			slog.String("country", country),
			slog.String("state", state),
			slog.Int64("districts", n),
		)
	}
	if !current.HasState(state) {
		return current, nil
	}

	loc, err := s.locations.RemoveState(ctx, country, state)
	if err != nil {
		return types.Location{}, err
	}
	s.invalidate()
	return loc, nil
}

// DeleteCountry removes country, its states and every district under it.
func (s *Service) DeleteCountry(ctx context.Context, country string) error {
	if _, err := s.locations.GetLocation(ctx, country); err != nil {
		return err
	}

	n, err := s.districts.DeleteDistrictsByCountry(ctx, country)
	if err != nil {
		return fmt.Errorf("refdata.DeleteCountry: cascade: %w", err)
	}
	if err := s.locations.DeleteLocation(ctx, country); err != nil {
		return err
	}
	s.invalidate()
	slog.Info("country deleted", slog.String("country", country), slog.Int64("districts", n))
	return nil
}

// checkReference fails with storage.ErrInvalidReference unless state is a
// state of country.
func (s *Service) checkReference(ctx context.Context, country, state string) error {
	loc, err := s.locations.GetLocation(ctx, country)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: unknown country %q", storage.ErrInvalidReference, country)
	}
	if err != nil {
		return err
	}
	if !loc.HasState(state) {
		return fmt.Errorf("%w: country %q has no state %q", storage.ErrInvalidReference, country, state)
	}
	return nil
}

// AddDistrict stores a district under an existing (country, state).
func (s *Service) AddDistrict(ctx context.Context, d types.District) (types.District, error) {
	if err := s.checkReference(ctx, d.Country, d.State); err != nil {
		return types.District{}, err
	}
	return s.districts.CreateDistrict(ctx, d)
}

// UpdateDistrict rewrites all three fields of district id.
func (s *Service) UpdateDistrict(ctx context.Context, id string, d types.District) (types.District, error) {
	if _, err := s.districts.GetDistrict(ctx, id); err != nil {
		return types.District{}, err
	}
	if err := s.checkReference(ctx, d.Country, d.State); err != nil {
		return types.District{}, err
	}
	return s.districts.UpdateDistrict(ctx, id, d)
}

func (s *Service) GetDistrict(ctx context.Context, id string) (types.District, error) {
	return s.districts.GetDistrict(ctx, id)
}

func (s *Service) ListDistricts(ctx context.Context) ([]types.District, error) {
	return s.districts.ListDistricts(ctx)
}

func (s *Service) DeleteDistrict(ctx context.Context, id string) error {
	return s.districts.DeleteDistrict(ctx, id)
}

func cloneLocations(in []types.Location) []types.Location {
	out := make([]types.Location, len(in))
	for i, l := range in {
		l.States = append([]string{}, l.States...)
		out[i] = l
	}
	return out
}
