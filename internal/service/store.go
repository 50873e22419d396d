// Package service binds the donation API to cached queries and mutations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/query"
)

// Cache keys, one per remote resource
const (
	KeyItems     = "donationItems"
	KeyStatuses  = "donationStatuses"
	KeyLocations = "donationLocations"
	KeyThemes    = "donationThemes"

	KeyAddItem   = "addDonationItem"
	KeyResetData = "resetDonationData"
)

// Client is the subset of the API client the store depends on
type Client interface {
	FetchDonationItems(ctx context.Context) ([]api.DonationItem, error)
	FetchStatuses(ctx context.Context) ([]api.Status, error)
	FetchLocations(ctx context.Context) ([]api.Location, error)
	FetchThemes(ctx context.Context) ([]api.Theme, error)
	CreateDonationItem(ctx context.Context, request api.CreateDonationItemRequest) (*api.DonationItem, error)
	ResetDonationData(ctx context.Context) (*api.DonationItem, error)
}

// Store holds the cached reads and write mutations for the donation service
type Store struct {
	client Client
	logger *slog.Logger

	Items     *query.Query[[]api.DonationItem]
	Statuses  *query.Query[[]api.Status]
	Locations *query.Query[[]api.Location]
	Themes    *query.Query[[]api.Theme]

	create *query.Mutation[api.CreateDonationItemRequest, *api.DonationItem]
	reset  *query.Mutation[struct{}, *api.DonationItem]
}

// NewStore creates a Store. opts apply to all four queries.
func NewStore(client Client, opts query.Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		client:    client,
		logger:    logger,
		Items:     query.New(KeyItems, client.FetchDonationItems, []api.DonationItem{}, opts),
		Statuses:  query.New(KeyStatuses, client.FetchStatuses, []api.Status{}, opts),
		Locations: query.New(KeyLocations, client.FetchLocations, []api.Location{}, opts),
		Themes:    query.New(KeyThemes, client.FetchThemes, []api.Theme{}, opts),
	}

	s.create = query.NewMutation(KeyAddItem, client.CreateDonationItem, query.Callbacks[*api.DonationItem]{
		OnSuccess: func(item *api.DonationItem) {
			if item != nil {
				s.logger.Info("donation item created", "id", item.ID, "name", item.Name)
			}
		},
	})
	s.reset = query.NewMutation(KeyResetData, func(ctx context.Context, _ struct{}) (*api.DonationItem, error) {
		return client.ResetDonationData(ctx)
	}, query.Callbacks[*api.DonationItem]{
		OnSuccess: func(*api.DonationItem) {
			s.logger.Info("donation data reset")
		},
	})

	return s
}

// LoadAll mounts the four queries concurrently. Only an items failure is
// returned; lookup failures are logged and leave the lookup empty.
func (s *Store) LoadAll(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		if _, err := s.Items.Mount(ctx); err != nil {
			return fmt.Errorf("failed to load donation items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.Statuses.Mount(ctx); err != nil {
			s.logger.Warn("status lookup unavailable", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.Locations.Mount(ctx); err != nil {
			s.logger.Warn("location lookup unavailable", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.Themes.Mount(ctx); err != nil {
			s.logger.Warn("theme lookup unavailable", "error", err)
		}
		return nil
	})

	return g.Wait()
}

// RefreshItems forces a refetch of the item list
func (s *Store) RefreshItems(ctx context.Context) ([]api.DonationItem, error) {
	items, err := s.Items.Refetch(ctx)
	if err != nil {
		return items, fmt.Errorf("failed to refresh donation items: %w", err)
	}
	return items, nil
}

// ExistingNames returns the names of every cached item, unfiltered
func (s *Store) ExistingNames() []string {
	items := s.Items.Data()
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

// FindItem returns the cached item with the given id
func (s *Store) FindItem(id string) (api.DonationItem, bool) {
	for _, item := range s.Items.Data() {
		if item.ID == id {
			return item, true
		}
	}
	return api.DonationItem{}, false
}

// LocationName resolves a location id against the cached lookup
func (s *Store) LocationName(id string) string {
	for _, loc := range s.Locations.Data() {
		if strings.EqualFold(loc.ID, id) {
			return loc.Name
		}
	}
	return id
}

// ThemeName resolves a theme id against the cached lookup
func (s *Store) ThemeName(id string) string {
	for _, theme := range s.Themes.Data() {
		if strings.EqualFold(theme.ID, id) {
			return theme.Name
		}
	}
	return id
}

// CreateItem posts a new item and, once the write has succeeded, refetches the
// item list. A refetch failure is logged but does not fail the create.
func (s *Store) CreateItem(ctx context.Context, request api.CreateDonationItemRequest) (*api.DonationItem, error) {
	res := s.create.Mutate(ctx, request)
	if !res.OK() {
		return nil, res.Err
	}

	if _, err := s.Items.Refetch(ctx); err != nil {
		s.logger.Warn("refetch after create failed", "error", err)
	}
	return res.Value, nil
}

// ResetData restores the service seed data, then refetches the item list
func (s *Store) ResetData(ctx context.Context) (*api.DonationItem, error) {
	res := s.reset.Mutate(ctx, struct{}{})
	if !res.OK() {
		return nil, res.Err
	}

	if _, err := s.Items.Refetch(ctx); err != nil {
		s.logger.Warn("refetch after reset failed", "error", err)
	}
	return res.Value, nil
}

// CreatePending reports whether a create is in flight
func (s *Store) CreatePending() bool {
	return s.create.IsPending()
}

// ResetPending reports whether a reset is in flight
func (s *Store) ResetPending() bool {
	return s.reset.IsPending()
}
