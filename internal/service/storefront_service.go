package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/platform/metrics"
	"github.com/mumbramart/storefront-service/internal/ranking"
	"github.com/mumbramart/storefront-service/internal/repository"
)

// LocationUnavailableNote is the informational banner text shown when the
// storefront runs without a requester position. It is advice, not an error.
const LocationUnavailableNote = "Location unavailable - showing products without distance"

// StorefrontView is the render-ready payload for the home view.
type StorefrontView struct {
	All          []ranking.RankedListing `json:"all"`
	Nearby       []ranking.RankedListing `json:"nearby"`
	LocationNote string                  `json:"location_note,omitempty"`
}

// StorefrontService consolidates the home, search, and shop-directory views
// over one ranking engine, so the ranking behavior cannot drift between
// call sites.
type StorefrontService interface {
	Home(ctx context.Context, requesterPos *entity.Coordinate) (*StorefrontView, error)
	Search(ctx context.Context, requesterPos *entity.Coordinate, term string, category entity.Category) (*StorefrontView, error)
	Shops(ctx context.Context, requesterPos *entity.Coordinate, term string) ([]ranking.RankedShop, error)
	Start(ctx context.Context) error
}

type storefrontService struct {
	source  repository.CatalogSource
	engine  *ranking.Engine
	log     logger.Logger
	metrics *metrics.Manager

	mu       sync.RWMutex
	snapshot *entity.CatalogSnapshot
}

func NewStorefrontService(
	source repository.CatalogSource,
	engine *ranking.Engine,
	log logger.Logger,
	m *metrics.Manager,
) StorefrontService {
	return &storefrontService{
		source:  source,
		engine:  engine,
		log:     log,
		metrics: m,
	}
}

// Start performs the initial catalog read and subscribes for live updates.
// The subscription lives until ctx is cancelled. A failed initial read is
// not fatal: views fall back to on-demand reads until a snapshot arrives.
func (s *storefrontService) Start(ctx context.Context) error {
	snapshot, err := s.source.GetOnce(ctx)
	if err != nil {
		s.log.Warnf("storefront: initial catalog read failed, views will retry on demand: %v", err)
	} else {
		s.storeSnapshot(snapshot)
	}

	_, err = s.source.Subscribe(ctx, func(snapshot *entity.CatalogSnapshot) {
		s.log.Debugf("storefront: catalog snapshot refreshed, %d sellers", len(snapshot.Sellers))
		s.storeSnapshot(snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to catalog updates: %w", err)
	}
	return nil
}

func (s *storefrontService) storeSnapshot(snapshot *entity.CatalogSnapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SnapshotRefreshesTotal.Inc()
	}
}

// currentSnapshot serves the cached snapshot, reading on demand only when
// no snapshot has arrived yet. A read failure here is the hard
// catalog-unavailable case.
func (s *storefrontService) currentSnapshot(ctx context.Context) (*entity.CatalogSnapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	snapshot, err := s.source.GetOnce(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SnapshotRefreshErrors.Inc()
		}
		return nil, err
	}
	s.storeSnapshot(snapshot)
	return snapshot, nil
}

func (s *storefrontService) rank(ctx context.Context, requesterPos *entity.Coordinate) (ranking.Result, error) {
	snapshot, err := s.currentSnapshot(ctx)
	if err != nil {
		return ranking.Result{}, err
	}

	if s.metrics != nil {
		mode := "located"
		if requesterPos == nil {
			mode = "degraded"
		}
		s.metrics.RankingPassesTotal.WithLabelValues(mode).Inc()
	}
	return s.engine.Rank(snapshot, requesterPos), nil
}

func (s *storefrontService) Home(ctx context.Context, requesterPos *entity.Coordinate) (*StorefrontView, error) {
	result, err := s.rank(ctx, requesterPos)
	if err != nil {
		return nil, err
	}

	view := &StorefrontView{All: result.All, Nearby: result.Nearby}
	if requesterPos == nil {
		view.LocationNote = LocationUnavailableNote
	}
	return view, nil
}

// Search filters the ranked listing set by a case-insensitive term over
// title and category, then by exact category when one is given.
func (s *storefrontService) Search(ctx context.Context, requesterPos *entity.Coordinate, term string, category entity.Category) (*StorefrontView, error) {
	view, err := s.Home(ctx, requesterPos)
	if err != nil {
		return nil, err
	}

	view.All = filterListings(view.All, term, category)
	view.Nearby = filterListings(view.Nearby, term, category)
	return view, nil
}

func filterListings(listings []ranking.RankedListing, term string, category entity.Category) []ranking.RankedListing {
	term = strings.ToLower(strings.TrimSpace(term))
	filtered := make([]ranking.RankedListing, 0, len(listings))
	for _, rl := range listings {
		if category != "" && rl.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(rl.Title), term) &&
			!strings.Contains(strings.ToLower(string(rl.Category)), term) {
			continue
		}
		filtered = append(filtered, rl)
	}
	return filtered
}

func (s *storefrontService) Shops(ctx context.Context, requesterPos *entity.Coordinate, term string) ([]ranking.RankedShop, error) {
	snapshot, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	shops := s.engine.RankShops(snapshot, requesterPos)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return shops, nil
	}

	filtered := make([]ranking.RankedShop, 0, len(shops))
	for _, shop := range shops {
		if strings.Contains(strings.ToLower(shop.Name), term) {
			filtered = append(filtered, shop)
		}
	}
	return filtered, nil
}
