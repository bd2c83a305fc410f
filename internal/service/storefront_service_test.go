package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/ranking"
	"github.com/mumbramart/storefront-service/internal/repository"
)

// fakeCatalogSource is a hand-rolled CatalogSource: the subscription
// callback is captured so tests can push snapshots synchronously.
type fakeCatalogSource struct {
	snapshot   *entity.CatalogSnapshot
	getErr     error
	getCalls   int
	onSnapshot func(*entity.CatalogSnapshot)
}

func (f *fakeCatalogSource) GetOnce(ctx context.Context) (*entity.CatalogSnapshot, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.snapshot, nil
}

func (f *fakeCatalogSource) Subscribe(ctx context.Context, onSnapshot func(*entity.CatalogSnapshot)) (func(), error) {
	f.onSnapshot = onSnapshot
	return func() {}, nil
}

func storefrontSnapshot() *entity.CatalogSnapshot {
	shopHere := &entity.ShopProfile{Name: "Corner Cycles", PhoneNumber: "+91-1", Location: entity.Coordinate{Latitude: 28.6139, Longitude: 77.2090}}
	return &entity.CatalogSnapshot{
		TakenAt: time.Now().UTC(),
		Sellers: []entity.SellerCatalog{
			{
				SellerID: "seller1",
				Shop:     shopHere,
				Listings: []entity.Listing{
					{ID: "l1", SellerID: "seller1", Title: "Trail Helmet", Category: entity.CategorySports, Price: 20},
					{ID: "l2", SellerID: "seller1", Title: "Desk Lamp", Category: entity.CategoryHome, Price: 8},
				},
			},
			{
				SellerID: "seller2",
				Listings: []entity.Listing{
					{ID: "l3", SellerID: "seller2", Title: "Phone Charger", Category: entity.CategoryElectronics, Price: 5},
				},
			},
		},
	}
}

func newStorefrontForTest(t *testing.T, source repository.CatalogSource) StorefrontService {
	t.Helper()
	svc := NewStorefrontService(source, ranking.NewEngine(ranking.Config{}), logger.NewNoOp(), nil)
	require.NoError(t, svc.Start(context.Background()))
	return svc
}

func TestStorefrontService_Home_Located(t *testing.T) {
	source := &fakeCatalogSource{snapshot: storefrontSnapshot()}
	svc := newStorefrontForTest(t, source)

	pos := &entity.Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	view, err := svc.Home(context.Background(), pos)

	require.NoError(t, err)
	assert.Empty(t, view.LocationNote)
	assert.Len(t, view.All, 3)
	require.NotEmpty(t, view.Nearby)
	for _, rl := range view.Nearby {
		assert.Equal(t, "seller1", rl.SellerID)
	}
	// one shop within reach, deduped to its nearest listing
	assert.Len(t, view.Nearby, 1)
}

func TestStorefrontService_Home_Degraded(t *testing.T) {
	source := &fakeCatalogSource{snapshot: storefrontSnapshot()}
	svc := newStorefrontForTest(t, source)

	view, err := svc.Home(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, LocationUnavailableNote, view.LocationNote)
	assert.Len(t, view.All, 3)
	assert.Empty(t, view.Nearby)
	for _, rl := range view.All {
		assert.Nil(t, rl.DistanceKm)
	}
}

func TestStorefrontService_Home_CatalogUnavailable(t *testing.T) {
	source := &fakeCatalogSource{getErr: repository.ErrCatalogUnavailable}
	svc := NewStorefrontService(source, ranking.NewEngine(ranking.Config{}), logger.NewNoOp(), nil)
	// Start tolerates the failed initial read
	require.NoError(t, svc.Start(context.Background()))

	view, err := svc.Home(context.Background(), nil)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, repository.ErrCatalogUnavailable)
}

func TestStorefrontService_Home_UsesCachedSnapshot(t *testing.T) {
	source := &fakeCatalogSource{snapshot: storefrontSnapshot()}
	svc := newStorefrontForTest(t, source)
	callsAfterStart := source.getCalls

	_, err := svc.Home(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.Home(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, callsAfterStart, source.getCalls)
}

func TestStorefrontService_SnapshotRefreshOnEvent(t *testing.T) {
	source := &fakeCatalogSource{snapshot: storefrontSnapshot()}
	svc := newStorefrontForTest(t, source)
	require.NotNil(t, source.onSnapshot)

	source.onSnapshot(&entity.CatalogSnapshot{
		TakenAt: time.Now().UTC(),
		Sellers: []entity.SellerCatalog{
			{SellerID: "seller3", Listings: []entity.Listing{
				{ID: "l9", SellerID: "seller3", Title: "New Arrival", Price: 1},
			}},
		},
	})

	view, err := svc.Home(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, view.All, 1)
	assert.Equal(t, "New Arrival", view.All[0].Title)
}

func TestStorefrontService_Search_TermAndCategory(t *testing.T) {
	source := &fakeCatalogSource{snapshot: storefrontSnapshot()}
	svc := newStorefrontForTest(t, source)

	view, err := svc.Search(context.Background(), nil, "helmet", "")
	require.NoError(t, err)
	require.Len(t, view.All, 1)
	assert.Equal(t, "Trail Helmet", view.All[0].Title)

	view, err = svc.Search(context.Background(), nil, "", entity.CategoryElectronics)
	require.NoError(t, err)
	require.Len(t, view.All, 1)
	assert.Equal(t, "Phone Charger", view.All[0].Title)

	// term matches category names too
	view, err = svc.Search(context.Background(), nil, "home", "")
	require.NoError(t, err)
	require.Len(t, view.All, 1)
	assert.Equal(t, "Desk Lamp", view.All[0].Title)

	view, err = svc.Search(context.Background(), nil, "no such thing", "")
	require.NoError(t, err)
	assert.Empty(t, view.All)
}

func TestStorefrontService_Shops(t *testing.T) {
	source := &fakeCatalogSource{snapshot: storefrontSnapshot()}
	svc := newStorefrontForTest(t, source)

	shops, err := svc.Shops(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "Corner Cycles", shops[0].Name)
	assert.Nil(t, shops[0].DistanceKm)

	shops, err = svc.Shops(context.Background(), nil, "corner")
	require.NoError(t, err)
	assert.Len(t, shops, 1)

	shops, err = svc.Shops(context.Background(), nil, "bakery")
	require.NoError(t, err)
	assert.Empty(t, shops)
}

func TestStorefrontService_SearchPropagatesCatalogError(t *testing.T) {
	source := &fakeCatalogSource{getErr: errors.New("mongo down")}
	svc := NewStorefrontService(source, ranking.NewEngine(ranking.Config{}), logger.NewNoOp(), nil)
	require.NoError(t, svc.Start(context.Background()))

	_, err := svc.Search(context.Background(), nil, "helmet", "")
	assert.Error(t, err)
}
