package ranking

import (
	"math"
	"testing"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = entity.Coordinate{Latitude: 0, Longitude: 0}

// coordAtKm returns a point the given distance due north of the origin.
func coordAtKm(km float64) entity.Coordinate {
	return entity.Coordinate{Latitude: km / 6371.0 * 180 / math.Pi, Longitude: 0}
}

func listing(sellerID, id, title string) entity.Listing {
	return entity.Listing{ID: id, SellerID: sellerID, Title: title, Category: entity.CategoryOther, Price: 10}
}

func seller(id string, loc *entity.Coordinate, listings ...entity.Listing) entity.SellerCatalog {
	s := entity.SellerCatalog{SellerID: id, Listings: listings}
	if loc != nil {
		s.Shop = &entity.ShopProfile{Name: "shop-" + id, PhoneNumber: "123", Location: *loc}
	}
	return s
}

func snapshot(sellers ...entity.SellerCatalog) *entity.CatalogSnapshot {
	return &entity.CatalogSnapshot{Sellers: sellers}
}

func TestRank_DegradedMode_NoPosition(t *testing.T) {
	engine := NewEngine(Config{})
	loc := coordAtKm(0.1)
	snap := snapshot(
		seller("a", &loc, listing("a", "p1", "one"), listing("a", "p2", "two")),
		seller("b", nil, listing("b", "p3", "three")),
	)

	result := engine.Rank(snap, nil)

	require.Len(t, result.All, 3)
	for _, rl := range result.All {
		assert.Nil(t, rl.DistanceKm)
	}
	assert.Empty(t, result.Nearby)
}

func TestRank_EmptyCatalog(t *testing.T) {
	engine := NewEngine(Config{})

	result := engine.Rank(snapshot(), &origin)
	assert.Empty(t, result.All)
	assert.Empty(t, result.Nearby)

	result = engine.Rank(nil, &origin)
	assert.Empty(t, result.All)
	assert.Empty(t, result.Nearby)
}

func TestRank_Scenario_MixedLocations(t *testing.T) {
	engine := NewEngine(Config{})
	snap := snapshot(
		seller("sellerA", &origin, listing("sellerA", "p1", "at the requester")),
		seller("sellerB", nil, listing("sellerB", "p2", "no shop location")),
	)

	result := engine.Rank(snap, &origin)

	require.Len(t, result.All, 2)
	assert.Equal(t, "p1", result.All[0].ID)
	require.NotNil(t, result.All[0].DistanceKm)
	assert.InDelta(t, 0, *result.All[0].DistanceKm, 1e-9)
	assert.Equal(t, "0 m", result.All[0].DistanceLabel)
	assert.Equal(t, "p2", result.All[1].ID)
	assert.Nil(t, result.All[1].DistanceKm)
	assert.Empty(t, result.All[1].DistanceLabel)

	require.Len(t, result.Nearby, 1)
	assert.Equal(t, "p1", result.Nearby[0].ID)
}

func TestRank_AllKeepsCatalogOrder(t *testing.T) {
	engine := NewEngine(Config{})
	far := coordAtKm(10)
	near := coordAtKm(0.2)
	snap := snapshot(
		seller("far", &far, listing("far", "p1", "far one")),
		seller("near", &near, listing("near", "p2", "near one")),
	)

	result := engine.Rank(snap, &origin)

	require.Len(t, result.All, 2)
	assert.Equal(t, "p1", result.All[0].ID, "All stays in catalog order, not distance order")
	assert.Equal(t, "p2", result.All[1].ID)
}

func TestRank_SortAllByDistanceOption(t *testing.T) {
	engine := NewEngine(Config{SortAllByDistance: true})
	far := coordAtKm(10)
	near := coordAtKm(0.2)
	snap := snapshot(
		seller("far", &far, listing("far", "p1", "far one")),
		seller("nowhere", nil, listing("nowhere", "p2", "unlocated")),
		seller("near", &near, listing("near", "p3", "near one")),
	)

	result := engine.Rank(snap, &origin)

	require.Len(t, result.All, 3)
	assert.Equal(t, "p3", result.All[0].ID)
	assert.Equal(t, "p1", result.All[1].ID)
	assert.Equal(t, "p2", result.All[2].ID, "distance-less listings go last")
}

func TestRank_ThresholdBoundary(t *testing.T) {
	engine := NewEngine(Config{})
	// Fractionally inside the 0.5 km cut-off so float rounding cannot tip
	// the inclusive comparison the wrong way.
	atThreshold := coordAtKm(0.5 * (1 - 1e-9))
	beyond := coordAtKm(0.501)
	require.LessOrEqual(t, geo.DistanceKm(origin, atThreshold), 0.5)
	require.Greater(t, geo.DistanceKm(origin, beyond), 0.5)

	snap := snapshot(
		seller("edge", &atThreshold, listing("edge", "p1", "at threshold")),
		seller("out", &beyond, listing("out", "p2", "just beyond")),
	)

	result := engine.Rank(snap, &origin)

	require.Len(t, result.Nearby, 1)
	assert.Equal(t, "p1", result.Nearby[0].ID)
}

func TestRank_NearbyDedupKeepsNearestListingPerSeller(t *testing.T) {
	engine := NewEngine(Config{})
	locA := coordAtKm(0.3)
	locB := coordAtKm(0.1)
	snap := snapshot(
		seller("a", &locA, listing("a", "a1", "first"), listing("a", "a2", "second")),
		seller("b", &locB, listing("b", "b1", "close")),
	)

	result := engine.Rank(snap, &origin)

	require.Len(t, result.Nearby, 2)
	assert.Equal(t, "b1", result.Nearby[0].ID, "nearest seller first")
	assert.Equal(t, "a1", result.Nearby[1].ID)

	seen := make(map[string]int)
	for _, rl := range result.Nearby {
		seen[rl.SellerID]++
	}
	for sellerID, n := range seen {
		assert.Equal(t, 1, n, "seller %s appears more than once in nearby", sellerID)
	}
}

func TestRank_NearbySortedAscending(t *testing.T) {
	engine := NewEngine(Config{})
	l1 := coordAtKm(0.4)
	l2 := coordAtKm(0.05)
	l3 := coordAtKm(0.25)
	snap := snapshot(
		seller("a", &l1, listing("a", "p1", "one")),
		seller("b", &l2, listing("b", "p2", "two")),
		seller("c", &l3, listing("c", "p3", "three")),
	)

	result := engine.Rank(snap, &origin)

	require.Len(t, result.Nearby, 3)
	for i := 1; i < len(result.Nearby); i++ {
		assert.LessOrEqual(t, *result.Nearby[i-1].DistanceKm, *result.Nearby[i].DistanceKm)
	}
}

func TestRank_Idempotent(t *testing.T) {
	engine := NewEngine(Config{})
	loc := coordAtKm(0.2)
	snap := snapshot(
		seller("a", &loc, listing("a", "p1", "one"), listing("a", "p2", "two")),
		seller("b", nil, listing("b", "p3", "three")),
	)

	first := engine.Rank(snap, &origin)
	second := engine.Rank(snap, &origin)

	assert.Equal(t, first, second)
}

func TestRank_CustomThreshold(t *testing.T) {
	engine := NewEngine(Config{NearbyThresholdKm: 2})
	loc := coordAtKm(1.5)
	snap := snapshot(seller("a", &loc, listing("a", "p1", "one")))

	result := engine.Rank(snap, &origin)
	require.Len(t, result.Nearby, 1)
}

func TestRankShops(t *testing.T) {
	engine := NewEngine(Config{})
	far := coordAtKm(3)
	near := coordAtKm(0.2)
	snap := snapshot(
		seller("far", &far, listing("far", "p1", "one")),
		seller("unshopped", nil, listing("unshopped", "p2", "two")),
		seller("near", &near),
	)

	shops := engine.RankShops(snap, &origin)

	require.Len(t, shops, 2, "sellers without a shop never appear")
	assert.Equal(t, "near", shops[0].SellerID)
	assert.Equal(t, "far", shops[1].SellerID)
	require.NotNil(t, shops[0].DistanceKm)
	assert.InDelta(t, 0.2, *shops[0].DistanceKm, 1e-6)
}

func TestRankShops_NoPositionKeepsSnapshotOrder(t *testing.T) {
	engine := NewEngine(Config{})
	far := coordAtKm(3)
	near := coordAtKm(0.2)
	snap := snapshot(
		seller("far", &far),
		seller("near", &near),
	)

	shops := engine.RankShops(snap, nil)

	require.Len(t, shops, 2)
	assert.Equal(t, "far", shops[0].SellerID)
	assert.Nil(t, shops[0].DistanceKm)
}
