package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestToSellerCatalog_MergesLegacyProductKey(t *testing.T) {
	doc := sellerDocument{
		ID: "seller1",
		Products: map[string]listingDocument{
			"a2": {Title: "modern", Price: 5},
		},
		LegacyProduct: map[string]listingDocument{
			"a1": {Title: "legacy", Price: 3},
			"a2": {Title: "stale duplicate", Price: 1},
		},
	}

	catalog := doc.toSellerCatalog()

	require.Len(t, catalog.Listings, 2)
	assert.Equal(t, "a1", catalog.Listings[0].ID)
	assert.Equal(t, "legacy", catalog.Listings[0].Title)
	assert.Equal(t, "a2", catalog.Listings[1].ID)
	assert.Equal(t, "modern", catalog.Listings[1].Title, "products key wins over legacy product key")
	assert.Equal(t, "seller1", catalog.Listings[0].SellerID)
}

func TestToSellerCatalog_DeterministicListingOrder(t *testing.T) {
	doc := sellerDocument{
		ID: "seller1",
		Products: map[string]listingDocument{
			"c": {Title: "three"},
			"a": {Title: "one"},
			"b": {Title: "two"},
		},
	}

	first := doc.toSellerCatalog()
	second := doc.toSellerCatalog()

	require.Len(t, first.Listings, 3)
	assert.Equal(t, "a", first.Listings[0].ID)
	assert.Equal(t, "b", first.Listings[1].ID)
	assert.Equal(t, "c", first.Listings[2].ID)
	assert.Equal(t, first, second)
}

func TestToShopProfile_PartialCoordinateIsUnlocated(t *testing.T) {
	doc := sellerDocument{
		ID:   "seller1",
		Shop: &shopDocument{Name: "Corner Store", Latitude: floatPtr(19.07)},
	}

	catalog := doc.toSellerCatalog()

	require.NotNil(t, catalog.Shop)
	assert.Equal(t, "Corner Store", catalog.Shop.Name)
	assert.Nil(t, catalog.Location(), "partial coordinate must rank as unlocated, not fail")
}

func TestToShopProfile_OutOfRangeCoordinateIsUnlocated(t *testing.T) {
	doc := sellerDocument{
		ID:   "seller1",
		Shop: &shopDocument{Name: "Broken", Latitude: floatPtr(120), Longitude: floatPtr(10)},
	}

	catalog := doc.toSellerCatalog()
	assert.Nil(t, catalog.Location())
}

func TestToSellerCatalog_NoShop(t *testing.T) {
	doc := sellerDocument{
		ID:       "seller1",
		Products: map[string]listingDocument{"a": {Title: "one"}},
	}

	catalog := doc.toSellerCatalog()
	assert.Nil(t, catalog.Shop)
	assert.Nil(t, catalog.Location())
	require.Len(t, catalog.Listings, 1)
}
