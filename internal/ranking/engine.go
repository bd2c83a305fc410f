// Package ranking holds the location-aware product and shop ranking engine.
// It is a pure transform over one catalog snapshot and one optional
// requester position; it owns no state and never mutates its inputs.
package ranking

import (
	"sort"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/geo"
)

// DefaultNearbyThresholdKm is the proximity cut-off for the "nearby shops"
// shelf: 0.5 km.
const DefaultNearbyThresholdKm = 0.5

// RankedListing is a listing annotated with the distance from the requester
// to its seller's shop. DistanceKm is nil whenever the requester position or
// the seller location is unknown.
type RankedListing struct {
	entity.Listing
	DistanceKm *float64 `json:"distance_km,omitempty"`
	// DistanceLabel is the display form of DistanceKm ("450 m", "1.20 km").
	DistanceLabel string `json:"distance_label,omitempty"`
}

// RankedShop is one seller's storefront annotated with distance, for the
// shop directory view.
type RankedShop struct {
	SellerID      string             `json:"seller_id"`
	Name          string             `json:"name"`
	PhoneNumber   string             `json:"phone_number,omitempty"`
	Location      *entity.Coordinate `json:"location,omitempty"`
	DistanceKm    *float64           `json:"distance_km,omitempty"`
	DistanceLabel string             `json:"distance_label,omitempty"`
}

// Result is the render-ready output of one ranking pass.
//
// All carries every listing in catalog traversal order (unless the engine is
// configured to distance-sort it); distance is supplementary metadata there.
// Nearby is the deduplicated shelf: at most one listing per seller, each
// within the proximity threshold, ascending by distance.
type Result struct {
	All    []RankedListing `json:"all"`
	Nearby []RankedListing `json:"nearby"`
}

// Config parameterizes the engine. The zero value gives the default
// behavior: 0.5 km threshold, All left in catalog order.
type Config struct {
	// NearbyThresholdKm is the inclusive distance cut-off for Nearby.
	NearbyThresholdKm float64
	// SortAllByDistance additionally sorts All ascending by distance,
	// keeping distance-less listings at the end in their relative order.
	// The default contract is catalog order.
	SortAllByDistance bool
}

type Engine struct {
	thresholdKm float64
	sortAll     bool
}

func NewEngine(cfg Config) *Engine {
	threshold := cfg.NearbyThresholdKm
	if threshold <= 0 {
		threshold = DefaultNearbyThresholdKm
	}
	return &Engine{
		thresholdKm: threshold,
		sortAll:     cfg.SortAllByDistance,
	}
}

// Rank flattens the snapshot into ranked listings. A nil requester position
// is the degraded mode: All still carries every listing, none annotated, and
// Nearby is empty. A nil snapshot yields empty output.
func (e *Engine) Rank(snapshot *entity.CatalogSnapshot, requesterPos *entity.Coordinate) Result {
	result := Result{
		All:    make([]RankedListing, 0),
		Nearby: make([]RankedListing, 0),
	}
	if snapshot == nil {
		return result
	}

	for _, seller := range snapshot.Sellers {
		var distance *float64
		var label string
		if loc := seller.Location(); loc != nil && requesterPos != nil {
			d := geo.DistanceKm(*requesterPos, *loc)
			distance = &d
			label = geo.FormatDistance(d)
		}
		for _, listing := range seller.Listings {
			result.All = append(result.All, RankedListing{Listing: listing, DistanceKm: distance, DistanceLabel: label})
		}
	}

	result.Nearby = e.nearby(result.All)

	if e.sortAll {
		sortByDistance(result.All)
	}
	return result
}

// nearby filters the flattened list to the threshold, sorts ascending by
// distance, then keeps a seller's first (nearest) qualifying listing only.
func (e *Engine) nearby(all []RankedListing) []RankedListing {
	qualifying := make([]RankedListing, 0)
	for _, rl := range all {
		if rl.DistanceKm != nil && *rl.DistanceKm <= e.thresholdKm {
			qualifying = append(qualifying, rl)
		}
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return *qualifying[i].DistanceKm < *qualifying[j].DistanceKm
	})

	nearby := make([]RankedListing, 0, len(qualifying))
	seenSellers := make(map[string]struct{}, len(qualifying))
	for _, rl := range qualifying {
		if _, seen := seenSellers[rl.SellerID]; seen {
			continue
		}
		seenSellers[rl.SellerID] = struct{}{}
		nearby = append(nearby, rl)
	}
	return nearby
}

// RankShops builds the shop directory: every seller with a registered shop,
// distance-annotated when possible. With a known requester position the list
// is sorted ascending by distance; shops without a usable coordinate keep
// their snapshot order at the end.
func (e *Engine) RankShops(snapshot *entity.CatalogSnapshot, requesterPos *entity.Coordinate) []RankedShop {
	shops := make([]RankedShop, 0)
	if snapshot == nil {
		return shops
	}

	for _, seller := range snapshot.Sellers {
		if seller.Shop == nil {
			continue
		}
		shop := RankedShop{
			SellerID:    seller.SellerID,
			Name:        seller.Shop.Name,
			PhoneNumber: seller.Shop.PhoneNumber,
			Location:    seller.Location(),
		}
		if shop.Location != nil && requesterPos != nil {
			d := geo.DistanceKm(*requesterPos, *shop.Location)
			shop.DistanceKm = &d
			shop.DistanceLabel = geo.FormatDistance(d)
		}
		shops = append(shops, shop)
	}

	if requesterPos != nil {
		sort.SliceStable(shops, func(i, j int) bool {
			return lessByDistance(shops[i].DistanceKm, shops[j].DistanceKm)
		})
	}
	return shops
}

func sortByDistance(listings []RankedListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return lessByDistance(listings[i].DistanceKm, listings[j].DistanceKm)
	})
}

// lessByDistance orders known distances ascending and places unknown
// distances last, without disturbing the relative order of equals.
func lessByDistance(a, b *float64) bool {
	switch {
	case a != nil && b != nil:
		return *a < *b
	case a != nil:
		return true
	default:
		return false
	}
}
