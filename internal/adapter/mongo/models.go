package mongo

import (
	"math"
	"sort"
	"time"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
)

// sellerDocument is the persisted shape of one seller. Listings live as an
// embedded map keyed by listing ID; the legacy singular "product" key is
// still read and unioned with "products".
type sellerDocument struct {
	ID            string                     `bson:"_id"`
	Shop          *shopDocument              `bson:"shop,omitempty"`
	Products      map[string]listingDocument `bson:"products,omitempty"`
	LegacyProduct map[string]listingDocument `bson:"product,omitempty"`
	UpdatedAt     time.Time                  `bson:"updated_at,omitempty"`
}

type shopDocument struct {
	Name        string   `bson:"name"`
	PhoneNumber string   `bson:"phone_number,omitempty"`
	Latitude    *float64 `bson:"latitude,omitempty"`
	Longitude   *float64 `bson:"longitude,omitempty"`
}

type listingDocument struct {
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	Category    string    `bson:"category,omitempty"`
	Price       float64   `bson:"price"`
	ImageURL    string    `bson:"image_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty"`
}

func toShopDocument(shop *entity.ShopProfile) *shopDocument {
	if shop == nil {
		return nil
	}
	lat, lon := shop.Location.Latitude, shop.Location.Longitude
	return &shopDocument{
		Name:        shop.Name,
		PhoneNumber: shop.PhoneNumber,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}

// toShopProfile rebuilds the shop. A partial coordinate decodes to NaN so
// that Coordinate.Valid fails and the shop ranks as unlocated.
func (d *shopDocument) toShopProfile() *entity.ShopProfile {
	if d == nil {
		return nil
	}
	lat, lon := math.NaN(), math.NaN()
	if d.Latitude != nil {
		lat = *d.Latitude
	}
	if d.Longitude != nil {
		lon = *d.Longitude
	}
	return &entity.ShopProfile{
		Name:        d.Name,
		PhoneNumber: d.PhoneNumber,
		Location:    entity.Coordinate{Latitude: lat, Longitude: lon},
	}
}

func toListingDocument(l *entity.Listing) listingDocument {
	return listingDocument{
		Title:       l.Title,
		Description: l.Description,
		Category:    string(l.Category),
		Price:       l.Price,
		ImageURL:    l.ImageURL,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (d listingDocument) toListing(sellerID, listingID string) entity.Listing {
	category := entity.Category(d.Category)
	if category == "" {
		category = entity.CategoryOther
	}
	return entity.Listing{
		ID:          listingID,
		SellerID:    sellerID,
		Title:       d.Title,
		Description: d.Description,
		Category:    category,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// toSellerCatalog flattens one seller document. The "products" map and the
// legacy "product" map are unioned, "products" winning on an ID collision.
// Map iteration is unordered, so listings are emitted in ID order to give
// ranking a stable baseline.
func (d *sellerDocument) toSellerCatalog() entity.SellerCatalog {
	merged := make(map[string]listingDocument, len(d.Products)+len(d.LegacyProduct))
	for id, doc := range d.LegacyProduct {
		merged[id] = doc
	}
	for id, doc := range d.Products {
		merged[id] = doc
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	listings := make([]entity.Listing, 0, len(ids))
	for _, id := range ids {
		listings = append(listings, merged[id].toListing(d.ID, id))
	}

	return entity.SellerCatalog{
		SellerID: d.ID,
		Shop:     d.Shop.toShopProfile(),
		Listings: listings,
	}
}
