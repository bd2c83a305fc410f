package entity

import (
	"errors"
	"time"
)

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategorySports      Category = "Sports"
	CategoryHome        Category = "Home"
	CategoryOther       Category = "Other"
)

// Listing is one product offered by one seller. IDs are unique only within
// the owning seller's catalog; (SellerID, ID) is the global key.
type Listing struct {
	ID          string    `json:"id" bson:"_id"`
	SellerID    string    `json:"seller_id" bson:"seller_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    Category  `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func NewListing(sellerID, title, description string, category Category, price float64, imageURL string) (*Listing, error) {
	if sellerID == "" {
		return nil, errors.New("listing must have an owning seller")
	}
	if title == "" {
		return nil, errors.New("listing title cannot be empty")
	}
	if price < 0 {
		return nil, errors.New("listing price cannot be negative")
	}
	if category == "" {
		category = CategoryOther
	}
	now := time.Now().UTC()
	return &Listing{
		SellerID:    sellerID,
		Title:       title,
		Description: description,
		Category:    category,
		Price:       price,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ShopProfile is the seller's registered storefront. A seller without one is
// a valid, common state: such sellers still list products but never rank.
type ShopProfile struct {
	Name        string     `json:"name" bson:"name"`
	PhoneNumber string     `json:"phone_number" bson:"phone_number"`
	Location    Coordinate `json:"location" bson:"location"`
}

func NewShopProfile(name, phoneNumber string, location Coordinate) (*ShopProfile, error) {
	if name == "" {
		return nil, errors.New("shop name cannot be empty")
	}
	if !location.Valid() {
		return nil, errors.New("shop location must be a valid coordinate")
	}
	return &ShopProfile{Name: name, PhoneNumber: phoneNumber, Location: location}, nil
}

// SellerCatalog is one seller's slice of the catalog snapshot. Location is
// nil when the seller has no registered shop or its stored coordinate is
// malformed. Listings keep store traversal order.
type SellerCatalog struct {
	SellerID string
	Shop     *ShopProfile
	Listings []Listing
}

// Location returns the seller's shop coordinate, or nil when unknown.
func (s SellerCatalog) Location() *Coordinate {
	if s.Shop == nil {
		return nil
	}
	loc := s.Shop.Location
	if !loc.Valid() {
		return nil
	}
	return &loc
}

// CatalogSnapshot is a point-in-time read of the whole seller catalog.
// Seller order is the stable baseline order for ranking.
type CatalogSnapshot struct {
	Sellers []SellerCatalog
	TakenAt time.Time
}

// FindListing looks a listing up by its (seller, id) key.
func (c *CatalogSnapshot) FindListing(sellerID, listingID string) (*Listing, bool) {
	for i := range c.Sellers {
		if c.Sellers[i].SellerID != sellerID {
			continue
		}
		for j := range c.Sellers[i].Listings {
			if c.Sellers[i].Listings[j].ID == listingID {
				return &c.Sellers[i].Listings[j], true
			}
		}
	}
	return nil, false
}
