package repository

import (
	"context"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
)

// CatalogSource is the read side of the seller catalog. GetOnce reads a
// point-in-time snapshot; Subscribe delivers a fresh snapshot whenever the
// catalog changes. The returned unsubscribe function stops delivery and must
// be safe to call once the subscriber is torn down.
type CatalogSource interface {
	GetOnce(ctx context.Context) (*entity.CatalogSnapshot, error)
	Subscribe(ctx context.Context, onSnapshot func(*entity.CatalogSnapshot)) (unsubscribe func(), err error)
}

// ListingReader resolves one listing by its composite key. Used by the cart
// to validate and price items without pulling a whole snapshot.
type ListingReader interface {
	GetListing(ctx context.Context, sellerID, listingID string) (*entity.Listing, error)
}

// CatalogWriter is the seller-facing mutation side of the catalog.
type CatalogWriter interface {
	UpsertShop(ctx context.Context, sellerID string, shop *entity.ShopProfile) error
	InsertListing(ctx context.Context, listing *entity.Listing) error
	UpdateListing(ctx context.Context, listing *entity.Listing) error
	DeleteListing(ctx context.Context, sellerID, listingID string) error
	GetListing(ctx context.Context, sellerID, listingID string) (*entity.Listing, error)
}
