package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	natsadapter "github.com/mumbramart/storefront-service/internal/adapter/nats"
	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/platform/metrics"
	"github.com/mumbramart/storefront-service/internal/repository"
)

// ShopInput carries the seller-editable shop profile fields.
type ShopInput struct {
	Name        string
	PhoneNumber string
	Latitude    float64
	Longitude   float64
}

// ListingInput carries the seller-editable listing fields.
type ListingInput struct {
	Title       string
	Description string
	Category    entity.Category
	Price       float64
	ImageURL    string
}

// CatalogAdminService is the seller-facing side of the catalog. Every
// successful mutation is announced on the catalog change subject so that
// storefront instances refresh their snapshot.
type CatalogAdminService interface {
	RegisterShop(ctx context.Context, sellerID string, input ShopInput) (*entity.ShopProfile, error)
	PublishListing(ctx context.Context, sellerID string, input ListingInput) (*entity.Listing, error)
	UpdateListing(ctx context.Context, sellerID, listingID string, input ListingInput) (*entity.Listing, error)
	DeleteListing(ctx context.Context, sellerID, listingID string) error
}

type catalogAdminService struct {
	writer    repository.CatalogWriter
	publisher natsadapter.MessagePublisher
	log       logger.Logger
	metrics   *metrics.Manager
}

func NewCatalogAdminService(
	writer repository.CatalogWriter,
	publisher natsadapter.MessagePublisher,
	log logger.Logger,
	m *metrics.Manager,
) CatalogAdminService {
	return &catalogAdminService{
		writer:    writer,
		publisher: publisher,
		log:       log,
		metrics:   m,
	}
}

func (s *catalogAdminService) countMutation(operation string) {
	if s.metrics != nil {
		s.metrics.CatalogMutationsTotal.WithLabelValues(operation).Inc()
	}
}

// announceChange publishes a catalog change event. The mutation has already
// been persisted, so a publish failure only delays snapshot refresh and is
// logged rather than returned.
func (s *catalogAdminService) announceChange(ctx context.Context, sellerID, listingID, operation string) {
	if s.publisher == nil {
		return
	}
	event := natsadapter.CatalogChangedEvent{
		SellerID:  sellerID,
		ListingID: listingID,
		Operation: operation,
		At:        time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, natsadapter.SubjectCatalogChanged, event); err != nil {
		s.log.Warnf("CatalogAdminService: failed to publish catalog change (seller=%s, op=%s): %v",
			sellerID, operation, err)
	}
}

func (s *catalogAdminService) RegisterShop(ctx context.Context, sellerID string, input ShopInput) (*entity.ShopProfile, error) {
	s.log.Infof("CatalogAdminService: RegisterShop for seller %s", sellerID)
	s.countMutation("register_shop")

	if sellerID == "" {
		return nil, fmt.Errorf("seller ID is required")
	}
	shop, err := entity.NewShopProfile(input.Name, input.PhoneNumber, entity.Coordinate{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid shop profile: %w", err)
	}

	if err := s.writer.UpsertShop(ctx, sellerID, shop); err != nil {
		return nil, fmt.Errorf("could not save shop profile: %w", err)
	}
	s.announceChange(ctx, sellerID, "", "shop_upserted")
	return shop, nil
}

func (s *catalogAdminService) PublishListing(ctx context.Context, sellerID string, input ListingInput) (*entity.Listing, error) {
	s.log.Infof("CatalogAdminService: PublishListing for seller %s", sellerID)
	s.countMutation("publish_listing")

	listing, err := entity.NewListing(sellerID, input.Title, input.Description, input.Category, input.Price, input.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing: %w", err)
	}
	listing.ID = uuid.NewString()

	if err := s.writer.InsertListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("could not save listing: %w", err)
	}
	s.announceChange(ctx, sellerID, listing.ID, "listing_published")
	return listing, nil
}

func (s *catalogAdminService) UpdateListing(ctx context.Context, sellerID, listingID string, input ListingInput) (*entity.Listing, error) {
	s.log.Infof("CatalogAdminService: UpdateListing %s for seller %s", listingID, sellerID)
	s.countMutation("update_listing")

	existing, err := s.writer.GetListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, fmt.Errorf("could not load listing %s: %w", listingID, err)
	}

	updated, err := entity.NewListing(sellerID, input.Title, input.Description, input.Category, input.Price, input.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing: %w", err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.writer.UpdateListing(ctx, updated); err != nil {
		return nil, fmt.Errorf("could not update listing %s: %w", listingID, err)
	}
	s.announceChange(ctx, sellerID, listingID, "listing_updated")
	return updated, nil
}

func (s *catalogAdminService) DeleteListing(ctx context.Context, sellerID, listingID string) error {
	s.log.Infof("CatalogAdminService: DeleteListing %s for seller %s", listingID, sellerID)
	s.countMutation("delete_listing")

	if err := s.writer.DeleteListing(ctx, sellerID, listingID); err != nil {
		return fmt.Errorf("could not delete listing %s: %w", listingID, err)
	}
	s.announceChange(ctx, sellerID, listingID, "listing_deleted")
	return nil
}
