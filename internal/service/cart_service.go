package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/platform/metrics"
	"github.com/mumbramart/storefront-service/internal/repository"
)

const defaultCartTTL = 24 * time.Hour

// CartItemView is one cart line enriched with current listing details.
type CartItemView struct {
	SellerID     string  `json:"seller_id"`
	ListingID    string  `json:"listing_id"`
	Title        string  `json:"title"`
	ImageURL     string  `json:"image_url,omitempty"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	TotalPrice   float64 `json:"total_price"`
}

type CartView struct {
	UserID      string         `json:"user_id"`
	Items       []CartItemView `json:"items"`
	TotalAmount float64        `json:"total_amount"`
}

type CartService interface {
	AddItem(ctx context.Context, userID, sellerID, listingID string, quantity int) (*CartView, error)
	UpdateItemQuantity(ctx context.Context, userID, sellerID, listingID string, newQuantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, sellerID, listingID string) (*CartView, error)
	GetCart(ctx context.Context, userID string) (*CartView, error)
	ClearCart(ctx context.Context, userID string) error
}

type cartService struct {
	cartRepo repository.CartRepository
	listings repository.ListingReader
	log      logger.Logger
	metrics  *metrics.Manager
	cartTTL  time.Duration
}

type CartServiceConfig struct {
	CartTTL time.Duration
}

func NewCartService(
	cartRepo repository.CartRepository,
	listings repository.ListingReader,
	log logger.Logger,
	m *metrics.Manager,
	cfg CartServiceConfig,
) CartService {
	cartTTL := cfg.CartTTL
	if cartTTL <= 0 {
		cartTTL = defaultCartTTL
	}

	return &cartService{
		cartRepo: cartRepo,
		listings: listings,
		log:      log,
		metrics:  m,
		cartTTL:  cartTTL,
	}
}

func (s *cartService) countOperation(operation string) {
	if s.metrics != nil {
		s.metrics.CartOperationsTotal.WithLabelValues(operation).Inc()
	}
}

// enrichAndConvertCart resolves each stored item against the current
// catalog. Items whose listing has since been deleted are skipped rather
// than failing the whole cart.
func (s *cartService) enrichAndConvertCart(ctx context.Context, cart *entity.Cart) (*CartView, error) {
	if cart == nil {
		return &CartView{Items: []CartItemView{}}, nil
	}

	view := &CartView{
		UserID: cart.UserID,
		Items:  make([]CartItemView, 0, len(cart.Items)),
	}

	for _, item := range cart.Items {
		listing, err := s.listings.GetListing(ctx, item.SellerID, item.ListingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warnf("cart: listing %s/%s no longer exists, skipping item for user %s",
					item.SellerID, item.ListingID, cart.UserID)
				continue
			}
			return nil, fmt.Errorf("could not resolve listing %s/%s: %w", item.SellerID, item.ListingID, err)
		}

		itemTotal := listing.Price * float64(item.Quantity)
		view.TotalAmount += itemTotal
		view.Items = append(view.Items, CartItemView{
			SellerID:     item.SellerID,
			ListingID:    item.ListingID,
			Title:        listing.Title,
			ImageURL:     listing.ImageURL,
			Quantity:     item.Quantity,
			PricePerUnit: listing.Price,
			TotalPrice:   itemTotal,
		})
	}
	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, sellerID, listingID string, quantity int) (*CartView, error) {
	s.log.Infof("Adding item to cart: UserID=%s, SellerID=%s, ListingID=%s, Quantity=%d", userID, sellerID, listingID, quantity)
	s.countOperation("add")

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}

	if _, err := s.listings.GetListing(ctx, sellerID, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("listing %s/%s is not available", sellerID, listingID)
		}
		return nil, fmt.Errorf("could not verify listing %s/%s: %w", sellerID, listingID, err)
	}

	if err := cart.AddItem(sellerID, listingID, quantity); err != nil {
		return nil, fmt.Errorf("could not add item to cart: %w", err)
	}
	if err := s.cartRepo.Save(ctx, cart, s.cartTTL); err != nil {
		return nil, fmt.Errorf("could not save cart: %w", err)
	}
	return s.enrichAndConvertCart(ctx, cart)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, sellerID, listingID string, newQuantity int) (*CartView, error) {
	s.log.Infof("Updating item quantity: UserID=%s, SellerID=%s, ListingID=%s, NewQuantity=%d", userID, sellerID, listingID, newQuantity)
	s.countOperation("update")

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}
	if err := cart.UpdateItemQuantity(sellerID, listingID, newQuantity); err != nil {
		return nil, fmt.Errorf("could not update item quantity: %w", err)
	}
	if err := s.cartRepo.Save(ctx, cart, s.cartTTL); err != nil {
		return nil, fmt.Errorf("could not save cart: %w", err)
	}
	return s.enrichAndConvertCart(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, sellerID, listingID string) (*CartView, error) {
	s.log.Infof("Removing item from cart: UserID=%s, SellerID=%s, ListingID=%s", userID, sellerID, listingID)
	s.countOperation("remove")

	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}
	if err := cart.RemoveItem(sellerID, listingID); err != nil {
		return nil, fmt.Errorf("could not remove item from cart: %w", err)
	}
	if err := s.cartRepo.Save(ctx, cart, s.cartTTL); err != nil {
		return nil, fmt.Errorf("could not save cart: %w", err)
	}
	return s.enrichAndConvertCart(ctx, cart)
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	s.countOperation("get")
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve cart: %w", err)
	}
	return s.enrichAndConvertCart(ctx, cart)
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	s.log.Infof("Clearing cart for user: UserID=%s", userID)
	s.countOperation("clear")
	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("could not clear cart: %w", err)
	}
	return nil
}
