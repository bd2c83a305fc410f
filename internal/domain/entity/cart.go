package entity

import (
	"errors"
	"time"
)

// CartItem references a listing by its composite (seller, listing) key,
// since listing IDs are only unique within one seller's catalog.
type CartItem struct {
	SellerID  string `json:"seller_id"`
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
}

func NewCartItem(sellerID, listingID string, quantity int) (*CartItem, error) {
	if sellerID == "" || listingID == "" {
		return nil, errors.New("cart item requires seller and listing IDs")
	}
	if quantity <= 0 {
		return nil, errors.New("cart item quantity must be positive")
	}
	return &CartItem{SellerID: sellerID, ListingID: listingID, Quantity: quantity}, nil
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(userID string) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     make([]CartItem, 0),
		UpdatedAt: time.Now().UTC(),
	}
}

func (c *Cart) GetItem(sellerID, listingID string) (*CartItem, int) {
	for i, item := range c.Items {
		if item.SellerID == sellerID && item.ListingID == listingID {
			return &c.Items[i], i
		}
	}
	return nil, -1
}

func (c *Cart) AddItem(sellerID, listingID string, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity to add must be positive")
	}

	item, _ := c.GetItem(sellerID, listingID)
	if item != nil {
		item.Quantity += quantity
	} else {
		newItem, err := NewCartItem(sellerID, listingID, quantity)
		if err != nil {
			return err
		}
		c.Items = append(c.Items, *newItem)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Cart) UpdateItemQuantity(sellerID, listingID string, newQuantity int) error {
	item, index := c.GetItem(sellerID, listingID)
	if item == nil {
		return errors.New("item not found in cart")
	}

	if newQuantity <= 0 {
		c.Items = append(c.Items[:index], c.Items[index+1:]...)
	} else {
		item.Quantity = newQuantity
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Cart) RemoveItem(sellerID, listingID string) error {
	_, index := c.GetItem(sellerID, listingID)
	if index == -1 {
		return errors.New("item not found in cart to remove")
	}

	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now().UTC()
}
