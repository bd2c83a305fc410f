package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/service"
)

type CartHandler struct {
	cart   service.CartService
	logger logger.Logger
}

func NewCartHandler(cart service.CartService, log logger.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: log}
}

type cartItemRequest struct {
	SellerID  string `json:"seller_id"`
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	view, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Errorf("CartHandler: get cart failed for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SellerID == "" || req.ListingID == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "seller_id, listing_id and a positive quantity are required")
		return
	}

	view, err := h.cart.AddItem(r.Context(), userID, req.SellerID, req.ListingID, req.Quantity)
	if err != nil {
		h.logger.Errorf("CartHandler: add item failed for user %s: %v", userID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sellerID := chi.URLParam(r, "sellerID")
	listingID := chi.URLParam(r, "listingID")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.cart.UpdateItemQuantity(r.Context(), userID, sellerID, listingID, req.Quantity)
	if err != nil {
		h.logger.Errorf("CartHandler: update item failed for user %s: %v", userID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sellerID := chi.URLParam(r, "sellerID")
	listingID := chi.URLParam(r, "listingID")

	view, err := h.cart.RemoveItem(r.Context(), userID, sellerID, listingID)
	if err != nil {
		h.logger.Errorf("CartHandler: remove item failed for user %s: %v", userID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.cart.ClearCart(r.Context(), userID); err != nil {
		h.logger.Errorf("CartHandler: clear cart failed for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
