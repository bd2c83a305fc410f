package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/repository"
	"github.com/mumbramart/storefront-service/internal/service"
)

// AdminHandler serves the seller-facing catalog management endpoints. The
// authenticated user is the seller: sellers can only mutate their own shop
// and listings.
type AdminHandler struct {
	admin  service.CatalogAdminService
	logger logger.Logger
}

func NewAdminHandler(admin service.CatalogAdminService, log logger.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: log}
}

type shopRequest struct {
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type listingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func (h *AdminHandler) HandleUpsertShop(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req shopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shop, err := h.admin.RegisterShop(r.Context(), sellerID, service.ShopInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		h.logger.Errorf("AdminHandler: upsert shop failed for seller %s: %v", sellerID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

func (h *AdminHandler) HandlePublishListing(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.admin.PublishListing(r.Context(), sellerID, service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    entity.Category(req.Category),
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.logger.Errorf("AdminHandler: publish listing failed for seller %s: %v", sellerID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *AdminHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	listingID := chi.URLParam(r, "listingID")

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.admin.UpdateListing(r.Context(), sellerID, listingID, service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    entity.Category(req.Category),
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Errorf("AdminHandler: update listing %s failed for seller %s: %v", listingID, sellerID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *AdminHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	listingID := chi.URLParam(r, "listingID")

	if err := h.admin.DeleteListing(r.Context(), sellerID, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Errorf("AdminHandler: delete listing %s failed for seller %s: %v", listingID, sellerID, err)
		writeError(w, http.StatusInternalServerError, "failed to delete listing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
