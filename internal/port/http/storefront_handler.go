package http

import (
	"errors"
	"net/http"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/position"
	"github.com/mumbramart/storefront-service/internal/repository"
	"github.com/mumbramart/storefront-service/internal/service"
)

// StorefrontHandler serves the buyer-facing read endpoints. All of them are
// public and all of them degrade gracefully when no position can be
// resolved for the request.
type StorefrontHandler struct {
	storefront service.StorefrontService
	resolver   *position.Resolver
	logger     logger.Logger
}

func NewStorefrontHandler(storefront service.StorefrontService, resolver *position.Resolver, log logger.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		storefront: storefront,
		resolver:   resolver,
		logger:     log,
	}
}

// requesterPosition resolves the request's position from explicit lat/lon
// query parameters, with a GeoIP fallback on the remote address. A nil
// result means the degraded, distance-less view.
func (h *StorefrontHandler) requesterPosition(r *http.Request) *entity.Coordinate {
	q := r.URL.Query()
	return h.resolver.Resolve(q.Get("lat"), q.Get("lon"), r.RemoteAddr)
}

func (h *StorefrontHandler) writeStorefrontError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrCatalogUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "catalog is temporarily unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to load storefront")
}

func (h *StorefrontHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	view, err := h.storefront.Home(r.Context(), h.requesterPosition(r))
	if err != nil {
		h.logger.Errorf("StorefrontHandler: home view failed: %v", err)
		h.writeStorefrontError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *StorefrontHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := q.Get("q")
	category := entity.Category(q.Get("category"))

	view, err := h.storefront.Search(r.Context(), h.requesterPosition(r), term, category)
	if err != nil {
		h.logger.Errorf("StorefrontHandler: search failed: %v", err)
		h.writeStorefrontError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *StorefrontHandler) HandleShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.storefront.Shops(r.Context(), h.requesterPosition(r), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Errorf("StorefrontHandler: shop directory failed: %v", err)
		h.writeStorefrontError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"shops": shops})
}
