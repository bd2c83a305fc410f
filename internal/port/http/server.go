package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mumbramart/storefront-service/internal/app/config"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/platform/metrics"
)

// Server wraps the HTTP listener and its routing table.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

type Handlers struct {
	Storefront *StorefrontHandler
	Cart       *CartHandler
	Admin      *AdminHandler
}

func NewServer(cfg config.HTTPServerConfig, jwtSecret string, h Handlers, m *metrics.Manager, log logger.Logger) *Server {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(RequestLogger(log))
	mux.Use(RequestMetrics(m))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Buyer-facing reads are public. Position comes from lat/lon query
	// params or the GeoIP fallback, never from auth.
	mux.Get("/api/storefront", h.Storefront.HandleHome)
	mux.Get("/api/storefront/search", h.Storefront.HandleSearch)
	mux.Get("/api/shops", h.Storefront.HandleShops)

	mux.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, log))

		r.Get("/api/cart", h.Cart.HandleGetCart)
		r.Post("/api/cart/items", h.Cart.HandleAddItem)
		r.Put("/api/cart/items/{sellerID}/{listingID}", h.Cart.HandleUpdateItem)
		r.Delete("/api/cart/items/{sellerID}/{listingID}", h.Cart.HandleRemoveItem)
		r.Delete("/api/cart", h.Cart.HandleClearCart)

		r.Put("/api/my/shop", h.Admin.HandleUpsertShop)
		r.Post("/api/my/listings", h.Admin.HandlePublishListing)
		r.Put("/api/my/listings/{listingID}", h.Admin.HandleUpdateListing)
		r.Delete("/api/my/listings/{listingID}", h.Admin.HandleDeleteListing)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: log,
	}
}

// Router exposes the routing table, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
