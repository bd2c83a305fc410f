package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mumbramart/storefront-service/internal/app/config"
	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
	"github.com/mumbramart/storefront-service/internal/position"
	"github.com/mumbramart/storefront-service/internal/ranking"
	"github.com/mumbramart/storefront-service/internal/service"
)

const testJWTSecret = "test-secret"

type stubStorefront struct {
	lastPos *entity.Coordinate
}

func (s *stubStorefront) Home(ctx context.Context, pos *entity.Coordinate) (*service.StorefrontView, error) {
	s.lastPos = pos
	view := &service.StorefrontView{All: []ranking.RankedListing{}, Nearby: []ranking.RankedListing{}}
	if pos == nil {
		view.LocationNote = service.LocationUnavailableNote
	}
	return view, nil
}

func (s *stubStorefront) Search(ctx context.Context, pos *entity.Coordinate, term string, category entity.Category) (*service.StorefrontView, error) {
	return s.Home(ctx, pos)
}

func (s *stubStorefront) Shops(ctx context.Context, pos *entity.Coordinate, term string) ([]ranking.RankedShop, error) {
	s.lastPos = pos
	return []ranking.RankedShop{}, nil
}

func (s *stubStorefront) Start(ctx context.Context) error { return nil }

type stubCart struct {
	lastUserID string
}

func (s *stubCart) AddItem(ctx context.Context, userID, sellerID, listingID string, quantity int) (*service.CartView, error) {
	s.lastUserID = userID
	return &service.CartView{UserID: userID, Items: []service.CartItemView{}}, nil
}

func (s *stubCart) UpdateItemQuantity(ctx context.Context, userID, sellerID, listingID string, newQuantity int) (*service.CartView, error) {
	s.lastUserID = userID
	return &service.CartView{UserID: userID, Items: []service.CartItemView{}}, nil
}

func (s *stubCart) RemoveItem(ctx context.Context, userID, sellerID, listingID string) (*service.CartView, error) {
	s.lastUserID = userID
	return &service.CartView{UserID: userID, Items: []service.CartItemView{}}, nil
}

func (s *stubCart) GetCart(ctx context.Context, userID string) (*service.CartView, error) {
	s.lastUserID = userID
	return &service.CartView{UserID: userID, Items: []service.CartItemView{}}, nil
}

func (s *stubCart) ClearCart(ctx context.Context, userID string) error {
	s.lastUserID = userID
	return nil
}

func newTestServer(t *testing.T) (*Server, *stubStorefront, *stubCart) {
	t.Helper()
	log := logger.NewNoOp()
	resolver, err := position.NewResolver("", log)
	require.NoError(t, err)

	storefront := &stubStorefront{}
	cart := &stubCart{}
	handlers := Handlers{
		Storefront: NewStorefrontHandler(storefront, resolver, log),
		Cart:       NewCartHandler(cart, log),
		Admin:      NewAdminHandler(nil, log),
	}
	srv := NewServer(config.HTTPServerConfig{Port: "0"}, testJWTSecret, handlers, nil, log)
	return srv, storefront, cart
}

func signToken(t *testing.T, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func TestServer_Healthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_StorefrontIsPublic(t *testing.T) {
	srv, storefront, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/storefront", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, storefront.lastPos)

	var view service.StorefrontView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, service.LocationUnavailableNote, view.LocationNote)
}

func TestServer_StorefrontPassesExplicitPosition(t *testing.T) {
	srv, storefront, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/storefront?lat=28.6139&lon=77.2090", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, storefront.lastPos)
	assert.InDelta(t, 28.6139, storefront.lastPos.Latitude, 1e-9)
	assert.InDelta(t, 77.2090, storefront.lastPos.Longitude, 1e-9)
}

func TestServer_MalformedPositionDegrades(t *testing.T) {
	srv, storefront, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/storefront?lat=abc&lon=77.2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, storefront.lastPos)
}

func TestServer_CartRequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_CartWithValidToken(t *testing.T) {
	srv, _, cart := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user42", time.Hour))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user42", cart.lastUserID)
}

func TestServer_ExpiredTokenRejected(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user42", -time.Hour))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestServer_AddItemValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := strings.NewReader(`{"seller_id":"","listing_id":"l1","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", body)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user42", time.Hour))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_AdminRoutesRequireAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := strings.NewReader(`{"name":"Corner Cycles","latitude":28.6,"longitude":77.2}`)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/my/shop", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
