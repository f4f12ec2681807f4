package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/menu"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/promo"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/storage"
	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/pkg/logger"
)

const testAPIKey = "apitest"

type testServer struct {
	handler http.Handler
	kv      *storage.MemoryKV
	cart    *cart.Store
	flow    *checkout.Flow
}

func newTestServer(t *testing.T, taxRate string) *testServer {
	t.Helper()

	log := logger.New("error")
	kv := storage.NewMemoryKV()
	store := storage.NewStore(kv, log)
	promos := promo.NewTable(promo.DefaultCodes)
	cartStore := cart.NewStore()
	catalog := menu.NewCatalog()
	engine := pricing.NewEngine(promos, decimal.RequireFromString(taxRate))

	carts := service.NewCartService(cartStore, catalog, store, log)
	menus := service.NewMenuService(catalog, store, log)
	flow := checkout.NewFlow(cartStore, engine, promos, store, nil, log)

	h := NewRouter(Router{
		Health:   NewHealthHandler(HealthInfo{Storage: "memory", Archive: "none"}, promos, log),
		Menu:     NewMenuHandler(menus, log),
		Cart:     NewCartHandler(carts, engine, log),
		Promo:    NewPromoHandler(promos, log),
		Checkout: NewCheckoutHandler(flow, log),
	}, config.AuthConfig{APIKeys: []string{testAPIKey}}, 5*time.Second, log)

	return &testServer{
		handler: h,
		kv:      kv,
		cart:    cartStore,
		flow:    flow,
	}
}

// do sends a request through the full router. Admin requests carry the
// test api key.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("api_key", testAPIKey)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

// seedMenu adds Soup 25, Steak 50 and Cake 30
func (s *testServer) seedMenu(t *testing.T) {
	t.Helper()

	for _, item := range []map[string]interface{}{
		{"category": "Starters", "name": "Soup", "desc": "Tomato", "price": "25"},
		{"category": "Mains", "name": "Steak", "desc": "Sirloin", "price": 50},
		{"category": "Desserts", "name": "Cake", "desc": "Chocolate", "price": "30.00"},
	} {
		if rr := s.do(t, http.MethodPost, "/api/menu", item, true); rr.Code != http.StatusCreated {
			t.Fatalf("seed %v: status %d body %s", item["name"], rr.Code, rr.Body.String())
		}
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v (%s)", err, rr.Body.String())
	}
}
