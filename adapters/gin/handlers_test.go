package themegin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/open-rails/themekit/entitlements"
	memorystore "github.com/open-rails/themekit/storage/memory"
	themetesting "github.com/open-rails/themekit/testing"
)

func newRouter(t *testing.T) (*gin.Engine, *entitlements.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	store, err := entitlements.Open(context.Background(), themetesting.DefaultCatalog(),
		memorystore.NewKV(), entitlements.Seed{Balance: 2450}, entitlements.WithLogger(log))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	r := gin.New()
	Mount(r, store)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, out
}

func TestWardrobeSnapshot(t *testing.T) {
	r, _ := newRouter(t)
	w, out := doJSON(t, r, http.MethodGet, "/wardrobe", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if out["active_item_id"] != "light" || out["balance"] != float64(2450) {
		t.Errorf("unexpected snapshot: %v", out)
	}
}

func TestPurchaseThenSelect(t *testing.T) {
	r, _ := newRouter(t)

	w, out := doJSON(t, r, http.MethodPost, "/wardrobe/purchase", gin.H{"item_id": "ocean"})
	if w.Code != http.StatusOK {
		t.Fatalf("purchase status = %d body = %v", w.Code, out)
	}
	if out["balance"] != float64(2351) || out["receipt_id"] == "" {
		t.Errorf("unexpected purchase response: %v", out)
	}

	w, out = doJSON(t, r, http.MethodPost, "/wardrobe/select", gin.H{"item_id": "ocean"})
	if w.Code != http.StatusOK {
		t.Fatalf("select status = %d body = %v", w.Code, out)
	}
	if out["active_item_id"] != "ocean" {
		t.Errorf("unexpected select response: %v", out)
	}
}

func TestRejectionCodes(t *testing.T) {
	r, store := newRouter(t)
	if _, err := store.AdjustBalance(context.Background(), 50-2450); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	cases := []struct {
		name   string
		path   string
		body   gin.H
		status int
		code   string
	}{
		{"unknown item", "/wardrobe/purchase", gin.H{"item_id": "neon"}, http.StatusNotFound, "unknown_item"},
		{"free item", "/wardrobe/purchase", gin.H{"item_id": "light"}, http.StatusConflict, "already_owned"},
		{"broke", "/wardrobe/purchase", gin.H{"item_id": "midnight"}, http.StatusPaymentRequired, "insufficient_balance"},
		{"not owned", "/wardrobe/select", gin.H{"item_id": "ocean"}, http.StatusForbidden, "not_owned"},
		{"underflow", "/wardrobe/balance", gin.H{"delta": -9999}, http.StatusPaymentRequired, "insufficient_balance"},
		{"missing id", "/wardrobe/select", gin.H{}, http.StatusBadRequest, "missing_item_id"},
		{"missing delta", "/wardrobe/balance", gin.H{}, http.StatusBadRequest, "missing_delta"},
	}
	for _, tc := range cases {
		w, out := doJSON(t, r, http.MethodPost, tc.path, tc.body)
		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.status)
		}
		if out["error"] != tc.code {
			t.Errorf("%s: error = %v, want %q", tc.name, out["error"], tc.code)
		}
	}
}

func TestBalanceAdjust(t *testing.T) {
	r, _ := newRouter(t)
	w, out := doJSON(t, r, http.MethodPost, "/wardrobe/balance", gin.H{"delta": 100})
	if w.Code != http.StatusOK || out["balance"] != float64(2550) {
		t.Errorf("status = %d body = %v", w.Code, out)
	}
}

func TestInvalidBody(t *testing.T) {
	r, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/wardrobe/purchase", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
