package resource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	resourceModel "github.com/carelinehq/careline/backend/internal/model/resource"
)

func setupRouter() *chi.Mux {
	store := resourceModel.NewMemoryStore(resourceModel.Seed())
	handler := New(store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestListResources(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/resources", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var items []resourceModel.Resource
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected seeded resources")
	}
	if !items[0].Crisis {
		t.Fatal("expected the primary entry to be a crisis line")
	}
}

func TestGetResourceByID(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/resources/crisis-lifeline", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var item resourceModel.Resource
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if item.ID != "crisis-lifeline" {
		t.Fatalf("unexpected resource: %+v", item)
	}
}

func TestGetResourceNotFound(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/resources/missing", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
