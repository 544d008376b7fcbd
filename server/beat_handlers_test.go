package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"beatstore/config"
	"beatstore/core/whop"
	"beatstore/model"
	"beatstore/repository"

	"github.com/gorilla/mux"
)

// newTestServer wires the handlers against in-memory storage and a stubbed
// payments API.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	whopStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{}")
	}))
	t.Cleanup(whopStub.Close)

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AdminPassword: "hunter2",
		ProducerName:  "Producer",
		ProducerEmail: "producer@example.com",
	}

	h := NewAPIHandler(
		repository.NewFileBeatRepository(""),
		repository.NewFileLicenseTermsRepository(filepath.Join(t.TempDir(), "license-terms.json")),
		whop.NewClient(whopStub.URL, "test-key", "biz_1"),
		cfg,
	)

	router := mux.NewRouter()
	router.HandleFunc("/api/catalog", h.CatalogHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/catalog/{id}", h.CatalogDetailHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/license-terms", h.GetLicenseTermsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/beats", h.AuthMiddleware(h.GetBeatsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/beats", h.AuthMiddleware(h.CreateBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}", h.AuthMiddleware(h.DeleteBeatHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/beats/{id}/list", h.AuthMiddleware(h.ListBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/license-terms", h.AuthMiddleware(h.SaveLicenseTermsHandler)).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"password": "hunter2"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return body.Token
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

const createBody = `{
	"title": "Midnight Drive (Remix)!",
	"youtubeUrl": "https://youtube.com/watch?v=abc123&t=10",
	"whopProductIds": {"basic": "prod_b", "premium": "prod_p", "unlimited": "prod_u"},
	"prices": {"basic": 29.99, "premium": 49.99, "unlimited": 99},
	"licenses": {"basic": "b", "premium": "p", "unlimited": "u"}
}`

func TestBeatLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// Admin surface rejects anonymous callers.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/beats", "", createBody)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create status = %d, want 401", resp.StatusCode)
	}

	// Create.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/beats", token, createBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d: %v", resp.StatusCode, body)
	}
	beatID := body["id"].(string)
	beat := body["beat"].(map[string]interface{})
	if beat["slug"] != "midnight-drive-remix" {
		t.Errorf("slug = %v", beat["slug"])
	}
	if !strings.Contains(beat["thumbnailUrl"].(string), "abc123") {
		t.Errorf("thumbnailUrl = %v", beat["thumbnailUrl"])
	}

	// Unlisted beats stay off the public catalog.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/catalog", "", "")
	if got := len(body["beats"].([]interface{})); got != 0 {
		t.Errorf("catalog shows %d beats before listing, want 0", got)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/catalog/"+beatID, "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unlisted detail status = %d, want 404", resp.StatusCode)
	}

	// Listing twice is idempotent.
	for i := 0; i < 2; i++ {
		resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/beats/"+beatID+"/list", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("list action %d status = %d", i, resp.StatusCode)
		}
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/catalog", "", "")
	if got := len(body["beats"].([]interface{})); got != 1 {
		t.Fatalf("catalog shows %d beats after listing, want 1", got)
	}

	// Title search is case-insensitive.
	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/catalog?q=MIDNIGHT", "", "")
	if got := len(body["beats"].([]interface{})); got != 1 {
		t.Errorf("search found %d beats, want 1", got)
	}
	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/catalog?q=nope", "", "")
	if got := len(body["beats"].([]interface{})); got != 0 {
		t.Errorf("search found %d beats, want 0", got)
	}

	// Delete reports per-product outcomes and removes the record.
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/beats/"+beatID, token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if count := body["deletedProductsCount"].(float64); count != 3 {
		t.Errorf("deletedProductsCount = %v, want 3", count)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/beats/"+beatID, token, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateBeat_ValidationNamesTier(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	partial := strings.Replace(createBody, `"premium": "prod_p", `, "", 1)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/beats", token, partial)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("create status = %d, want 400", resp.StatusCode)
	}
	errMsg := body["error"].(string)
	if !strings.Contains(errMsg, "whopProductIds") || !strings.Contains(errMsg, "premium") {
		t.Errorf("error %q should name whopProductIds and premium", errMsg)
	}
}

func TestLicenseTermsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// Defaults before any save.
	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/license-terms", "", "")
	terms := body["terms"].(map[string]interface{})
	for _, tier := range model.Tiers() {
		if _, ok := terms[string(tier)]; !ok {
			t.Errorf("default terms missing tier %s", tier)
		}
	}

	// Saving a document with a missing field is rejected with field+tier.
	var doc map[string]map[string]interface{}
	raw, _ := json.Marshal(model.DefaultLicenseTerms())
	json.Unmarshal(raw, &doc)
	delete(doc["premium"], "cannotDo")
	mutated, _ := json.Marshal(doc)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/license-terms", token, string(mutated))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid save status = %d, want 400", resp.StatusCode)
	}
	errMsg := body["error"].(string)
	if !strings.Contains(errMsg, "cannotDo") || !strings.Contains(errMsg, "premium") {
		t.Errorf("error %q should mention cannotDo and premium", errMsg)
	}

	// A full document saves and round-trips.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/license-terms", token, string(raw))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid save status = %d", resp.StatusCode)
	}
}
