package whop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"beatstore/model"
)

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		name     string
		dollars  float64
		expected int64
	}{
		{"whole dollars", 30, 3000},
		{"two decimals", 29.99, 2999},
		{"rounds up", 9.996, 1000},
		{"rounds down", 9.994, 999},
		{"rounds repeating float", 0.1 + 0.2, 30},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DollarsToCents(tt.dollars); got != tt.expected {
				t.Errorf("DollarsToCents(%v) = %d, want %d", tt.dollars, got, tt.expected)
			}
		})
	}
}

func TestProductTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		tier     model.Tier
		expected string
	}{
		{"short title", "Midnight", model.TierBasic, "Midnight - basic"},
		{"exactly twenty chars", strings.Repeat("a", 20), model.TierPremium, strings.Repeat("a", 20) + " - premium"},
		{"long title truncated", strings.Repeat("a", 30), model.TierUnlimited, strings.Repeat("a", 20) + "... - unlimited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := productTitle(tt.title, tt.tier); got != tt.expected {
				t.Errorf("productTitle = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProvisionTier(t *testing.T) {
	var gotPlanBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/products":
			json.NewEncoder(w).Encode(Product{ID: "prod_123", Title: "Midnight - basic"})
		case r.Method == http.MethodPost && r.URL.Path == "/plans":
			json.NewDecoder(r.Body).Decode(&gotPlanBody)
			json.NewEncoder(w).Encode(Plan{ID: "plan_1", ProductID: "prod_123", PurchaseURL: "https://whop.com/checkout/plan_1"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "biz_1")
	provisioned, err := client.ProvisionTier(context.Background(), "Midnight", model.TierBasic, "basic terms", 29.99)
	if err != nil {
		t.Fatalf("ProvisionTier failed: %v", err)
	}

	if provisioned.ProductID != "prod_123" {
		t.Errorf("ProductID = %q, want prod_123", provisioned.ProductID)
	}
	if provisioned.PurchaseURL != "https://whop.com/checkout/plan_1" {
		t.Errorf("PurchaseURL = %q", provisioned.PurchaseURL)
	}
	// Dollars are converted to cents exactly once, at the wire boundary.
	if cents, ok := gotPlanBody["initial_price_cents"].(float64); !ok || int64(cents) != 2999 {
		t.Errorf("initial_price_cents = %v, want 2999", gotPlanBody["initial_price_cents"])
	}
}

func TestDeleteProducts_PartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		// The premium product is already gone upstream.
		if strings.HasSuffix(r.URL.Path, "prod_p") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "{}")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "biz_1")
	deleted := client.DeleteProducts(context.Background(), model.TierSet[string]{
		Basic: "prod_b", Premium: "prod_p", Unlimited: "prod_u",
	})

	if len(deleted) != 2 {
		t.Fatalf("deleted %d products, want 2: %v", len(deleted), deleted)
	}
	for _, id := range deleted {
		if id == "prod_p" {
			t.Error("failed deletion reported as deleted")
		}
	}
}

func TestDeleteProducts_SkipsEmptyIDs(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, "{}")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "biz_1")
	deleted := client.DeleteProducts(context.Background(), model.TierSet[string]{Basic: "prod_b"})

	if calls != 1 || len(deleted) != 1 {
		t.Errorf("calls = %d, deleted = %v; want one call, one deletion", calls, deleted)
	}
}
