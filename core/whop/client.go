// Package whop is a client for the Whop payments platform: product and plan
// provisioning keyed by license tier, product deletion, and webhook parsing.
package whop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"beatstore/logger"
	"beatstore/model"
)

// Client talks to the Whop REST API.
type Client struct {
	baseURL    string
	apiKey     string
	companyID  string
	httpClient *http.Client
}

// NewClient creates a Whop API client.
func NewClient(baseURL, apiKey, companyID string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		companyID: companyID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Product is a provisioned commerce product.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Plan is a pricing plan attached to a product.
type Plan struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	PurchaseURL string `json:"purchase_url"`
}

// TierProduct is the outcome of provisioning one tier: the product id the
// beat record stores and the checkout URL buyers are sent to.
type TierProduct struct {
	ProductID   string
	PurchaseURL string
}

// DollarsToCents converts a dollar price to integer cents, rounding half
// away from zero. Stored prices are dollars; the wire carries cents.
func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// productTitle renders the platform product title. The platform caps titles
// at 40 characters, so long beat names are truncated before the tier suffix.
func productTitle(beatTitle string, tier model.Tier) string {
	name := beatTitle
	if len(name) > 20 {
		name = name[:20] + "..."
	}
	return fmt.Sprintf("%s - %s", name, tier)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// CreateProduct creates the product for one tier of a beat.
func (c *Client) CreateProduct(ctx context.Context, beatTitle string, tier model.Tier, license string) (*Product, error) {
	payload := map[string]any{
		"company_id":  c.companyID,
		"title":       productTitle(beatTitle, tier),
		"description": license,
	}

	product := &Product{}
	if err := c.do(ctx, http.MethodPost, "/products", payload, product); err != nil {
		return nil, &model.ExternalServiceError{Service: "whop", Op: "create product", Err: err}
	}
	return product, nil
}

// CreatePlan attaches a one-time plan carrying the price. Without an
// explicit plan the platform hides pricing on the product page.
func (c *Client) CreatePlan(ctx context.Context, productID string, priceDollars float64) (*Plan, error) {
	payload := map[string]any{
		"company_id":          c.companyID,
		"product_id":          productID,
		"plan_type":           "one_time",
		"initial_price_cents": DollarsToCents(priceDollars),
	}

	plan := &Plan{}
	if err := c.do(ctx, http.MethodPost, "/plans", payload, plan); err != nil {
		return nil, &model.ExternalServiceError{Service: "whop", Op: "create plan", Err: err}
	}
	return plan, nil
}

// DeleteProduct removes one product.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if err := c.do(ctx, http.MethodDelete, "/products/"+productID, nil, nil); err != nil {
		return &model.ExternalServiceError{Service: "whop", Op: "delete product", Err: err}
	}
	return nil
}

// ProvisionTier creates the product and its plan for one tier.
func (c *Client) ProvisionTier(ctx context.Context, beatTitle string, tier model.Tier, license string, priceDollars float64) (*TierProduct, error) {
	product, err := c.CreateProduct(ctx, beatTitle, tier, license)
	if err != nil {
		return nil, err
	}

	plan, err := c.CreatePlan(ctx, product.ID, priceDollars)
	if err != nil {
		return nil, err
	}

	return &TierProduct{ProductID: product.ID, PurchaseURL: plan.PurchaseURL}, nil
}

// DeleteProducts deletes each product independently and returns the ids that
// were actually removed. A failed tier is logged and skipped; it never
// aborts the others.
func (c *Client) DeleteProducts(ctx context.Context, productIDs model.TierSet[string]) []string {
	deleted := make([]string, 0, 3)
	for _, tier := range model.Tiers() {
		productID := productIDs.Get(tier)
		if productID == "" {
			continue
		}
		if err := c.DeleteProduct(ctx, productID); err != nil {
			logger.Error("failed to delete whop product",
				logger.String("tier", string(tier)),
				logger.String("productId", productID),
				logger.ErrorField(err))
			continue
		}
		deleted = append(deleted, productID)
	}
	return deleted
}
