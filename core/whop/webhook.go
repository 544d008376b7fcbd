package whop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"beatstore/model"
)

// WebhookEvent is the wire shape of a Whop webhook delivery.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		FinalAmount float64 `json:"final_amount"`
		User        struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
		Product struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"product"`
	} `json:"data"`
}

// Purchase is a normalized payment-succeeded event.
type Purchase struct {
	BuyerName    string
	BuyerEmail   string
	BeatTitle    string
	ProductID    string
	Tier         model.Tier
	PriceDollars float64
	Date         time.Time
}

// VerifySignature checks the hex HMAC-SHA256 signature of a webhook body.
// An empty secret disables verification.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimPrefix(signature, "sha256=")))
}

// TierFromProductTitle recovers the license tier from a provisioned product
// title, which carries the tier as a suffix. Unknown titles default to
// basic.
func TierFromProductTitle(title string) model.Tier {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, string(model.TierUnlimited)):
		return model.TierUnlimited
	case strings.Contains(lower, string(model.TierPremium)):
		return model.TierPremium
	default:
		return model.TierBasic
	}
}

// ParsePurchase decodes a webhook body and extracts the purchase from a
// payment.succeeded event. Other event types are rejected.
func ParsePurchase(body []byte, now time.Time) (*Purchase, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook body: %w", err)
	}
	if event.Type != "payment.succeeded" {
		return nil, fmt.Errorf("unexpected webhook type %q", event.Type)
	}

	purchase := &Purchase{
		BuyerName:    event.Data.User.Name,
		BuyerEmail:   event.Data.User.Email,
		BeatTitle:    event.Data.Product.Title,
		ProductID:    event.Data.Product.ID,
		Tier:         TierFromProductTitle(event.Data.Product.Title),
		PriceDollars: event.Data.FinalAmount,
		Date:         now.UTC(),
	}
	if purchase.BuyerName == "" {
		purchase.BuyerName = "Valued Customer"
	}
	if purchase.BeatTitle == "" {
		purchase.BeatTitle = "Beat Purchase"
	}
	return purchase, nil
}
