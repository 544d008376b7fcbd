package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"beatstore/core/beat"
	"beatstore/core/contract"
	"beatstore/core/whop"
	"beatstore/logger"
	"beatstore/model"
)

// CreateWhopProductHandler provisions the commerce product and pricing plan
// for one tier of a beat. The upload flow calls it once per tier and passes
// the returned ids into beat creation.
func (h *APIHandler) CreateWhopProductHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string          `json:"name"`
		Price   beat.FlexNumber `json:"price"`
		License string          `json:"license"`
		Tier    model.Tier      `json:"licenseType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	if req.Name == "" {
		writeError(w, &model.ValidationError{Field: "name", Reason: "required"})
		return
	}
	if !req.Price.Valid || req.Price.Value < 0 {
		writeError(w, &model.ValidationError{Field: "price", Reason: "must be a non-negative number"})
		return
	}
	switch req.Tier {
	case model.TierBasic, model.TierPremium, model.TierUnlimited:
	default:
		writeError(w, &model.ValidationError{Field: "licenseType", Reason: "must be basic, premium or unlimited"})
		return
	}

	provisioned, err := h.whopClient.ProvisionTier(r.Context(), req.Name, req.Tier, req.License, req.Price.Value)
	if err != nil {
		logger.Error("failed to provision whop product",
			logger.String("name", req.Name),
			logger.String("tier", string(req.Tier)),
			logger.ErrorField(err))
		writeError(w, err)
		return
	}

	logger.Info("whop product provisioned",
		logger.String("tier", string(req.Tier)),
		logger.String("productId", provisioned.ProductID))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"id":           provisioned.ProductID,
		"purchase_url": provisioned.PurchaseURL,
	})
}

// WhopWebhookHandler receives payment.succeeded events, renders the license
// contract for the purchase and logs it. Contract generation failing never
// fails the webhook acknowledgement.
func (h *APIHandler) WhopWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Unreadable request body", http.StatusBadRequest)
		return
	}

	if !whop.VerifySignature(h.cfg.WhopWebhookSecret, body, r.Header.Get("X-Whop-Signature")) {
		logger.Warn("webhook signature rejected", logger.String("remoteAddr", r.RemoteAddr))
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	purchase, err := whop.ParsePurchase(body, time.Now())
	if err != nil {
		logger.Warn("webhook rejected", logger.ErrorField(err))
		writeError(w, &model.ValidationError{Field: "webhook", Reason: err.Error()})
		return
	}

	logger.Info("payment succeeded",
		logger.String("buyer", purchase.BuyerName),
		logger.String("beatTitle", purchase.BeatTitle),
		logger.String("tier", string(purchase.Tier)),
		logger.Float64("price", purchase.PriceDollars))

	html, err := contract.GenerateHTML(contract.Data{
		BuyerName:     purchase.BuyerName,
		BeatTitle:     purchase.BeatTitle,
		Tier:          purchase.Tier,
		PriceDollars:  purchase.PriceDollars,
		PurchaseDate:  purchase.Date,
		ProducerName:  h.cfg.ProducerName,
		ProducerEmail: h.cfg.ProducerEmail,
	}, h.licenseRepo.Get(r.Context()))
	if err != nil {
		logger.Error("contract generation failed for purchase", logger.ErrorField(err))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Payment recorded, contract generation failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Contract generated",
		"contractHTML": html,
	})
}

// GenerateContractHandler renders a license contract on demand, used by the
// thank-you flow and as the webhook's manual fallback.
func (h *APIHandler) GenerateContractHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuyerName    string          `json:"buyerName"`
		BeatTitle    string          `json:"beatTitle"`
		Tier         model.Tier      `json:"licenseType"`
		Price        beat.FlexNumber `json:"price"`
		PurchaseDate string          `json:"purchaseDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}
	if req.BuyerName == "" {
		writeError(w, &model.ValidationError{Field: "buyerName", Reason: "required"})
		return
	}
	if req.BeatTitle == "" {
		writeError(w, &model.ValidationError{Field: "beatTitle", Reason: "required"})
		return
	}
	switch req.Tier {
	case model.TierBasic, model.TierPremium, model.TierUnlimited:
	default:
		writeError(w, &model.ValidationError{Field: "licenseType", Reason: "must be basic, premium or unlimited"})
		return
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != "" {
		if parsed, err := time.Parse(time.RFC3339, req.PurchaseDate); err == nil {
			purchaseDate = parsed
		}
	}

	data := contract.Data{
		BuyerName:     req.BuyerName,
		BeatTitle:     req.BeatTitle,
		Tier:          req.Tier,
		PriceDollars:  req.Price.Value,
		PurchaseDate:  purchaseDate,
		ProducerName:  h.cfg.ProducerName,
		ProducerEmail: h.cfg.ProducerEmail,
	}

	html, err := contract.GenerateHTML(data, h.licenseRepo.Get(r.Context()))
	if err != nil {
		logger.Error("contract generation failed", logger.ErrorField(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"contractHTML": html,
		"fileName":     data.FileName(),
	})
}
