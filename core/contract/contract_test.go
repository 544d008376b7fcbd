package contract

import (
	"strings"
	"testing"
	"time"

	"beatstore/model"
)

func TestGenerateHTML(t *testing.T) {
	terms := model.DefaultLicenseTerms()
	data := Data{
		BuyerName:     "Ada Lovelace",
		BeatTitle:     "Midnight Drive",
		Tier:          model.TierPremium,
		PriceDollars:  49.99,
		PurchaseDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ProducerName:  "Producer",
		ProducerEmail: "producer@example.com",
	}

	html, err := GenerateHTML(data, terms)
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	for _, want := range []string{
		"Ada Lovelace",
		"Midnight Drive",
		terms.Premium.Name,
		terms.Premium.Streams,
		"$49.99",
		"June 1, 2025",
		"producer@example.com",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("contract missing %q", want)
		}
	}

	for _, clause := range terms.Premium.CanDo {
		if !strings.Contains(html, clause) {
			t.Errorf("contract missing canDo clause %q", clause)
		}
	}
	for _, clause := range terms.Premium.CannotDo {
		if !strings.Contains(html, clause) {
			t.Errorf("contract missing cannotDo clause %q", clause)
		}
	}
}

func TestGenerateHTML_EscapesBuyerInput(t *testing.T) {
	data := Data{
		BuyerName:    "<script>alert(1)</script>",
		BeatTitle:    "Beat",
		Tier:         model.TierBasic,
		PurchaseDate: time.Now(),
	}

	html, err := GenerateHTML(data, model.DefaultLicenseTerms())
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("buyer name rendered unescaped")
	}
}

func TestFileName(t *testing.T) {
	data := Data{BeatTitle: "Midnight Drive", Tier: model.TierUnlimited}
	if got := data.FileName(); got != "Midnight Drive_unlimited_License.html" {
		t.Errorf("FileName = %q", got)
	}
}
