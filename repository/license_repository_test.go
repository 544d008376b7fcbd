package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"beatstore/model"
)

func TestLicenseTerms_DefaultsWhenNeverSaved(t *testing.T) {
	ctx := context.Background()
	repo := NewFileLicenseTermsRepository(filepath.Join(t.TempDir(), "license-terms.json"))

	terms := repo.Get(ctx)
	for _, tier := range model.Tiers() {
		tt := terms.Get(tier)
		if tt.Name == "" || tt.Streams == "" || tt.Sales == "" || tt.Videos == "" ||
			tt.Performances == "" || tt.Publishing == "" || tt.Description == "" {
			t.Errorf("default terms for %s have empty display fields: %+v", tier, tt)
		}
		if len(tt.CanDo) == 0 || len(tt.CannotDo) == 0 {
			t.Errorf("default terms for %s have empty clause lists", tier)
		}
	}
}

func TestLicenseTerms_SaveOverwritesAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "license-terms.json")
	repo := NewFileLicenseTermsRepository(path)

	terms := model.DefaultLicenseTerms()
	terms.Basic.Streams = "999"
	raw, err := json.Marshal(terms)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if _, err := repo.Save(ctx, raw); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh repository on the same file sees the saved document.
	got := NewFileLicenseTermsRepository(path).Get(ctx)
	if got.Basic.Streams != "999" {
		t.Errorf("Streams after save = %q, want %q", got.Basic.Streams, "999")
	}
}

func TestValidateLicenseTerms_MissingFieldNamesFieldAndTier(t *testing.T) {
	var doc map[string]map[string]interface{}
	raw, _ := json.Marshal(model.DefaultLicenseTerms())
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("failed to decode default terms: %v", err)
	}
	delete(doc["premium"], "cannotDo")
	mutated, _ := json.Marshal(doc)

	err := ValidateLicenseTerms(mutated)
	if err == nil {
		t.Fatal("ValidateLicenseTerms returned nil, want error")
	}
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("ValidateLicenseTerms returned %T, want *model.ValidationError", err)
	}
	if !strings.Contains(err.Error(), "cannotDo") || !strings.Contains(err.Error(), "premium") {
		t.Errorf("error %q should mention cannotDo and premium", err.Error())
	}
}

func TestValidateLicenseTerms_MissingTier(t *testing.T) {
	var doc map[string]json.RawMessage
	raw, _ := json.Marshal(model.DefaultLicenseTerms())
	json.Unmarshal(raw, &doc)
	delete(doc, "unlimited")
	mutated, _ := json.Marshal(doc)

	err := ValidateLicenseTerms(mutated)
	if err == nil || !strings.Contains(err.Error(), "unlimited") {
		t.Errorf("ValidateLicenseTerms = %v, want error naming unlimited", err)
	}
}

func TestLicenseTerms_SaveRejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "license-terms.json")
	repo := NewFileLicenseTermsRepository(path)

	if _, err := repo.Save(ctx, []byte(`{"basic": {}}`)); err == nil {
		t.Fatal("Save of partial document succeeded, want ValidationError")
	}

	// The stored document is untouched: Get still serves defaults.
	terms := repo.Get(ctx)
	if terms.Basic.Name != model.DefaultLicenseTerms().Basic.Name {
		t.Error("failed save mutated the stored document")
	}
}
