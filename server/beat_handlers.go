package server

import (
	"encoding/json"
	"net/http"
	"time"

	"beatstore/core/beat"
	"beatstore/core/catalog"
	"beatstore/logger"
	"beatstore/model"
	"beatstore/storage"

	"github.com/gorilla/mux"
)

// CatalogHandler serves the public catalog: listed beats only, optionally
// filtered by a ?q= title search. The unfiltered listing is served from the
// Redis cache when warm.
func (h *APIHandler) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	listed := catalog.GetCachedListed(r.Context())
	if listed == nil {
		records, err := h.beatRepo.ListAll(r.Context())
		if err != nil {
			logger.Error("failed to list beats for catalog", logger.ErrorField(err))
			writeError(w, err)
			return
		}
		listed = catalog.ListedOnly(records)
		catalog.SetCachedListed(r.Context(), listed)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"beats":   catalog.Search(listed, query),
	})
}

// CatalogDetailHandler serves one listed beat for the public detail page.
func (h *APIHandler) CatalogDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.beatRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !record.Listed {
		// Unlisted beats are invisible to the public surface.
		writeError(w, model.ErrBeatNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"beat":    record,
	})
}

// GetBeatsHandler returns every beat, newest first, for the admin UI.
func (h *APIHandler) GetBeatsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.beatRepo.ListAll(r.Context())
	if err != nil {
		logger.Error("failed to list beats", logger.ErrorField(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"beats":   records,
	})
}

// GetBeatHandler returns one beat regardless of listing state.
func (h *APIHandler) GetBeatHandler(w http.ResponseWriter, r *http.Request) {
	record, err := h.beatRepo.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"beat":    record,
	})
}

// CreateBeatHandler validates and persists a new beat record. The caller is
// expected to have provisioned the three tier products already and to pass
// their ids in the payload.
func (h *APIHandler) CreateBeatHandler(w http.ResponseWriter, r *http.Request) {
	var payload beat.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	record, err := beat.Normalize(&payload, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.beatRepo.Create(r.Context(), record); err != nil {
		logger.Error("failed to create beat", logger.String("beatId", record.ID), logger.ErrorField(err))
		writeError(w, err)
		return
	}
	catalog.InvalidateListed(r.Context())

	logger.Info("beat created",
		logger.String("beatId", record.ID),
		logger.String("title", record.Title))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      record.ID,
		"beat":    record,
	})
}

// UpdateBeatHandler merges a partial update into an existing beat.
func (h *APIHandler) UpdateBeatHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update model.BeatUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}

	record, err := h.beatRepo.Update(r.Context(), id, &update)
	if err != nil {
		writeError(w, err)
		return
	}
	catalog.InvalidateListed(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"beat":    record,
	})
}

// ListBeatHandler flips a beat to listed. Listing an already-listed beat is
// a no-op.
func (h *APIHandler) ListBeatHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	listed := true
	record, err := h.beatRepo.Update(r.Context(), id, &model.BeatUpdate{Listed: &listed})
	if err != nil {
		writeError(w, err)
		return
	}
	catalog.InvalidateListed(r.Context())

	logger.Info("beat listed", logger.String("beatId", id))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"beat":    record,
	})
}

// DeleteBeatHandler removes a beat. The three external products and the
// stored assets are deleted best-effort first; their failures are reported
// as counts, never as a reason to keep the local record.
func (h *APIHandler) DeleteBeatHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.beatRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	deletedProducts := h.whopClient.DeleteProducts(r.Context(), record.WhopProductIDs)

	removedAssets := 0
	if store := storage.GetAssetStore(); store != nil {
		removedAssets = store.RemoveBeatAssets(r.Context(), id, record.Assets)
	}

	if err := h.beatRepo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	catalog.InvalidateListed(r.Context())

	logger.Info("beat deleted",
		logger.String("beatId", id),
		logger.Int("deletedProducts", len(deletedProducts)),
		logger.Int("removedAssets", removedAssets))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"deletedProducts":      deletedProducts,
		"deletedProductsCount": len(deletedProducts),
		"removedAssetsCount":   removedAssets,
	})
}
