package server

import (
	"encoding/json"
	"net/http"

	"beatstore/logger"
	"beatstore/model"
	"beatstore/storage"
)

// UploadAssetsHandler stores tier asset files for a beat. Expected
// multipart form fields:
// - files: one or more asset files
// - beatId: the owning beat
// - licenseType: basic|premium|unlimited
func (h *APIHandler) UploadAssetsHandler(w http.ResponseWriter, r *http.Request) {
	store := storage.GetAssetStore()
	if store == nil {
		http.Error(w, "Object store not available", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "invalid multipart form"})
		return
	}

	beatID := r.FormValue("beatId")
	tier := model.Tier(r.FormValue("licenseType"))
	if beatID == "" {
		writeError(w, &model.ValidationError{Field: "beatId", Reason: "required"})
		return
	}
	switch tier {
	case model.TierBasic, model.TierPremium, model.TierUnlimited:
	default:
		writeError(w, &model.ValidationError{Field: "licenseType", Reason: "must be basic, premium or unlimited"})
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, &model.ValidationError{Field: "files", Reason: "no files provided"})
		return
	}

	uploaded := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			writeError(w, &model.ValidationError{Field: "files", Reason: "unreadable file " + header.Filename})
			return
		}

		key, err := store.UploadAsset(r.Context(), beatID, tier, header.Filename,
			header.Header.Get("Content-Type"), file, header.Size)
		file.Close()
		if err != nil {
			logger.Error("asset upload failed",
				logger.String("beatId", beatID),
				logger.String("file", header.Filename),
				logger.ErrorField(err))
			writeError(w, err)
			return
		}
		uploaded = append(uploaded, key)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"files":   uploaded,
		"count":   len(uploaded),
	})
}

// DownloadHandler exchanges a stored asset key for a temporary download
// URL.
func (h *APIHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	store := storage.GetAssetStore()
	if store == nil {
		http.Error(w, "Object store not available", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		FileID string `json:"fileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileID == "" {
		writeError(w, &model.ValidationError{Field: "fileId", Reason: "required"})
		return
	}

	url, err := store.DownloadURL(r.Context(), req.FileID)
	if err != nil {
		logger.Error("failed to presign download", logger.String("fileId", req.FileID), logger.ErrorField(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"downloadUrl": url,
		"expiresIn":   storage.DownloadURLValidity.String(),
	})
}
