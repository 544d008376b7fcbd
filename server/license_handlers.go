package server

import (
	"io"
	"net/http"

	"beatstore/logger"
	"beatstore/model"
)

// GetLicenseTermsHandler returns the current license terms, falling back to
// the built-in defaults when nothing has been saved.
func (h *APIHandler) GetLicenseTermsHandler(w http.ResponseWriter, r *http.Request) {
	terms := h.licenseRepo.Get(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"terms":   terms,
	})
}

// SaveLicenseTermsHandler validates and fully overwrites the license terms
// document.
func (h *APIHandler) SaveLicenseTermsHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "unreadable request body"})
		return
	}

	if _, err := h.licenseRepo.Save(r.Context(), raw); err != nil {
		logger.Error("failed to save license terms", logger.ErrorField(err))
		writeError(w, err)
		return
	}

	logger.Info("license terms saved")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "License terms saved successfully",
	})
}
