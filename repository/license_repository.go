package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"beatstore/logger"
	"beatstore/model"

	"github.com/fsnotify/fsnotify"
)

// licenseTermsFields are the keys every tier must carry in a saved document.
var licenseTermsFields = []string{
	"name", "streams", "sales", "videos", "performances",
	"publishing", "description", "canDo", "cannotDo",
}

// LicenseTermsRepository manages the singleton license terms document.
type LicenseTermsRepository interface {
	// Get returns the stored terms, or the built-in defaults when nothing
	// has ever been saved. It never errors.
	Get(ctx context.Context) model.LicenseTerms
	// Save validates and fully overwrites the stored document.
	Save(ctx context.Context, raw []byte) (model.LicenseTerms, error)
}

// fileLicenseTermsRepository keeps the document in one JSON file and caches
// the decoded value in memory. An fsnotify watcher drops the cache when the
// file is edited outside the process.
type fileLicenseTermsRepository struct {
	path string

	mu     sync.RWMutex
	cached *model.LicenseTerms

	watcher *fsnotify.Watcher
}

// NewFileLicenseTermsRepository creates the file-backed license terms store.
func NewFileLicenseTermsRepository(path string) LicenseTermsRepository {
	return &fileLicenseTermsRepository{path: path}
}

// NewWatchedLicenseTermsRepository additionally watches the containing
// directory and invalidates the in-memory copy on out-of-band edits.
func NewWatchedLicenseTermsRepository(path string) (LicenseTermsRepository, error) {
	repo := &fileLicenseTermsRepository{path: path}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create license terms watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	repo.watcher = watcher

	go repo.watch()
	return repo, nil
}

func (r *fileLicenseTermsRepository) watch() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Name != r.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("license terms file changed, dropping cached copy",
					logger.String("event", event.Op.String()))
				r.mu.Lock()
				r.cached = nil
				r.mu.Unlock()
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("license terms watcher error", logger.ErrorField(err))
		}
	}
}

func (r *fileLicenseTermsRepository) Get(ctx context.Context) model.LicenseTerms {
	r.mu.RLock()
	if r.cached != nil {
		terms := *r.cached
		r.mu.RUnlock()
		return terms
	}
	r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read license terms file, serving defaults",
				logger.String("path", r.path), logger.ErrorField(err))
		}
		return model.DefaultLicenseTerms()
	}

	var terms model.LicenseTerms
	if err := json.Unmarshal(data, &terms); err != nil {
		logger.Warn("license terms file is corrupt, serving defaults",
			logger.String("path", r.path), logger.ErrorField(err))
		return model.DefaultLicenseTerms()
	}

	r.mu.Lock()
	r.cached = &terms
	r.mu.Unlock()
	return terms
}

func (r *fileLicenseTermsRepository) Save(ctx context.Context, raw []byte) (model.LicenseTerms, error) {
	var terms model.LicenseTerms
	if err := ValidateLicenseTerms(raw); err != nil {
		return terms, err
	}
	if err := json.Unmarshal(raw, &terms); err != nil {
		return terms, &model.ValidationError{Field: "terms", Reason: err.Error()}
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return terms, &model.PersistenceError{Backend: "file", Op: "save license terms", Err: err}
	}
	data, err := json.MarshalIndent(terms, "", "  ")
	if err != nil {
		return terms, &model.PersistenceError{Backend: "file", Op: "save license terms", Err: err}
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return terms, &model.PersistenceError{Backend: "file", Op: "save license terms", Err: err}
	}

	r.mu.Lock()
	r.cached = &terms
	r.mu.Unlock()
	return terms, nil
}

// ValidateLicenseTerms checks a raw terms document: all three tiers must be
// present, each carrying the nine required fields. The first missing
// field+tier is reported. Key presence is checked on the raw JSON because a
// decoded struct cannot distinguish a missing key from an empty value.
func ValidateLicenseTerms(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &model.ValidationError{Field: "terms", Reason: "must be a JSON object"}
	}

	for _, tier := range model.Tiers() {
		tierRaw, ok := doc[string(tier)]
		if !ok {
			return &model.ValidationError{Field: "terms", Tier: tier, Reason: "required"}
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(tierRaw, &fields); err != nil {
			return &model.ValidationError{Field: "terms", Tier: tier, Reason: "must be a JSON object"}
		}
		for _, field := range licenseTermsFields {
			if _, ok := fields[field]; !ok {
				return &model.ValidationError{Field: field, Tier: tier, Reason: "required"}
			}
		}
	}
	return nil
}
