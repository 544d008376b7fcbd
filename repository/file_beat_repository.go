package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"beatstore/model"
)

// fileBeatRepository is the degraded-mode backend: the whole collection is
// kept as one JSON array, read and rewritten in full on every mutation.
// With an empty path it runs purely in memory. A single process-wide mutex
// serializes access within this process; there is no cross-process file
// locking, which is acceptable for low-concurrency administrative use.
type fileBeatRepository struct {
	path string
	mu   sync.Mutex

	// in-memory collection, authoritative when path is empty
	records []*model.Beat
	loaded  bool
}

// NewFileBeatRepository creates the fallback repository. path may be empty,
// in which case records live only in process memory.
func NewFileBeatRepository(path string) BeatRepository {
	return &fileBeatRepository{path: path}
}

// load reads the collection from disk. Callers must hold mu.
func (r *fileBeatRepository) load() error {
	if r.path == "" {
		if !r.loaded {
			r.records = make([]*model.Beat, 0)
			r.loaded = true
		}
		return nil
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.records = make([]*model.Beat, 0)
		r.loaded = true
		return nil
	}
	if err != nil {
		return &model.PersistenceError{Backend: "file", Op: "read", Err: err}
	}

	records := make([]*model.Beat, 0)
	if err := json.Unmarshal(data, &records); err != nil {
		return &model.PersistenceError{Backend: "file", Op: "read", Err: fmt.Errorf("corrupt beats file %s: %w", r.path, err)}
	}
	r.records = records
	r.loaded = true
	return nil
}

// flush rewrites the whole collection. Callers must hold mu.
func (r *fileBeatRepository) flush() error {
	if r.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return &model.PersistenceError{Backend: "file", Op: "write", Err: err}
	}

	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return &model.PersistenceError{Backend: "file", Op: "write", Err: err}
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return &model.PersistenceError{Backend: "file", Op: "write", Err: err}
	}
	return nil
}

func (r *fileBeatRepository) ListAll(ctx context.Context) ([]*model.Beat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}

	out := make([]*model.Beat, len(r.records))
	copy(out, r.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fileBeatRepository) FindByID(ctx context.Context, id string) (*model.Beat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	for _, record := range r.records {
		if record.ID == id {
			cp := *record
			return &cp, nil
		}
	}
	return nil, model.ErrBeatNotFound
}

func (r *fileBeatRepository) Create(ctx context.Context, record *model.Beat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return err
	}
	for _, existing := range r.records {
		if existing.ID == record.ID {
			return &model.ValidationError{Field: "id", Reason: fmt.Sprintf("beat %q already exists", record.ID)}
		}
	}

	cp := *record
	r.records = append([]*model.Beat{&cp}, r.records...)
	return r.flush()
}

func (r *fileBeatRepository) Update(ctx context.Context, id string, update *model.BeatUpdate) (*model.Beat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	for _, record := range r.records {
		if record.ID == id {
			applyUpdate(record, update)
			if err := r.flush(); err != nil {
				return nil, err
			}
			cp := *record
			return &cp, nil
		}
	}
	return nil, model.ErrBeatNotFound
}

func (r *fileBeatRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return err
	}
	for i, record := range r.records {
		if record.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return r.flush()
		}
	}
	return model.ErrBeatNotFound
}
