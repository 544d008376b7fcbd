package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"beatstore/model"
)

// brokenRepository simulates an unreachable primary backend.
type brokenRepository struct{}

func (brokenRepository) ListAll(ctx context.Context) ([]*model.Beat, error) {
	return nil, &model.PersistenceError{Backend: "mongodb", Op: "listAll", Err: errors.New("connection refused")}
}

func (brokenRepository) FindByID(ctx context.Context, id string) (*model.Beat, error) {
	return nil, &model.PersistenceError{Backend: "mongodb", Op: "findById", Err: errors.New("connection refused")}
}

func (brokenRepository) Create(ctx context.Context, record *model.Beat) error {
	return &model.PersistenceError{Backend: "mongodb", Op: "create", Err: errors.New("connection refused")}
}

func (brokenRepository) Update(ctx context.Context, id string, update *model.BeatUpdate) (*model.Beat, error) {
	return nil, &model.PersistenceError{Backend: "mongodb", Op: "update", Err: errors.New("connection refused")}
}

func (brokenRepository) Delete(ctx context.Context, id string) error {
	return &model.PersistenceError{Backend: "mongodb", Op: "delete", Err: errors.New("connection refused")}
}

func TestFailover_PrimaryDownUsesFallback(t *testing.T) {
	ctx := context.Background()
	repo := NewFailoverBeatRepository(brokenRepository{}, NewFileBeatRepository(""))

	// Primary down, fallback empty: an empty listing, not an error.
	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll = %v, want nil error", err)
	}
	if len(records) != 0 {
		t.Fatalf("ListAll = %d records, want 0", len(records))
	}

	if err := repo.Create(ctx, testBeat("beat_1", "Beat", time.Now())); err != nil {
		t.Fatalf("Create = %v, want fallback to absorb it", err)
	}

	record, err := repo.FindByID(ctx, "beat_1")
	if err != nil {
		t.Fatalf("FindByID = %v, want record from fallback", err)
	}
	if record.ID != "beat_1" {
		t.Errorf("FindByID returned %q, want beat_1", record.ID)
	}

	if err := repo.Delete(ctx, "beat_1"); err != nil {
		t.Fatalf("Delete = %v, want nil", err)
	}
}

func TestFailover_LogicalErrorsPassThrough(t *testing.T) {
	ctx := context.Background()

	// A healthy primary returning not-found must not trigger the fallback,
	// even if the fallback would also miss.
	primary := NewFileBeatRepository("")
	fallback := NewFileBeatRepository("")
	repo := NewFailoverBeatRepository(primary, fallback)

	if _, err := repo.FindByID(ctx, "beat_missing"); !errors.Is(err, model.ErrBeatNotFound) {
		t.Errorf("FindByID = %v, want ErrBeatNotFound", err)
	}

	// Duplicate-id validation from the primary is a caller error, not a
	// backend failure: the fallback must not be asked to create it too.
	if err := primary.Create(ctx, testBeat("beat_1", "Beat", time.Now())); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}
	err := repo.Create(ctx, testBeat("beat_1", "Dup", time.Now()))
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Create duplicate = %v, want *model.ValidationError", err)
	}
	if records, _ := fallback.ListAll(ctx); len(records) != 0 {
		t.Error("validation error leaked the create into the fallback backend")
	}
}
