package repository

import (
	"context"
	"errors"

	"beatstore/logger"
	"beatstore/model"
)

// failoverBeatRepository prefers the primary (durable) backend and degrades
// to the fallback when the primary is unreachable. Logical outcomes such as
// not-found and validation failures pass through untouched; only backend
// failures trigger the switch. A fallback failure is surfaced to the caller.
type failoverBeatRepository struct {
	primary  BeatRepository
	fallback BeatRepository
}

// NewFailoverBeatRepository wraps primary with a fallback backend.
func NewFailoverBeatRepository(primary, fallback BeatRepository) BeatRepository {
	return &failoverBeatRepository{primary: primary, fallback: fallback}
}

// backendFailure reports whether err means the backend itself failed, as
// opposed to a deterministic logical outcome the caller must see.
func backendFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, model.ErrBeatNotFound) {
		return false
	}
	var ve *model.ValidationError
	return !errors.As(err, &ve)
}

func (r *failoverBeatRepository) ListAll(ctx context.Context) ([]*model.Beat, error) {
	records, err := r.primary.ListAll(ctx)
	if backendFailure(err) {
		logger.Warn("primary backend failed, using fallback",
			logger.String("op", "listAll"), logger.ErrorField(err))
		return r.fallback.ListAll(ctx)
	}
	return records, err
}

func (r *failoverBeatRepository) FindByID(ctx context.Context, id string) (*model.Beat, error) {
	record, err := r.primary.FindByID(ctx, id)
	if backendFailure(err) {
		logger.Warn("primary backend failed, using fallback",
			logger.String("op", "findById"), logger.String("beatId", id), logger.ErrorField(err))
		return r.fallback.FindByID(ctx, id)
	}
	return record, err
}

func (r *failoverBeatRepository) Create(ctx context.Context, record *model.Beat) error {
	err := r.primary.Create(ctx, record)
	if backendFailure(err) {
		logger.Warn("primary backend failed, using fallback",
			logger.String("op", "create"), logger.String("beatId", record.ID), logger.ErrorField(err))
		return r.fallback.Create(ctx, record)
	}
	return err
}

func (r *failoverBeatRepository) Update(ctx context.Context, id string, update *model.BeatUpdate) (*model.Beat, error) {
	record, err := r.primary.Update(ctx, id, update)
	if backendFailure(err) {
		logger.Warn("primary backend failed, using fallback",
			logger.String("op", "update"), logger.String("beatId", id), logger.ErrorField(err))
		return r.fallback.Update(ctx, id, update)
	}
	return record, err
}

func (r *failoverBeatRepository) Delete(ctx context.Context, id string) error {
	err := r.primary.Delete(ctx, id)
	if backendFailure(err) {
		logger.Warn("primary backend failed, using fallback",
			logger.String("op", "delete"), logger.String("beatId", id), logger.ErrorField(err))
		return r.fallback.Delete(ctx, id)
	}
	return err
}
