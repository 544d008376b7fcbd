package repository

import (
	"context"
	"errors"
	"fmt"

	"beatstore/core/beat"
	"beatstore/db"
	"beatstore/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BeatRepository defines the interface for beat data operations. Both the
// MongoDB backend and the file fallback implement it, so callers never see
// which one served a request.
type BeatRepository interface {
	ListAll(ctx context.Context) ([]*model.Beat, error)
	FindByID(ctx context.Context, id string) (*model.Beat, error)
	Create(ctx context.Context, record *model.Beat) error
	Update(ctx context.Context, id string, update *model.BeatUpdate) (*model.Beat, error)
	Delete(ctx context.Context, id string) error
}

// mongoBeatRepository implements BeatRepository against the shared MongoDB
// client.
type mongoBeatRepository struct{}

// NewMongoBeatRepository creates a MongoDB-backed beat repository. The
// underlying connection is established lazily on first use.
func NewMongoBeatRepository() BeatRepository {
	return &mongoBeatRepository{}
}

func (r *mongoBeatRepository) ListAll(ctx context.Context) ([]*model.Beat, error) {
	coll, err := db.BeatsCollection(ctx)
	if err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "listAll", Err: err}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "listAll", Err: err}
	}
	defer cursor.Close(ctx)

	records := make([]*model.Beat, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "listAll", Err: err}
	}
	return records, nil
}

func (r *mongoBeatRepository) FindByID(ctx context.Context, id string) (*model.Beat, error) {
	coll, err := db.BeatsCollection(ctx)
	if err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "findById", Err: err}
	}

	record := &model.Beat{}
	err = coll.FindOne(ctx, bson.M{"id": id}).Decode(record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrBeatNotFound
	}
	if err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "findById", Err: err}
	}
	return record, nil
}

func (r *mongoBeatRepository) Create(ctx context.Context, record *model.Beat) error {
	coll, err := db.BeatsCollection(ctx)
	if err != nil {
		return &model.PersistenceError{Backend: "mongodb", Op: "create", Err: err}
	}

	count, err := coll.CountDocuments(ctx, bson.M{"id": record.ID})
	if err != nil {
		return &model.PersistenceError{Backend: "mongodb", Op: "create", Err: err}
	}
	if count > 0 {
		return &model.ValidationError{Field: "id", Reason: fmt.Sprintf("beat %q already exists", record.ID)}
	}

	if _, err := coll.InsertOne(ctx, record); err != nil {
		return &model.PersistenceError{Backend: "mongodb", Op: "create", Err: err}
	}
	return nil
}

func (r *mongoBeatRepository) Update(ctx context.Context, id string, update *model.BeatUpdate) (*model.Beat, error) {
	coll, err := db.BeatsCollection(ctx)
	if err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "update", Err: err}
	}

	set := updateFields(update)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	record := &model.Beat{}
	err = coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrBeatNotFound
	}
	if err != nil {
		return nil, &model.PersistenceError{Backend: "mongodb", Op: "update", Err: err}
	}
	return record, nil
}

func (r *mongoBeatRepository) Delete(ctx context.Context, id string) error {
	coll, err := db.BeatsCollection(ctx)
	if err != nil {
		return &model.PersistenceError{Backend: "mongodb", Op: "delete", Err: err}
	}

	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return &model.PersistenceError{Backend: "mongodb", Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return model.ErrBeatNotFound
	}
	return nil
}

// updateFields translates a partial update into a $set document. When the
// title or the YouTube URL changes, the derived slug and thumbnail change
// with it.
func updateFields(update *model.BeatUpdate) bson.M {
	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
		set["slug"] = beat.Slugify(*update.Title)
	}
	if update.YouTubeURL != nil {
		set["youtubeUrl"] = *update.YouTubeURL
		set["thumbnailUrl"] = beat.ThumbnailURL(*update.YouTubeURL)
	}
	if update.WhopProductIDs != nil {
		set["whopProductIds"] = *update.WhopProductIDs
	}
	if update.WhopPurchaseURLs != nil {
		set["whopPurchaseUrls"] = *update.WhopPurchaseURLs
	}
	if update.Prices != nil {
		set["prices"] = *update.Prices
	}
	if update.Licenses != nil {
		set["licenses"] = *update.Licenses
	}
	if update.Assets != nil {
		set["assets"] = *update.Assets
	}
	if update.Listed != nil {
		set["listed"] = *update.Listed
	}
	return set
}

// applyUpdate merges a partial update into a record in place. It is the
// in-process counterpart of updateFields, used by the file backend.
func applyUpdate(record *model.Beat, update *model.BeatUpdate) {
	if update.Title != nil {
		record.Title = *update.Title
		record.Slug = beat.Slugify(*update.Title)
	}
	if update.YouTubeURL != nil {
		record.YouTubeURL = *update.YouTubeURL
		record.ThumbnailURL = beat.ThumbnailURL(*update.YouTubeURL)
	}
	if update.WhopProductIDs != nil {
		record.WhopProductIDs = *update.WhopProductIDs
	}
	if update.WhopPurchaseURLs != nil {
		record.WhopPurchaseURLs = *update.WhopPurchaseURLs
	}
	if update.Prices != nil {
		record.Prices = *update.Prices
	}
	if update.Licenses != nil {
		record.Licenses = *update.Licenses
	}
	if update.Assets != nil {
		record.Assets = *update.Assets
	}
	if update.Listed != nil {
		record.Listed = *update.Listed
	}
}
