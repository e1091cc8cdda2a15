package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

const collectionSaved = "saved_listings"

// SavedListingRepository stores one document per (user, listing) bookmark.
type SavedListingRepository struct {
	col *mongo.Collection
}

func NewSavedListingRepository(db *mongo.Database) *SavedListingRepository {
	return &SavedListingRepository{col: db.Collection(collectionSaved)}
}

// Save upserts the bookmark so repeating it keeps the original timestamp.
func (r *SavedListingRepository) Save(ctx context.Context, userID, listingID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "listing_id": listingID},
		bson.M{"$setOnInsert": bson.M{"created_at": at}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("save listing: %w", err)
	}
	return nil
}

func (r *SavedListingRepository) Remove(ctx context.Context, userID, listingID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID}); err != nil {
		return fmt.Errorf("remove saved listing: %w", err)
	}
	return nil
}

func (r *SavedListingRepository) SavedIDs(ctx context.Context, userID string, listingIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(listingIDs) == 0 {
		return out, nil
	}

	rows, err := r.list(ctx, bson.M{"user_id": userID, "listing_id": bson.M{"$in": listingIDs}})
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.ListingID] = true
	}
	return out, nil
}

func (r *SavedListingRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedListing, error) {
	return r.list(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
}

func (r *SavedListingRepository) list(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.SavedListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find saved listings: %w", err)
	}
	var rows []domain.SavedListing
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode saved listings: %w", err)
	}
	return rows, nil
}

func (r *SavedListingRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.deleteMany(ctx, bson.M{"user_id": userID})
}

func (r *SavedListingRepository) DeleteByListings(ctx context.Context, listingIDs []string) error {
	if len(listingIDs) == 0 {
		return nil
	}
	return r.deleteMany(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
}

func (r *SavedListingRepository) deleteMany(ctx context.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete saved listings: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the saved_listings collection.
func (r *SavedListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
