package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const collectionListings = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionListings)}
}

// Create inserts a new listing document and assigns its ID.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if l.ID == "" {
		l.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Listing
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &l, nil
}

func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Search returns listings matching the filter, newest first.
func (r *ListingRepository) Search(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(listingSort)
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return r.find(ctx, listingQuery(filter), opts)
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	listings := []*domain.Listing{}
	if err := cur.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return listings, nil
}

// Update replaces the stored listing. Ownership and creation time are kept.
func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":           l.Title,
		"description":     l.Description,
		"price":           l.Price,
		"address":         l.Address,
		"bedrooms":        l.Bedrooms,
		"bathrooms":       l.Bathrooms,
		"available_from":  l.AvailableFrom,
		"available_until": l.AvailableUntil,
		"amenities":       l.Amenities,
		"images":          l.Images,
		"published":       l.Published,
		"is_draft":        l.IsDraft,
		"updated_at":      l.UpdatedAt,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": l.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) SetPublished(ctx context.Context, id string, published bool, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"published": published, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("set listing published: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find owner listings: %w", err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode owner listings: %w", err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *ListingRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"owner_id": ownerID}); err != nil {
		return fmt.Errorf("delete owner listings: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the listings collection.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "is_draft", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "amenities", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
