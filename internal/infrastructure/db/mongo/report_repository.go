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
)

const collectionReports = "reports"

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if rep.ID == "" {
		rep.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, rep); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rep domain.Report
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rep); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepository) List(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	reports := []*domain.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus performs a compare-and-set on the status field so concurrent
// moderators cannot close the same report twice.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReportStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("check report: %w", err)
	}
	if n == 0 {
		return domain.ErrReportNotFound
	}
	return domain.ErrInvalidReportTransition
}

func (r *ReportRepository) DeleteByReporter(ctx context.Context, reporterID string) error {
	return r.deleteMany(ctx, bson.M{"reporter_id": reporterID})
}

func (r *ReportRepository) DeleteByListings(ctx context.Context, listingIDs []string) error {
	if len(listingIDs) == 0 {
		return nil
	}
	return r.deleteMany(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
}

func (r *ReportRepository) deleteMany(ctx context.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete reports: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the reports collection.
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
		{Keys: bson.D{{Key: "reporter_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
