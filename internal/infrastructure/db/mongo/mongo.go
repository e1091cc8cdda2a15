package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories bundles every collection-backed repository of the marketplace.
type Repositories struct {
	Users    *UserRepository
	Listings *ListingRepository
	Saved    *SavedListingRepository
	Messages *MessageRepository
	Reports  *ReportRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Listings: NewListingRepository(db),
		Saved:    NewSavedListingRepository(db),
		Messages: NewMessageRepository(db),
		Reports:  NewReportRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. It is safe to run
// repeatedly.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", r.Users.EnsureIndexes},
		{"listings", r.Listings.EnsureIndexes},
		{"saved_listings", r.Saved.EnsureIndexes},
		{"messages", r.Messages.EnsureIndexes},
		{"reports", r.Reports.EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	return nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}
