package ports

import (
	"context"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// ListingFilter is the normalized form of a listing search. Every field is
// already defaulted; repositories translate it verbatim into a store query.
type ListingFilter struct {
	// OwnerID non-empty selects the owner's listings regardless of
	// published/draft state. Empty selects public listings only.
	OwnerID string

	Search   string
	MinPrice float64
	MaxPrice float64

	// Bedrooms is nil when the filter is absent. BedroomsAtLeast turns the
	// exact match into a lower bound.
	Bedrooms        *int
	BedroomsAtLeast bool

	AvailableFrom  *time.Time // listing.available_from <= AvailableFrom
	AvailableUntil *time.Time // listing.available_until >= AvailableUntil

	Amenities []string // listing must offer all of them
	Limit     int
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	// FindByIDs returns the listings that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error)
	// Search returns listings matching filter, newest first.
	Search(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)
	Update(ctx context.Context, l *domain.Listing) error
	SetPublished(ctx context.Context, id string, published bool, at time.Time) error
	Delete(ctx context.Context, id string) error
	FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// SavedListingRepository persists bookmark relations.
type SavedListingRepository interface {
	// Save is idempotent: saving an already saved listing is not an error.
	Save(ctx context.Context, userID, listingID string, at time.Time) error
	Remove(ctx context.Context, userID, listingID string) error
	// SavedIDs reports which of listingIDs the user has saved.
	SavedIDs(ctx context.Context, userID string, listingIDs []string) (map[string]bool, error)
	// ListByUser returns the user's bookmarks, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.SavedListing, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByListings(ctx context.Context, listingIDs []string) error
}
