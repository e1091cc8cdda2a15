package ports

import (
	"context"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

const (
	ScopeMine   = "mine"
	ScopePublic = "public"
)

// ListingQueryInput is a listing search as received from the transport
// layer. Values are raw strings; the service normalizes them.
type ListingQueryInput struct {
	Search         string
	MinPrice       string
	MaxPrice       string
	Bedrooms       string
	AvailableFrom  string
	AvailableUntil string
	Amenities      []string
	Limit          string
	Scope          string
}

// ListingView is a listing annotated for a specific caller.
type ListingView struct {
	Listing *domain.Listing
	Owner   domain.PublicUser
	IsSaved bool
}

// ListingInput carries the fields of a new listing.
type ListingInput struct {
	Title          string
	Description    string
	Price          float64
	Address        string
	Bedrooms       int
	Bathrooms      float64
	AvailableFrom  time.Time
	AvailableUntil time.Time
	Amenities      []string
	Images         []string
	Published      bool
	IsDraft        bool
}

// ListingPatch holds a partial listing update; nil fields are left as they are.
type ListingPatch struct {
	Title          *string
	Description    *string
	Price          *float64
	Address        *string
	Bedrooms       *int
	Bathrooms      *float64
	AvailableFrom  *time.Time
	AvailableUntil *time.Time
	Amenities      *[]string
	Images         *[]string
	Published      *bool
	IsDraft        *bool
}

// ListingService defines use-case operations for listings and bookmarks.
type ListingService interface {
	Search(ctx context.Context, caller domain.Caller, input ListingQueryInput) ([]ListingView, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*ListingView, error)
	Create(ctx context.Context, caller domain.Caller, input ListingInput) (*ListingView, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch ListingPatch) (*ListingView, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error

	Save(ctx context.Context, caller domain.Caller, listingID string) error
	Unsave(ctx context.Context, caller domain.Caller, listingID string) error
	ListSaved(ctx context.Context, caller domain.Caller) ([]ListingView, error)
}
