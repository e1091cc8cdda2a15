package domain

import "time"

// Listing is a sublet posting owned by one user.
type Listing struct {
	ID             string    `json:"id" bson:"_id"`
	Title          string    `json:"title" bson:"title"`
	Description    string    `json:"description" bson:"description"`
	Price          float64   `json:"price" bson:"price"`
	Address        string    `json:"address" bson:"address"`
	Bedrooms       int       `json:"bedrooms" bson:"bedrooms"`
	Bathrooms      float64   `json:"bathrooms" bson:"bathrooms"`
	AvailableFrom  time.Time `json:"available_from" bson:"available_from"`
	AvailableUntil time.Time `json:"available_until" bson:"available_until"`
	Amenities      []string  `json:"amenities" bson:"amenities"`
	Images         []string  `json:"images" bson:"images"`
	Published      bool      `json:"published" bson:"published"`
	IsDraft        bool      `json:"is_draft" bson:"is_draft"`
	OwnerID        string    `json:"owner_id" bson:"owner_id"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// IsPublic reports whether anyone may see the listing.
func (l *Listing) IsPublic() bool {
	return l.Published && !l.IsDraft
}

// VisibleTo reports whether c may read the listing: public listings are
// visible to everybody, the rest only to their owner and to admins.
func (l *Listing) VisibleTo(c Caller) bool {
	if l.IsPublic() {
		return true
	}
	if !c.Authenticated() {
		return false
	}
	return l.OwnerID == c.UserID || c.IsAdmin()
}

// SavedListing is a bookmark relation between a user and a listing.
type SavedListing struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	ListingID string    `json:"listing_id" bson:"listing_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
