package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

// Save bookmarks a listing the caller can see. Saving twice is a no-op.
func (s *ListingService) Save(ctx context.Context, caller domain.Caller, listingID string) error {
	if err := requireAccount(ctx, s.users, caller); err != nil {
		return err
	}

	l, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !l.VisibleTo(caller) {
		return domain.ErrListingNotFound
	}

	if err := s.saved.Save(ctx, caller.UserID, listingID, time.Now().UTC()); err != nil {
		return fmt.Errorf("save listing %s: %w", listingID, err)
	}
	return nil
}

// Unsave removes a bookmark. Removing a missing bookmark is a no-op.
func (s *ListingService) Unsave(ctx context.Context, caller domain.Caller, listingID string) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if err := s.saved.Remove(ctx, caller.UserID, listingID); err != nil {
		return fmt.Errorf("unsave listing %s: %w", listingID, err)
	}
	return nil
}

// ListSaved returns the caller's bookmarked listings, most recently saved
// first. Bookmarks of listings that are gone or no longer visible are skipped.
func (s *ListingService) ListSaved(ctx context.Context, caller domain.Caller) ([]ports.ListingView, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	bookmarks, err := s.saved.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list saved listings: %w", err)
	}
	if len(bookmarks) == 0 {
		return []ports.ListingView{}, nil
	}

	ids := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ListingID
	}
	found, err := s.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load saved listings: %w", err)
	}

	byID := make(map[string]*domain.Listing, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}

	ordered := make([]*domain.Listing, 0, len(found))
	for _, id := range ids {
		if l, ok := byID[id]; ok && l.VisibleTo(caller) {
			ordered = append(ordered, l)
		}
	}
	return s.annotate(ctx, caller, ordered)
}
