package service

import (
	"context"
	"fmt"

	"github.com/campusnest/sublet-market/internal/core/ports"
)

// Cascade removes an entity together with the rows that reference it. The
// document store has no foreign keys, so ownership cleanup lives here.
type Cascade struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	saved    ports.SavedListingRepository
	messages ports.MessageRepository
	reports  ports.ReportRepository
}

func NewCascade(
	users ports.UserRepository,
	listings ports.ListingRepository,
	saved ports.SavedListingRepository,
	messages ports.MessageRepository,
	reports ports.ReportRepository,
) *Cascade {
	return &Cascade{
		users:    users,
		listings: listings,
		saved:    saved,
		messages: messages,
		reports:  reports,
	}
}

// DeleteListing removes a listing, its bookmarks and the reports filed against it.
func (c *Cascade) DeleteListing(ctx context.Context, id string) error {
	ids := []string{id}
	if err := c.saved.DeleteByListings(ctx, ids); err != nil {
		return fmt.Errorf("delete listing %s: saved: %w", id, err)
	}
	if err := c.reports.DeleteByListings(ctx, ids); err != nil {
		return fmt.Errorf("delete listing %s: reports: %w", id, err)
	}
	if err := c.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

// DeleteUser removes a user and everything the user owns: listings (with
// their bookmarks and reports), messages sent or received, reports filed
// and bookmarks.
func (c *Cascade) DeleteUser(ctx context.Context, id string) error {
	listingIDs, err := c.listings.FindIDsByOwner(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %s: owned listings: %w", id, err)
	}
	if len(listingIDs) > 0 {
		if err := c.saved.DeleteByListings(ctx, listingIDs); err != nil {
			return fmt.Errorf("delete user %s: listing bookmarks: %w", id, err)
		}
		if err := c.reports.DeleteByListings(ctx, listingIDs); err != nil {
			return fmt.Errorf("delete user %s: listing reports: %w", id, err)
		}
		if err := c.listings.DeleteByOwner(ctx, id); err != nil {
			return fmt.Errorf("delete user %s: listings: %w", id, err)
		}
	}
	if err := c.saved.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: bookmarks: %w", id, err)
	}
	if err := c.messages.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: messages: %w", id, err)
	}
	if err := c.reports.DeleteByReporter(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: reports: %w", id, err)
	}
	if err := c.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
