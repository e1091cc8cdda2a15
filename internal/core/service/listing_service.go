package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

type ListingService struct {
	listings ports.ListingRepository
	saved    ports.SavedListingRepository
	users    ports.UserRepository
	cascade  *Cascade
	logger   zerolog.Logger
}

func NewListingService(
	listings ports.ListingRepository,
	saved ports.SavedListingRepository,
	users ports.UserRepository,
	cascade *Cascade,
	logger zerolog.Logger,
) *ListingService {
	return &ListingService{
		listings: listings,
		saved:    saved,
		users:    users,
		cascade:  cascade,
		logger:   logger,
	}
}

// Search runs the listing query for caller. Visibility is decided by the
// normalized filter: scope=mine for an authenticated caller selects the
// caller's own listings, anything else selects public listings only.
func (s *ListingService) Search(ctx context.Context, caller domain.Caller, input ports.ListingQueryInput) ([]ports.ListingView, error) {
	filter := NormalizeListingQuery(caller, input)

	listings, err := s.listings.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return s.annotate(ctx, caller, listings)
}

// Get returns a single listing. Listings the caller may not see are
// reported as missing.
func (s *ListingService) Get(ctx context.Context, caller domain.Caller, id string) (*ports.ListingView, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.VisibleTo(caller) {
		return nil, domain.ErrListingNotFound
	}
	return s.annotateOne(ctx, caller, l)
}

func (s *ListingService) Create(ctx context.Context, caller domain.Caller, input ports.ListingInput) (*ports.ListingView, error) {
	if err := requireAccount(ctx, s.users, caller); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Listing{
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price,
		Address:        strings.TrimSpace(input.Address),
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		AvailableFrom:  input.AvailableFrom.UTC(),
		AvailableUntil: input.AvailableUntil.UTC(),
		Amenities:      normalizeAmenities(input.Amenities),
		Images:         cleanImages(input.Images),
		Published:      input.Published,
		IsDraft:        input.IsDraft,
		OwnerID:        caller.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validateListing(l); err != nil {
		return nil, err
	}

	if err := s.listings.Create(ctx, l); err != nil {
		s.logger.Error().Err(err).Str("owner_id", caller.UserID).Msg("failed to create listing")
		return nil, err
	}

	s.logger.Info().Str("listing_id", l.ID).Str("owner_id", caller.UserID).Msg("listing created")
	return s.annotateOne(ctx, caller, l)
}

// Update applies patch to a listing owned by the caller.
func (s *ListingService) Update(ctx context.Context, caller domain.Caller, id string, patch ports.ListingPatch) (*ports.ListingView, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != caller.UserID {
		if !l.VisibleTo(caller) {
			return nil, domain.ErrListingNotFound
		}
		return nil, domain.ErrForbidden
	}

	applyListingPatch(l, patch)
	if err := validateListing(l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()

	if err := s.listings.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update listing %s: %w", id, err)
	}
	return s.annotateOne(ctx, caller, l)
}

// Delete removes a listing. Owners may delete their own listings, admins any.
func (s *ListingService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}

	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l.OwnerID != caller.UserID && !caller.IsAdmin() {
		if !l.VisibleTo(caller) {
			return domain.ErrListingNotFound
		}
		return domain.ErrForbidden
	}

	if err := s.cascade.DeleteListing(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("listing_id", id).Str("by", caller.UserID).Msg("listing deleted")
	return nil
}

// annotate attaches owner profiles and the caller's saved flags to listings,
// preserving their order.
func (s *ListingService) annotate(ctx context.Context, caller domain.Caller, listings []*domain.Listing) ([]ports.ListingView, error) {
	views := make([]ports.ListingView, 0, len(listings))
	if len(listings) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(listings))
	ownerIDs := make([]string, 0, len(listings))
	seenOwner := make(map[string]struct{})
	for _, l := range listings {
		ids = append(ids, l.ID)
		if _, ok := seenOwner[l.OwnerID]; !ok {
			seenOwner[l.OwnerID] = struct{}{}
			ownerIDs = append(ownerIDs, l.OwnerID)
		}
	}

	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("load listing owners: %w", err)
	}

	saved := map[string]bool{}
	if caller.Authenticated() {
		saved, err = s.saved.SavedIDs(ctx, caller.UserID, ids)
		if err != nil {
			return nil, fmt.Errorf("load saved listings: %w", err)
		}
	}

	for _, l := range listings {
		owner := domain.PublicUser{ID: l.OwnerID}
		if u, ok := owners[l.OwnerID]; ok {
			owner = u.Public()
		}
		views = append(views, ports.ListingView{
			Listing: l,
			Owner:   owner,
			IsSaved: saved[l.ID],
		})
	}
	return views, nil
}

func (s *ListingService) annotateOne(ctx context.Context, caller domain.Caller, l *domain.Listing) (*ports.ListingView, error) {
	views, err := s.annotate(ctx, caller, []*domain.Listing{l})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func applyListingPatch(l *domain.Listing, p ports.ListingPatch) {
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Address != nil {
		l.Address = strings.TrimSpace(*p.Address)
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.AvailableFrom != nil {
		l.AvailableFrom = p.AvailableFrom.UTC()
	}
	if p.AvailableUntil != nil {
		l.AvailableUntil = p.AvailableUntil.UTC()
	}
	if p.Amenities != nil {
		l.Amenities = normalizeAmenities(*p.Amenities)
	}
	if p.Images != nil {
		l.Images = cleanImages(*p.Images)
	}
	if p.Published != nil {
		l.Published = *p.Published
	}
	if p.IsDraft != nil {
		l.IsDraft = *p.IsDraft
	}
}

func validateListing(l *domain.Listing) error {
	var problems []string
	if l.Title == "" {
		problems = append(problems, "title is required")
	}
	if l.Description == "" {
		problems = append(problems, "description is required")
	}
	if l.Address == "" {
		problems = append(problems, "address is required")
	}
	if l.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if l.Bedrooms < 0 || l.Bathrooms < 0 {
		problems = append(problems, "bedrooms and bathrooms must not be negative")
	}
	if l.AvailableFrom.IsZero() || l.AvailableUntil.IsZero() {
		problems = append(problems, "availability dates are required")
	} else if !l.AvailableFrom.Before(l.AvailableUntil) {
		problems = append(problems, "available_from must be before available_until")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// cleanImages keeps the caller's order and drops blank entries.
func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

// requireAccount rejects callers whose account no longer exists. Tokens
// outlive account deletion, so write paths that attach records to the
// caller check the user record first.
func requireAccount(ctx context.Context, users ports.UserRepository, caller domain.Caller) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if _, err := users.FindByID(ctx, caller.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrListingNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrReportNotFound)
}
