package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const maxReportDetailsLength = 2000

type ModerationService struct {
	reports  ports.ReportRepository
	listings ports.ListingRepository
	users    ports.UserRepository
	cascade  *Cascade
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewModerationService(
	reports ports.ReportRepository,
	listings ports.ListingRepository,
	users ports.UserRepository,
	cascade *Cascade,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *ModerationService {
	return &ModerationService{
		reports:  reports,
		listings: listings,
		users:    users,
		cascade:  cascade,
		notifier: notifier,
		logger:   logger,
	}
}

// Report files a complaint about a listing the caller can see.
func (s *ModerationService) Report(ctx context.Context, caller domain.Caller, input ports.CreateReportInput) (*domain.Report, error) {
	if err := requireAccount(ctx, s.users, caller); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(input.Reason)
	details := strings.TrimSpace(input.Details)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", domain.ErrInvalidInput)
	}
	if len(details) > maxReportDetailsLength {
		return nil, fmt.Errorf("%w: details must be at most %d characters", domain.ErrInvalidInput, maxReportDetailsLength)
	}

	l, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !l.VisibleTo(caller) {
		return nil, domain.ErrListingNotFound
	}

	now := time.Now().UTC()
	r := &domain.Report{
		Reason:     reason,
		Details:    details,
		ReporterID: caller.UserID,
		ListingID:  l.ID,
		Status:     domain.ReportPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info().Str("report_id", r.ID).Str("listing_id", l.ID).Msg("listing reported")
	return r, nil
}

func (s *ModerationService) ListReports(ctx context.Context, caller domain.Caller, status string) ([]*domain.Report, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	st := domain.ReportStatus(strings.ToUpper(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown report status %q", domain.ErrInvalidInput, status)
	}
	return s.reports.List(ctx, st)
}

// ResolveReport closes a pending report. Resolving may also unpublish the
// reported listing. The reporter is emailed about the outcome.
func (s *ModerationService) ResolveReport(ctx context.Context, caller domain.Caller, input ports.ResolveReportInput) (*domain.Report, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var next domain.ReportStatus
	switch input.Action {
	case ports.ReportActionResolve:
		next = domain.ReportResolved
	case ports.ReportActionDismiss:
		next = domain.ReportDismissed
	default:
		return nil, fmt.Errorf("%w: action must be resolve or dismiss", domain.ErrInvalidInput)
	}

	r, err := s.reports.FindByID(ctx, input.ReportID)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidReportTransition, r.Status, next)
	}

	now := time.Now().UTC()
	if err := s.reports.UpdateStatus(ctx, r.ID, r.Status, next, now); err != nil {
		return nil, err
	}
	r.Status = next
	r.UpdatedAt = now

	if next == domain.ReportResolved && input.Unpublish {
		if err := s.listings.SetPublished(ctx, r.ListingID, false, now); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("unpublish listing %s: %w", r.ListingID, err)
		}
	}

	if reporter, err := s.users.FindByID(ctx, r.ReporterID); err == nil {
		s.notifier.Enqueue(reportClosedNotification(reporter, r))
	} else {
		s.logger.Warn().Err(err).Str("report_id", r.ID).Msg("reporter not notified")
	}

	s.logger.Info().
		Str("report_id", r.ID).
		Str("status", string(next)).
		Bool("unpublished", input.Unpublish && next == domain.ReportResolved).
		Str("by", caller.UserID).
		Msg("report closed")

	return r, nil
}

func (s *ModerationService) DeleteListing(ctx context.Context, caller domain.Caller, listingID string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return err
	}
	if err := s.cascade.DeleteListing(ctx, listingID); err != nil {
		return err
	}
	s.logger.Info().Str("listing_id", listingID).Str("by", caller.UserID).Msg("listing removed by admin")
	return nil
}
