package ports

import (
	"context"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

const (
	ReportActionResolve = "resolve"
	ReportActionDismiss = "dismiss"
)

// CreateReportInput carries a complaint about a listing.
type CreateReportInput struct {
	ListingID string
	Reason    string
	Details   string
}

// ResolveReportInput closes a pending report. Unpublish only applies to
// the resolve action and takes the listing off the public feed.
type ResolveReportInput struct {
	ReportID  string
	Action    string
	Unpublish bool
}

// ModerationService defines reporting and admin moderation operations.
type ModerationService interface {
	Report(ctx context.Context, caller domain.Caller, input CreateReportInput) (*domain.Report, error)
	ListReports(ctx context.Context, caller domain.Caller, status string) ([]*domain.Report, error)
	ResolveReport(ctx context.Context, caller domain.Caller, input ResolveReportInput) (*domain.Report, error)
	DeleteListing(ctx context.Context, caller domain.Caller, listingID string) error
}
