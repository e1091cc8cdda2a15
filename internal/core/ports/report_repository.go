package ports

import (
	"context"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

// ReportRepository defines persistence operations for listing reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	// List returns reports newest first. An empty status returns all of them.
	List(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error)
	// UpdateStatus moves the report from one status to another. It fails with
	// domain.ErrInvalidReportTransition when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReportStatus, at time.Time) error
	DeleteByReporter(ctx context.Context, reporterID string) error
	DeleteByListings(ctx context.Context, listingIDs []string) error
}
