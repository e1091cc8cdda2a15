package domain

import "time"

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

var validReportTransitions = map[ReportStatus][]ReportStatus{
	ReportPending: {ReportResolved, ReportDismissed},
}

// CanTransitionTo reports whether a report may move from s to next.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, allowed := range validReportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

// Report is a user complaint about a listing.
type Report struct {
	ID         string       `json:"id" bson:"_id"`
	Reason     string       `json:"reason" bson:"reason"`
	Details    string       `json:"details,omitempty" bson:"details,omitempty"`
	ReporterID string       `json:"reporter_id" bson:"reporter_id"`
	ListingID  string       `json:"listing_id" bson:"listing_id"`
	Status     ReportStatus `json:"status" bson:"status"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" bson:"updated_at"`
}
