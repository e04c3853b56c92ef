package queries

import (
	"fmt"
	"time"

	"composer2/application/ports"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
)

// ListPostsQuery fetches the posts of one status bucket within the
// calendar period containing Reference. The dashboard tabs map onto
// status: past is public, upcoming is schedule, drafts is draft.
type ListPostsQuery struct {
	UserID string
	Status entities.PostStatus
	View   valueobjects.PeriodView

	// Reference is any instant inside the requested period: a day of
	// the month for month view, a day of the week for week view.
	Reference time.Time
}

// Validate implements the Query interface
func (q ListPostsQuery) Validate() error {
	if q.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if !q.Status.IsValid() {
		return fmt.Errorf("invalid post status: %q", q.Status)
	}
	if q.View != valueobjects.PeriodViewMonth && q.View != valueobjects.PeriodViewWeek {
		return fmt.Errorf("invalid period view: %q", q.View)
	}
	if q.Reference.IsZero() {
		return fmt.Errorf("reference date is required")
	}
	return nil
}

// ListPostsResult is the response of a ListPostsQuery
type ListPostsResult struct {
	Posts     []ports.PersistedPost     `json:"posts"`
	Window    valueobjects.PeriodWindow `json:"window"`
	FromCache bool                      `json:"fromCache"`
}

// GetDashboardCountsQuery computes the scheduled and published counts
// shown in the dashboard header for one calendar period
type GetDashboardCountsQuery struct {
	UserID    string
	View      valueobjects.PeriodView
	Reference time.Time
}

// Validate implements the Query interface
func (q GetDashboardCountsQuery) Validate() error {
	if q.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if q.View != valueobjects.PeriodViewMonth && q.View != valueobjects.PeriodViewWeek {
		return fmt.Errorf("invalid period view: %q", q.View)
	}
	if q.Reference.IsZero() {
		return fmt.Errorf("reference date is required")
	}
	return nil
}

// DashboardCounts is the response of a GetDashboardCountsQuery
type DashboardCounts struct {
	Scheduled int                       `json:"scheduled"`
	Published int                       `json:"published"`
	Window    valueobjects.PeriodWindow `json:"window"`
}
