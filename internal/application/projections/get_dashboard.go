package projections

import (
	"context"
	"time"

	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/post"
)

// RecentPostsLimit is how many feed entries the dashboard shows.
const RecentPostsLimit = 3

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Viewer identity.Identity
	Now    time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Source SnapshotSource
}

// FinanceSummary carries the money figures. Only administrators receive it.
type FinanceSummary struct {
	Paid              float64 `json:"paid"`
	Pending           float64 `json:"pending"`
	Overdue           float64 `json:"overdue"`
	ExpectedMonthly   float64 `json:"expectedMonthly"`
	PremiumStaffPrice float64 `json:"premiumStaffPrice"`
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Role string `json:"role"`

	ActiveStudents   int `json:"activeStudents"`
	InactiveStudents int `json:"inactiveStudents"`
	Staff            int `json:"staff"`
	PremiumStaff     int `json:"premiumStaff"`

	Plan              string `json:"plan"`
	StudentLimit      int    `json:"studentLimit"`
	RemainingCapacity int    `json:"remainingCapacity"`

	OpenTasks    int `json:"openTasks"`
	OverdueTasks int `json:"overdueTasks"`

	RecentPosts []post.Post     `json:"recentPosts"`
	Finance     *FinanceSummary `json:"finance,omitempty"`
}

// QueryGetDashboard summarises the academy for the viewer.
// PRE: Viewer is a resolved identity
// POST: Finance is set only for viewers allowed into the finance area
// INVARIANT: all figures come from one snapshot
func QueryGetDashboard(_ context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	s := deps.Source.Snapshot()

	result := DashboardResult{
		Role:         query.Viewer.Role,
		Staff:        len(s.Instructors),
		Plan:         s.Subscription.Plan,
		StudentLimit: s.Subscription.StudentLimit,
	}

	var expected float64
	for _, st := range s.Students {
		if st.IsActive() {
			result.ActiveStudents++
			expected += st.MonthlyFee
		} else {
			result.InactiveStudents++
		}
	}
	for _, in := range s.Instructors {
		if in.Premium {
			result.PremiumStaff++
		}
	}
	result.RemainingCapacity = s.Subscription.Remaining(result.ActiveStudents)

	for _, t := range s.Tasks {
		if t.IsDone() {
			continue
		}
		result.OpenTasks++
		if t.IsOverdue(now) {
			result.OverdueTasks++
		}
	}

	n := len(s.Posts)
	if n > RecentPostsLimit {
		n = RecentPostsLimit
	}
	result.RecentPosts = append([]post.Post{}, s.Posts[:n]...)

	if query.Viewer.Can(identity.AreaFinance) {
		fin := &FinanceSummary{PremiumStaffPrice: s.Settings.PremiumStaffPrice}
		for _, p := range s.Payments {
			switch {
			case p.IsPaid():
				fin.Paid += p.Amount
			case p.Status == payment.StatusOverdue:
				fin.Overdue += p.Amount
			default:
				fin.Pending += p.Amount
			}
		}
		fin.ExpectedMonthly = expected + float64(result.PremiumStaff)*s.Settings.PremiumStaffPrice
		result.Finance = fin
	}

	return result, nil
}
